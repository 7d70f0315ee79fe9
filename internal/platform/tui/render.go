package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// styleKey identifies a run of cells with the same colors.
type styleKey struct {
	fg, bg core.Color
}

// styler caches one lipgloss style per color pair for a renderer.
type styler struct {
	renderer *lipgloss.Renderer
	styles   map[styleKey]lipgloss.Style
}

func newStyler(r *lipgloss.Renderer) *styler {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &styler{renderer: r, styles: make(map[styleKey]lipgloss.Style)}
}

func (s *styler) style(k styleKey) lipgloss.Style {
	if st, ok := s.styles[k]; ok {
		return st
	}
	st := s.renderer.NewStyle()
	if k.fg.A > 0 {
		st = st.Foreground(lipgloss.Color(k.fg.Hex()))
	}
	if k.bg.A > 0 {
		st = st.Background(lipgloss.Color(k.bg.Hex()))
	}
	s.styles[k] = st
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display,
// clipped to width x height when those are positive.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func (s *styler) RenderScreen(scr *core.Screen, width, height int) string {
	w, h := scr.Width(), scr.Height()
	if width > 0 {
		w = min(w, width)
	}
	if height > 0 {
		h = min(h, height)
	}

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(w*h*2 + h)

	var run strings.Builder
	for y := range h {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < w {
			cell := scr.Get(x, y)
			key := styleKey{fg: cell.FG, bg: cell.BG}

			run.Reset()
			for x < w {
				cell = scr.Get(x, y)
				if (styleKey{fg: cell.FG, bg: cell.BG}) != key {
					break
				}
				r := cell.Rune
				if r == 0 {
					r = ' '
				}
				run.WriteRune(r)
				x++
			}

			sb.WriteString(s.style(key).Render(run.String()))
		}
	}
	return sb.String()
}
