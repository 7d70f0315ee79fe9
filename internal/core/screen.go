package core

import (
	"strings"
)

// Cell is one terminal character cell. Scripts treat a cell as a pixel:
// drawing primitives paint the background, text sets the rune and foreground.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
}

// blank is what out-of-bounds reads return.
var blank = Cell{Rune: ' '}

// Flip selects mirroring for Blit.
type Flip uint8

const (
	FlipNone       Flip = 0
	FlipHorizontal Flip = 1
	FlipVertical   Flip = 2
)

// Screen is a 2D cell buffer. It is used for the display backbuffer, the
// scaled offscreen surface and decoded image bitmaps alike.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  max(width, 0),
		height: max(height, 0),
	}
	s.allocate()
	s.Clear(Transparent)
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in cells.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in cells.
func (s *Screen) Height() int {
	return s.height
}

// Bounds returns the screen area as a Rect at the origin.
func (s *Screen) Bounds() Rect {
	return Rect{W: s.width, H: s.height}
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}

	oldCells := s.cells
	oldW, oldH := s.width, s.height

	s.width = max(width, 0)
	s.height = max(height, 0)
	s.allocate()
	s.Clear(Transparent)

	copyW := min(oldW, s.width)
	copyH := min(oldH, s.height)
	for y := 0; y < copyH; y++ {
		copy(s.cells[y][:copyW], oldCells[y][:copyW])
	}
}

// Clear resets every cell to a space on the given background.
func (s *Screen) Clear(bg Color) {
	c := Cell{Rune: ' ', BG: bg}
	for y := range s.cells {
		row := s.cells[y]
		for x := range row {
			row[x] = c
		}
	}
}

// Set replaces the cell at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, c Cell) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = c
}

// Get returns the cell at the given position.
// Returns a blank cell for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blank
	}
	return s.cells[y][x]
}

// SetPixel composites c over the cell background and clears any text on it.
func (s *Screen) SetPixel(x, y int, c Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height || c.A == 0 {
		return
	}
	cell := &s.cells[y][x]
	cell.BG = c.Over(cell.BG)
	cell.Rune = ' '
}

// Pixel returns the background color at the given position.
func (s *Screen) Pixel(x, y int) Color {
	return s.Get(x, y).BG
}

// DrawText writes a string horizontally starting at (x, y) in the given color,
// keeping the backgrounds underneath. Characters beyond the bounds are clipped.
func (s *Screen) DrawText(x, y int, text string, fg Color) {
	if y < 0 || y >= s.height {
		return
	}
	i := 0
	for _, r := range text {
		cx := x + i
		i++
		if cx < 0 || cx >= s.width {
			continue
		}
		cell := &s.cells[y][cx]
		cell.Rune = r
		cell.FG = fg
	}
}

// FillRect paints every cell of r with c.
func (s *Screen) FillRect(r Rect, c Color) {
	r = r.Intersect(s.Bounds())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.SetPixel(x, y, c)
		}
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (s *Screen) DrawHLine(x, y, length int, c Color) {
	for i := 0; i < length; i++ {
		s.SetPixel(x+i, y, c)
	}
}

// DrawVLine draws a vertical line from (x, y) with the given length.
func (s *Screen) DrawVLine(x, y, length int, c Color) {
	for i := 0; i < length; i++ {
		s.SetPixel(x, y+i, c)
	}
}

// Blit draws the from region of src at (dx, dy), mirrored by flip and
// multiplied by tint. Transparent source cells leave the destination alone.
func (s *Screen) Blit(src *Screen, from Rect, dx, dy int, flip Flip, tint Color) {
	from = from.Intersect(src.Bounds())
	for sy := 0; sy < from.H; sy++ {
		ty := dy + sy
		if flip&FlipVertical != 0 {
			ty = dy + from.H - 1 - sy
		}
		if ty < 0 || ty >= s.height {
			continue
		}
		for sx := 0; sx < from.W; sx++ {
			tx := dx + sx
			if flip&FlipHorizontal != 0 {
				tx = dx + from.W - 1 - sx
			}
			if tx < 0 || tx >= s.width {
				continue
			}
			sc := src.cells[from.Y+sy][from.X+sx]
			dst := &s.cells[ty][tx]
			if sc.BG.A != 0 {
				dst.BG = sc.BG.Tint(tint).Over(dst.BG)
				dst.Rune = ' '
			}
			if sc.Rune != ' ' && sc.Rune != 0 {
				dst.Rune = sc.Rune
				dst.FG = sc.FG.Tint(tint)
			}
		}
	}
}

// ScaleTo copies s onto dst with every cell repeated scale times in both
// directions. Text runes land in the top-left cell of their block.
func (s *Screen) ScaleTo(dst *Screen, scale int) {
	if scale < 1 {
		scale = 1
	}
	for y := 0; y < dst.height; y++ {
		sy := y / scale
		if sy >= s.height {
			break
		}
		for x := 0; x < dst.width; x++ {
			sx := x / scale
			if sx >= s.width {
				break
			}
			c := s.cells[sy][sx]
			if x%scale != 0 || y%scale != 0 {
				c.Rune = ' '
			}
			dst.cells[y][x] = c
		}
	}
}

// String converts the screen runes to a plain string, rows joined by newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	runes := make([]rune, s.width)
	for x, c := range s.cells[y] {
		runes[x] = c.Rune
	}
	return string(runes)
}
