// Package gfx holds the drawing state scripts manipulate through the graphics
// and image namespaces, and the cache of decoded images.
package gfx

import (
	"math"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// Canvas draws primitives onto the current render target. A canvas outlives
// any one target: the engine points it at the offscreen surface or the
// backbuffer before every render call.
type Canvas struct {
	Color     core.Color // Primitive and text color
	Back      core.Color // Clear color for each redraw
	Blend     core.Color // Tint applied to images
	LineWidth int
	OffsetX   int
	OffsetY   int

	target *core.Screen
}

// NewCanvas returns a canvas with white drawing on black.
func NewCanvas() *Canvas {
	return &Canvas{
		Color:     core.White,
		Back:      core.Black,
		Blend:     core.White,
		LineWidth: 1,
	}
}

// SetTarget changes the surface that drawing calls paint on.
func (c *Canvas) SetTarget(s *core.Screen) {
	c.target = s
}

// Target returns the current surface, or nil outside a redraw.
func (c *Canvas) Target() *core.Screen {
	return c.target
}

// Clear fills the target with the background color.
func (c *Canvas) Clear() {
	if c.target == nil {
		return
	}
	c.target.Clear(c.Back)
}

// Line draws from (x1, y1) to (x2, y2) inclusive.
func (c *Canvas) Line(x1, y1, x2, y2 int) {
	if c.target == nil {
		return
	}
	x1 += c.OffsetX
	x2 += c.OffsetX
	y1 += c.OffsetY
	y2 += c.OffsetY

	// Walk only the part that can reach the target; the margin keeps the
	// widened edge of a line running just outside the surface.
	m := max(c.LineWidth, 1)
	area := core.NewRect(-m, -m, c.target.Width()+2*m, c.target.Height()+2*m)
	var ok bool
	if x1, y1, x2, y2, ok = clipLine(x1, y1, x2, y2, area); !ok {
		return
	}

	dx := core.Abs(x2 - x1)
	dy := -core.Abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		c.plot(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// clipLine cuts the segment to r (Liang-Barsky). Endpoints already inside r
// come back unchanged; ok is false when the segment misses r entirely.
func clipLine(x1, y1, x2, y2 int, r core.Rect) (int, int, int, int, bool) {
	if r.Contains(x1, y1) && r.Contains(x2, y2) {
		return x1, y1, x2, y2, true
	}
	fx, fy := float64(x1), float64(y1)
	dx, dy := float64(x2)-fx, float64(y2)-fy
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, fx - float64(r.X)},
		{dx, float64(r.Right()-1) - fx},
		{-dy, fy - float64(r.Y)},
		{dy, float64(r.Bottom()-1) - fy},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	cx1, cy1 := x1, y1
	if t0 > 0 {
		cx1, cy1 = int(math.Round(fx+t0*dx)), int(math.Round(fy+t0*dy))
	}
	cx2, cy2 := x2, y2
	if t1 < 1 {
		cx2, cy2 = int(math.Round(fx+t1*dx)), int(math.Round(fy+t1*dy))
	}
	return cx1, cy1, cx2, cy2, true
}

// plot paints a line point, widened to a square of LineWidth cells.
func (c *Canvas) plot(x, y int) {
	w := max(c.LineWidth, 1)
	if w == 1 {
		c.target.SetPixel(x, y, c.Color)
		return
	}
	half := (w - 1) / 2
	c.target.FillRect(core.NewRect(x-half, y-half, w, w), c.Color)
}

// Rect draws the outline of a w x h rectangle, or fills it.
func (c *Canvas) Rect(x, y, w, h int, filled bool) {
	if c.target == nil || w <= 0 || h <= 0 {
		return
	}
	x += c.OffsetX
	y += c.OffsetY
	if filled {
		c.target.FillRect(core.NewRect(x, y, w, h), c.Color)
		return
	}

	// Borders grow inward so the outline never leaves the rectangle.
	t := core.Clamp(c.LineWidth, 1, min(w, h))
	c.target.FillRect(core.NewRect(x, y, w, t), c.Color)
	c.target.FillRect(core.NewRect(x, y+h-t, w, t), c.Color)
	c.target.FillRect(core.NewRect(x, y+t, t, h-2*t), c.Color)
	c.target.FillRect(core.NewRect(x+w-t, y+t, t, h-2*t), c.Color)
}

// Text writes str at (x, y) in the drawing color.
func (c *Canvas) Text(x, y int, str string) {
	if c.target == nil {
		return
	}
	c.target.DrawText(x+c.OffsetX, y+c.OffsetY, str, c.Color)
}

// DrawImage blits the whole image at (x, y).
func (c *Canvas) DrawImage(img *Image, x, y int, flip core.Flip, alpha float64) bool {
	if img == nil || !img.Loaded() {
		return false
	}
	c.blit(img, img.Bitmap.Bounds(), x, y, flip, alpha)
	return true
}

// DrawTile blits one tile of a tiled image at (x, y).
func (c *Canvas) DrawTile(img *Image, x, y, index int, flip core.Flip, alpha float64) bool {
	if img == nil || !img.Loaded() {
		return false
	}
	tile, ok := img.Tile(index)
	if !ok {
		return false
	}
	c.blit(img, tile, x, y, flip, alpha)
	return true
}

func (c *Canvas) blit(img *Image, from core.Rect, x, y int, flip core.Flip, alpha float64) {
	if c.target == nil {
		return
	}
	tint := c.Blend
	if alpha < 1 {
		tint.A = uint8(float64(tint.A)*core.ClampF(alpha, 0, 1) + 0.5)
	}
	c.target.Blit(img.Bitmap, from, x+c.OffsetX, y+c.OffsetY, flip, tint)
}
