package core

import (
	"strings"
	"testing"
)

var red = Color{255, 0, 0, 255}

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y).Rune != ' ' {
				t.Errorf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y).Rune, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, Cell{Rune: 'X', FG: red})
	if s.Get(5, 5).Rune != 'X' || s.Get(5, 5).FG != red {
		t.Errorf("Get(5, 5) = %+v, expected red 'X'", s.Get(5, 5))
	}

	// Out of bounds should be silent
	s.Set(-1, 0, Cell{Rune: 'A'})
	s.Set(100, 0, Cell{Rune: 'A'})
	s.Set(0, -1, Cell{Rune: 'A'})
	s.Set(0, 100, Cell{Rune: 'A'})

	if s.Get(-1, 0).Rune != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.Get(100, 0).Rune != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "XXXXXXXXXX", White)

	s.Clear(Black)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := s.Get(x, y)
			if c.Rune != ' ' || c.BG != Black {
				t.Errorf("After Clear, expected black space at (%d, %d), got %+v", x, y, c)
			}
		}
	}
}

func TestScreenSetPixelBlends(t *testing.T) {
	s := NewScreen(2, 1)
	s.Clear(Black)
	s.DrawText(0, 0, "ab", White)

	s.SetPixel(0, 0, red)
	s.SetPixel(1, 0, Color{255, 255, 255, 0})

	if got := s.Pixel(0, 0); got != red {
		t.Errorf("opaque pixel = %+v, expected %+v", got, red)
	}
	if s.Get(0, 0).Rune != ' ' {
		t.Error("painting a pixel should clear text")
	}
	if s.Get(1, 0).Rune != 'b' {
		t.Error("fully transparent pixel should not touch the cell")
	}

	half := Color{255, 255, 255, 128}
	s.SetPixel(1, 0, half)
	if got := s.Pixel(1, 0); got.R < 120 || got.R > 135 || got.A != 255 {
		t.Errorf("half white over black = %+v, expected mid gray", got)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello", red)

	expected := "Hello"
	for i, ch := range expected {
		if s.Get(2+i, 1).Rune != ch {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", ch, 2+i, s.Get(2+i, 1).Rune)
		}
	}

	// Text should be clipped at boundaries
	s.DrawText(18, 0, "Hello", red)
	if s.Get(18, 0).Rune != 'H' || s.Get(19, 0).Rune != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
	s.DrawText(-2, 2, "Hello", red)
	if s.Get(0, 2).Rune != 'l' {
		t.Errorf("Text should be clipped at left boundary, got %q", s.Get(0, 2).Rune)
	}
}

func TestScreenFillRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.FillRect(NewRect(2, 2, 3, 3), red)

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if s.Pixel(x, y) != red {
				t.Errorf("FillRect: expected red at (%d, %d), got %+v", x, y, s.Pixel(x, y))
			}
		}
	}

	if s.Pixel(1, 1) != Transparent || s.Pixel(5, 5) != Transparent {
		t.Error("FillRect should not affect outside area")
	}

	// Partially off-screen rects are clipped, not rejected
	s.FillRect(NewRect(-5, -5, 6, 6), red)
	if s.Pixel(0, 0) != red {
		t.Error("FillRect should clip to the screen")
	}
}

func TestScreenLines(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawHLine(2, 2, 5, red)
	s.DrawVLine(3, 4, 4, red)

	for x := 2; x < 7; x++ {
		if s.Pixel(x, 2) != red {
			t.Errorf("DrawHLine: expected red at (%d, 2)", x)
		}
	}
	for y := 4; y < 8; y++ {
		if s.Pixel(3, y) != red {
			t.Errorf("DrawVLine: expected red at (3, %d)", y)
		}
	}
}

func TestScreenBlit(t *testing.T) {
	src := NewScreen(2, 2)
	src.SetPixel(0, 0, red)
	src.SetPixel(1, 1, White)

	tests := []struct {
		name    string
		flip    Flip
		redAt   [2]int
		whiteAt [2]int
	}{
		{"no flip", FlipNone, [2]int{3, 3}, [2]int{4, 4}},
		{"horizontal", FlipHorizontal, [2]int{4, 3}, [2]int{3, 4}},
		{"vertical", FlipVertical, [2]int{3, 4}, [2]int{4, 3}},
		{"both", FlipHorizontal | FlipVertical, [2]int{4, 4}, [2]int{3, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dst := NewScreen(8, 8)
			dst.Clear(Black)
			dst.Blit(src, src.Bounds(), 3, 3, tc.flip, White)

			if got := dst.Pixel(tc.redAt[0], tc.redAt[1]); got != red {
				t.Errorf("red pixel at %v = %+v", tc.redAt, got)
			}
			if got := dst.Pixel(tc.whiteAt[0], tc.whiteAt[1]); got != White {
				t.Errorf("white pixel at %v = %+v", tc.whiteAt, got)
			}
		})
	}
}

func TestScreenBlitTransparentKeepsDestination(t *testing.T) {
	src := NewScreen(2, 1)
	src.SetPixel(0, 0, red)

	dst := NewScreen(2, 1)
	dst.Clear(Black)
	dst.Blit(src, src.Bounds(), 0, 0, FlipNone, White)

	if dst.Pixel(1, 0) != Black {
		t.Errorf("transparent source cell changed destination to %+v", dst.Pixel(1, 0))
	}
}

func TestScreenScaleTo(t *testing.T) {
	src := NewScreen(2, 2)
	src.SetPixel(1, 0, red)
	src.DrawText(0, 1, "A", White)

	dst := NewScreen(4, 4)
	src.ScaleTo(dst, 2)

	for _, p := range [][2]int{{2, 0}, {3, 0}, {2, 1}, {3, 1}} {
		if dst.Pixel(p[0], p[1]) != red {
			t.Errorf("scaled pixel at %v should be red", p)
		}
	}
	if dst.Get(0, 2).Rune != 'A' {
		t.Errorf("text should land in top-left of its block, got %q", dst.Get(0, 2).Rune)
	}
	if dst.Get(1, 2).Rune != ' ' || dst.Get(0, 3).Rune != ' ' {
		t.Error("text should not be repeated across the block")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA", White)
	s.DrawText(0, 1, "BBBBB", White)
	s.DrawText(0, 2, "CCCCC", White)

	result := s.String()
	expected := "AAAAA\nBBBBB\nCCCCC"

	if result != expected {
		t.Errorf("String() = %q, expected %q", result, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello", White)
	s.DrawText(0, 5, "World", White)

	// Resize smaller - should preserve top-left content
	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("After resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}

	row0 := s.Row(0)
	if !strings.HasPrefix(row0, "Hello") {
		t.Errorf("Content should be preserved, row 0 = %q", row0)
	}

	// Resize larger - old content should still be there
	s.Resize(15, 8)
	row0 = s.Row(0)
	if !strings.HasPrefix(row0, "Hello") {
		t.Errorf("Content should be preserved after enlarging, row 0 = %q", row0)
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawText(0, 2, "Test", White)

	row := s.Row(2)
	if !strings.HasPrefix(row, "Test") {
		t.Errorf("Row(2) should start with 'Test', got %q", row)
	}
	if len(row) != 10 {
		t.Errorf("Row length should be 10, got %d", len(row))
	}

	outOfBounds := s.Row(-1)
	if outOfBounds != "          " {
		t.Errorf("Out of bounds row should be spaces, got %q", outOfBounds)
	}
}
