package core

import "fmt"

// Color is a straight-alpha RGBA color used for screen cells.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
)

// RGBA builds an opaque-by-default color from 0-255 channels and a 0-1 alpha.
func RGBA(r, g, b int, a float64) Color {
	return Color{
		R: uint8(Clamp(r, 0, 255)),
		G: uint8(Clamp(g, 0, 255)),
		B: uint8(Clamp(b, 0, 255)),
		A: uint8(ClampF(a, 0, 1)*255 + 0.5),
	}
}

// RGBAF builds a color from 0-1 float channels.
func RGBAF(r, g, b, a float64) Color {
	return Color{
		R: uint8(ClampF(r, 0, 1)*255 + 0.5),
		G: uint8(ClampF(g, 0, 1)*255 + 0.5),
		B: uint8(ClampF(b, 0, 1)*255 + 0.5),
		A: uint8(ClampF(a, 0, 1)*255 + 0.5),
	}
}

// Floats returns the channels scaled to 0-1.
func (c Color) Floats() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

// Opaque reports whether the color fully covers what is under it.
func (c Color) Opaque() bool {
	return c.A == 255
}

// Over composites c on top of dst.
func (c Color) Over(dst Color) Color {
	switch c.A {
	case 255:
		return c
	case 0:
		return dst
	}
	sa := int(c.A)
	da := int(dst.A) * (255 - sa) / 255
	outA := sa + da
	if outA == 0 {
		return Transparent
	}
	mix := func(s, d uint8) uint8 {
		return uint8((int(s)*sa + int(d)*da) / outA)
	}
	return Color{
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
		A: uint8(outA),
	}
}

// Tint multiplies every channel of c by t.
func (c Color) Tint(t Color) Color {
	if t == White {
		return c
	}
	mul := func(a, b uint8) uint8 {
		return uint8(int(a) * int(b) / 255)
	}
	return Color{mul(c.R, t.R), mul(c.G, t.G), mul(c.B, t.B), mul(c.A, t.A)}
}

// Hex returns the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
