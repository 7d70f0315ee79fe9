package core

import (
	"fmt"
	"time"
)

// Size limits for the display. MaxWidth and MaxHeight bound the logical size
// per unit of scale; the physical limits bound width*scale and height*scale.
const (
	MaxWidth          = 1024
	MaxHeight         = 768
	MaxScale          = 8
	MaxPhysicalWidth  = 4096
	MaxPhysicalHeight = 4096
	MaxFPS            = 60
)

// DisplayConfig describes the logical display a game asks for in init().
type DisplayConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`  // Logical width in cells
	Height int    `yaml:"height"` // Logical height in cells
	Scale  int    `yaml:"scale"`  // Integer upscale factor for the physical display
	FPS    int    `yaml:"fps"`    // Timer ticks per second
}

// DefaultDisplayConfig returns the display a game gets when init() changes nothing.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Title:  "Game",
		Width:  640,
		Height: 480,
		Scale:  1,
		FPS:    60,
	}
}

// Validate checks the display bounds. A failure here is fatal at startup.
func (c DisplayConfig) Validate() error {
	if c.Scale <= 0 || c.Scale > MaxScale {
		return fmt.Errorf("core: invalid scale %d (must be 1-%d)", c.Scale, MaxScale)
	}
	// Scale is bounded above, so the products below cannot overflow.
	if c.Width <= 0 || c.Width >= MaxWidth*c.Scale || c.Width > MaxPhysicalWidth/c.Scale {
		return fmt.Errorf("core: invalid width %d at scale %d", c.Width, c.Scale)
	}
	if c.Height <= 0 || c.Height >= MaxHeight*c.Scale || c.Height > MaxPhysicalHeight/c.Scale {
		return fmt.Errorf("core: invalid height %d at scale %d", c.Height, c.Scale)
	}
	if c.FPS <= 0 || c.FPS > MaxFPS {
		return fmt.Errorf("core: invalid fps %d (must be 1-%d)", c.FPS, MaxFPS)
	}
	return nil
}

// PhysicalSize returns the display size after scaling.
func (c DisplayConfig) PhysicalSize() (int, int) {
	return c.Width * c.Scale, c.Height * c.Scale
}

// TickInterval returns the duration between timer ticks.
func (c DisplayConfig) TickInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / MaxFPS
	}
	return time.Second / time.Duration(c.FPS)
}
