package core

import (
	"testing"
	"time"
)

func TestDisplayConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *DisplayConfig)
		wantErr bool
	}{
		{"defaults", func(c *DisplayConfig) {}, false},
		{"zero width", func(c *DisplayConfig) { c.Width = 0 }, true},
		{"width at limit", func(c *DisplayConfig) { c.Width = 1024 }, true},
		{"width below limit", func(c *DisplayConfig) { c.Width = 1023 }, false},
		{"wide but scaled", func(c *DisplayConfig) { c.Width = 1500; c.Scale = 2 }, false},
		{"zero scale", func(c *DisplayConfig) { c.Scale = 0 }, true},
		{"negative scale", func(c *DisplayConfig) { c.Scale = -2 }, true},
		{"scale two", func(c *DisplayConfig) { c.Scale = 2 }, false},
		{"scale at limit", func(c *DisplayConfig) { c.Width = 320; c.Height = 240; c.Scale = 8 }, false},
		{"scale above limit", func(c *DisplayConfig) { c.Width = 320; c.Height = 240; c.Scale = 9 }, true},
		{"huge scale", func(c *DisplayConfig) { c.Scale = 1000 }, true},
		{"physical width too large", func(c *DisplayConfig) { c.Width = 1000; c.Scale = 5 }, true},
		{"physical height too large", func(c *DisplayConfig) { c.Height = 700; c.Scale = 6 }, true},
		{"physical size at limit", func(c *DisplayConfig) { c.Width = 1024; c.Height = 1024; c.Scale = 4 }, false},
		{"width overflow", func(c *DisplayConfig) { c.Width = 1 << 62; c.Scale = 4 }, true},
		{"negative height", func(c *DisplayConfig) { c.Height = -1 }, true},
		{"height at limit", func(c *DisplayConfig) { c.Height = 768 }, true},
		{"zero fps", func(c *DisplayConfig) { c.FPS = 0 }, true},
		{"fps above limit", func(c *DisplayConfig) { c.FPS = 61 }, true},
		{"fps at limit", func(c *DisplayConfig) { c.FPS = 60 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultDisplayConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestDisplayConfigDerived(t *testing.T) {
	cfg := DefaultDisplayConfig()
	cfg.Scale = 2

	w, h := cfg.PhysicalSize()
	if w != 1280 || h != 960 {
		t.Errorf("PhysicalSize() = %dx%d, expected 1280x960", w, h)
	}

	cfg.FPS = 50
	if got := cfg.TickInterval(); got != 20*time.Millisecond {
		t.Errorf("TickInterval() = %v, expected 20ms", got)
	}
}
