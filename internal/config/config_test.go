package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	if got, want := Default(), DefaultConfig(); !reflect.DeepEqual(got, want) {
		t.Errorf("embedded defaults drifted:\n got %+v\nwant %+v", got, want)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "display:\n  title: Pong\n  fps: 30\nscript:\n  watch: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Display.Title != "Pong" || cfg.Display.FPS != 30 {
		t.Errorf("display = %+v, want title Pong at 30 fps", cfg.Display)
	}
	if cfg.Display.Width != 640 || cfg.Display.Scale != 1 {
		t.Errorf("unset display keys lost their defaults: %+v", cfg.Display)
	}
	if !cfg.Script.Watch || cfg.Script.Extension != ".lua" {
		t.Errorf("script = %+v", cfg.Script)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("display: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	t.Chdir(work)

	// Nothing on disk: embedded defaults.
	cfg, err := Load("")
	if err != nil || cfg.Display.Title != "Game" {
		t.Fatalf("Load() = %+v, %v; want embedded default", cfg.Display, err)
	}

	// Local configs directory.
	writeConfig(t, filepath.Join(work, "configs"), "display:\n  title: Local\n")
	if cfg, _ := Load(""); cfg.Display.Title != "Local" {
		t.Errorf("title = %q, want Local", cfg.Display.Title)
	}

	// User directory wins over the local one.
	writeConfig(t, filepath.Join(home, ".cabinet", "configs"), "display:\n  title: User\n")
	if cfg, _ := Load(""); cfg.Display.Title != "User" {
		t.Errorf("title = %q, want User", cfg.Display.Title)
	}
}

func writeConfig(t *testing.T, dir, data string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, "sample_rate"},
		{"buffer", func(c *Config) { c.Audio.BufferMS = -1 }, "buffer_ms"},
		{"release", func(c *Config) { c.Input.KeyReleaseMS = 0 }, "key_release_ms"},
		{"extension", func(c *Config) { c.Script.Extension = "lua" }, "extension"},
		{"entry", func(c *Config) { c.Script.Entry = "" }, "entry"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Audio.Buffer(); got != 50*time.Millisecond {
		t.Errorf("Buffer() = %v", got)
	}
	if got := cfg.Input.KeyRelease(); got != 120*time.Millisecond {
		t.Errorf("KeyRelease() = %v", got)
	}
	if got := cfg.Script.WatchDebounce(); got != 200*time.Millisecond {
		t.Errorf("WatchDebounce() = %v", got)
	}
	if got := cfg.SSH.IdleTimeout(); got != 30*time.Minute {
		t.Errorf("IdleTimeout() = %v", got)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandHome("~/.cabinet/x.db"); got != filepath.Join(home, ".cabinet", "x.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("ExpandHome() changed an absolute path: %q", got)
	}
}
