// Package config provides YAML-based engine configuration loading for the
// cabinet runtime.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// Config contains all engine configuration.
type Config struct {
	Display core.DisplayConfig `yaml:"display"`
	Audio   AudioConfig        `yaml:"audio"`
	Input   InputConfig        `yaml:"input"`
	Script  ScriptConfig       `yaml:"script"`
	Journal JournalConfig      `yaml:"journal"`
	Log     LogConfig          `yaml:"log"`
	SSH     SSHConfig          `yaml:"ssh"`
}

// AudioConfig defines the output device.
type AudioConfig struct {
	Enabled    bool `yaml:"enabled"`
	SampleRate int  `yaml:"sample_rate"`
	BufferMS   int  `yaml:"buffer_ms"`
	Quality    int  `yaml:"quality"` // Resampling quality, 1-6
}

// Buffer returns the speaker buffer length.
func (a AudioConfig) Buffer() time.Duration {
	return time.Duration(a.BufferMS) * time.Millisecond
}

// InputConfig defines input handling.
type InputConfig struct {
	KeyReleaseMS int `yaml:"key_release_ms"`
}

// KeyRelease returns the synthesized key-up delay.
func (i InputConfig) KeyRelease() time.Duration {
	return time.Duration(i.KeyReleaseMS) * time.Millisecond
}

// ScriptConfig defines where game modules come from.
type ScriptConfig struct {
	Extension       string `yaml:"extension"`
	Entry           string `yaml:"entry"` // Module name used when no entry file is given
	Watch           bool   `yaml:"watch"`
	WatchDebounceMS int    `yaml:"watch_debounce_ms"`
}

// WatchDebounce returns how long the watcher waits for a burst of writes to settle.
func (s ScriptConfig) WatchDebounce() time.Duration {
	return time.Duration(s.WatchDebounceMS) * time.Millisecond
}

// JournalConfig defines the run journal database.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Used while the terminal display owns the tty
}

// SSHConfig defines the serve command's listener.
type SSHConfig struct {
	Address        string `yaml:"address"`
	HostKey        string `yaml:"host_key"` // Empty means ~/.cabinet/host_key
	IdleTimeoutMin int    `yaml:"idle_timeout_min"`
}

// IdleTimeout returns the idle connection timeout.
func (s SSHConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMin) * time.Minute
}

// Validate checks values that cannot be fixed up later. The display section
// is validated by the engine after the game's init hook has had its say.
func (c Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("config: audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.BufferMS <= 0 {
		return fmt.Errorf("config: audio.buffer_ms must be positive, got %d", c.Audio.BufferMS)
	}
	if c.Input.KeyReleaseMS <= 0 {
		return fmt.Errorf("config: input.key_release_ms must be positive, got %d", c.Input.KeyReleaseMS)
	}
	if c.Script.Extension == "" || !strings.HasPrefix(c.Script.Extension, ".") {
		return fmt.Errorf("config: script.extension must start with a dot, got %q", c.Script.Extension)
	}
	if c.Script.Entry == "" {
		return fmt.Errorf("config: script.entry must not be empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
