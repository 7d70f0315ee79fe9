package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultEngineYAML, &cfg); err != nil {
		return DefaultConfig() // Fallback to hardcoded if embed fails
	}
	return cfg
}

// DefaultConfig returns the hardcoded default configuration.
func DefaultConfig() Config {
	return Config{
		Display: core.DefaultDisplayConfig(),
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			BufferMS:   50,
			Quality:    3,
		},
		Input: InputConfig{
			KeyReleaseMS: 120,
		},
		Script: ScriptConfig{
			Extension:       ".lua",
			Entry:           "game",
			WatchDebounceMS: 200,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "~/.cabinet/journal.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.cabinet/cabinet.log",
		},
		SSH: SSHConfig{
			Address:        ":23234",
			IdleTimeoutMin: 30,
		},
	}
}
