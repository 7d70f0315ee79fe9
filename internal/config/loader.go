package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the engine config file name in every search location.
const FileName = "engine.yaml"

// Load loads the engine configuration.
// Search order: customPath -> ~/.cabinet/configs/engine.yaml -> ./configs/engine.yaml -> embedded default
// A file only needs the keys it changes; the rest keep their defaults.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if loaded, ok := tryLoad(userCfgPath, cfg); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryLoad(filepath.Join("configs", FileName), cfg); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	return cfg, nil
}

// tryLoad overlays path onto base. Unreadable or malformed files are skipped.
func tryLoad(path string, base Config) (Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, false
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, false
	}
	return base, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// Dir returns ~/.cabinet, or empty if home is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cabinet")
}
