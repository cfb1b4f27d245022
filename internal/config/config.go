package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// DefaultFolder is the music directory scanned when no explicit
	// library_sources are configured.
	DefaultFolder  string   `koanf:"default_folder"`
	LibrarySources []string `koanf:"library_sources"` // paths to scan for the music library

	// Volume is the startup playback level in [0, 1]. Persisted state
	// takes precedence once the player has run at least once.
	Volume float64 `koanf:"volume"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `koanf:"log_level"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Volume:   1.0,
		LogLevel: "info",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}
	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}

	if cfg.Volume < 0 {
		cfg.Volume = 0
	}
	if cfg.Volume > 1 {
		cfg.Volume = 1
	}

	return cfg, nil
}

// Sources returns the directories the library scanner should walk:
// library_sources when configured, otherwise the default folder.
func (c *Config) Sources() []string {
	if len(c.LibrarySources) > 0 {
		return c.LibrarySources
	}
	if c.DefaultFolder != "" {
		return []string{c.DefaultFolder}
	}
	return nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/fermata/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "fermata", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
