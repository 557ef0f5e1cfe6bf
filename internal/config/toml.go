// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Font     FontConfig     `toml:"font"`
	Playback PlaybackConfig `toml:"playback"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
}

// FontConfig maps font scale settings.
type FontConfig struct {
	MinScale       *float64 `toml:"min-scale"`
	MaxScale       *float64 `toml:"max-scale"`
	DefaultScale   *float64 `toml:"default-scale"`
	ScaleIncrement *float64 `toml:"scale-increment"`
}

// PlaybackConfig maps phrase playback settings.
type PlaybackConfig struct {
	AdvanceDelay *string `toml:"advance-delay"`
	Dataset      *string `toml:"dataset"`
}

// StorageConfig maps storage settings.
type StorageConfig struct {
	DB                *string `toml:"db"`
	SessionTTL        *string `toml:"session-ttl"`
	DisablePersistent *bool   `toml:"disable-persistent"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
