// Package config loads matsym settings from .matsym.yaml and MATSYM_*
// environment variables.
package config

import (
	"github.com/phobologic/matsym/internal/lang"
)

// Config represents the complete matsym configuration.
type Config struct {
	Dialect  string      `yaml:"dialect" mapstructure:"dialect"`   // "matlab" or "octave"
	Keywords []string    `yaml:"keywords" mapstructure:"keywords"` // extra reserved words
	Ignore   []string    `yaml:"ignore" mapstructure:"ignore"`     // glob patterns relative to the index root
	Index    IndexConfig `yaml:"index" mapstructure:"index"`
	Output   string      `yaml:"output" mapstructure:"output"` // "toon" or "json"
}

// IndexConfig bounds the repo map.
type IndexConfig struct {
	MaxFiles    int   `yaml:"max_files" mapstructure:"max_files"`         // 0 keeps every file
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size"` // bytes
}

// Default returns a configuration with the built-in defaults.
func Default() *Config {
	return &Config{
		Dialect:  lang.DefaultDialect,
		Keywords: []string{},
		Ignore:   []string{},
		Index: IndexConfig{
			MaxFiles:    0,
			MaxFileSize: 1_000_000,
		},
		Output: "toon",
	}
}

// ResolveDialect returns the configured dialect extended with the extra
// keywords. It returns nil for an unknown dialect name.
func (c *Config) ResolveDialect() *lang.Dialect {
	d, ok := lang.Dialects[c.Dialect]
	if !ok {
		return nil
	}
	return d.WithKeywords(c.Keywords)
}
