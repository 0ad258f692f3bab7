package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the project root and $HOME.
const FileName = ".matsym.yaml"

// Loader reads configuration.
type Loader interface {
	// Load merges defaults, the config file and environment variables
	// (env wins) and validates the result.
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	homeDir    string
	configFile string
}

// Option customizes a Loader.
type Option func(*loader)

// WithConfigFile reads exactly path instead of searching for .matsym.yaml.
func WithConfigFile(path string) Option {
	return func(l *loader) { l.configFile = path }
}

// WithHomeDir sets the fallback search directory. An empty dir disables it.
func WithHomeDir(dir string) Option {
	return func(l *loader) { l.homeDir = dir }
}

// NewLoader creates a loader that searches rootDir for .matsym.yaml.
func NewLoader(rootDir string, opts ...Option) Loader {
	l := &loader{rootDir: rootDir}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (MATSYM_*)
// 2. Config file (--config, or .matsym.yaml in the root, then $HOME)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
		if l.homeDir != "" {
			v.AddConfigPath(l.homeDir)
		}
	}

	v.SetEnvPrefix("MATSYM")
	v.AutomaticEnv()
	// MATSYM_INDEX_MAX_FILES → index.max_files
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("dialect")
	_ = v.BindEnv("output")
	_ = v.BindEnv("index.max_files")
	_ = v.BindEnv("index.max_file_size")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("dialect", defaults.Dialect)
	v.SetDefault("keywords", defaults.Keywords)
	v.SetDefault("ignore", defaults.Ignore)
	v.SetDefault("index.max_files", defaults.Index.MaxFiles)
	v.SetDefault("index.max_file_size", defaults.Index.MaxFileSize)
	v.SetDefault("output", defaults.Output)
}
