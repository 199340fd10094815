// Package config loads the optional .vigil.yaml configuration from the
// repository root. A missing config file is not an error: the hook runs with
// defaults so installation never requires more than dropping the binary into
// the hooks directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// FileName is the config file looked up at the repository root.
const FileName = ".vigil.yaml"

// Config controls detection and reporting behavior.
type Config struct {
	// Format selects the report output: text, json or sarif.
	Format string `mapstructure:"format"`
	// Engine selects the detection engine: builtin or gitleaks.
	Engine string `mapstructure:"engine"`
	// RulesFile points to a YAML file with additional detection rules,
	// relative to the repository root.
	RulesFile string `mapstructure:"rules_file"`
	// Allow suppresses known false positives.
	Allow AllowConfig `mapstructure:"allow"`
	// Debug enables debug logging on stderr.
	Debug bool `mapstructure:"debug"`
}

// AllowConfig holds allowlist regexes.
type AllowConfig struct {
	// Paths are regexes matched against staged paths; matching files are
	// never scanned.
	Paths []string `mapstructure:"paths"`
	// Patterns are regexes matched against a finding's line; matching
	// findings are dropped.
	Patterns []string `mapstructure:"patterns"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("format", "text")
	v.SetDefault("engine", "builtin")
	v.SetDefault("debug", false)
}

// Load reads the config file at path. If path does not exist the returned
// config holds the defaults. Environment variables prefixed VIGIL_ override
// file values.
func Load(path string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("VIGIL")
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	switch cfg.Format {
	case "text", "json", "sarif":
	default:
		return Config{}, fmt.Errorf("config %s: unknown format %q", path, cfg.Format)
	}
	switch cfg.Engine {
	case "builtin", "gitleaks":
	default:
		return Config{}, fmt.Errorf("config %s: unknown engine %q", path, cfg.Engine)
	}

	return cfg, nil
}

// Path returns the conventional config location for a repository root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}
