// Package config provides centralized configuration management using Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for inkbook.
type Config struct {
	Studio            string        `mapstructure:"studio" yaml:"studio"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile           string        `mapstructure:"log_file" yaml:"log_file"`
	CatalogPath       string        `mapstructure:"catalog_path" yaml:"catalog_path"`
	Template          string        `mapstructure:"template" yaml:"template"`
	AutoAdvanceDelay  time.Duration `mapstructure:"auto_advance_delay" yaml:"auto_advance_delay"`
	SubmitDelay       time.Duration `mapstructure:"submit_delay" yaml:"submit_delay"`
	MaxReferenceBytes int           `mapstructure:"max_reference_bytes" yaml:"max_reference_bytes"`
	MCPAddr           string        `mapstructure:"mcp_addr" yaml:"mcp_addr"`
	MetricsAddr       string        `mapstructure:"metrics_addr" yaml:"metrics_addr"`
	HooksDir          string        `mapstructure:"hooks_dir" yaml:"hooks_dir"`
}

// Defaults mirrors the values Load falls back to when nothing is configured.
func Defaults() *Config {
	return &Config{
		LogLevel:          "info",
		AutoAdvanceDelay:  400 * time.Millisecond,
		SubmitDelay:       1500 * time.Millisecond,
		MaxReferenceBytes: 10 << 20,
		MCPAddr:           "127.0.0.1:0",
		MetricsAddr:       "127.0.0.1:9464",
		HooksDir:          ".",
	}
}

// keys bound to INKBOOK_* environment variables.
var envKeys = []string{
	"studio",
	"log_level",
	"log_file",
	"catalog_path",
	"template",
	"auto_advance_delay",
	"submit_delay",
	"max_reference_bytes",
	"mcp_addr",
	"metrics_addr",
	"hooks_dir",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars (.env included) > project config > XDG global config > defaults
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("inkbook")

	d := Defaults()
	v.SetDefault("studio", d.Studio)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("catalog_path", d.CatalogPath)
	v.SetDefault("template", d.Template)
	v.SetDefault("auto_advance_delay", d.AutoAdvanceDelay)
	v.SetDefault("submit_delay", d.SubmitDelay)
	v.SetDefault("max_reference_bytes", d.MaxReferenceBytes)
	v.SetDefault("mcp_addr", d.MCPAddr)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("hooks_dir", d.HooksDir)

	v.SetEnvPrefix("INKBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env-only keys
	for _, key := range envKeys {
		if err := v.BindEnv(key, "INKBOOK_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ./.env) into
// the process environment. Variables already set win; missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.AutoAdvanceDelay < 0 {
		return fmt.Errorf("auto_advance_delay must not be negative (got %s)", c.AutoAdvanceDelay)
	}
	if c.SubmitDelay < 0 {
		return fmt.Errorf("submit_delay must not be negative (got %s)", c.SubmitDelay)
	}
	if c.MaxReferenceBytes <= 0 {
		return fmt.Errorf("max_reference_bytes must be positive (got %d)", c.MaxReferenceBytes)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/inkbook/inkbook.yml or $XDG_CONFIG_HOME/inkbook/inkbook.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "inkbook", "inkbook.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "inkbook", "inkbook.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "inkbook.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
