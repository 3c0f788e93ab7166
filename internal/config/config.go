// Package config loads scan settings from <root>/.wisdom/config.* and
// WISDOM_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/InfiniQuest-App/wisdom-store/internal/walk"
)

// Dir is the per-project state directory, relative to the project root.
const Dir = ".wisdom"

// DatabaseFile is the default registry database name inside Dir.
const DatabaseFile = "registry.db"

// keyDelim replaces viper's "." so that extension keys under scripts (".vue")
// stay flat.
const keyDelim = "::"

// EnvPrefix prefixes environment overrides, e.g. WISDOM_MAX_FILES.
const EnvPrefix = "WISDOM"

// Config holds scan settings. Zero values are never produced by Load; every
// key has a default.
type Config struct {
	MaxDepth      int               `mapstructure:"max_depth" json:"max_depth"`
	MaxFiles      int               `mapstructure:"max_files" json:"max_files"`
	MaxFileSize   int64             `mapstructure:"max_file_size" json:"max_file_size"`
	MaxMarkupSize int64             `mapstructure:"max_markup_size" json:"max_markup_size"`
	IgnoreFile    string            `mapstructure:"ignore_file" json:"ignore_file"`
	HiddenAllow   []string          `mapstructure:"hidden_allow" json:"hidden_allow"`
	Exclude       []string          `mapstructure:"exclude" json:"exclude"`
	APIPrefix     string            `mapstructure:"api_prefix" json:"api_prefix"`
	Scripts       map[string]string `mapstructure:"scripts" json:"scripts,omitempty"`
	Log           LogConfig         `mapstructure:"log" json:"log"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MaxDepth:      walk.DefaultMaxDepth,
		MaxFiles:      walk.DefaultMaxFiles,
		MaxFileSize:   walk.DefaultMaxFileSize,
		MaxMarkupSize: walk.DefaultMaxMarkupSize,
		IgnoreFile:    walk.DefaultIgnoreFile,
		HiddenAllow:   []string{walk.DefaultHiddenAllow},
		Exclude:       []string{},
		APIPrefix:     "/api",
		Scripts:       map[string]string{},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("max_files", d.MaxFiles)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("max_markup_size", d.MaxMarkupSize)
	v.SetDefault("ignore_file", d.IgnoreFile)
	v.SetDefault("hidden_allow", d.HiddenAllow)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("api_prefix", d.APIPrefix)
	v.SetDefault("scripts", d.Scripts)
	v.SetDefault("log"+keyDelim+"level", d.Log.Level)
	v.SetDefault("log"+keyDelim+"format", d.Log.Format)
}

// Load reads <root>/.wisdom/config.{json,yaml,toml}. A missing file yields
// the defaults, still subject to environment overrides.
func Load(root string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelim))
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(root, Dir))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelim, "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration as <root>/.wisdom/config.json.
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), append(data, '\n'), 0o644)
}

// Validate rejects settings a scan cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.MaxDepth < 1:
		return &Error{Field: "max_depth", Message: "must be at least 1"}
	case c.MaxFiles < 1:
		return &Error{Field: "max_files", Message: "must be at least 1"}
	case c.MaxFileSize < 1:
		return &Error{Field: "max_file_size", Message: "must be positive"}
	case c.MaxMarkupSize < 1:
		return &Error{Field: "max_markup_size", Message: "must be positive"}
	case !strings.HasPrefix(c.APIPrefix, "/"):
		return &Error{Field: "api_prefix", Message: "must start with /"}
	}
	return nil
}

// DatabasePath is the default registry location for a project.
func DatabasePath(root string) string {
	return filepath.Join(root, Dir, DatabaseFile)
}

// Error is a validation failure for one key.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
