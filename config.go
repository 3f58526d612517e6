package ffmt

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedConfig is returned by LoadConfig for unknown file types.
var ErrUnsupportedConfig = errors.New("unsupported config file")

// Config is the file-backed configuration for the ffmt command and for
// programs that want the same knobs.
type Config struct {
	// Locale is a BCP 47 tag. Empty means ASCII folding.
	Locale string `yaml:"locale" toml:"locale"`
	// Encoding selects the record encoding when output is structured.
	Encoding string `yaml:"encoding" toml:"encoding"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// Newline appends a newline to every render.
	Newline bool `yaml:"newline" toml:"newline"`
	// Jobs bounds concurrent renders in batch mode. Zero means GOMAXPROCS.
	Jobs int `yaml:"jobs" toml:"jobs"`
	// Templates maps names to format strings.
	Templates map[string]string `yaml:"templates" toml:"templates"`
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field values without building anything.
func (c *Config) Validate() error {
	var errs []error
	if c.Encoding != "" {
		if _, err := ParseEncoding(c.Encoding); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}
	for name, format := range c.Templates {
		if _, err := Parse(format); err != nil {
			errs = append(errs, fmt.Errorf("template %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Level parses LogLevel. Empty means info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Template returns the named template, parsed.
func (c *Config) Template(name string) (*Template, error) {
	format, ok := c.Templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not defined", name)
	}
	return Parse(format)
}

// Options turns the configuration into Formatter options. logger may be nil.
func (c *Config) Options(logger *slog.Logger) ([]Option, error) {
	opts := []Option{WithLogger(logger)}
	if c.Locale != "" {
		loc, err := ParseLocale(c.Locale)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", c.Locale, err)
		}
		opts = append(opts, WithLocale(loc))
	}
	return opts, nil
}
