package cli

// This file contains loading of the optional YAML configuration file.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the configuration file looked up by default.
const ConfigFile = ".pry.yaml"

// ColorMode selects when output is coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds the settings that can be given in the configuration file.
// Command line flags take precedence.
type Config struct {
	// Extra directories for the module search path
	Paths   []string  `yaml:"paths"`
	Color   ColorMode `yaml:"color"`
	Quiet   bool      `yaml:"quiet"`
	Verbose bool      `yaml:"verbose"`

	// file the configuration was read from, if any
	path string
}

// LoadConfig reads the configuration file at path. With an empty path
// ConfigFile is looked up in the working directory and then in the root of
// the git repository; not finding it there is not an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = findConfig()
		if path == "" {
			return &Config{Color: ColorAuto}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{path: path}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	// relative search paths are relative to the config file
	base := filepath.Dir(path)
	for i, p := range cfg.Paths {
		if !filepath.IsAbs(p) {
			cfg.Paths[i] = filepath.Join(base, p)
		}
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Color {
	case "":
		c.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q, expected one of %s, %s, %s", c.Color, ColorAuto, ColorAlways, ColorNever)
	}
	return nil
}

// UseColor resolves the colour mode. In auto mode colour is used when
// stdout is a terminal and NO_COLOR is not set.
func (c *Config) UseColor() bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return !color.NoColor
	}
}

func findConfig() string {
	candidates := []string{ConfigFile}
	if root, err := repositoryRoot(); err == nil {
		candidates = append(candidates, filepath.Join(root, ConfigFile))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		} else if !errors.Is(err, os.ErrNotExist) {
			return c
		}
	}
	return ""
}
