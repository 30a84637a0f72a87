package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weft.json"

	// DefaultAddr is the default serve address.
	DefaultAddr = ":8080"

	// DefaultData is the default data file path.
	DefaultData = "data.yaml"

	// DefaultTemplate is the default template file path.
	DefaultTemplate = "index.tmpl"
)

// ErrNotFound reports that no weft.json exists at the searched location.
var ErrNotFound = errors.New("weft.json not found")

// Config represents the complete weft.json configuration.
type Config struct {
	// Name is the project name, used as the page title when Title is empty.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Addr is the serve listen address.
	Addr string `json:"addr,omitempty"`

	// Title is the rendered page title.
	Title string `json:"title,omitempty"`

	// Data is the path to the YAML data file, relative to the config dir.
	Data string `json:"data,omitempty"`

	// Template is the path to the template file, relative to the config dir.
	Template string `json:"template,omitempty"`

	// Metrics enables the /metrics endpoint when serving.
	Metrics bool `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// New returns a Config populated with defaults.
func New() *Config {
	cfg := &Config{
		Name:    "weft-app",
		Version: "0.1.0",
		Metrics: true,
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config from dir/weft.json.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads the config from an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config back to the path it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("no config path set, use SaveTo")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the config as indented JSON to the given path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from or saved to.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file, or "." when the
// config was never persisted.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Data == "" {
		c.Data = DefaultData
	}
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.Title == "" {
		c.Title = c.Name
	}
}

// Validate checks the config for obvious mistakes.
func (c *Config) Validate() error {
	if c.Data == "" {
		return errors.New("data path must not be empty")
	}
	if c.Template == "" {
		return errors.New("template path must not be empty")
	}
	return nil
}

// DataPath returns the data file path resolved against the config dir.
func (c *Config) DataPath() string {
	return c.resolve(c.Data)
}

// TemplatePath returns the template file path resolved against the config dir.
func (c *Config) TemplatePath() string {
	return c.resolve(c.Template)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists reports whether a weft.json exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// LoadFromWorkingDir loads the config from the current working directory,
// returning defaults when no file exists.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := Load(wd)
	if errors.Is(err, ErrNotFound) {
		return New(), nil
	}
	return cfg, err
}
