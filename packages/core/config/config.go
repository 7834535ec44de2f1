package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the hitreport configuration
type Config struct {
	RootDir   string       `json:"rootDir,omitempty" yaml:"rootDir,omitempty"`
	OutputDir string       `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	Reporter  ReporterList `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	NoColor   *bool        `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitreport.json",
	"hitreport.json",
	".hitreport.yaml",
	"hitreport.yaml",
	".hitreport.yml",
	"hitreport.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file. Relative
// rootDir and outputDir values are resolved against the file's directory.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := ParseConfig(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if config.RootDir == "" {
		config.RootDir = dir
	} else if !filepath.IsAbs(config.RootDir) {
		config.RootDir = filepath.Join(dir, config.RootDir)
	}
	if config.OutputDir != "" && !filepath.IsAbs(config.OutputDir) {
		config.OutputDir = filepath.Join(dir, config.OutputDir)
	}

	return config, nil
}

// ParseConfig validates and decodes config content on top of the defaults
func ParseConfig(data []byte, yamlFormat bool) (*Config, error) {
	var doc any
	unmarshal := json.Unmarshal
	if yamlFormat {
		unmarshal = yaml.Unmarshal
	}
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return DefaultConfig(), nil
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.RootDir != "" {
		result.RootDir = other.RootDir
	}
	if other.OutputDir != "" {
		result.OutputDir = other.OutputDir
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	// Reporters are replaced as a whole, order matters
	if len(other.Reporter) > 0 {
		result.Reporter = other.Reporter
	}

	return &result
}
