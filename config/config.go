// Package config provides configuration loading and management for apigrade.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete apigrade configuration
type Config struct {
	NATS     NATSConfig     `yaml:"nats"`
	Grading  GradingConfig  `yaml:"grading"`
	Profiles ProfilesConfig `yaml:"profiles"`
	Specs    SpecsConfig    `yaml:"specs"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
}

// GradingConfig configures the grading pipeline
type GradingConfig struct {
	// DefaultProfile pins a grading profile id; empty means use the
	// profile matching the detected archetype
	DefaultProfile string `yaml:"default_profile"`
	// NegationScope selects how forbidden-technology negations are
	// matched: "global" or "proximity"
	NegationScope string `yaml:"negation_scope"`
}

// ProfilesConfig configures profile definitions
type ProfilesConfig struct {
	// OverridesPath points at a YAML file of per-profile rule overrides,
	// watched for changes when serving (empty = no overrides)
	OverridesPath string `yaml:"overrides_path"`
}

// SpecsConfig configures contract document discovery
type SpecsConfig struct {
	// Patterns are glob patterns (supporting **) for spec files
	Patterns []string `yaml:"patterns"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
		Grading: GradingConfig{
			DefaultProfile: "",
			NegationScope:  "global",
		},
		Profiles: ProfilesConfig{
			OverridesPath: "",
		},
		Specs: SpecsConfig{
			Patterns: []string{"./specs/**/*.yaml"},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required")
	}
	switch c.Grading.NegationScope {
	case "global", "proximity":
	default:
		return fmt.Errorf("grading.negation_scope must be \"global\" or \"proximity\"")
	}
	if len(c.Specs.Patterns) == 0 {
		return fmt.Errorf("specs.patterns must not be empty")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}

	// Grading
	if other.Grading.DefaultProfile != "" {
		c.Grading.DefaultProfile = other.Grading.DefaultProfile
	}
	if other.Grading.NegationScope != "" {
		c.Grading.NegationScope = other.Grading.NegationScope
	}

	// Profiles
	if other.Profiles.OverridesPath != "" {
		c.Profiles.OverridesPath = other.Profiles.OverridesPath
	}

	// Specs
	if len(other.Specs.Patterns) > 0 {
		c.Specs.Patterns = other.Specs.Patterns
	}
}
