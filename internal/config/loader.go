package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes after expanding ${VAR} references.
func Parse(data []byte) (*ServerConfig, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg ServerConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	// Phrases are matched against lower-cased utterances.
	for i := range cfg.Navigation.Routes {
		cfg.Navigation.Routes[i].Phrase = strings.ToLower(strings.TrimSpace(cfg.Navigation.Routes[i].Phrase))
		cfg.Navigation.Routes[i].Route = strings.TrimSpace(cfg.Navigation.Routes[i].Route)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*ServerConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*ServerConfig, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Default returns a configuration with every default applied and no file behind it.
func Default() *ServerConfig {
	cfg := &ServerConfig{Instance: InstanceConfig{ID: DefaultInstanceID}}
	cfg.ApplyDefaults()
	return cfg
}
