// Package config loads the optional runner configuration file kept next to
// the runner executable. Everything has a working default; the file exists
// for test rigs and self-hosted distribution endpoints.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the runner configuration.
type Config struct {
	Version    int              `yaml:"version"`
	App        AppConfig        `yaml:"app"`
	API        APIConfig        `yaml:"api"`
	Credential CredentialConfig `yaml:"credential"`
}

// AppConfig holds presentation settings.
type AppConfig struct {
	DisplayName string `yaml:"display_name"`
}

// APIConfig points the runner at a distribution service.
type APIConfig struct {
	BaseURL  string   `yaml:"base_url"`
	TestURLs []string `yaml:"test_urls"`
}

// CredentialConfig locates the obfuscated credential file.
type CredentialConfig struct {
	File string `yaml:"file"`
	// JSONFormat selects the magic-framed JSON credential variant.
	JSONFormat bool `yaml:"json_format"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		App: AppConfig{
			DisplayName: "PatchKit Runner",
		},
		Credential: CredentialConfig{
			File: "launcher.dat",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural constraints.
func (c Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}
	if c.Credential.File == "" {
		return fmt.Errorf("credential file must not be empty")
	}
	return nil
}
