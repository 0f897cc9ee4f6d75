// Package config provides configuration loading and validation for the deployment service.
package config

import (
	"fmt"
	"os"
)

// Config holds the process-wide configuration read once at startup.
// It is passed explicitly into constructors; nothing reads the
// environment after Load returns.
type Config struct {
	StoredSecret   string // shared credential compared against the request secret
	GitHubToken    string // hosting-provider access token, handed to gh via env overlay
	GitHubUsername string // account under which repositories are created
	WorkDir        string // working-directory root for materialized projects
	GeminiAPIKey   string // language-model API key
}

// Load reads configuration from the environment. Returns an error if a
// required value is absent; the process must not start without one.
func Load() (*Config, error) {
	cfg := &Config{
		StoredSecret:   os.Getenv("STORED_SECRET"),
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubUsername: os.Getenv("GITHUB_USERNAME"),
		WorkDir:        os.Getenv("WORK_DIR"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
	}

	if cfg.WorkDir == "" {
		cfg.WorkDir = "./workspace"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required values are present.
func (c *Config) Validate() error {
	if c.StoredSecret == "" {
		return fmt.Errorf("config error: STORED_SECRET is required")
	}
	if c.GitHubToken == "" {
		return fmt.Errorf("config error: GITHUB_TOKEN is required")
	}
	if c.GitHubUsername == "" {
		return fmt.Errorf("config error: GITHUB_USERNAME is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	return nil
}

// EnsureWorkDir creates the working-directory root if it does not exist.
func (c *Config) EnsureWorkDir() error {
	if err := os.MkdirAll(c.WorkDir, 0o755); err != nil {
		return fmt.Errorf("failed to create work dir %s: %w", c.WorkDir, err)
	}
	return nil
}
