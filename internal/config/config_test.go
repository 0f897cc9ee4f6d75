package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, secret, token, user, apiKey string) {
	t.Setenv("STORED_SECRET", secret)
	t.Setenv("GITHUB_TOKEN", token)
	t.Setenv("GITHUB_USERNAME", user)
	t.Setenv("GEMINI_API_KEY", apiKey)
	t.Setenv("WORK_DIR", "")
}

func TestLoad_AllRequired(t *testing.T) {
	setEnv(t, "s3cret", "ghp_token", "octocat", "gemini-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.StoredSecret)
	assert.Equal(t, "ghp_token", cfg.GitHubToken)
	assert.Equal(t, "octocat", cfg.GitHubUsername)
	assert.Equal(t, "gemini-key", cfg.GeminiAPIKey)
	assert.Equal(t, "./workspace", cfg.WorkDir)
}

func TestLoad_WorkDirOverride(t *testing.T) {
	setEnv(t, "s", "t", "u", "k")
	t.Setenv("WORK_DIR", "/tmp/deploys")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/deploys", cfg.WorkDir)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing secret", "STORED_SECRET"},
		{"missing github token", "GITHUB_TOKEN"},
		{"missing github username", "GITHUB_USERNAME"},
		{"missing gemini key", "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, "s", "t", "u", "k")
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.unset)
		})
	}
}

func TestEnsureWorkDir(t *testing.T) {
	cfg := &Config{WorkDir: filepath.Join(t.TempDir(), "nested", "workspace")}
	require.NoError(t, cfg.EnsureWorkDir())

	// Creating an existing directory is not an error.
	require.NoError(t, cfg.EnsureWorkDir())
}
