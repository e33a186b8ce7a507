package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvModelURL, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromFile(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvModelURL, "")
	path := writeConfig(t, `
api:
  baseURL: https://example.test/rest
  timeoutMS: 5000
model:
  url: https://connect.example.test/content/ferry-delay/predict
output:
  format: csv
gtfsrt:
  agency_id: WSF
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/rest", cfg.API.BaseURL)
	assert.Equal(t, 5000, cfg.API.TimeoutMS)
	assert.Equal(t, 30000, cfg.API.HistoryTimeoutMS, "unset keys keep defaults")
	assert.Equal(t, "WSDOT_ACCESS_CODE", cfg.API.AccessCodeEnv)
	assert.Equal(t, "https://connect.example.test/content/ferry-delay/predict", cfg.Model.URL)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvBaseURL, "https://mirror.example.test/rest")
	t.Setenv(EnvModelURL, "https://model.example.test/predict")
	path := writeConfig(t, "api:\n  baseURL: https://example.test/rest\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.test/rest", cfg.API.BaseURL)
	assert.Equal(t, "https://model.example.test/predict", cfg.Model.URL)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvModelURL, "")

	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "invalid: yaml: content: [[["},
		{"bad base url", "api:\n  baseURL: not a url\n"},
		{"zero timeout", "api:\n  timeoutMS: 0\n"},
		{"unknown format", "output:\n  format: parquet\n"},
		{"bad model url", "model:\n  url: nope\n"},
		{"bad agency", "gtfsrt:\n  agency_id: W-S-F\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err, "an explicit path must exist")
}
