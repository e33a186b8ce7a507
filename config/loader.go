package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvBaseURL  = "WSF_VESSELS_BASE_URL"
	EnvModelURL = "FERRY_MODEL_API_URL"
)

// DefaultPaths are searched, in order, when Load is given an empty path.
var DefaultPaths = []string{"config.yml", "./configs/config.yml"}

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	return AppConfig{
		API: APIConfig{
			BaseURL:          "https://www.wsdot.wa.gov/Ferries/API/Vessels/rest",
			AccessCodeEnv:    "WSDOT_ACCESS_CODE",
			TimeoutMS:        10000,
			HistoryTimeoutMS: 30000,
		},
		Model: ModelConfig{
			APIKeyEnv: "CONNECT_API_KEY",
			TimeoutMS: 10000,
		},
		Output: OutputConfig{Format: "json"},
		GTFSRT: GTFSRTConfig{AgencyID: "WSF"},
	}
}

// Load reads, overlays and validates the configuration. An explicit path must
// exist; with an empty path the DefaultPaths are tried and defaults are used
// when none is found.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	data, err := readConfigFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	if data != nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func readConfigFile(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return data, nil
	}
	for _, p := range DefaultPaths {
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", p, err)
		}
	}
	return nil, nil
}

func applyEnv(cfg *AppConfig) {
	if v := getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := getenv(EnvModelURL); v != "" {
		cfg.Model.URL = v
	}
}

// getenv returns a trimmed environment variable, or "" when unset.
func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
