package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// EnvConfig holds an inline JSON configuration document.
const EnvConfig = "REGISTRY_CONFIG"

type Duration struct {
	time.Duration
}

var ErrDuration = errors.New("invalid duration")

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("could not parse duration: %w", err)
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)

		return nil
	case string:
		var err error

		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("could not parse duration: %w", err)
		}

		return nil
	default:
		return ErrDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

type Config struct {
	Address                string   `json:"address"`
	LogLevel               string   `json:"log_level"`
	StoreURL               string   `json:"store_url"`
	ShutdownTimeout        Duration `json:"shutdown_timeout"`
	SlowQueryThreshold     Duration `json:"slow_query_threshold"`
	Version                string   `json:"version"`
	AllowedRepositoryHosts []string `json:"allowed_repository_hosts"`
	MaxDescriptionLength   int      `json:"max_description_length"`
	DefaultPageSize        int      `json:"default_page_size"`
	MaxPageSize            int      `json:"max_page_size"`
}

//nolint:mnd
func Default() Config {
	return Config{
		Address:                "localhost:8080",
		LogLevel:               "info",
		StoreURL:               "sqlite://registry.db",
		ShutdownTimeout:        Duration{Duration: 10 * time.Second},
		SlowQueryThreshold:     Duration{Duration: 200 * time.Millisecond},
		Version:                "dev",
		AllowedRepositoryHosts: []string{"github.com"},
		MaxDescriptionLength:   500,
		DefaultPageSize:        10,
		MaxPageSize:            100,
	}
}

// Load builds the configuration from the defaults, then the JSON file at path
// (when not empty), then the REGISTRY_CONFIG environment variable.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}

		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	if inline, ok := os.LookupEnv(EnvConfig); ok && inline != "" {
		if err := json.Unmarshal([]byte(inline), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", EnvConfig, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.StoreURL == "" {
		errs = append(errs, errors.New("store_url must be set"))
	}

	if len(c.AllowedRepositoryHosts) == 0 {
		errs = append(errs, errors.New("allowed_repository_hosts must not be empty"))
	}

	if c.MaxDescriptionLength <= 0 {
		errs = append(errs, fmt.Errorf("max_description_length must be positive, got %d", c.MaxDescriptionLength))
	}

	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		errs = append(errs, fmt.Errorf(
			"page sizes must satisfy 0 < default_page_size (%d) <= max_page_size (%d)",
			c.DefaultPageSize, c.MaxPageSize,
		))
	}

	return errors.Join(errs...)
}
