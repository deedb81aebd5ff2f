package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		// Path selects the embedded SQLite database; URL switches the
		// route cache to a shared Postgres when set.
		Path string `yaml:"path"`
		URL  string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		// Address enables the Redis route cache in place of SQL.
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	ORS struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"ors"`

	Google struct {
		CredentialsPath string `yaml:"credentials_path"`
	} `yaml:"google"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
	} `yaml:"monitoring"`

	SeedPath string `yaml:"seed_path"`
}

// Load reads the YAML config, expanding ${ENV_VAR} placeholders.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/dispatch.db"
	}
	if cfg.SeedPath == "" {
		cfg.SeedPath = "data/seeds/day.json"
	}

	return &cfg, nil
}

// Get returns an environment variable or a fallback.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
