// Package config loads the service configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Name          string `yaml:"name"`
	Address       string `yaml:"address"`
	AuthSecretEnv string `yaml:"auth_secret_env"` // env var holding the JWT secret; empty disables auth
	RateLimit     int    `yaml:"rate_limit"`      // requests per minute per client, 0 disables
}

type Stemmer struct {
	ExceptionsPath string `yaml:"exceptions_path"` // overrides the embedded exception table
}

type Corpus struct {
	DropStopwords bool `yaml:"drop_stopwords"`
}

type Store struct {
	DSN string `yaml:"dsn"` // SQLite DSN; empty disables persistence
}

type Config struct {
	Server  Server  `yaml:"server"`
	Stemmer Stemmer `yaml:"stemmer"`
	Corpus  Corpus  `yaml:"corpus"`
	Store   Store   `yaml:"store"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: Server{
			Name:    "melayu",
			Address: ":8080",
		},
		Corpus: Corpus{DropStopwords: true},
	}
}

// Load reads the YAML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	return cfg, nil
}

// AuthSecret resolves the JWT secret from the configured environment
// variable. Empty means auth is disabled.
func (c *Config) AuthSecret() []byte {
	if c.Server.AuthSecretEnv == "" {
		return nil
	}
	if v := os.Getenv(c.Server.AuthSecretEnv); v != "" {
		return []byte(v)
	}
	return nil
}
