package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load reads the .env file from the project root and populates the Config struct
func Load() (*Config, error) {
	home := os.Getenv("POSTCLI_HOME")
	if home == "" {
		home, _ = os.Getwd()
	}

	// Attempt to load .env file, but don't fail if missing (environment might be set otherwise)
	_ = godotenv.Load(filepath.Join(home, ".env"))

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.setHome(home)

	return cfg, nil
}

// LoadFrom populates a Config from an explicit variable map, ignoring the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, err
	}
	cfg.setHome(vars["POSTCLI_HOME"])

	return cfg, nil
}

func (c *Config) setHome(fallback string) {
	if c.Home == "" {
		c.Home = fallback
	}
	if c.Home == "" {
		c.Home, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(c.Home); err == nil {
		c.Home = abs
	}
}
