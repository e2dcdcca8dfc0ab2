package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	DatabaseURL    string   `yaml:"database_url"`
	RedisURL       string   `yaml:"redis_url"`
	Sources        []string `yaml:"sources"`
	UserAgent      string   `yaml:"user_agent"`
	Timeout        string   `yaml:"timeout"`
	ImportInterval string   `yaml:"import_interval"`
	MetricsAddr    string   `yaml:"metrics_addr"`
}

// LoadFromFile loads config from a YAML file. database_url and
// redis_url are required.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	c := &Config{
		DatabaseURL:    f.DatabaseURL,
		RedisURL:       f.RedisURL,
		Sources:        f.Sources,
		UserAgent:      f.UserAgent,
		Timeout:        30 * time.Second,
		ImportInterval: time.Hour,
		MetricsAddr:    f.MetricsAddr,
	}
	if c.UserAgent == "" {
		c.UserAgent = "LiveCatalog/1.0"
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil {
			c.Timeout = d
		}
	}
	if f.ImportInterval != "" {
		if d, err := time.ParseDuration(f.ImportInterval); err == nil {
			c.ImportInterval = d
		}
	}
	return c, c.validate()
}
