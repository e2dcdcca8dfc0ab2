package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// ErrMissingDatabaseURL is returned when no database DSN is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// ErrMissingRedisURL is returned when no Redis URL is configured; the
// event cache and the run lock both need it.
var ErrMissingRedisURL = errors.New("REDIS_URL is required")

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	RedisURL       string
	Sources        []string // playlist source URLs, in order
	UserAgent      string
	Timeout        time.Duration // per-request fetch timeout
	ImportInterval time.Duration // scheduler period; 0 used with -once
	MetricsAddr    string        // e.g. ":9105"; empty disables metrics
}

// Load builds config from environment variables. If DATABASE_URL is
// not set, Load tries to load .env.local and .env from the current
// directory first. PLAYLIST_SOURCES is a comma-separated URL list; an
// empty list makes runs no-ops rather than failing.
func Load() (*Config, error) {
	if os.Getenv("DATABASE_URL") == "" {
		loadEnvFiles()
	}
	c := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		Sources:        splitSources(os.Getenv("PLAYLIST_SOURCES")),
		UserAgent:      os.Getenv("FETCHER_USER_AGENT"),
		Timeout:        30 * time.Second,
		ImportInterval: time.Hour,
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
	}
	if c.UserAgent == "" {
		c.UserAgent = "LiveCatalog/1.0"
	}
	if s := os.Getenv("FETCHER_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			c.Timeout = d
		}
	}
	if s := os.Getenv("IMPORT_INTERVAL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			c.ImportInterval = d
		}
	}
	return c, c.validate()
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.RedisURL == "" {
		return ErrMissingRedisURL
	}
	return nil
}

// splitSources splits a comma-separated URL list, trimming whitespace
// and dropping empty pieces.
func splitSources(s string) []string {
	var urls []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}
