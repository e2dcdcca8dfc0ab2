package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/livecatalog")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PLAYLIST_SOURCES", " https://a.example/one.m3u , https://b.example/two.m3u ,")
	t.Setenv("FETCHER_TIMEOUT", "10s")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Sources) != 2 || c.Sources[0] != "https://a.example/one.m3u" {
		t.Errorf("sources = %v", c.Sources)
	}
	if c.Timeout != 10*time.Second {
		t.Errorf("timeout = %v", c.Timeout)
	}
	if c.UserAgent == "" {
		t.Error("user agent default missing")
	}
}

func TestLoad_MissingRedis(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/livecatalog")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err != ErrMissingRedisURL {
		t.Errorf("err = %v, want ErrMissingRedisURL", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `database_url: postgres://localhost/livecatalog
redis_url: redis://localhost:6379/0
sources:
  - https://a.example/one.m3u
import_interval: 30m
metrics_addr: ":9105"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(c.Sources) != 1 {
		t.Errorf("sources = %v", c.Sources)
	}
	if c.ImportInterval != 30*time.Minute {
		t.Errorf("import interval = %v", c.ImportInterval)
	}
	if c.MetricsAddr != ":9105" {
		t.Errorf("metrics addr = %q", c.MetricsAddr)
	}
}

func TestLoadFromFile_MissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("redis_url: redis://localhost\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err != ErrMissingDatabaseURL {
		t.Errorf("err = %v, want ErrMissingDatabaseURL", err)
	}
}
