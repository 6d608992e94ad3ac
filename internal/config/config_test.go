package config

import (
	"os"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9091
  host: "127.0.0.1"

store:
  driver: redis

mock:
  latency: 0s
  catalogSize: 12

playout:
  cdnBaseURL: "https://cdn.test"

subtitles:
  allowedHosts:
    - subtitles.streamtv.example.com
    - cdn.test
`)

	// Load config
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Port != 9091 {
		t.Errorf("Expected port 9091, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Store.Driver != "redis" {
		t.Errorf("Expected store driver redis, got %s", cfg.Store.Driver)
	}

	if cfg.Mock.Latency != 0 {
		t.Errorf("Expected zero latency, got %v", cfg.Mock.Latency)
	}

	if cfg.Mock.CatalogSize != 12 {
		t.Errorf("Expected catalog size 12, got %d", cfg.Mock.CatalogSize)
	}

	if cfg.Playout.CDNBaseURL != "https://cdn.test" {
		t.Errorf("Expected CDN override, got %s", cfg.Playout.CDNBaseURL)
	}

	if len(cfg.Subtitles.AllowedHosts) != 2 || cfg.Subtitles.AllowedHosts[1] != "cdn.test" {
		t.Errorf("Expected two allowed subtitle hosts, got %v", cfg.Subtitles.AllowedHosts)
	}

	// Untouched sections keep their defaults
	if cfg.Playout.DRMBaseURL != "https://drm.streamtv.example.com" {
		t.Errorf("Expected default DRM base URL, got %s", cfg.Playout.DRMBaseURL)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	if cfg.Store.Driver != "memory" {
		t.Errorf("Expected memory store, got %s", cfg.Store.Driver)
	}
	if cfg.Mock.Latency != 300*time.Millisecond {
		t.Errorf("Expected 300ms latency, got %v", cfg.Mock.Latency)
	}
	if cfg.Subtitles.FetchTimeout != 10*time.Second {
		t.Errorf("Expected 10s fetch timeout, got %v", cfg.Subtitles.FetchTimeout)
	}
	if cfg.Mock.CatalogSize != 40 {
		t.Errorf("Expected catalog size 40, got %d", cfg.Mock.CatalogSize)
	}
	if len(cfg.Subtitles.AllowedHosts) != 0 {
		t.Errorf("Expected no subtitle host allowlist, got %v", cfg.Subtitles.AllowedHosts)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}

func TestLoadRejectsUnknownStoreDriver(t *testing.T) {
	path := writeTempConfig(t, `
store:
  driver: postgres
`)

	if _, err := Load(path); err == nil {
		t.Error("Expected error for unsupported store driver")
	}
}
