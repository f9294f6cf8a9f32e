package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "patchrun.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Credential.File != "launcher.dat" {
		t.Fatalf("credential file = %q", cfg.Credential.File)
	}
	if cfg.Version != 1 {
		t.Fatalf("version = %d", cfg.Version)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patchrun.yaml")
	data := `version: 1
app:
  display_name: Demo Launcher
api:
  base_url: https://patch.example.net
  test_urls:
    - https://status.example.net
credential:
  file: demo.dat
  json_format: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.DisplayName != "Demo Launcher" {
		t.Fatalf("display name = %q", cfg.App.DisplayName)
	}
	if cfg.API.BaseURL != "https://patch.example.net" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
	if len(cfg.API.TestURLs) != 1 || cfg.API.TestURLs[0] != "https://status.example.net" {
		t.Fatalf("test urls = %v", cfg.API.TestURLs)
	}
	if cfg.Credential.File != "demo.dat" || !cfg.Credential.JSONFormat {
		t.Fatalf("credential = %+v", cfg.Credential)
	}
}

func TestLoadRejectsBadVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patchrun.yaml")
	if err := os.WriteFile(path, []byte("version: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patchrun.yaml")
	if err := os.WriteFile(path, []byte("version: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
