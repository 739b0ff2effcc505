package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Set only required env var
	os.Setenv("STORE_BASE_URL", "https://store.example.com")
	defer os.Unsetenv("STORE_BASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Store.Timeout != 30*time.Second {
		t.Errorf("Store.Timeout = %v, want %v", cfg.Store.Timeout, 30*time.Second)
	}
	if cfg.Store.RetryMax != 3 {
		t.Errorf("Store.RetryMax = %d, want %d", cfg.Store.RetryMax, 3)
	}
	if cfg.Import.MaxFileSize != 10485760 {
		t.Errorf("Import.MaxFileSize = %d, want %d", cfg.Import.MaxFileSize, 10485760)
	}
	if cfg.Import.PreviewTTL != 30*time.Minute {
		t.Errorf("Import.PreviewTTL = %v, want %v", cfg.Import.PreviewTTL, 30*time.Minute)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("STORE_BASE_URL", "https://store.example.com")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("IMPORT_PREVIEW_TTL", "5m")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("STORE_BASE_URL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("IMPORT_PREVIEW_TTL")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Import.PreviewTTL != 5*time.Minute {
		t.Errorf("Import.PreviewTTL = %v, want %v", cfg.Import.PreviewTTL, 5*time.Minute)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("STORE_BASE_URL")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for missing STORE_BASE_URL")
	}
	if !strings.Contains(err.Error(), "STORE_BASE_URL") {
		t.Errorf("error = %v, want mention of STORE_BASE_URL", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"bad port", "SERVER_PORT", "not-a-port"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad duration", "STORE_TIMEOUT", "eventually"},
		{"non-http url", "STORE_BASE_URL", "ftp://store.example.com"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("STORE_BASE_URL", "https://store.example.com")
			os.Setenv(tt.envVar, tt.value)
			defer func() {
				os.Unsetenv("STORE_BASE_URL")
				os.Unsetenv(tt.envVar)
			}()

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%q", tt.envVar, tt.value)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := c.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:9000")
	}
}
