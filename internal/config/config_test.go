package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Set only required env var
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	defer os.Unsetenv("DATABASE_URL")

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
	if cfg.Media.MaxUploadSize != 5242880 {
		t.Errorf("Media.MaxUploadSize = %d, want %d", cfg.Media.MaxUploadSize, 5242880)
	}
	if cfg.Media.URLPrefix != "/media" {
		t.Errorf("Media.URLPrefix = %q, want %q", cfg.Media.URLPrefix, "/media")
	}
	if cfg.Live.SendBuffer != 64 {
		t.Errorf("Live.SendBuffer = %d, want %d", cfg.Live.SendBuffer, 64)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("MEDIA_MAX_UPLOAD_SIZE", "1048576")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("MEDIA_MAX_UPLOAD_SIZE")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Media.MaxUploadSize != 1048576 {
		t.Errorf("Media.MaxUploadSize = %d, want %d", cfg.Media.MaxUploadSize, 1048576)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// Test that DB_URL works as fallback
	os.Setenv("DB_URL", "postgres://localhost/alttest")
	defer os.Unsetenv("DB_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "postgres://localhost/alttest" {
		t.Errorf("Database.URL = %q, want %q", cfg.Database.URL, "postgres://localhost/alttest")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("DB_URL")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded without DATABASE_URL, want error")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("Load() error = %v, want mention of DATABASE_URL", err)
	}
}

func TestValidate_BadValues(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("SERVER_PORT", "70000")
	os.Setenv("MEDIA_URL_PREFIX", "media")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("MEDIA_URL_PREFIX")
	}()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded with invalid settings, want error")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("Load() error = %v, want mention of SERVER_PORT", err)
	}
	if !strings.Contains(err.Error(), "MEDIA_URL_PREFIX") {
		t.Errorf("Load() error = %v, want mention of MEDIA_URL_PREFIX", err)
	}
}
