package config

import (
	"os"
	"testing"
	"time"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Model != "gemini-1.5-flash" {
		t.Fatalf("AI.Model = %q, want gemini-1.5-flash", cfg.AI.Model)
	}
	if cfg.AI.KeyPrefix != "AIza" {
		t.Fatalf("AI.KeyPrefix = %q, want AIza", cfg.AI.KeyPrefix)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
	if cfg.DB.MaxOpenConns != 20 {
		t.Fatalf("DB.MaxOpenConns = %d, want 20", cfg.DB.MaxOpenConns)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "AIzaTestKey")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "unibites_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "AIzaTestKey" {
		t.Fatalf("AI.APIKey = %q, want AIzaTestKey", cfg.AI.APIKey)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.DB.DBName != "unibites_test" {
		t.Fatalf("DB.DBName = %q, want unibites_test", cfg.DB.DBName)
	}
}

func TestLocation_FallsBackOnUnknownZone(t *testing.T) {
	cfg := &Config{}
	cfg.Budget.Timezone = "Not/AZone"
	if got := cfg.Location(); got != time.Local {
		t.Fatalf("Location() = %v, want time.Local", got)
	}
}
