package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sg.env")
	content := "SG_DB_URL=sqlite://from-file.db\nSG_SERVER_PORT=6000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SG_DB_URL", "sqlite://from-env.db")
	// Registered so the value loaded from the file is unset after the test.
	t.Setenv("SG_SERVER_PORT", "")
	os.Unsetenv("SG_SERVER_PORT")

	if err := LoadEnvFile(path, true); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("SG_DB_URL"); got != "sqlite://from-env.db" {
		t.Errorf("SG_DB_URL = %q, want existing environment value", got)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 6000 {
		t.Errorf("Server.Port = %d, want 6000 from env file", cfg.Server.Port)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.env")

	if err := LoadEnvFile(missing, false); err != nil {
		t.Errorf("LoadEnvFile(optional) error = %v, want nil", err)
	}
	if err := LoadEnvFile(missing, true); err == nil {
		t.Error("LoadEnvFile(required) error = nil, want error")
	}
	if err := LoadEnvFile("", true); err != nil {
		t.Errorf("LoadEnvFile(\"\") error = %v, want nil", err)
	}
}
