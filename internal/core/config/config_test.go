package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	tokenA = "0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w"
	tokenB = "fedcba9876543210fedcba9876543210:YW5vdGhlcnNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w"
)

func clearTokens(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SG_API_TOKEN", "SG_API_TOKEN_1", "SG_API_TOKEN_2", "SG_API_TOKEN_3"} {
		t.Setenv(k, "")
	}
}

func TestAPITokens(t *testing.T) {
	t.Run("single token", func(t *testing.T) {
		clearTokens(t)
		t.Setenv("SG_API_TOKEN", tokenA)

		tokens, err := APITokens()
		if err != nil {
			t.Fatalf("APITokens failed: %v", err)
		}
		if len(tokens) != 1 {
			t.Errorf("expected 1 token, got %d", len(tokens))
		}
		if _, ok := tokens["0123456789abcdef0123456789abcdef"]; !ok {
			t.Errorf("token_id not found in map")
		}
	})

	t.Run("multiple numbered tokens", func(t *testing.T) {
		clearTokens(t)
		t.Setenv("SG_API_TOKEN_1", tokenA)
		t.Setenv("SG_API_TOKEN_2", tokenB)

		tokens, err := APITokens()
		if err != nil {
			t.Fatalf("APITokens failed: %v", err)
		}
		if len(tokens) != 2 {
			t.Errorf("expected 2 tokens, got %d", len(tokens))
		}
	})

	t.Run("numbering stops at first gap", func(t *testing.T) {
		clearTokens(t)
		t.Setenv("SG_API_TOKEN_1", tokenA)
		t.Setenv("SG_API_TOKEN_3", tokenB)

		tokens, err := APITokens()
		if err != nil {
			t.Fatalf("APITokens failed: %v", err)
		}
		if len(tokens) != 1 {
			t.Errorf("expected 1 token, got %d", len(tokens))
		}
	})

	t.Run("duplicate token_id", func(t *testing.T) {
		clearTokens(t)
		t.Setenv("SG_API_TOKEN", tokenA)
		t.Setenv("SG_API_TOKEN_1", tokenA)

		if _, err := APITokens(); err == nil {
			t.Error("expected error for duplicate token_id")
		}
	})

	t.Run("none configured", func(t *testing.T) {
		clearTokens(t)
		tokens, err := APITokens()
		if err != nil {
			t.Fatalf("APITokens failed: %v", err)
		}
		if len(tokens) != 0 {
			t.Errorf("expected no tokens, got %d", len(tokens))
		}
	})
}

func TestParseAPIToken(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", tokenA, false},
		{"surrounding whitespace", "  " + tokenA + "\n", false},
		{"missing separator", "invalid_format", true},
		{"short token_id", "short:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w", true},
		{"non-hex token_id", "0123456789abcdefGHIJKLMNOPQRSTUV:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w", true},
		{"uppercase hex token_id", "0123456789ABCDEF0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w", true},
		{"bad base64", "0123456789abcdef0123456789abcdef:!!!", true},
		{"short secret", "0123456789abcdef0123456789abcdef:c2hvcnQ=", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, secret, err := ParseAPIToken(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAPIToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if id != "0123456789abcdef0123456789abcdef" {
				t.Errorf("token_id = %q", id)
			}
			if string(secret) != "testsecret1234567890abcdefghijklmnop" {
				t.Errorf("secret = %q", secret)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 50061 {
		t.Errorf("Port = %d, want 50061", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBatchSize != 500 {
		t.Errorf("MaxBatchSize = %d, want 500", cfg.Server.MaxBatchSize)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Scan.Workers)
	}
	if len(cfg.Grammar.Domains) != 0 {
		t.Errorf("Domains = %v, want none", cfg.Grammar.Domains)
	}
	if cfg.Server.Addr() != "0.0.0.0:50061" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `grammar:
  strict_collisions: true
  domains: [api, ui]
server:
  host: "127.0.0.1"
  port: 9000
  request_timeout: 5s
scan:
  workers: 8
db:
  url: "sqlite:///tmp/history.db"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Grammar.StrictCollisions {
		t.Error("StrictCollisions = false, want true")
	}
	if len(cfg.Grammar.Domains) != 2 || cfg.Grammar.Domains[0] != "api" || cfg.Grammar.Domains[1] != "ui" {
		t.Errorf("Domains = %v, want [api ui]", cfg.Grammar.Domains)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("Addr() = %q, want 127.0.0.1:9000", cfg.Server.Addr())
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.Server.RequestTimeout)
	}
	if cfg.Scan.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Scan.Workers)
	}
	if cfg.DB.URL != "sqlite:///tmp/history.db" {
		t.Errorf("DB.URL = %q", cfg.DB.URL)
	}
}

func TestLoadConfigEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("SG_SERVER_PORT", "9100")
	t.Setenv("SG_GRAMMAR_DOMAINS", "context,variable")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100 from environment", cfg.Server.Port)
	}
	if len(cfg.Grammar.Domains) != 2 || cfg.Grammar.Domains[1] != "variable" {
		t.Errorf("Domains = %v, want [context variable]", cfg.Grammar.Domains)
	}
}

func TestLoadConfigRejectsTokens(t *testing.T) {
	for _, content := range []string{
		"api_token: \"should_be_rejected\"\n",
		"server:\n  port: 9000\n  api_token: \"should_be_rejected\"\n",
	} {
		_, err := LoadConfig(writeConfig(t, content))
		if err == nil {
			t.Fatal("expected error for token in config file")
		}
		if err.Error() != "API tokens not allowed in config files (use SG_API_TOKEN environment variable)" {
			t.Errorf("wrong error message: %v", err)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero timeout", func(c *Config) { c.Server.RequestTimeout = 0 }, true},
		{"zero batch", func(c *Config) { c.Server.MaxBatchSize = 0 }, true},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
