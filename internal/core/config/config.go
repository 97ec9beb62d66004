// Package config provides configuration management for stepgrammar commands.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds settings shared by the CLI commands and the gRPC service.
type Config struct {
	Grammar GrammarConfig
	Server  ServerConfig
	Scan    ScanConfig
	DB      DBConfig
}

// GrammarConfig selects and validates the rule registry.
type GrammarConfig struct {
	StrictCollisions bool
	// Domains restricts the registry to the named rule tables; empty means all.
	Domains []string
}

// ServerConfig holds configuration for the gRPC matching service.
type ServerConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	MaxBatchSize   int
	// DataDir receives daily JSONL files of unmatched sentences; empty disables them.
	DataDir string
}

// ScanConfig holds feature file scan settings.
type ScanConfig struct {
	Workers int
}

// DBConfig holds the optional history database.
type DBConfig struct {
	URL string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           50061,
			RequestTimeout: 30 * time.Second,
			MaxBatchSize:   500,
		},
		Scan: ScanConfig{Workers: 4},
	}
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APITokens extracts service API token secrets from environment variables.
// Supports SG_API_TOKEN (single) and SG_API_TOKEN_N (rotation).
// Returns map of token_id -> decoded secret bytes.
func APITokens() (map[string][]byte, error) {
	tokens := make(map[string][]byte)

	add := func(key, val string) error {
		tokenID, decoded, err := ParseAPIToken(val)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if _, exists := tokens[tokenID]; exists {
			return fmt.Errorf("duplicate token_id '%s' found in environment variables (check SG_API_TOKEN and SG_API_TOKEN_* for conflicts)", tokenID)
		}
		tokens[tokenID] = decoded
		return nil
	}

	if val := os.Getenv("SG_API_TOKEN"); val != "" {
		if err := add("SG_API_TOKEN", val); err != nil {
			return nil, err
		}
	}

	// Numbered tokens stop at the first gap.
	for i := 1; ; i++ {
		key := fmt.Sprintf("SG_API_TOKEN_%d", i)
		val := os.Getenv(key)
		if val == "" {
			break
		}
		if err := add(key, val); err != nil {
			return nil, err
		}
	}

	return tokens, nil
}

// ParseAPIToken parses token_id:base64_secret format.
// Token ID must be 32 lowercase hex chars (UUIDv7 without hyphens).
func ParseAPIToken(envValue string) (tokenID string, secret []byte, err error) {
	parts := strings.SplitN(strings.TrimSpace(envValue), ":", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("format must be <token_id>:<base64_secret>")
	}

	tokenID = parts[0]
	if len(tokenID) != 32 {
		return "", nil, fmt.Errorf("token_id must be 32 hex chars (UUIDv7 without hyphens)")
	}
	for _, c := range tokenID {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return "", nil, fmt.Errorf("token_id must be hex chars only")
		}
	}

	secret, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 encoding: %w", err)
	}
	if len(secret) < 32 {
		return "", nil, fmt.Errorf("secret must be at least 32 bytes, got %d", len(secret))
	}

	return tokenID, secret, nil
}
