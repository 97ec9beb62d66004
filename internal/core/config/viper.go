package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence; commands
// apply flag overrides after loading.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("grammar.strict_collisions", def.Grammar.StrictCollisions)
	v.SetDefault("grammar.domains", []string{})
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.request_timeout", def.Server.RequestTimeout.String())
	v.SetDefault("server.max_batch_size", def.Server.MaxBatchSize)
	v.SetDefault("server.data_dir", "")
	v.SetDefault("scan.workers", def.Scan.Workers)
	v.SetDefault("db.url", "")

	// Bind environment variables with SG_ prefix
	v.SetEnvPrefix("SG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Tokens are environment-only
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		Grammar: GrammarConfig{
			StrictCollisions: v.GetBool("grammar.strict_collisions"),
			Domains:          splitList(v.GetStringSlice("grammar.domains")),
		},
		Server: ServerConfig{
			Host:           v.GetString("server.host"),
			Port:           v.GetInt("server.port"),
			RequestTimeout: v.GetDuration("server.request_timeout"),
			MaxBatchSize:   v.GetInt("server.max_batch_size"),
			DataDir:        v.GetString("server.data_dir"),
		},
		Scan: ScanConfig{Workers: v.GetInt("scan.workers")},
		DB:   DBConfig{URL: v.GetString("db.url")},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks port range and positive values for timeout, batch size and workers.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be positive, got %d", cfg.Server.MaxBatchSize)
	}
	if cfg.Scan.Workers <= 0 {
		return fmt.Errorf("scan workers must be positive, got %d", cfg.Scan.Workers)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only API tokens.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("api_token") || v.InConfig("server.api_token") {
		return fmt.Errorf("API tokens not allowed in config files (use SG_API_TOKEN environment variable)")
	}
	return nil
}

// splitList flattens comma separated entries; environment values arrive as
// one "a,b" string.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
