package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/stepgrammar/internal/core/config"
	"github.com/solatis/stepgrammar/internal/core/logging"
	"github.com/solatis/stepgrammar/internal/grammar"
	"github.com/solatis/stepgrammar/internal/rules"
)

// Version is the release version reported by serve.
const Version = "0.1.0"

var (
	configFile string
	envFile    string
	dbURL      string
	logLevel   string
	logFormat  string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "stepgrammar",
	Short:        "Deterministic grammar for English test step sentences",
	Long:         `stepgrammar matches Given/When/Then step sentences against an ordered rule registry and extracts structured intents for test executors.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
			return err
		}
		l, err := logging.New(logLevel, logFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file with SG_* variables (ignored when absent unless set)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "history database URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads configuration and applies the persistent flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbURL != "" {
		cfg.DB.URL = dbURL
	}
	return cfg, nil
}

// newRegistry builds the registry for cfg.Grammar and logs collisions.
func newRegistry(cfg config.GrammarConfig, logger *zap.Logger) (*rules.Registry, error) {
	domains, err := grammar.ParseDomains(cfg.Domains)
	if err != nil {
		return nil, err
	}
	reg, err := grammar.NewRegistry(rules.Options{StrictCollisions: cfg.StrictCollisions}, domains...)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}
	for _, c := range reg.Collisions() {
		logger.Warn("priority collision",
			zap.Int("priority", c.Priority),
			zap.String("first", string(c.First)),
			zap.String("second", string(c.Second)),
		)
	}
	logger.Debug("registry loaded", zap.Int("rules", reg.Len()))
	return reg, nil
}

// newEngine loads config and builds an engine over the configured registry.
func newEngine() (*config.Config, *rules.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	reg, err := newRegistry(cfg.Grammar, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rules.NewEngine(reg, logger), nil
}
