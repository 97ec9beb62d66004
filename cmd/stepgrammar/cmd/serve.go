package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/stepgrammar/internal/core/api"
	"github.com/solatis/stepgrammar/internal/core/auth"
	"github.com/solatis/stepgrammar/internal/core/config"
	"github.com/solatis/stepgrammar/internal/core/db"
	"github.com/solatis/stepgrammar/internal/core/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC matching service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	serveCmd.Flags().Int("port", 50061, "gRPC server port")
	serveCmd.Flags().String("data-dir", "", "directory for daily unmatched-sentence logs")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, engine, err := newEngine()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Server.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	var recorder api.Recorder
	if cfg.DB.URL != "" {
		database, err := db.Open(cfg.DB.URL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		if err := requireMigrated(ctx, database); err != nil {
			return err
		}
		history, err := db.NewHistory(database)
		if err != nil {
			return fmt.Errorf("failed to load queries: %w", err)
		}
		recorder = history
	}

	tokens, err := config.APITokens()
	if err != nil {
		return fmt.Errorf("failed to load API tokens: %w", err)
	}
	var authenticator *auth.Authenticator
	if len(tokens) > 0 {
		authenticator = auth.NewAuthenticator(tokens)
	} else {
		logger.Warn("no API tokens configured (set SG_API_TOKEN); serving without authentication")
	}

	service, err := api.NewStepGrammarService(engine, recorder, cfg.Server, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(cfg.Server, service, authenticator, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting stepgrammar service",
		zap.String("version", Version),
		zap.String("addr", cfg.Server.Addr()),
		zap.Int("rules", engine.Registry().Len()),
		zap.Bool("auth", authenticator != nil),
		zap.Bool("history", recorder != nil),
	)
	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logger.Info("shutting down gracefully")
		return grpcServer.Shutdown(ctx)
	}
}
