package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/solatis/stepgrammar/internal/core/db"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply history database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunMigrate(cmd.Context(), cmd.OutOrStdout(), cfg.DB.URL, migrateStatus)
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "show migration status without applying")
	rootCmd.AddCommand(migrateCmd)
}

// RunMigrate applies pending migrations, or prints their status.
func RunMigrate(ctx context.Context, w io.Writer, url string, statusOnly bool) error {
	if url == "" {
		return fmt.Errorf("--db-url or db.url required")
	}
	database, err := db.Open(url)
	if err != nil {
		return err
	}
	defer database.Close()

	if statusOnly {
		statuses, err := db.MigrateStatus(ctx, database)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			if s.Applied {
				fmt.Fprintf(w, "applied  %s  %s  %dms\n", s.ID, s.AppliedAt.Format("2006-01-02 15:04:05"), s.ExecutionMs)
			} else {
				fmt.Fprintf(w, "pending  %s\n", s.ID)
			}
		}
		return nil
	}

	ran, err := db.MigrateUp(ctx, database)
	for _, id := range ran {
		fmt.Fprintf(w, "applied  %s\n", id)
	}
	if err != nil {
		return err
	}
	if len(ran) == 0 {
		fmt.Fprintln(w, "up to date")
	}
	return nil
}

// requireMigrated fails when any embedded migration is not yet applied.
func requireMigrated(ctx context.Context, database *sqlx.DB) error {
	pending, err := db.Pending(ctx, database)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	if len(pending) > 0 {
		return fmt.Errorf("migration %s not applied - run 'stepgrammar migrate' first", pending[0])
	}
	return nil
}
