package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/solatis/stepgrammar/internal/core/db"
	"github.com/solatis/stepgrammar/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs, frequent unmatched steps and rule usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DB.URL == "" {
			return fmt.Errorf("--db-url or db.url required")
		}
		database, err := db.Open(cfg.DB.URL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := requireMigrated(cmd.Context(), database); err != nil {
			return err
		}
		history, err := db.NewHistory(database)
		if err != nil {
			return err
		}
		return RunHistory(cmd.Context(), cmd.OutOrStdout(), history, historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "rows per section")
	rootCmd.AddCommand(historyCmd)
}

// RunHistory prints recent runs, the most frequent unmatched sentences and
// per-rule match counts.
func RunHistory(ctx context.Context, w io.Writer, history *db.History, limit int) error {
	runs, err := history.Runs(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Runs:")
	for _, r := range runs {
		fmt.Fprintf(w, "  %s  %s  %-5s ", r.ID, r.StartedAt().UTC().Format("2006-01-02 15:04:05"), r.Source)
		ui.SummaryLine(w, r.Steps, r.Matched, r.Unmatched, r.Failed)
	}

	unmatched, err := history.Unmatched(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Unmatched:")
	for _, u := range unmatched {
		fmt.Fprintf(w, "  %5d  %s\n", u.Occurrences, u.Sentence)
	}

	usage, err := history.RuleUsage(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Rule usage:")
	for _, u := range usage {
		fmt.Fprintf(w, "  %5d  %-28s %s\n", u.Matches, u.RuleID, u.Intent)
	}
	return nil
}
