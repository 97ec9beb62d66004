package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/stepgrammar/internal/core/api"
	"github.com/solatis/stepgrammar/internal/core/db"
	"github.com/solatis/stepgrammar/internal/feature"
	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
	"github.com/solatis/stepgrammar/internal/ui"
)

// ErrUnresolvedSteps is returned by RunScan when any step is unmatched,
// fails extraction, or a file does not parse.
var ErrUnresolvedSteps = errors.New("unresolved steps")

var (
	scanRecord  bool
	scanWorkers int
	scanVerbose bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <path...>",
	Short: "Match every step of .feature and .ft files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, engine, err := newEngine()
		if err != nil {
			return err
		}

		opts := ScanOptions{Workers: cfg.Scan.Workers, Verbose: scanVerbose}
		if cmd.Flags().Changed("workers") {
			opts.Workers = scanWorkers
		}
		if scanRecord {
			if cfg.DB.URL == "" {
				return fmt.Errorf("--record requires --db-url or db.url")
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
			opts.Recorder = history
		}

		_, err = RunScan(cmd.Context(), cmd.OutOrStdout(), engine, args, opts)
		return err
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanRecord, "record", false, "record the run in the history database")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 4, "concurrent matchers")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "print matched steps too")
	rootCmd.AddCommand(scanCmd)
}

// ScanOptions configure RunScan.
type ScanOptions struct {
	Workers  int
	Verbose  bool
	Recorder api.Recorder // nil disables history
}

// ScanSummary counts the outcome of a scan.
type ScanSummary struct {
	Files       int
	Steps       int
	Matched     int
	Unmatched   int
	Failed      int
	ParseErrors int
	RunID       types.RunID
}

type located struct {
	path string
	step feature.Step
}

// RunScan parses every feature file under paths, matches all steps
// concurrently and reports the steps no rule resolves.
func RunScan(ctx context.Context, w io.Writer, engine *rules.Engine, paths []string, opts ScanOptions) (ScanSummary, error) {
	var sum ScanSummary

	files, err := featureFiles(paths)
	if err != nil {
		return sum, err
	}
	sum.Files = len(files)

	var steps []located
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return sum, fmt.Errorf("failed to read %s: %w", path, err)
		}
		f, errs := feature.Parse(path, content)
		for _, e := range errs {
			ui.Fail(w, "%s:%d: %s", path, e.Line, e.Message)
		}
		sum.ParseErrors += len(errs)
		for _, s := range f.Steps() {
			steps = append(steps, located{path: path, step: s})
		}
	}

	sentences := make([]string, len(steps))
	for i, s := range steps {
		sentences[i] = s.step.Text
	}
	results, err := engine.MatchAll(ctx, sentences, opts.Workers)
	if err != nil {
		return sum, err
	}

	matches := make([]db.StepMatch, len(results))
	for i, res := range results {
		loc := steps[i]
		switch res.Status {
		case rules.StatusMatched:
			sum.Matched++
			if opts.Verbose {
				ui.MatchLine(w, res)
			}
		case rules.StatusExtractionFailed:
			sum.Failed++
			ui.StepLine(w, loc.path, loc.step.Line, res)
		default:
			sum.Unmatched++
			ui.StepLine(w, loc.path, loc.step.Line, res)
		}
		matches[i] = db.StepMatch{
			Path:     loc.path,
			Line:     loc.step.Line,
			Sentence: res.Sentence,
			Status:   res.Status.String(),
			RuleID:   res.RuleID,
			Intent:   res.Intent.Intent,
		}
	}
	sum.Steps = len(results)
	ui.SummaryLine(w, sum.Steps, sum.Matched, sum.Unmatched, sum.Failed)

	if opts.Recorder != nil {
		runID, err := opts.Recorder.RecordRun(ctx, db.Run{
			Source:    db.SourceScan,
			Files:     sum.Files,
			Steps:     sum.Steps,
			Matched:   sum.Matched,
			Unmatched: sum.Unmatched,
			Failed:    sum.Failed,
		})
		if err != nil {
			return sum, err
		}
		if err := opts.Recorder.RecordMatches(ctx, runID, matches); err != nil {
			return sum, err
		}
		sum.RunID = runID
		logger.Info("scan recorded", zap.String("run_id", string(runID)), zap.Int("steps", sum.Steps))
	}

	if sum.Unmatched > 0 || sum.Failed > 0 || sum.ParseErrors > 0 {
		return sum, fmt.Errorf("%w: %d unmatched, %d failed, %d parse errors",
			ErrUnresolvedSteps, sum.Unmatched, sum.Failed, sum.ParseErrors)
	}
	return sum, nil
}

// featureFiles expands directories to the .feature and .ft files below them.
// Explicit file arguments are kept regardless of extension.
func featureFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ext := filepath.Ext(path); ext == ".feature" || ext == ".ft" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
