package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/solatis/stepgrammar/internal/types"
)

// Run sources.
const (
	SourceScan  = "scan"
	SourceServe = "serve"
)

// Run summarizes one recorded scan or service batch.
type Run struct {
	ID        types.RunID `db:"run_id"`
	Source    string      `db:"source"`
	Files     int         `db:"files"`
	Steps     int         `db:"steps"`
	Matched   int         `db:"matched"`
	Unmatched int         `db:"unmatched"`
	Failed    int         `db:"failed"`
}

// StartedAt is the creation time embedded in the run id.
func (r Run) StartedAt() time.Time {
	return types.RunIDTime(r.ID)
}

// StepMatch is one matched (or unmatched) step of a run.
type StepMatch struct {
	Path     string
	Line     int
	Sentence string
	Status   string
	RuleID   types.RuleID
	Intent   types.Intent
}

// UnmatchedStep aggregates a sentence no rule claimed.
type UnmatchedStep struct {
	Sentence    string      `db:"sentence"`
	Occurrences int64       `db:"occurrences"`
	LastRunID   types.RunID `db:"last_run_id"`
}

// RuleCount is how often a rule claimed a step across all runs.
type RuleCount struct {
	RuleID  types.RuleID `db:"rule_id"`
	Intent  types.Intent `db:"intent"`
	Matches int64        `db:"matches"`
}

// History records scan results and answers coverage questions over them.
type History struct {
	db      *sqlx.DB
	queries *Queries
}

// NewHistory loads the named queries for db. Migrations must already be applied.
func NewHistory(db *sqlx.DB) (*History, error) {
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &History{db: db, queries: queries}, nil
}

// RecordRun stores run and returns its id, generating a UUIDv7 when run.ID is empty.
func (h *History) RecordRun(ctx context.Context, run Run) (types.RunID, error) {
	if run.ID == "" {
		run.ID = types.NewRunID()
	}
	_, err := h.queries.Exec(ctx, "insert-run",
		string(run.ID), run.Source, timestamp(h.db.DriverName(), run.StartedAt()),
		run.Files, run.Steps, run.Matched, run.Unmatched, run.Failed)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return run.ID, nil
}

// Run returns a recorded run by id.
func (h *History) Run(ctx context.Context, id types.RunID) (Run, error) {
	var run Run
	if err := h.queries.Get(ctx, "get-run", &run, string(id)); err != nil {
		return Run{}, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return run, nil
}

// RecordMatches stores matches for runID in one transaction.
func (h *History) RecordMatches(ctx context.Context, runID types.RunID, matches []StepMatch) error {
	tx, err := h.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range matches {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate match id: %w", err)
		}
		_, err = h.queries.ExecWith(ctx, tx, "insert-match",
			id.String(), string(runID), m.Path, m.Line, m.Sentence, m.Status, string(m.RuleID), string(m.Intent))
		if err != nil {
			return fmt.Errorf("failed to record match %s:%d: %w", m.Path, m.Line, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit matches: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (h *History) Runs(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	if err := h.queries.Select(ctx, "list-runs", &runs, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Unmatched returns the most frequent unclaimed sentences across all runs.
func (h *History) Unmatched(ctx context.Context, limit int) ([]UnmatchedStep, error) {
	var steps []UnmatchedStep
	if err := h.queries.Select(ctx, "list-unmatched", &steps, limit); err != nil {
		return nil, fmt.Errorf("failed to list unmatched steps: %w", err)
	}
	return steps, nil
}

// RuleUsage returns per-rule match counts, most used first.
func (h *History) RuleUsage(ctx context.Context) ([]RuleCount, error) {
	var counts []RuleCount
	if err := h.queries.Select(ctx, "rule-usage", &counts); err != nil {
		return nil, fmt.Errorf("failed to load rule usage: %w", err)
	}
	return counts, nil
}
