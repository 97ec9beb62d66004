package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/stepgrammar/internal/types"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := Open("sqlite://" + filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func migratedHistory(t *testing.T) *History {
	t.Helper()
	database := openTestDB(t)
	if _, err := MigrateUp(context.Background(), database); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	h, err := NewHistory(database)
	if err != nil {
		t.Fatalf("NewHistory failed: %v", err)
	}
	return h
}

func TestOpenUnsupportedScheme(t *testing.T) {
	for _, u := range []string{"mysql://localhost/db", "sqlite://", "::not a url"} {
		if _, err := Open(u); err == nil {
			t.Errorf("Open(%q) expected error", u)
		}
	}
}

func TestDataSourceName(t *testing.T) {
	tests := []struct {
		url        string
		wantDriver string
		wantDSN    string
	}{
		{"sqlite://history.db", "sqlite3", "file:history.db?_busy_timeout=5000&_foreign_keys=1"},
		{"sqlite:///var/lib/sg/h.db", "sqlite3", "file:/var/lib/sg/h.db?_busy_timeout=5000&_foreign_keys=1"},
		{"sqlite://h.db?_busy_timeout=100", "sqlite3", "file:h.db?_busy_timeout=100&_foreign_keys=1"},
		{"postgres://u:p@localhost:5432/sg", "postgres", "postgres://u:p@localhost:5432/sg"},
		{"postgresql://localhost/sg", "postgres", "postgresql://localhost/sg"},
	}
	for _, tt := range tests {
		driver, dsn, err := dataSourceName(tt.url)
		if err != nil {
			t.Errorf("dataSourceName(%q) error = %v", tt.url, err)
			continue
		}
		if driver != tt.wantDriver || dsn != tt.wantDSN {
			t.Errorf("dataSourceName(%q) = %q, %q, want %q, %q", tt.url, driver, dsn, tt.wantDriver, tt.wantDSN)
		}
	}
}

func TestMatchesCascadeWithRun(t *testing.T) {
	ctx := context.Background()
	h := migratedHistory(t)
	runID, err := h.RecordRun(ctx, Run{Source: SourceScan, Steps: 1, Unmatched: 1})
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := h.RecordMatches(ctx, runID, []StepMatch{{Sentence: "Hum a little tune", Status: "unmatched"}}); err != nil {
		t.Fatalf("RecordMatches failed: %v", err)
	}
	if _, err := h.db.ExecContext(ctx, "DELETE FROM scan_runs WHERE run_id = ?", string(runID)); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := h.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM step_matches"); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("step_matches after run delete = %d, want 0", n)
	}
}

func TestMigrateUpIdempotent(t *testing.T) {
	database := openTestDB(t)

	ran, err := MigrateUp(context.Background(), database)
	if err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if len(ran) != 1 || ran[0] != "001_initial_schema.sql" {
		t.Errorf("first MigrateUp ran %v, want [001_initial_schema.sql]", ran)
	}

	ran, err = MigrateUp(context.Background(), database)
	if err != nil {
		t.Fatalf("second MigrateUp failed: %v", err)
	}
	if len(ran) != 0 {
		t.Errorf("second MigrateUp ran %v, want none", ran)
	}
}

func TestMigrateStatus(t *testing.T) {
	database := openTestDB(t)

	statuses, err := MigrateStatus(context.Background(), database)
	if err != nil {
		t.Fatalf("MigrateStatus failed: %v", err)
	}
	if len(statuses) != 1 || statuses[0].Applied {
		t.Fatalf("pending statuses = %+v", statuses)
	}

	if _, err := MigrateUp(context.Background(), database); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	statuses, err = MigrateStatus(context.Background(), database)
	if err != nil {
		t.Fatalf("MigrateStatus failed: %v", err)
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || statuses[0].AppliedAt.IsZero() {
		t.Errorf("applied status = %+v", statuses[0])
	}
}

func TestPending(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	pending, err := Pending(ctx, database)
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0] != "001_initial_schema.sql" {
		t.Errorf("Pending() = %v, want [001_initial_schema.sql]", pending)
	}

	if _, err := MigrateUp(ctx, database); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if pending, err = Pending(ctx, database); err != nil || len(pending) != 0 {
		t.Errorf("Pending() after migrate = %v, %v; want none", pending, err)
	}
}

func TestLoadMigrationsOrdered(t *testing.T) {
	migrations, err := driverMigrations("sqlite3")
	if err != nil {
		t.Fatalf("driverMigrations failed: %v", err)
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].ID >= migrations[i].ID {
			t.Errorf("migrations out of order: %s before %s", migrations[i-1].ID, migrations[i].ID)
		}
	}
	if len(migrations) == 0 || len(migrations[0].Checksum) != 64 {
		t.Errorf("migrations = %+v, want hex sha256 checksums", migrations)
	}
	if _, err := driverMigrations("mysql"); err == nil {
		t.Error("driverMigrations(mysql) error = nil, want error")
	}
}

func TestChecksumMismatch(t *testing.T) {
	database := openTestDB(t)
	if _, err := MigrateUp(context.Background(), database); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if _, err := database.Exec("UPDATE migrations SET checksum = 'tampered'"); err != nil {
		t.Fatal(err)
	}
	_, err := MigrateUp(context.Background(), database)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("MigrateUp error = %v, want checksum mismatch", err)
	}
}

func TestSplitStatements(t *testing.T) {
	sql := "-- header; with semicolon\nCREATE TABLE a (x INT);\n\n  -- indented comment\nCREATE INDEX i ON a(x);\n"
	got := splitStatements(sql)
	if len(got) != 2 {
		t.Fatalf("splitStatements() = %q, want 2 statements", got)
	}
	if got[0] != "CREATE TABLE a (x INT)" {
		t.Errorf("first statement = %q", got[0])
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := migratedHistory(t)

	runID, err := h.RecordRun(ctx, Run{Source: SourceScan, Files: 1, Steps: 3, Matched: 2, Unmatched: 1})
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if _, err := types.ParseRunID(string(runID)); err != nil {
		t.Errorf("RecordRun id %q is not a UUID: %v", runID, err)
	}

	err = h.RecordMatches(ctx, runID, []StepMatch{
		{Path: "a.feature", Line: 3, Sentence: "Click 'Submit'", Status: "matched", RuleID: "ui-click", Intent: "click"},
		{Path: "a.feature", Line: 4, Sentence: "Click 'Cancel'", Status: "matched", RuleID: "ui-click", Intent: "click"},
		{Path: "a.feature", Line: 5, Sentence: "Do something odd", Status: "unmatched"},
	})
	if err != nil {
		t.Fatalf("RecordMatches failed: %v", err)
	}

	second, err := h.RecordRun(ctx, Run{Source: SourceServe, Steps: 1, Unmatched: 1})
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := h.RecordMatches(ctx, second, []StepMatch{{Sentence: "Do something odd", Status: "unmatched"}}); err != nil {
		t.Fatalf("RecordMatches failed: %v", err)
	}

	run, err := h.Run(ctx, runID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.Steps != 3 || run.Matched != 2 || run.Source != SourceScan {
		t.Errorf("Run() = %+v", run)
	}
	if run.StartedAt().IsZero() {
		t.Error("StartedAt() is zero")
	}

	runs, err := h.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second {
		t.Errorf("Runs() = %+v, want newest first", runs)
	}

	unmatched, err := h.Unmatched(ctx, 10)
	if err != nil {
		t.Fatalf("Unmatched failed: %v", err)
	}
	if len(unmatched) != 1 {
		t.Fatalf("Unmatched() = %+v, want 1 entry", unmatched)
	}
	if unmatched[0].Sentence != "Do something odd" || unmatched[0].Occurrences != 2 || unmatched[0].LastRunID != second {
		t.Errorf("Unmatched()[0] = %+v", unmatched[0])
	}

	usage, err := h.RuleUsage(ctx)
	if err != nil {
		t.Fatalf("RuleUsage failed: %v", err)
	}
	if len(usage) != 1 || usage[0].RuleID != "ui-click" || usage[0].Matches != 2 {
		t.Errorf("RuleUsage() = %+v", usage)
	}
}

func TestQueryNotFound(t *testing.T) {
	h := migratedHistory(t)
	if _, err := h.queries.Exec(context.Background(), "no-such-query"); err == nil {
		t.Error("expected error for unknown query")
	}
}
