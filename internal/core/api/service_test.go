package api

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/solatis/stepgrammar/internal/core/config"
	"github.com/solatis/stepgrammar/internal/core/db"
	"github.com/solatis/stepgrammar/internal/grammar"
	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

type fakeRecorder struct {
	runs    []db.Run
	matches []db.StepMatch
	err     error
	// block makes RecordRun wait for the call context to end.
	block bool
}

func (f *fakeRecorder) RecordRun(ctx context.Context, run db.Run) (types.RunID, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	f.runs = append(f.runs, run)
	return types.NewRunID(), nil
}

func (f *fakeRecorder) RecordMatches(ctx context.Context, runID types.RunID, matches []db.StepMatch) error {
	f.matches = append(f.matches, matches...)
	return nil
}

func newTestService(t *testing.T, recorder Recorder, dataDir string) *StepGrammarService {
	t.Helper()
	reg, err := grammar.NewRegistry(rules.Options{})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	cfg := config.Default().Server
	cfg.MaxBatchSize = 3
	cfg.DataDir = dataDir
	svc, err := NewStepGrammarService(rules.NewEngine(reg, nil), recorder, cfg, nil)
	if err != nil {
		t.Fatalf("NewStepGrammarService failed: %v", err)
	}
	return svc
}

func field(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func TestNewStepGrammarServiceNilEngine(t *testing.T) {
	if _, err := NewStepGrammarService(nil, nil, config.Default().Server, nil); err == nil {
		t.Error("expected error for nil engine")
	}
}

func TestMatch(t *testing.T) {
	svc := newTestService(t, nil, "")

	out, err := svc.Match(context.Background(), wrapperspb.String("Get database row from 'PRIMARY_DB' query 'GET_FIRST_ACTIVE'"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if got := field(out, "ruleId"); got != "db-get-row" {
		t.Errorf("ruleId = %q, want db-get-row", got)
	}
	if got := field(out, "status"); got != "matched" {
		t.Errorf("status = %q, want matched", got)
	}
	params := out.GetFields()["params"].GetStructValue().GetFields()
	if params["dbAlias"].GetStringValue() != "PRIMARY_DB" || params["dbQuery"].GetStringValue() != "GET_FIRST_ACTIVE" {
		t.Errorf("params = %v", params)
	}
	if _, ok := params["dbParams"]; ok {
		t.Error("params carries dbParams, want absent")
	}

	out, err = svc.Match(context.Background(), wrapperspb.String("Do something entirely unsupported"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if got := field(out, "status"); got != "unmatched" {
		t.Errorf("status = %q, want unmatched", got)
	}
	if _, ok := out.GetFields()["intent"]; ok {
		t.Error("unmatched result carries intent")
	}
}

func TestMatchTooLong(t *testing.T) {
	svc := newTestService(t, nil, "")
	_, err := svc.Match(context.Background(), wrapperspb.String(strings.Repeat("a", types.MaxSentenceLength+1)))
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestMatchBatch(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(t, rec, "")

	in, _ := structpb.NewList([]interface{}{
		"Get count of context 'searchResults'",
		"Do something entirely unsupported",
		"Verify the API response status is 200",
	})
	out, err := svc.MatchBatch(context.Background(), in)
	if err != nil {
		t.Fatalf("MatchBatch failed: %v", err)
	}
	if len(out.Values) != 3 {
		t.Fatalf("len = %d, want 3", len(out.Values))
	}
	want := []string{"ctx-get-count", "", "api-verify-status"}
	for i, v := range out.Values {
		if got := field(v.GetStructValue(), "ruleId"); got != want[i] {
			t.Errorf("result %d ruleId = %q, want %q", i, got, want[i])
		}
	}

	if len(rec.runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(rec.runs))
	}
	run := rec.runs[0]
	if run.Source != db.SourceServe || run.Steps != 3 || run.Matched != 2 || run.Unmatched != 1 {
		t.Errorf("run = %+v", run)
	}
	if len(rec.matches) != 3 || rec.matches[1].Status != "unmatched" {
		t.Errorf("matches = %+v", rec.matches)
	}
}

func TestMatchBatchValidation(t *testing.T) {
	svc := newTestService(t, nil, "")

	tooMany, _ := structpb.NewList([]interface{}{"a", "b", "c", "d"})
	if _, err := svc.MatchBatch(context.Background(), tooMany); status.Code(err) != codes.InvalidArgument {
		t.Errorf("oversized batch code = %v, want InvalidArgument", status.Code(err))
	}

	mixed, _ := structpb.NewList([]interface{}{"Click 'a'", 3.0})
	if _, err := svc.MatchBatch(context.Background(), mixed); status.Code(err) != codes.InvalidArgument {
		t.Errorf("non-string item code = %v, want InvalidArgument", status.Code(err))
	}

	empty, err := svc.MatchBatch(context.Background(), &structpb.ListValue{})
	if err != nil || len(empty.Values) != 0 {
		t.Errorf("empty batch = %v, %v", empty, err)
	}
}

func TestMatchBatchCancelled(t *testing.T) {
	svc := newTestService(t, nil, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in, _ := structpb.NewList([]interface{}{"Click 'a'"})
	if _, err := svc.MatchBatch(ctx, in); status.Code(err) != codes.Canceled {
		t.Errorf("code = %v, want Canceled", status.Code(err))
	}
}

func TestRecorderFailureIsUnavailable(t *testing.T) {
	svc := newTestService(t, &fakeRecorder{err: errors.New("disk full")}, "")
	_, err := svc.Match(context.Background(), wrapperspb.String("Click 'Submit'"))
	if status.Code(err) != codes.Unavailable {
		t.Errorf("code = %v, want Unavailable", status.Code(err))
	}
}

func TestSlowRecorderHitsRequestTimeout(t *testing.T) {
	svc := newTestService(t, &fakeRecorder{block: true}, "")
	svc.cfg.RequestTimeout = 20 * time.Millisecond

	_, err := svc.Match(context.Background(), wrapperspb.String("Get count of context 'r'"))
	if status.Code(err) != codes.DeadlineExceeded {
		t.Errorf("Match() code = %v, want DeadlineExceeded", status.Code(err))
	}

	in, _ := structpb.NewList([]interface{}{"Get count of context 'r'"})
	_, err = svc.MatchBatch(context.Background(), in)
	if status.Code(err) != codes.DeadlineExceeded {
		t.Errorf("MatchBatch() code = %v, want DeadlineExceeded", status.Code(err))
	}
}

func TestUnmatchedLog(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, nil, dir)

	in, _ := structpb.NewList([]interface{}{"Do nothing useful", "Click 'Submit'", "Hum a tune"})
	if _, err := svc.MatchBatch(context.Background(), in); err != nil {
		t.Fatalf("MatchBatch failed: %v", err)
	}

	name := filepath.Join(dir, "unmatched", time.Now().UTC().Format("2006-01-02.jsonl"))
	f, err := os.Open(name)
	if err != nil {
		t.Fatalf("open unmatched log: %v", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) != 2 {
		t.Fatalf("log has %d lines, want 2: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], `"sentence":"Do nothing useful"`) {
		t.Errorf("first line = %s", lines[0])
	}
}

func TestResultMapModifiersAndFaults(t *testing.T) {
	m := ResultMap(rules.Result{
		Status:   rules.StatusMatched,
		RuleID:   "ctx-verify-field",
		Sentence: "s",
		Faults:   []rules.Fault{{RuleID: "ctx-verify-field", Group: 2, Reason: "bad reference"}},
		Intent: types.StepIntent{
			Intent:    types.IntentVerifyContextField,
			Params:    types.Params{"itemIndex": int64(2)},
			Modifiers: types.Modifiers{Negated: true},
		},
	})
	if m["modifiers"].(map[string]interface{})["negated"] != true {
		t.Errorf("modifiers = %v", m["modifiers"])
	}
	if len(m["faults"].([]interface{})) != 1 {
		t.Errorf("faults = %v", m["faults"])
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct failed: %v", err)
	}
	if got := s.GetFields()["params"].GetStructValue().GetFields()["itemIndex"].GetNumberValue(); got != 2 {
		t.Errorf("itemIndex = %v, want 2", got)
	}
}

func TestResultMapKind(t *testing.T) {
	m := ResultMap(rules.Result{
		Status: rules.StatusMatched,
		RuleID: "ctx-get-count",
		Intent: types.StepIntent{RuleID: "ctx-get-count", Intent: types.IntentGetContextCount},
	})
	if m["kind"] != "context-read" {
		t.Errorf("kind = %v, want context-read", m["kind"])
	}
}
