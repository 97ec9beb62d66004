// Package api provides the gRPC StepGrammar service implementation.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/solatis/stepgrammar/internal/core/auth"
	"github.com/solatis/stepgrammar/internal/core/config"
	"github.com/solatis/stepgrammar/internal/core/db"
	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// Recorder persists service match history. Implemented by *db.History.
type Recorder interface {
	RecordRun(ctx context.Context, run db.Run) (types.RunID, error)
	RecordMatches(ctx context.Context, runID types.RunID, matches []db.StepMatch) error
}

// StepGrammarService implements StepGrammarServer.
// Thin orchestration layer delegating to the rules engine and history.
type StepGrammarService struct {
	engine       *rules.Engine
	recorder     Recorder
	cfg          config.ServerConfig
	logger       *zap.Logger
	jsonlMutexes map[string]*sync.Mutex
	mutexLock    sync.Mutex
}

// NewStepGrammarService creates service instance with dependencies.
// recorder may be nil to disable history. A non-empty cfg.DataDir enables
// daily JSONL logs of unmatched sentences and is created if missing.
func NewStepGrammarService(engine *rules.Engine, recorder Recorder, cfg config.ServerConfig, logger *zap.Logger) (*StepGrammarService, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.DataDir != "" {
		if err := os.MkdirAll(filepath.Join(cfg.DataDir, "unmatched"), 0755); err != nil {
			return nil, err
		}
	}

	return &StepGrammarService{
		engine:       engine,
		recorder:     recorder,
		cfg:          cfg,
		logger:       logger,
		jsonlMutexes: make(map[string]*sync.Mutex),
	}, nil
}

// Match matches one sentence.
func (s *StepGrammarService) Match(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	sentence := req.GetValue()
	if len(sentence) > types.MaxSentenceLength {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("sentence exceeds maximum of %d bytes", types.MaxSentenceLength))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res := s.engine.Match(sentence)
	if err := s.record(ctx, []rules.Result{res}); err != nil {
		return nil, err
	}

	out, err := ResultStruct(res)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// MatchBatch matches every string in req, preserving order.
func (s *StepGrammarService) MatchBatch(ctx context.Context, req *structpb.ListValue) (*structpb.ListValue, error) {
	// Reject batches exceeding max size
	if len(req.GetValues()) > s.cfg.MaxBatchSize {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("batch size exceeds maximum of %d sentences", s.cfg.MaxBatchSize))
	}

	sentences := make([]string, len(req.GetValues()))
	for i, v := range req.GetValues() {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("item %d is not a string", i))
		}
		if len(sv.StringValue) > types.MaxSentenceLength {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("item %d exceeds maximum of %d bytes", i, types.MaxSentenceLength))
		}
		sentences[i] = sv.StringValue
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	results, err := s.engine.MatchAll(ctx, sentences, 0)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, status.Error(codes.DeadlineExceeded, "batch matching timed out")
		}
		return nil, status.FromContextError(err).Err()
	}

	if err := s.record(ctx, results); err != nil {
		return nil, err
	}

	out := &structpb.ListValue{Values: make([]*structpb.Value, len(results))}
	for i, res := range results {
		st, err := ResultStruct(res)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		out.Values[i] = structpb.NewStructValue(st)
	}
	return out, nil
}

// withTimeout bounds a call, history writes included, by the configured
// request timeout.
func (s *StepGrammarService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.RequestTimeout)
}

// record writes history and the unmatched log. History failures are returned
// as UNAVAILABLE; the JSONL log is best-effort.
func (s *StepGrammarService) record(ctx context.Context, results []rules.Result) error {
	var unmatched []string
	for _, res := range results {
		if res.Status == rules.StatusUnmatched {
			unmatched = append(unmatched, res.Sentence)
		}
	}
	if len(unmatched) > 0 && s.cfg.DataDir != "" {
		s.appendUnmatched(auth.TokenIDFromContext(ctx), unmatched)
	}

	if s.recorder == nil {
		return nil
	}

	run, matches := summarize(results)
	run.Source = db.SourceServe
	runID, err := s.recorder.RecordRun(ctx, run)
	if err != nil {
		s.logger.Error("failed to record run", zap.Error(err))
		return recordError(ctx)
	}
	if err := s.recorder.RecordMatches(ctx, runID, matches); err != nil {
		s.logger.Error("failed to record matches", zap.String("run_id", string(runID)), zap.Error(err))
		return recordError(ctx)
	}
	return nil
}

// recordError is DEADLINE_EXCEEDED or CANCELED when the call context ended
// during the write, UNAVAILABLE otherwise.
func recordError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Unavailable, "history database unavailable")
}

// summarize counts results by status and converts them to history rows.
func summarize(results []rules.Result) (db.Run, []db.StepMatch) {
	run := db.Run{Steps: len(results)}
	matches := make([]db.StepMatch, len(results))
	for i, res := range results {
		switch res.Status {
		case rules.StatusMatched:
			run.Matched++
		case rules.StatusExtractionFailed:
			run.Failed++
		default:
			run.Unmatched++
		}
		matches[i] = db.StepMatch{
			Sentence: res.Sentence,
			Status:   res.Status.String(),
			RuleID:   res.RuleID,
			Intent:   res.Intent.Intent,
		}
	}
	return run, matches
}

type unmatchedEntry struct {
	Timestamp string `json:"timestamp"`
	TokenID   string `json:"token_id,omitempty"`
	Sentence  string `json:"sentence"`
}

// appendUnmatched writes one JSONL line per sentence to the daily file.
func (s *StepGrammarService) appendUnmatched(tokenID string, sentences []string) {
	now := time.Now().UTC()
	filename := filepath.Join(s.cfg.DataDir, "unmatched", now.Format("2006-01-02.jsonl"))
	mu := s.getJSONLMutex(filename)
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		s.logger.Warn("failed to open unmatched log", zap.String("file", filename), zap.Error(err))
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, sentence := range sentences {
		entry := unmatchedEntry{Timestamp: now.Format(time.RFC3339), TokenID: tokenID, Sentence: sentence}
		if err := enc.Encode(entry); err != nil {
			s.logger.Warn("failed to write unmatched log", zap.String("file", filename), zap.Error(err))
			return
		}
	}
}

// getJSONLMutex returns mutex for given filename, creating if not exists.
// Per-file mutex protects concurrent writes to same daily JSONL file.
func (s *StepGrammarService) getJSONLMutex(filename string) *sync.Mutex {
	s.mutexLock.Lock()
	defer s.mutexLock.Unlock()

	if _, ok := s.jsonlMutexes[filename]; !ok {
		s.jsonlMutexes[filename] = &sync.Mutex{}
	}
	return s.jsonlMutexes[filename]
}
