// internal/rules/engine.go
package rules

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds MatchAll concurrency when the caller passes <= 0.
const DefaultWorkers = 4

// Engine wraps a Registry with logging for service and CLI callers.
// The registry itself never logs.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEngine creates an engine over registry. A nil logger disables logging.
func NewEngine(registry *Registry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: registry, logger: logger}
}

// Registry returns the underlying registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Match matches one sentence and logs faults and extraction failures.
func (e *Engine) Match(sentence string) Result {
	res := e.registry.Match(sentence)
	for _, f := range res.Faults {
		e.logger.Warn("malformed literal reference",
			zap.String("rule_id", string(f.RuleID)),
			zap.Int("group", f.Group),
			zap.String("reason", f.Reason),
			zap.String("sentence", sentence),
		)
	}
	switch res.Status {
	case StatusExtractionFailed:
		e.logger.Warn("extraction failed",
			zap.String("rule_id", string(res.RuleID)),
			zap.String("sentence", sentence),
			zap.Error(res.Err),
		)
	case StatusMatched:
		e.logger.Debug("step matched",
			zap.String("rule_id", string(res.RuleID)),
			zap.String("intent", string(res.Intent.Intent)),
		)
	default:
		e.logger.Debug("step unmatched", zap.String("sentence", sentence))
	}
	return res
}

// MatchAll matches sentences concurrently with at most workers goroutines.
// Results are in input order. Returns early with ctx.Err() on cancellation.
func (e *Engine) MatchAll(ctx context.Context, sentences []string, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	results := make([]Result, len(sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range sentences {
		if gctx.Err() != nil {
			break
		}
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Match(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
