// internal/rules/evaluate.go
package rules

import (
	"fmt"
	"strings"

	"github.com/solatis/stepgrammar/internal/types"
)

/*
 * Sentence matching.
 *
 * Match flow for one sentence:
 *   1. Reject empty and over-long input as unmatched
 *   2. Extract quoted literals, replacing them with placeholders
 *   3. Trim and collapse whitespace runs (literals are already out of the text)
 *   4. Try rules in ascending priority; the first full match claims the
 *      sentence
 *   5. Run the claiming rule's extractor; an error or panic marks the result
 *      extraction-failed without falling through to later rules
 *
 * Pure and deterministic: identical input yields an identical Result.
 */

// Status is the outcome of matching one sentence.
type Status int

const (
	StatusUnmatched Status = iota
	StatusMatched
	StatusExtractionFailed
)

var statusNames = [...]string{
	StatusUnmatched:        "unmatched",
	StatusMatched:          "matched",
	StatusExtractionFailed: "extraction-failed",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of matching one sentence. Owned by the caller.
type Result struct {
	Status     Status
	RuleID     types.RuleID     // claiming rule; empty when unmatched
	Intent     types.StepIntent // valid only when Status is StatusMatched
	Faults     []Fault
	Err        error // extractor error when Status is StatusExtractionFailed
	Sentence   string
	Normalized string
}

// Matched reports whether the sentence produced an intent.
func (r Result) Matched() bool {
	return r.Status == StatusMatched
}

// Normalize extracts literals and collapses whitespace outside them.
func Normalize(sentence string) (string, Literals) {
	text, lits := ExtractLiterals(strings.TrimSpace(sentence))
	return strings.Join(strings.Fields(text), " "), lits
}

// Match resolves sentence to a structured intent.
func (r *Registry) Match(sentence string) Result {
	res := Result{Status: StatusUnmatched, Sentence: sentence}
	if len(sentence) > types.MaxSentenceLength {
		return res
	}

	text, lits := Normalize(sentence)
	res.Normalized = text
	if text == "" || StrayPlaceholders(text, lits) {
		return res
	}

	for _, rule := range r.rules {
		idx := rule.re.FindStringSubmatchIndex(text)
		if idx == nil {
			continue
		}

		m := newMatch(rule.ID, text, idx, lits)
		extracted, err := runExtractor(rule.Extract, m)
		res.RuleID = rule.ID
		res.Faults = m.Faults()
		if err != nil {
			res.Status = StatusExtractionFailed
			res.Err = fmt.Errorf("rule %s: %w", rule.ID, err)
			return res
		}

		params := extracted.Params
		if params == nil {
			params = types.Params{}
		}
		res.Status = StatusMatched
		res.Intent = types.StepIntent{
			RuleID:        rule.ID,
			Intent:        rule.Intent,
			Category:      rule.Category,
			TargetText:    extracted.TargetText,
			Value:         extracted.Value,
			ExpectedValue: extracted.ExpectedValue,
			Params:        params,
			Modifiers:     extracted.Modifiers,
		}
		return res
	}
	return res
}

// runExtractor calls fn, converting a panic into ErrExtractorPanic.
func runExtractor(fn ExtractFunc, m *Match) (result types.ExtractionResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = types.ExtractionResult{}
			err = fmt.Errorf("%w: %v", types.ErrExtractorPanic, p)
		}
	}()
	return fn(m)
}
