// Package types provides domain models shared across stepgrammar components.
//
// Zero-dependency design: types.go, intents.go, params.go and errors.go use
// only the standard library so rule tables and executors can import them
// without pulling in the engine. ID utilities in ids.go import uuid but are
// isolated for the persistence layer.
//
// Separation from the engine: compiled rules and match state live in
// internal/rules. This package holds the values that cross the boundary to
// downstream executors.
package types

import "encoding/json"

// Category is the semantic role of a grammar rule. Informational only to the
// matcher.
type Category string

const (
	CategoryAction    Category = "action"
	CategoryQuery     Category = "query"
	CategoryAssertion Category = "assertion"
)

// Valid reports whether c is one of the closed set of categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAction, CategoryQuery, CategoryAssertion:
		return true
	default:
		return false
	}
}

// RuleID is the unique stable identifier of a grammar rule (e.g. "db-get-row").
type RuleID string

// Modifiers carry sentence-level qualifiers that apply to the whole intent.
type Modifiers struct {
	Negated    bool `json:"negated,omitempty"`
	IgnoreCase bool `json:"ignoreCase,omitempty"`
	Partial    bool `json:"partial,omitempty"`
}

// IsZero reports whether no modifier is set.
func (m Modifiers) IsZero() bool {
	return !m.Negated && !m.IgnoreCase && !m.Partial
}

// ExtractionResult is produced by a rule's extractor on a successful match.
// Value and ExpectedValue are empty when the rule does not carry them.
type ExtractionResult struct {
	TargetText    string    `json:"targetText"`
	Value         string    `json:"value,omitempty"`
	ExpectedValue string    `json:"expectedValue,omitempty"`
	Params        Params    `json:"params"`
	Modifiers     Modifiers `json:"modifiers,omitempty"`
}

// StepIntent is the structured intent handed to downstream executors.
// Owned by the caller once returned.
type StepIntent struct {
	RuleID        RuleID    `json:"ruleId"`
	Intent        Intent    `json:"intent"`
	Category      Category  `json:"category"`
	TargetText    string    `json:"targetText"`
	Value         string    `json:"value,omitempty"`
	ExpectedValue string    `json:"expectedValue,omitempty"`
	Params        Params    `json:"params"`
	Modifiers     Modifiers `json:"modifiers,omitempty"`
}

// MarshalJSON implements json.Marshaler.
// Nil params serialize as an empty object so executors never see null.
func (s StepIntent) MarshalJSON() ([]byte, error) {
	type plain StepIntent
	if s.Params == nil {
		s.Params = Params{}
	}
	return json.Marshal(plain(s))
}
