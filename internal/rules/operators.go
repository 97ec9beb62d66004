// internal/rules/operators.go
package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/solatis/stepgrammar/internal/types"
)

/*
 * Comparison phrases.
 *
 * Assertion steps spell comparisons in English ("is greater than",
 * "does not contain"). The {op} pattern macro expands to an alternation of
 * every known phrase, longest first, and extractors normalize the captured
 * phrase to an Operator whose String() is the stable comparisonOp param
 * value.
 *
 * Operators:
 *   - eq/neq: equality
 *   - contains/not_contains: substring
 *   - prefix/suffix: starts with / ends with
 *   - lt/lte/gt/gte: numeric ordering
 *   - regex: pattern match
 */

// Operator is a normalized comparison.
type Operator int

const (
	OpUnspecified Operator = iota
	OpEq
	OpNeq
	OpContains
	OpNotContains
	OpPrefix
	OpSuffix
	OpLt
	OpLte
	OpGt
	OpGte
	OpRegex
)

var operatorNames = [...]string{
	OpUnspecified: "unspecified",
	OpEq:          "eq",
	OpNeq:         "neq",
	OpContains:    "contains",
	OpNotContains: "not_contains",
	OpPrefix:      "prefix",
	OpSuffix:      "suffix",
	OpLt:          "lt",
	OpLte:         "lte",
	OpGt:          "gt",
	OpGte:         "gte",
	OpRegex:       "regex",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorNames) {
		return operatorNames[OpUnspecified]
	}
	return operatorNames[op]
}

// Negate returns the complementary operator.
func (op Operator) Negate() Operator {
	switch op {
	case OpEq:
		return OpNeq
	case OpNeq:
		return OpEq
	case OpContains:
		return OpNotContains
	case OpNotContains:
		return OpContains
	case OpLt:
		return OpGte
	case OpGte:
		return OpLt
	case OpGt:
		return OpLte
	case OpLte:
		return OpGt
	default:
		return op
	}
}

// comparisonPhrases maps lowercase English phrases to operators.
var comparisonPhrases = map[string]Operator{
	"is":                          OpEq,
	"equals":                      OpEq,
	"is equal to":                 OpEq,
	"should be":                   OpEq,
	"should equal":                OpEq,
	"=":                           OpEq,
	"==":                          OpEq,
	"is not":                      OpNeq,
	"does not equal":              OpNeq,
	"is not equal to":             OpNeq,
	"should not be":               OpNeq,
	"!=":                          OpNeq,
	"contains":                    OpContains,
	"should contain":              OpContains,
	"does not contain":            OpNotContains,
	"should not contain":          OpNotContains,
	"starts with":                 OpPrefix,
	"ends with":                   OpSuffix,
	"is less than":                OpLt,
	"<":                           OpLt,
	"is less than or equal to":    OpLte,
	"is at most":                  OpLte,
	"<=":                          OpLte,
	"is greater than":             OpGt,
	">":                           OpGt,
	"is greater than or equal to": OpGte,
	"is at least":                 OpGte,
	">=":                          OpGte,
	"matches":                     OpRegex,
}

// opPattern is the capturing alternation the {op} macro expands to.
var opPattern = buildOpPattern()

func buildOpPattern() string {
	phrases := make([]string, 0, len(comparisonPhrases))
	for p := range comparisonPhrases {
		phrases = append(phrases, p)
	}
	// Longest first so "is not equal to" wins over "is not" and "is".
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return "(" + strings.Join(quoted, "|") + ")"
}

var spaceRun = regexp.MustCompile(`\s+`)

// ParseComparison normalizes an English comparison phrase.
// Returns ErrUnknownOperator for phrases outside the vocabulary.
func ParseComparison(phrase string) (Operator, error) {
	key := spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(phrase)), " ")
	op, ok := comparisonPhrases[key]
	if !ok {
		return OpUnspecified, types.ErrUnknownOperator
	}
	return op, nil
}

// ParseOperator resolves a normalized operator name as produced by String.
func ParseOperator(name string) (Operator, error) {
	for op, n := range operatorNames {
		if op != int(OpUnspecified) && n == name {
			return Operator(op), nil
		}
	}
	return OpUnspecified, types.ErrUnknownOperator
}

// ComparisonPhrases returns the known phrases sorted alphabetically.
func ComparisonPhrases() []string {
	phrases := make([]string, 0, len(comparisonPhrases))
	for p := range comparisonPhrases {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	return phrases
}
