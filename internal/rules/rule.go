// internal/rules/rule.go
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/stepgrammar/internal/types"
)

// ExtractFunc turns a successful pattern match into structured intent data.
// Must be pure: same Match, same result. A returned error marks the sentence
// extraction-failed.
type ExtractFunc func(m *Match) (types.ExtractionResult, error)

// Rule is a declarative grammar rule as authored in a rule table.
type Rule struct {
	ID       types.RuleID
	Pattern  string // anchored; {q} is a quoted literal, {op} a comparison phrase
	Category types.Category
	Intent   types.Intent
	Priority int // lower is tried first
	Extract  ExtractFunc
	Examples []string
}

// Fault records a malformed literal reference resolved during extraction.
// The value degrades to "" and the match still succeeds.
type Fault struct {
	RuleID types.RuleID `json:"ruleId"`
	Group  int          `json:"group"`
	Reason string       `json:"reason"`
}

func (f Fault) String() string {
	return fmt.Sprintf("rule %s group %d: %s", f.RuleID, f.Group, f.Reason)
}

// Match exposes the capture groups and literals of one successful pattern
// match to an extractor. Lifetime is one Registry.Match call.
type Match struct {
	ruleID types.RuleID
	text   string
	idx    []int
	lits   Literals
	faults []Fault
}

func newMatch(ruleID types.RuleID, text string, idx []int, lits Literals) *Match {
	return &Match{ruleID: ruleID, text: text, idx: idx, lits: lits}
}

// Groups returns the number of capture groups in the pattern.
func (m *Match) Groups() int {
	return len(m.idx)/2 - 1
}

// Has reports whether group i participated in the match.
func (m *Match) Has(i int) bool {
	if i < 0 || i > m.Groups() {
		return false
	}
	return m.idx[2*i] >= 0
}

// Group returns the raw text of group i, or "" when it did not participate.
func (m *Match) Group(i int) string {
	if !m.Has(i) {
		return ""
	}
	return m.text[m.idx[2*i]:m.idx[2*i+1]]
}

// Lower returns group i lowercased. Patterns match case-insensitively so
// keyword captures are normalized before use.
func (m *Match) Lower(i int) string {
	return strings.ToLower(m.Group(i))
}

// Literal resolves group i as a literal index. A missing group, non-numeric
// capture or out-of-range index yields "" and records a Fault.
func (m *Match) Literal(i int) string {
	if !m.Has(i) {
		m.fault(i, "group did not participate")
		return ""
	}
	return m.resolve(i)
}

// OptLiteral resolves an optional literal group. Returns ("", false) when the
// group did not participate so the caller can omit the key entirely.
func (m *Match) OptLiteral(i int) (string, bool) {
	if !m.Has(i) {
		return "", false
	}
	return m.resolve(i), true
}

func (m *Match) resolve(i int) string {
	raw := m.Group(i)
	n, err := strconv.Atoi(raw)
	if err != nil {
		m.fault(i, fmt.Sprintf("capture %q is not a literal index", raw))
		return ""
	}
	lit, ok := m.lits.Get(n)
	if !ok {
		m.fault(i, fmt.Sprintf("literal %d out of range (have %d)", n, len(m.lits)))
		return ""
	}
	return lit
}

// Literals returns all literals of the sentence in order.
func (m *Match) Literals() Literals {
	return m.lits
}

// Faults returns the faults recorded so far.
func (m *Match) Faults() []Fault {
	return m.faults
}

func (m *Match) fault(group int, reason string) {
	m.faults = append(m.faults, Fault{RuleID: m.ruleID, Group: group, Reason: reason})
}
