// internal/rules/compile.go
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/solatis/stepgrammar/internal/types"
)

/*
 * Rule compilation and validation.
 *
 * Compiles a declarative Rule to a CompiledRule holding the expanded,
 * case-insensitive regular expression. All authoring invariants are checked
 * here so a bad table fails at load time, never at match time.
 *
 * Compilation workflow:
 *   1. Validate identity (non-empty id, known category and intent)
 *   2. Validate the extractor and example fixtures are present
 *   3. Validate priority lies inside the declaring domain's band
 *   4. Check anchors on the source pattern, expand macros, compile with (?i)
 *
 * Pattern macros:
 *   {q}   one quoted literal placeholder, capturing its index
 *   {op}  one comparison phrase, capturing the phrase (see operators.go)
 *
 * The source must begin with ^ and end with $. The body is wrapped in a
 * non-capturing group before compiling so top-level alternations such as
 * "^a|b$" stay anchored on both sides.
 */

// CompiledRule is a validated rule ready for matching.
type CompiledRule struct {
	Rule
	Domain Domain
	Order  int // position in registration order across all tables

	re *regexp.Regexp
}

// Expanded returns the compiled regular expression source.
func (c *CompiledRule) Expanded() string {
	return c.re.String()
}

// Compile validates rule against band and compiles its pattern.
// Errors wrap a types sentinel and name the rule id.
func Compile(rule Rule, domain Domain, band Band) (*CompiledRule, error) {
	if rule.ID == "" {
		return nil, fmt.Errorf("rule with pattern %q: %w", rule.Pattern, types.ErrEmptyRuleID)
	}
	if !rule.Category.Valid() {
		return nil, fmt.Errorf("rule %s: %w: %q", rule.ID, types.ErrUnknownCategory, rule.Category)
	}
	if !rule.Intent.Known() {
		return nil, fmt.Errorf("rule %s: %w: %q", rule.ID, types.ErrUnknownIntent, rule.Intent)
	}
	if rule.Extract == nil {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, types.ErrNilExtractor)
	}
	if len(rule.Examples) == 0 {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, types.ErrMissingExamples)
	}
	if !band.Contains(rule.Priority) {
		return nil, fmt.Errorf("rule %s: %w: %d not in %s band %s",
			rule.ID, types.ErrPriorityOutOfBand, rule.Priority, domain, band)
	}

	re, err := compilePattern(rule.Pattern)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
	}

	return &CompiledRule{Rule: rule, Domain: domain, re: re}, nil
}

// compilePattern checks anchors, expands macros and compiles case-insensitively.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "^") || !strings.HasSuffix(pattern, "$") || strings.HasSuffix(pattern, `\$`) {
		return nil, types.ErrUnanchoredPattern
	}
	body := ExpandPattern(pattern[1 : len(pattern)-1])
	re, err := regexp.Compile(`(?i)^(?:` + body + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidPattern, err)
	}
	return re, nil
}

// ExpandPattern substitutes the {q} and {op} macros.
func ExpandPattern(pattern string) string {
	s := strings.ReplaceAll(pattern, "{q}", placeholderPattern)
	return strings.ReplaceAll(s, "{op}", opPattern)
}
