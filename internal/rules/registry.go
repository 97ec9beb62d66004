// internal/rules/registry.go
package rules

import (
	"fmt"
	"sort"

	"github.com/solatis/stepgrammar/internal/types"
)

/*
 * Rule registry.
 *
 * Holds every compiled rule of every table, stable-sorted ascending by
 * priority so ties keep registration order. Built once; read-only afterwards,
 * so Match is safe for concurrent use without locks.
 *
 * Load-time checks beyond Compile:
 *   - rule ids are unique across all tables (error)
 *   - every table names a domain with a band (error)
 *   - bands do not overlap (error)
 *   - distinct rules sharing a priority are collisions: recorded and
 *     returned by Collisions(), or an error in strict mode
 */

// Options configure registry construction.
type Options struct {
	// StrictCollisions turns priority collisions into load errors.
	StrictCollisions bool

	// Bands overrides DefaultBands when non-nil.
	Bands map[Domain]Band
}

// Collision is two distinct rules declared at the same priority. Their order
// is registration order.
type Collision struct {
	Priority int
	First    types.RuleID
	Second   types.RuleID
}

func (c Collision) String() string {
	return fmt.Sprintf("priority %d shared by %s and %s", c.Priority, c.First, c.Second)
}

// Registry is the immutable ordered rule set.
type Registry struct {
	rules      []*CompiledRule
	byID       map[types.RuleID]*CompiledRule
	collisions []Collision
	bands      map[Domain]Band
}

// NewRegistry compiles every rule of tables, validates the set and orders it.
func NewRegistry(tables []Table, opts Options) (*Registry, error) {
	bands := opts.Bands
	if bands == nil {
		bands = DefaultBands()
	}
	if err := ValidateBands(bands); err != nil {
		return nil, err
	}

	reg := &Registry{
		byID:  make(map[types.RuleID]*CompiledRule),
		bands: bands,
	}

	order := 0
	for _, table := range tables {
		band, ok := bands[table.Domain]
		if !ok {
			return nil, fmt.Errorf("table %q: %w", table.Domain, types.ErrUnknownDomain)
		}
		for _, rule := range table.Rules {
			compiled, err := Compile(rule, table.Domain, band)
			if err != nil {
				return nil, err
			}
			if prev, dup := reg.byID[rule.ID]; dup {
				return nil, fmt.Errorf("rule %s: %w (domains %s and %s)",
					rule.ID, types.ErrDuplicateRuleID, prev.Domain, table.Domain)
			}
			compiled.Order = order
			order++
			reg.byID[rule.ID] = compiled
			reg.rules = append(reg.rules, compiled)
		}
	}

	// Stable sort keeps registration order among equal priorities.
	sort.SliceStable(reg.rules, func(i, j int) bool {
		return reg.rules[i].Priority < reg.rules[j].Priority
	})

	for i := 1; i < len(reg.rules); i++ {
		prev, cur := reg.rules[i-1], reg.rules[i]
		if prev.Priority == cur.Priority {
			reg.collisions = append(reg.collisions, Collision{
				Priority: cur.Priority,
				First:    prev.ID,
				Second:   cur.ID,
			})
		}
	}
	if opts.StrictCollisions && len(reg.collisions) > 0 {
		c := reg.collisions[0]
		return nil, fmt.Errorf("rules %s and %s: %w at %d (%d total)",
			c.First, c.Second, types.ErrPriorityCollision, c.Priority, len(reg.collisions))
	}

	return reg, nil
}

// Rules returns the compiled rules in match order. Callers must not modify
// the returned slice.
func (r *Registry) Rules() []*CompiledRule {
	return r.rules
}

// Rule looks up a rule by id.
func (r *Registry) Rule(id types.RuleID) (*CompiledRule, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Collisions returns the priority collisions found at load time.
func (r *Registry) Collisions() []Collision {
	return r.collisions
}

// Bands returns the band table the registry was validated against.
func (r *Registry) Bands() map[Domain]Band {
	return r.bands
}

// ExampleFailure is an example sentence that does not resolve to its own rule.
type ExampleFailure struct {
	RuleID  types.RuleID
	Example string
	Got     types.RuleID // empty when unmatched
	Status  Status
}

func (f ExampleFailure) String() string {
	if f.Got == "" {
		return fmt.Sprintf("rule %s: example %q is %s", f.RuleID, f.Example, f.Status)
	}
	return fmt.Sprintf("rule %s: example %q matched %s (%s)", f.RuleID, f.Example, f.Got, f.Status)
}

// CheckExamples matches every example of every rule and reports those that
// are not first claimed by their own rule with a clean extraction.
func (r *Registry) CheckExamples() []ExampleFailure {
	var failures []ExampleFailure
	for _, rule := range r.rules {
		for _, ex := range rule.Examples {
			res := r.Match(ex)
			if res.Status == StatusMatched && res.Intent.RuleID == rule.ID && len(res.Faults) == 0 {
				continue
			}
			failures = append(failures, ExampleFailure{
				RuleID:  rule.ID,
				Example: ex,
				Got:     res.RuleID,
				Status:  res.Status,
			})
		}
	}
	return failures
}
