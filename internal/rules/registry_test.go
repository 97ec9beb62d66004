package rules

import (
	"errors"
	"testing"

	"github.com/solatis/stepgrammar/internal/types"
)

func TestNewRegistry_Ordering(t *testing.T) {
	reg, err := NewRegistry(testTables(), Options{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	want := []types.RuleID{"db-get-row", "db-fail", "db-panic", "db-get-any", "ctx-get-count", "ctx-get-field"}
	if reg.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", reg.Len(), len(want))
	}
	for i, r := range reg.Rules() {
		if r.ID != want[i] {
			t.Errorf("Rules()[%d] = %s, want %s", i, r.ID, want[i])
		}
	}
	if got, ok := reg.Rule("db-get-row"); !ok || got.Priority != 558 {
		t.Errorf("Rule(db-get-row) = %v, %v", got, ok)
	}
	if len(reg.Collisions()) != 0 {
		t.Errorf("Collisions() = %v, want none", reg.Collisions())
	}
}

func TestNewRegistry_TiesKeepRegistrationOrder(t *testing.T) {
	a := contextCountRule()
	b := contextFieldRule()
	b.Priority = a.Priority

	reg, err := NewRegistry([]Table{{Domain: DomainContext, Rules: []Rule{b, a}}}, Options{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	rules := reg.Rules()
	if rules[0].ID != b.ID || rules[1].ID != a.ID {
		t.Errorf("order = [%s %s], want [%s %s]", rules[0].ID, rules[1].ID, b.ID, a.ID)
	}

	cols := reg.Collisions()
	if len(cols) != 1 {
		t.Fatalf("Collisions() = %v, want 1", cols)
	}
	want := Collision{Priority: 705, First: b.ID, Second: a.ID}
	if cols[0] != want {
		t.Errorf("Collisions()[0] = %v, want %v", cols[0], want)
	}
}

func TestNewRegistry_StrictCollisions(t *testing.T) {
	a := contextCountRule()
	b := contextFieldRule()
	b.Priority = a.Priority

	_, err := NewRegistry([]Table{{Domain: DomainContext, Rules: []Rule{a, b}}}, Options{StrictCollisions: true})
	if !errors.Is(err, types.ErrPriorityCollision) {
		t.Errorf("NewRegistry() error = %v, want %v", err, types.ErrPriorityCollision)
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tables  []Table
		opts    Options
		wantErr error
	}{
		{
			name: "duplicate id across tables",
			tables: []Table{
				{Domain: DomainContext, Rules: []Rule{contextCountRule()}},
				{Domain: DomainDatabase, Rules: []Rule{func() Rule {
					r := dbRowRule()
					r.ID = "ctx-get-count"
					return r
				}()}},
			},
			wantErr: types.ErrDuplicateRuleID,
		},
		{
			name:    "unknown domain",
			tables:  []Table{{Domain: "mainframe", Rules: []Rule{contextCountRule()}}},
			wantErr: types.ErrUnknownDomain,
		},
		{
			name:    "rule outside its table band",
			tables:  []Table{{Domain: DomainDatabase, Rules: []Rule{contextCountRule()}}},
			wantErr: types.ErrPriorityOutOfBand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.tables, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewRegistry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRegistry_OverlappingBands(t *testing.T) {
	bands := map[Domain]Band{
		DomainContext:  {Min: 700, Max: 749},
		DomainDatabase: {Min: 740, Max: 760},
	}
	if _, err := NewRegistry(nil, Options{Bands: bands}); err == nil {
		t.Error("NewRegistry() error = nil, want overlap error")
	}
}

func TestDefaultBands_Disjoint(t *testing.T) {
	if err := ValidateBands(DefaultBands()); err != nil {
		t.Errorf("ValidateBands(DefaultBands()) = %v", err)
	}
}

func TestCheckExamples(t *testing.T) {
	reg, err := NewRegistry(testTables(), Options{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	failures := reg.CheckExamples()
	got := map[types.RuleID]ExampleFailure{}
	for _, f := range failures {
		got[f.RuleID] = f
	}
	if len(got) != 2 {
		t.Fatalf("CheckExamples() = %v, want failures for db-fail and db-panic only", failures)
	}
	if f := got["db-fail"]; f.Status != StatusExtractionFailed || f.Got != "db-fail" {
		t.Errorf("db-fail failure = %+v", f)
	}
	if f := got["db-panic"]; f.Status != StatusExtractionFailed {
		t.Errorf("db-panic failure = %+v", f)
	}
}

func TestCheckExamples_Shadowed(t *testing.T) {
	shadow := dbGenericRule()
	shadow.Priority = 551

	reg, err := NewRegistry([]Table{{Domain: DomainDatabase, Rules: []Rule{shadow, dbRowRule()}}}, Options{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	failures := reg.CheckExamples()
	if len(failures) != 2 {
		t.Fatalf("CheckExamples() = %v, want both db-get-row examples shadowed", failures)
	}
	for _, f := range failures {
		if f.RuleID != "db-get-row" || f.Got != "db-get-any" {
			t.Errorf("failure = %v", f)
		}
	}
}
