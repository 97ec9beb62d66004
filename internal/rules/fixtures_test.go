package rules

import (
	"errors"
	"testing"

	"github.com/solatis/stepgrammar/internal/types"
)

// extractNothing is a valid extractor for rules whose params do not matter.
func extractNothing(*Match) (types.ExtractionResult, error) {
	return types.ExtractionResult{}, nil
}

func contextCountRule() Rule {
	return Rule{
		ID:       "ctx-get-count",
		Pattern:  `^get count of context {q}$`,
		Category: types.CategoryQuery,
		Intent:   types.IntentGetContextCount,
		Priority: 705,
		Extract: func(m *Match) (types.ExtractionResult, error) {
			name := m.Literal(1)
			return types.ExtractionResult{
				TargetText: name,
				Params:     types.Params{types.KeySourceContextVar: name},
			}, nil
		},
		Examples: []string{"Get count of context 'searchResults'"},
	}
}

func contextFieldRule() Rule {
	return Rule{
		ID:       "ctx-get-field",
		Pattern:  `^get (\w+) from context {q}$`,
		Category: types.CategoryQuery,
		Intent:   types.IntentGetContextField,
		Priority: 710,
		Extract: func(m *Match) (types.ExtractionResult, error) {
			name := m.Literal(2)
			return types.ExtractionResult{
				TargetText: name,
				Params: types.Params{
					types.KeySourceContextVar: name,
					types.KeyContextField:     m.Group(1),
				},
			}, nil
		},
		Examples: []string{"Get total from context 'order'"},
	}
}

func dbRowRule() Rule {
	return Rule{
		ID:       "db-get-row",
		Pattern:  `^get database row from {q} query {q}(?: params {q})?$`,
		Category: types.CategoryQuery,
		Intent:   types.IntentDBGetRow,
		Priority: 558,
		Extract: func(m *Match) (types.ExtractionResult, error) {
			p := types.Params{
				types.KeyDBAlias: m.Literal(1),
				types.KeyDBQuery: m.Literal(2),
			}
			if v, ok := m.OptLiteral(3); ok {
				p[types.KeyDBParams] = v
			}
			return types.ExtractionResult{TargetText: m.Literal(2), Params: p}, nil
		},
		Examples: []string{
			"Get database row from 'PRIMARY_DB' query 'GET_FIRST_ACTIVE'",
			"Get database row from 'PRIMARY_DB' query 'GET_BY_ID' params '[1]'",
		},
	}
}

// dbGenericRule accepts anything "get database ..." and must lose to dbRowRule.
func dbGenericRule() Rule {
	return Rule{
		ID:       "db-get-any",
		Pattern:  `^get database .+$`,
		Category: types.CategoryQuery,
		Intent:   types.IntentDBQuery,
		Priority: 590,
		Extract:  extractNothing,
		Examples: []string{"Get database stuff"},
	}
}

var errBoom = errors.New("boom")

func failingRule() Rule {
	return Rule{
		ID:       "db-fail",
		Pattern:  `^fail database {q}$`,
		Category: types.CategoryAction,
		Intent:   types.IntentDBExecute,
		Priority: 560,
		Extract: func(m *Match) (types.ExtractionResult, error) {
			return types.ExtractionResult{}, errBoom
		},
		Examples: []string{"Fail database 'x'"},
	}
}

func panickingRule() Rule {
	return Rule{
		ID:       "db-panic",
		Pattern:  `^panic database$`,
		Category: types.CategoryAction,
		Intent:   types.IntentDBExecute,
		Priority: 561,
		Extract: func(m *Match) (types.ExtractionResult, error) {
			var p types.Params
			p["x"] = 1 // nil map write
			return types.ExtractionResult{Params: p}, nil
		},
		Examples: []string{"Panic database"},
	}
}

// miswiredRule resolves a word capture as a literal, the authoring mistake
// Match.Literal reports as a fault.
func miswiredRule() Rule {
	return Rule{
		ID:       "ctx-miswired",
		Pattern:  `^get size of context (\w+)$`,
		Category: types.CategoryQuery,
		Intent:   types.IntentGetContextCount,
		Priority: 720,
		Extract: func(m *Match) (types.ExtractionResult, error) {
			name := m.Literal(1)
			return types.ExtractionResult{
				TargetText: name,
				Params:     types.Params{types.KeySourceContextVar: name},
			}, nil
		},
		Examples: []string{"Get size of context rows"},
	}
}

func miswiredRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry([]Table{
		{Domain: DomainContext, Rules: []Rule{miswiredRule()}},
		{Domain: DomainDatabase, Rules: []Rule{failingRule()}},
	}, Options{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func testTables() []Table {
	return []Table{
		{Domain: DomainContext, Rules: []Rule{contextCountRule(), contextFieldRule()}},
		{Domain: DomainDatabase, Rules: []Rule{dbGenericRule(), dbRowRule(), failingRule(), panickingRule()}},
	}
}
