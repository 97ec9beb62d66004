package grammar

import (
	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// contextRules covers named scenario context variables: reads, writes,
// assertions and list manipulation.
func contextRules() []rules.Rule {
	return []rules.Rule{
		{
			ID:       "ctx-get-item",
			Pattern:  `^get (?:the )?` + rules.OrdinalPattern + ` item from context {q}` + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentGetContextItem,
			Priority: 703,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				pos, err := rules.ParseOrdinal(m.Group(1))
				if err != nil {
					return types.ExtractionResult{}, err
				}
				src := m.Literal(2)
				p := types.Params{
					types.KeySourceContextVar: src,
					types.KeyItemPosition:     pos,
				}
				setOpt(p, types.KeyTargetContextVar, m, 3)
				return types.ExtractionResult{TargetText: src, Params: p}, nil
			},
			Examples: []string{
				"Get first item from context 'users'",
				"Get the 3rd item from context 'users' and store it as 'thirdUser'",
				"Get last item from context 'orders'",
			},
		},
		{
			ID:       "ctx-get-count",
			Pattern:  `^get (?:the )?count of context {q}` + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentGetContextCount,
			Priority: 705,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				p := types.Params{types.KeySourceContextVar: src}
				setOpt(p, types.KeyTargetContextVar, m, 2)
				return types.ExtractionResult{TargetText: src, Params: p}, nil
			},
			Examples: []string{
				"Get count of context 'searchResults'",
				"Get the count of context 'rows' and store it as 'rowCount'",
			},
		},
		{
			ID:       "ctx-get-field",
			Pattern:  `^get (?:field )?{q} from context {q}` + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentGetContextField,
			Priority: 708,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				field := m.Literal(1)
				p := types.Params{
					types.KeyContextField:     field,
					types.KeySourceContextVar: m.Literal(2),
				}
				setOpt(p, types.KeyTargetContextVar, m, 3)
				return types.ExtractionResult{TargetText: field, Params: p}, nil
			},
			Examples: []string{
				"Get 'email' from context 'currentUser'",
				"Get field 'id' from context 'order' and store it as 'orderId'",
			},
		},
		{
			ID:       "ctx-set-value",
			Pattern:  `^set (?:field {q} (?:of|in) )?context {q} to {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSetContextValue,
			Priority: 712,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				target := m.Literal(2)
				p := types.Params{types.KeyTargetContextVar: target}
				setOpt(p, types.KeyContextField, m, 1)
				return types.ExtractionResult{TargetText: target, Value: m.Literal(3), Params: p}, nil
			},
			Examples: []string{
				"Set context 'status' to 'ACTIVE'",
				"Set field 'name' of context 'user' to 'Alice'",
			},
		},
		{
			ID:       "ctx-copy",
			Pattern:  `^copy context {q} to {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentCopyContext,
			Priority: 715,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				return types.ExtractionResult{
					TargetText: src,
					Params: types.Params{
						types.KeySourceContextVar: src,
						types.KeyTargetContextVar: m.Literal(2),
					},
				}, nil
			},
			Examples: []string{"Copy context 'draftOrder' to 'savedOrder'"},
		},
		{
			ID:       "ctx-clear-all",
			Pattern:  `^clear all context(?: variables)?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentClearContext,
			Priority: 717,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				return types.ExtractionResult{Params: types.Params{types.KeyScope: "all"}}, nil
			},
			Examples: []string{"Clear all context", "Clear all context variables"},
		},
		{
			ID:       "ctx-clear",
			Pattern:  `^clear context {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentClearContext,
			Priority: 718,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(1)
				return types.ExtractionResult{
					TargetText: name,
					Params:     types.Params{types.KeyTargetContextVar: name},
				}, nil
			},
			Examples: []string{"Clear context 'cart'"},
		},
		{
			ID:       "ctx-verify-count",
			Pattern:  `^verify (?:that )?context {q} (?:has|contains) (\d+) (?:items?|rows?|records?|entries)$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyContextCount,
			Priority: 720,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				p := types.Params{
					types.KeySourceContextVar: src,
					types.KeyComparisonOp:     rules.OpEq.String(),
				}
				if err := setInt(p, types.KeyItemCount, m, 2); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: src, ExpectedValue: m.Group(2), Params: p}, nil
			},
			Examples: []string{
				"Verify context 'searchResults' has 10 items",
				"Verify that context 'rows' contains 1 row",
			},
		},
		{
			ID:       "ctx-verify-count-compare",
			Pattern:  `^verify (?:that )?(?:the )?count of context {q} {op} (\d+)$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyContextCount,
			Priority: 721,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				op, err := comparison(m, 2)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				src := m.Literal(1)
				p := types.Params{
					types.KeySourceContextVar: src,
					types.KeyComparisonOp:     op,
				}
				if err := setInt(p, types.KeyItemCount, m, 3); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: src, ExpectedValue: m.Group(3), Params: p}, nil
			},
			Examples: []string{
				"Verify count of context 'results' is greater than 0",
				"Verify that the count of context 'rows' is at most 50",
			},
		},
		{
			ID:       "ctx-verify-field",
			Pattern:  `^verify (?:that )?(?:field )?{q} (?:of|in) context {q} {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyContextField,
			Priority: 724,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				op, err := comparison(m, 3)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				field := m.Literal(1)
				return types.ExtractionResult{
					TargetText:    field,
					ExpectedValue: m.Literal(4),
					Params: types.Params{
						types.KeyContextField:     field,
						types.KeySourceContextVar: m.Literal(2),
						types.KeyComparisonOp:     op,
					},
				}, nil
			},
			Examples: []string{
				"Verify 'status' of context 'order' is 'PAID'",
				"Verify that field 'email' in context 'user' contains '@example.com'",
			},
		},
		{
			ID:       "ctx-verify-empty",
			Pattern:  `^verify (?:that )?context {q} is (not )?empty$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyContextState,
			Priority: 727,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				return types.ExtractionResult{
					TargetText: src,
					Params: types.Params{
						types.KeySourceContextVar: src,
						types.KeyCondition:        "empty",
					},
					Modifiers: types.Modifiers{Negated: m.Has(2)},
				}, nil
			},
			Examples: []string{
				"Verify context 'errors' is empty",
				"Verify that context 'results' is not empty",
			},
		},
		{
			ID:       "ctx-verify-exists",
			Pattern:  `^verify (?:that )?context {q} (exists|does not exist)$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyContextState,
			Priority: 728,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				return types.ExtractionResult{
					TargetText: src,
					Params: types.Params{
						types.KeySourceContextVar: src,
						types.KeyCondition:        "exists",
					},
					Modifiers: types.Modifiers{Negated: m.Lower(2) != "exists"},
				}, nil
			},
			Examples: []string{
				"Verify context 'token' exists",
				"Verify that context 'tempFile' does not exist",
			},
		},
		{
			ID:       "ctx-filter",
			Pattern:  `^filter context {q} where {q} {op} {q}` + storeAs + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentFilterContext,
			Priority: 731,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				op, err := comparison(m, 3)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				src := m.Literal(1)
				p := types.Params{
					types.KeySourceContextVar: src,
					types.KeyContextField:     m.Literal(2),
					types.KeyComparisonOp:     op,
				}
				setOpt(p, types.KeyTargetContextVar, m, 5)
				return types.ExtractionResult{TargetText: src, Value: m.Literal(4), Params: p}, nil
			},
			Examples: []string{
				"Filter context 'users' where 'role' is 'admin'",
				"Filter context 'orders' where 'total' is greater than '100' and store it as 'bigOrders'",
			},
		},
		{
			ID:       "ctx-sort",
			Pattern:  `^sort context {q} by {q}(?: (asc|ascending|desc|descending))?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSortContext,
			Priority: 734,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				p := types.Params{
					types.KeySourceContextVar: src,
					types.KeyContextField:     m.Literal(2),
				}
				if m.Has(3) {
					order := "asc"
					if m.Lower(3)[0] == 'd' {
						order = "desc"
					}
					p[types.KeySortOrder] = order
				}
				return types.ExtractionResult{TargetText: src, Params: p}, nil
			},
			Examples: []string{
				"Sort context 'users' by 'lastName'",
				"Sort context 'orders' by 'createdAt' descending",
			},
		},
		{
			ID:       "ctx-merge",
			Pattern:  `^merge context {q} (?:and|with) {q} into {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentMergeContext,
			Priority: 737,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				target := m.Literal(3)
				return types.ExtractionResult{
					TargetText: target,
					Params: types.Params{
						types.KeySourceContextVar: m.Literal(1),
						types.KeyOperandRight:     m.Literal(2),
						types.KeyTargetContextVar: target,
					},
				}, nil
			},
			Examples: []string{"Merge context 'defaults' with 'overrides' into 'settings'"},
		},
		{
			ID:       "ctx-log",
			Pattern:  `^(?:log|print) context {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentLogContext,
			Priority: 740,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				return types.ExtractionResult{
					TargetText: src,
					Params:     types.Params{types.KeySourceContextVar: src},
				}, nil
			},
			Examples: []string{"Log context 'response'", "Print context 'user'"},
		},
		{
			ID:       "ctx-log-all",
			Pattern:  `^(?:log|print) all context(?: variables)?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentLogContext,
			Priority: 741,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				return types.ExtractionResult{Params: types.Params{types.KeyScope: "all"}}, nil
			},
			Examples: []string{"Log all context", "Print all context variables"},
		},
	}
}
