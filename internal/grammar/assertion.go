package grammar

import (
	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// verify is the subject prefix of element assertions: the element literal
// follows immediately, so "verify context ..." and "verify the api ..." never
// match here.
const verify = `^verify (?:that )?(?:the )?`

const elementStates = `(visible|hidden|displayed|enabled|disabled|checked|unchecked|selected|present|focused|empty)`

// compareResult builds an assertion result comparing the element in group
// target with the expected literal in group expected using the {op} in group op.
func compareResult(m *rules.Match, target, kind, op, expected int) (types.ExtractionResult, types.Params, error) {
	cmp, err := comparison(m, op)
	if err != nil {
		return types.ExtractionResult{}, nil, err
	}
	res, p := elementResult(m, target, kind)
	p[types.KeyComparisonOp] = cmp
	res.ExpectedValue = m.Literal(expected)
	return res, p, nil
}

// pageResult builds a page-level comparison with {op} in group 1 and the
// expected literal in group 2.
func pageResult(m *rules.Match, target string) (types.ExtractionResult, error) {
	op, err := comparison(m, 1)
	if err != nil {
		return types.ExtractionResult{}, err
	}
	return types.ExtractionResult{
		TargetText:    target,
		ExpectedValue: m.Literal(2),
		Params:        types.Params{types.KeyComparisonOp: op},
	}, nil
}

// assertionRules covers element and page assertions.
func assertionRules() []rules.Rule {
	return []rules.Rule{
		{
			ID:       "assert-element-text",
			Pattern:  verify + `{q}` + elementKind + ` text {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyElementText,
			Priority: 302,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _, err := compareResult(m, 1, 2, 3, 4)
				return res, err
			},
			Examples: []string{
				"Verify 'header' text is 'Welcome back'",
				"Verify that the 'status' label text contains 'Saved'",
			},
		},
		{
			ID:       "assert-element-value",
			Pattern:  verify + `{q}` + elementKind + ` value {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyElementValue,
			Priority: 305,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _, err := compareResult(m, 1, 2, 3, 4)
				return res, err
			},
			Examples: []string{"Verify the 'Email' field value is 'alice@example.com'"},
		},
		{
			ID:       "assert-element-attribute",
			Pattern:  verify + `attribute {q} of (?:the )?{q}` + elementKind + ` {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyElementAttr,
			Priority: 308,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p, err := compareResult(m, 2, 3, 4, 5)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				p[types.KeyAttributeName] = m.Literal(1)
				return res, nil
			},
			Examples: []string{"Verify the attribute 'href' of the 'Docs' link contains '/docs'"},
		},
		{
			ID:       "assert-element-count",
			Pattern:  `^verify (?:that )?there (?:is|are) (\d+) {q}(?: (elements?|items?|rows?|links?|buttons?))?$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyElementCount,
			Priority: 311,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				p := types.Params{types.KeyComparisonOp: rules.OpEq.String()}
				if err := setInt(p, types.KeyItemCount, m, 1); err != nil {
					return types.ExtractionResult{}, err
				}
				setLower(p, types.KeyElementType, m, 3)
				return types.ExtractionResult{TargetText: m.Literal(2), ExpectedValue: m.Group(1), Params: p}, nil
			},
			Examples: []string{"Verify there are 3 'cart-item' elements", "Verify that there is 1 'error-banner'"},
		},
		{
			ID:       "assert-element-state",
			Pattern:  verify + `{q}` + elementKind + ` (?:is|should be) (not )?` + elementStates + `$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyElementState,
			Priority: 314,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := elementResult(m, 1, 2)
				p[types.KeyElementState] = m.Lower(4)
				res.Modifiers.Negated = m.Has(3)
				return res, nil
			},
			Examples: []string{
				"Verify 'Save' button is enabled",
				"Verify that the 'spinner' is not visible",
				"Verify the 'Terms' checkbox should be checked",
			},
		},
		{
			ID:       "assert-text-visible",
			Pattern:  verify + `text {q} is (not )?(?:visible|displayed|shown)$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyTextVisible,
			Priority: 317,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				text := m.Literal(1)
				return types.ExtractionResult{
					TargetText:    text,
					ExpectedValue: text,
					Params:        types.Params{},
					Modifiers:     types.Modifiers{Negated: m.Has(2)},
				}, nil
			},
			Examples: []string{"Verify text 'Order confirmed' is visible", "Verify that the text 'Error' is not displayed"},
		},
		{
			ID:       "assert-page-title",
			Pattern:  verify + `page title {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyPageTitle,
			Priority: 320,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				return pageResult(m, "title")
			},
			Examples: []string{"Verify the page title is 'Dashboard'", "Verify page title contains 'Shop'"},
		},
		{
			ID:       "assert-url",
			Pattern:  verify + `(?:current )?url {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyURL,
			Priority: 323,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				return pageResult(m, "url")
			},
			Examples: []string{"Verify the current URL contains '/checkout'", "Verify URL is 'https://example.com/'"},
		},
		{
			ID:       "assert-page-text",
			Pattern:  verify + `page {op} (?:text )?{q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyPageText,
			Priority: 326,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				return pageResult(m, "page")
			},
			Examples: []string{"Verify the page contains text 'Thank you'", "Verify page does not contain 'Exception'"},
		},
		{
			ID:       "assert-dialog-text",
			Pattern:  verify + `(?:alert|dialog) text {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyDialogText,
			Priority: 329,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				return pageResult(m, "dialog")
			},
			Examples: []string{"Verify the alert text is 'Are you sure?'"},
		},
		{
			ID:       "assert-table-cell",
			Pattern:  verify + `cell (?:at )?row (\d+) column (\d+) (?:of|in) (?:the )?(?:table )?{q} {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyTableCell,
			Priority: 332,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				op, err := comparison(m, 4)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				p := types.Params{types.KeyComparisonOp: op}
				if err := setInt(p, types.KeyRowIndex, m, 1); err != nil {
					return types.ExtractionResult{}, err
				}
				if err := setInt(p, types.KeyColumnIndex, m, 2); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: m.Literal(3), ExpectedValue: m.Literal(5), Params: p}, nil
			},
			Examples: []string{"Verify the cell at row 2 column 3 of table 'orders' is 'Shipped'"},
		},
	}
}
