package grammar

import (
	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// within is the optional timeout clause of wait steps. Captures two groups.
const within = `(?: (?:within|for up to|up to) ` + amount + ` ?` + rules.DurationUnitPattern + `)?`

var waitConditions = map[string]string{
	"visible":     "visible",
	"displayed":   "visible",
	"appear":      "visible",
	"hidden":      "hidden",
	"disappear":   "hidden",
	"gone":        "hidden",
	"clickable":   "clickable",
	"enabled":     "enabled",
	"disabled":    "disabled",
	"present":     "present",
	"attached":    "present",
	"detached":    "detached",
	"selected":    "selected",
	"checked":     "checked",
	"unchecked":   "unchecked",
	"focused":     "focused",
	"stale":       "detached",
	"invisible":   "hidden",
	"not visible": "hidden",
}

var urlConditions = map[string]rules.Operator{
	"contain": rules.OpContains,
	"be":      rules.OpEq,
	"equal":   rules.OpEq,
	"match":   rules.OpRegex,
}

// waitRules covers explicit waits on elements, text, navigation and time.
func waitRules() []rules.Rule {
	return []rules.Rule{
		{
			ID:       "wait-for-element",
			Pattern:  `^wait for (?:the )?{q}` + elementKind + ` to (?:be |become )?(visible|displayed|appear|hidden|disappear|gone|clickable|enabled|disabled|present|attached|detached|selected|checked|unchecked|focused|stale|invisible|not visible)` + within + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentWaitForElement,
			Priority: 452,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := elementResult(m, 1, 2)
				p[types.KeyCondition] = waitConditions[m.Lower(3)]
				if err := setDuration(p, types.KeyTimeoutMs, m, 4); err != nil {
					return types.ExtractionResult{}, err
				}
				return res, nil
			},
			Examples: []string{
				"Wait for 'spinner' to disappear",
				"Wait for the 'Submit' button to be clickable within 10 seconds",
				"Wait for 'toast' to be visible for up to 500 ms",
			},
		},
		{
			ID:       "wait-for-text",
			Pattern:  `^wait for (?:the )?text {q}(?: to (?:appear|be visible|be displayed))?` + within + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentWaitForText,
			Priority: 455,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				text := m.Literal(1)
				p := types.Params{types.KeyCondition: "visible"}
				if err := setDuration(p, types.KeyTimeoutMs, m, 2); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: text, ExpectedValue: text, Params: p}, nil
			},
			Examples: []string{"Wait for text 'Payment received'", "Wait for the text 'Done' to appear within 30 s"},
		},
		{
			ID:       "wait-page-load",
			Pattern:  `^wait for (?:the )?page to (?:fully )?load` + within + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentWaitPageLoad,
			Priority: 458,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				p := types.Params{types.KeyCondition: "load"}
				if err := setDuration(p, types.KeyTimeoutMs, m, 1); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: "page", Params: p}, nil
			},
			Examples: []string{"Wait for the page to load", "Wait for page to fully load within 1 minute"},
		},
		{
			ID:       "wait-url",
			Pattern:  `^wait for (?:the )?url to (contain|be|equal|match) {q}` + within + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentWaitURL,
			Priority: 461,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				expected := m.Literal(2)
				p := types.Params{types.KeyComparisonOp: urlConditions[m.Lower(1)].String()}
				if err := setDuration(p, types.KeyTimeoutMs, m, 3); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: "url", ExpectedValue: expected, Params: p}, nil
			},
			Examples: []string{"Wait for the URL to contain '/dashboard'", "Wait for URL to be 'https://example.com/done' within 5 seconds"},
		},
		{
			ID:       "wait-network-idle",
			Pattern:  `^wait for (?:the )?network (?:to be )?idle` + within + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentWaitNetworkIdle,
			Priority: 464,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				p := types.Params{types.KeyCondition: "networkidle"}
				if err := setDuration(p, types.KeyTimeoutMs, m, 1); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: "network", Params: p}, nil
			},
			Examples: []string{"Wait for network idle", "Wait for the network to be idle"},
		},
		{
			ID:       "wait-duration",
			Pattern:  `^wait (?:for )?` + amount + ` ?` + rules.DurationUnitPattern + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentWaitDuration,
			Priority: 467,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				p := types.Params{}
				if err := setDuration(p, types.KeyDurationMs, m, 1); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: m.Group(1) + " " + m.Lower(2), Params: p}, nil
			},
			Examples: []string{"Wait 2 seconds", "Wait for 500 ms", "Wait 1.5s"},
		},
	}
}
