package grammar

import (
	"strings"

	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

var dateKinds = map[string]string{
	"current date":      "today",
	"today's date":      "today",
	"tomorrow's date":   "tomorrow",
	"yesterday's date":  "yesterday",
	"current time":      "time",
	"current timestamp": "timestamp",
}

var arithmetic = map[string]string{
	"plus":          "add",
	"+":             "add",
	"minus":         "subtract",
	"-":             "subtract",
	"times":         "multiply",
	"multiplied by": "multiply",
	"*":             "multiply",
	"divided by":    "divide",
	"/":             "divide",
}

// variableRules covers scenario variables, generated values and arithmetic.
func variableRules() []rules.Rule {
	return []rules.Rule{
		{
			ID:       "var-generate",
			Pattern:  `^generate (?:an? )?(?:random )?(email|uuid|string|number|name|phone number|alphanumeric)(?: of length (\d+))? (?:and store (?:it )?)?as {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentGenerateValue,
			Priority: 752,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(3)
				p := types.Params{
					types.KeyValueKind:    strings.ReplaceAll(m.Lower(1), " ", "-"),
					types.KeyVariableName: name,
				}
				if err := setInt(p, types.KeyLength, m, 2); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: name, Params: p}, nil
			},
			Examples: []string{
				"Generate a random email as 'newEmail'",
				"Generate random string of length 12 and store it as 'password'",
				"Generate a uuid as 'requestId'",
			},
		},
		{
			ID:       "var-store-date",
			Pattern:  `^store (?:the )?(current date|today's date|tomorrow's date|yesterday's date|current time|current timestamp)(?: (?:in|with) format {q})? as {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentStoreDate,
			Priority: 756,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(3)
				p := types.Params{
					types.KeyDateKind:     dateKinds[m.Lower(1)],
					types.KeyVariableName: name,
				}
				setOpt(p, types.KeyDateFormat, m, 2)
				return types.ExtractionResult{TargetText: name, Params: p}, nil
			},
			Examples: []string{
				"Store the current date as 'today'",
				"Store today's date in format 'yyyy-MM-dd' as 'orderDate'",
				"Store current timestamp as 'startedAt'",
			},
		},
		{
			ID:       "var-set",
			Pattern:  `^set (?:the )?variable {q} to {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSetVariable,
			Priority: 760,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(1)
				return types.ExtractionResult{
					TargetText: name,
					Value:      m.Literal(2),
					Params:     types.Params{types.KeyVariableName: name},
				}, nil
			},
			Examples: []string{"Set variable 'retries' to '3'", "Set the variable 'user' to 'alice'"},
		},
		{
			ID:       "var-verify",
			Pattern:  `^verify (?:that )?(?:the )?variable {q} {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyVariable,
			Priority: 764,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				op, err := comparison(m, 2)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				name := m.Literal(1)
				return types.ExtractionResult{
					TargetText:    name,
					ExpectedValue: m.Literal(3),
					Params: types.Params{
						types.KeyVariableName: name,
						types.KeyComparisonOp: op,
					},
				}, nil
			},
			Examples: []string{"Verify variable 'status' is 'READY'", "Verify that the variable 'count' is at least '1'"},
		},
		{
			ID:       "var-concatenate",
			Pattern:  `^concatenate {q} (?:and|with) {q}(?: (?:using|with) separator {q})? (?:and store (?:it )?)?as {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentConcatenate,
			Priority: 768,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(4)
				res := types.ExtractionResult{
					TargetText: name,
					Params: types.Params{
						types.KeyOperandLeft:  m.Literal(1),
						types.KeyOperandRight: m.Literal(2),
						types.KeyVariableName: name,
					},
				}
				if sep, ok := m.OptLiteral(3); ok {
					res.Value = sep
				}
				return res, nil
			},
			Examples: []string{
				"Concatenate 'first' and 'last' as 'fullName'",
				"Concatenate 'city' with 'zip' using separator ', ' and store it as 'address'",
			},
		},
		{
			ID:       "var-set-environment",
			Pattern:  `^(?:set|use|switch to) (?:the )?environment {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentSetEnvironment,
			Priority: 772,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				env := m.Literal(1)
				return types.ExtractionResult{TargetText: env, Params: types.Params{types.KeyEnvironment: env}}, nil
			},
			Examples: []string{"Use environment 'staging'", "Switch to the environment 'qa'"},
		},
		{
			ID:       "var-calculate",
			Pattern:  `^calculate {q} (plus|minus|times|multiplied by|divided by|\+|-|\*|/) {q} (?:and store (?:it )?)?as {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentCalculate,
			Priority: 776,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(4)
				return types.ExtractionResult{
					TargetText: name,
					Params: types.Params{
						types.KeyOperandLeft:  m.Literal(1),
						types.KeyArithmetic:   arithmetic[m.Lower(2)],
						types.KeyOperandRight: m.Literal(3),
						types.KeyVariableName: name,
					},
				}, nil
			},
			Examples: []string{"Calculate 'price' times 'quantity' as 'subtotal'", "Calculate 'total' - 'discount' and store it as 'net'"},
		},
	}
}
