package grammar

import (
	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// dataMapRules covers mapping, comparing and loading data sets between the
// database, API responses and context.
func dataMapRules() []rules.Rule {
	return []rules.Rule{
		{
			ID:       "map-db-result",
			Pattern:  `^map database result {q} to {q}(?: using (?:mapping |map )?{q})?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentMapDBResult,
			Priority: 603,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				p := types.Params{
					types.KeySourceContextVar: src,
					types.KeyTargetContextVar: m.Literal(2),
				}
				setOpt(p, types.KeyMapName, m, 3)
				return types.ExtractionResult{TargetText: src, Params: p}, nil
			},
			Examples: []string{
				"Map database result 'row' to 'expectedUser'",
				"Map database result 'row' to 'expectedUser' using mapping 'USER_API'",
			},
		},
		{
			ID:       "map-field",
			Pattern:  `^map field {q} (?:of|from) {q} to {q}(?: using (?:transform )?{q})?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentMapField,
			Priority: 606,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				field := m.Literal(1)
				p := types.Params{
					types.KeySourceField:      field,
					types.KeySourceContextVar: m.Literal(2),
					types.KeyTargetField:      m.Literal(3),
				}
				setOpt(p, types.KeyTransform, m, 4)
				return types.ExtractionResult{TargetText: field, Params: p}, nil
			},
			Examples: []string{
				"Map field 'user_name' of 'row' to 'userName'",
				"Map field 'created_at' from 'row' to 'createdAt' using transform 'isoDate'",
			},
		},
		{
			ID:       "map-data",
			Pattern:  `^map {q} to {q} using (?:mapping |map )?{q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentMapData,
			Priority: 609,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				return types.ExtractionResult{
					TargetText: src,
					Params: types.Params{
						types.KeySourceContextVar: src,
						types.KeyTargetContextVar: m.Literal(2),
						types.KeyMapName:          m.Literal(3),
					},
				}, nil
			},
			Examples: []string{"Map 'apiUser' to 'dbUser' using mapping 'USER_FIELDS'"},
		},
		{
			ID:       "compare-api-db",
			Pattern:  `^compare (?:the )?api response(?: field {q})? with database {q} query {q}` + withParams + `(?: ignoring {q})?$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentCompareAPIDB,
			Priority: 612,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := queryResult(m, 2, 3, 4)
				if m.Has(1) {
					path, err := jsonPath(m, 1)
					if err != nil {
						return types.ExtractionResult{}, err
					}
					p[types.KeyJSONPath] = path
				}
				setOpt(p, types.KeyIgnore, m, 5)
				return res, nil
			},
			Examples: []string{
				"Compare API response with database 'PRIMARY_DB' query 'GET_USER'",
				`Compare the API response field 'data.user' with database 'PRIMARY_DB' query 'GET_USER' params '[42]' ignoring 'updatedAt'`,
			},
		},
		{
			ID:       "compare-context",
			Pattern:  `^compare context {q} (?:with|to) (?:context )?{q}(?: (?:by|on) key {q})?(?: ignoring {q})?$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentCompareContext,
			Priority: 615,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(1)
				p := types.Params{
					types.KeySourceContextVar: src,
					types.KeyTargetContextVar: m.Literal(2),
				}
				setOpt(p, types.KeyMatchKey, m, 3)
				setOpt(p, types.KeyIgnore, m, 4)
				return types.ExtractionResult{TargetText: src, Params: p}, nil
			},
			Examples: []string{
				"Compare context 'apiUsers' with context 'dbUsers'",
				"Compare context 'apiUsers' to 'dbUsers' by key 'id' ignoring 'updatedAt'",
			},
		},
		{
			ID:       "transform-data",
			Pattern:  `^transform (?:field {q} (?:of|in) )?{q} (?:to|using) (uppercase|lowercase|trim|number|string|boolean|date|json)` + storeAs + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentTransformData,
			Priority: 618,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				src := m.Literal(2)
				p := types.Params{
					types.KeySourceContextVar: src,
					types.KeyTransform:        m.Lower(3),
				}
				setOpt(p, types.KeySourceField, m, 1)
				setOpt(p, types.KeyTargetContextVar, m, 4)
				return types.ExtractionResult{TargetText: src, Params: p}, nil
			},
			Examples: []string{
				"Transform 'email' to lowercase",
				"Transform field 'price' of 'row' to number and store it as 'price'",
			},
		},
		{
			ID:       "load-test-data",
			Pattern:  `^load test data from {q}(?: sheet {q})?` + storeAs + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentLoadTestData,
			Priority: 621,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				file := m.Literal(1)
				p := types.Params{types.KeyFileName: file}
				setOpt(p, types.KeySheetName, m, 2)
				setOpt(p, types.KeyTargetContextVar, m, 3)
				return types.ExtractionResult{TargetText: file, Params: p}, nil
			},
			Examples: []string{
				"Load test data from 'users.json'",
				"Load test data from 'accounts.xlsx' sheet 'Premium' and store it as 'accounts'",
			},
		},
		{
			ID:       "extract-json-path",
			Pattern:  `^extract json path {q} from {q}` + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentExtractJSONPath,
			Priority: 624,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				path, err := jsonPath(m, 1)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				src := m.Literal(2)
				p := types.Params{
					types.KeyJSONPath:         path,
					types.KeySourceContextVar: src,
				}
				setOpt(p, types.KeyTargetContextVar, m, 3)
				return types.ExtractionResult{TargetText: path, Params: p}, nil
			},
			Examples: []string{
				"Extract json path 'data.items[0].id' from 'response'",
				"Extract JSON path '$.token' from 'loginResponse' and store it as 'token'",
			},
		},
	}
}
