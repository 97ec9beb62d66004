package grammar

import (
	"strings"

	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

const (
	// httpRequest captures the method and URL literal of a request step.
	httpRequest = `^(?:send|make) (?:an? )?(get|post|put|patch|delete|head|options) request to {q}`

	// apiResponse is the subject of every response assertion.
	apiResponse = `^verify (?:that )?(?:the )?api response`
)

// callResult builds the method/URL result shared by request steps.
func callResult(m *rules.Match) (types.ExtractionResult, types.Params) {
	url := m.Literal(2)
	p := types.Params{
		types.KeyHTTPMethod: strings.ToUpper(m.Group(1)),
		types.KeyAPIURL:     url,
	}
	return types.ExtractionResult{TargetText: url, Params: p}, p
}

var statusClasses = map[string]string{
	"success":      "2xx",
	"successful":   "2xx",
	"redirect":     "3xx",
	"redirection":  "3xx",
	"client error": "4xx",
	"server error": "5xx",
}

// apiRules covers HTTP calls, client configuration and response assertions.
func apiRules() []rules.Rule {
	return []rules.Rule{
		{
			ID:       "api-call-body-headers",
			Pattern:  httpRequest + ` with body {q} and headers {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentAPICall,
			Priority: 852,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := callResult(m)
				p[types.KeyRequestBody] = m.Literal(3)
				p[types.KeyRequestHeaders] = m.Literal(4)
				return res, nil
			},
			Examples: []string{
				`Send POST request to '/api/users' with body '{"name":"Alice"}' and headers '{"X-Trace":"1"}'`,
			},
		},
		{
			ID:       "api-call-body",
			Pattern:  httpRequest + ` with body {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentAPICall,
			Priority: 855,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := callResult(m)
				p[types.KeyRequestBody] = m.Literal(3)
				return res, nil
			},
			Examples: []string{
				`Send a POST request to '/api/users' with body '{"name":"Alice"}'`,
				`Make a PUT request to '/api/users/1' with body '{"role":"admin"}'`,
			},
		},
		{
			ID:       "api-call-headers",
			Pattern:  httpRequest + ` with headers {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentAPICall,
			Priority: 858,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := callResult(m)
				p[types.KeyRequestHeaders] = m.Literal(3)
				return res, nil
			},
			Examples: []string{`Send GET request to '/api/me' with headers '{"Accept":"application/json"}'`},
		},
		{
			ID:       "api-call",
			Pattern:  httpRequest + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentAPICall,
			Priority: 861,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := callResult(m)
				return res, nil
			},
			Examples: []string{
				"Send GET request to '/api/users'",
				"Make a DELETE request to '/api/users/1'",
				"Send an OPTIONS request to '/api'",
			},
		},
		{
			ID:       "api-set-base-url",
			Pattern:  `^set (?:the )?api base url to {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentAPISetBaseURL,
			Priority: 864,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				url := m.Literal(1)
				return types.ExtractionResult{TargetText: url, Params: types.Params{types.KeyAPIURL: url}}, nil
			},
			Examples: []string{"Set API base URL to 'https://api.example.com'"},
		},
		{
			ID:       "api-set-header",
			Pattern:  `^set (?:the )?(?:api |request )?header {q} to {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentAPISetHeader,
			Priority: 866,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(1)
				return types.ExtractionResult{
					TargetText: name,
					Value:      m.Literal(2),
					Params: types.Params{
						types.KeyHeaderName:  name,
						types.KeyHeaderValue: m.Literal(2),
					},
				}, nil
			},
			Examples: []string{
				"Set header 'Accept-Language' to 'en-US'",
				"Set the request header 'X-Tenant' to 'acme'",
			},
		},
		{
			ID:       "api-auth-bearer",
			Pattern:  `^(?:use|set) bearer token {q}(?: for (?:the )?api)?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentAPIAuth,
			Priority: 868,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				auth, err := encodeJSON(map[string]string{"token": m.Literal(1)})
				if err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{
					TargetText: "bearer",
					Params: types.Params{
						types.KeyAuthType:   "bearer",
						types.KeyAuthParams: auth,
					},
				}, nil
			},
			Examples: []string{"Use bearer token 'abc123'", "Set bearer token 'abc123' for the API"},
		},
		{
			ID:       "api-auth-basic",
			Pattern:  `^(?:use|set) basic auth(?:entication)? with (?:username )?{q} and (?:password )?{q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentAPIAuth,
			Priority: 869,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				auth, err := encodeJSON(map[string]string{
					"username": m.Literal(1),
					"password": m.Literal(2),
				})
				if err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{
					TargetText: "basic",
					Params: types.Params{
						types.KeyAuthType:   "basic",
						types.KeyAuthParams: auth,
					},
				}, nil
			},
			Examples: []string{"Use basic auth with username 'admin' and password 's3cret'"},
		},
		{
			ID:       "api-auth-key",
			Pattern:  `^(?:use|set) api key {q}(?: in header {q})?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentAPIAuth,
			Priority: 870,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				fields := map[string]string{"key": m.Literal(1)}
				if h, ok := m.OptLiteral(2); ok {
					fields["header"] = h
				}
				auth, err := encodeJSON(fields)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{
					TargetText: "apiKey",
					Params: types.Params{
						types.KeyAuthType:   "apiKey",
						types.KeyAuthParams: auth,
					},
				}, nil
			},
			Examples: []string{"Use API key 'k-123'", "Set API key 'k-123' in header 'X-API-Key'"},
		},
		{
			ID:       "api-verify-status-class",
			Pattern:  apiResponse + ` status (?:is|should be) (?:an? )?(success|successful|redirect|redirection|client error|server error)$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentAPIVerifyStatus,
			Priority: 873,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				class := statusClasses[strings.Join(strings.Fields(m.Lower(1)), " ")]
				return types.ExtractionResult{
					TargetText:    "status",
					ExpectedValue: class,
					Params: types.Params{
						types.KeyHTTPMethod:  "STATUS",
						types.KeyStatusClass: class,
					},
				}, nil
			},
			Examples: []string{
				"Verify the API response status is success",
				"Verify that the API response status is a client error",
			},
		},
		{
			ID:       "api-verify-status",
			Pattern:  apiResponse + ` status (?:is|equals|should be)( not)? (\d{3})$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentAPIVerifyStatus,
			Priority: 875,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				op := rules.OpEq
				if m.Has(1) {
					op = rules.OpNeq
				}
				return types.ExtractionResult{
					TargetText:    "status",
					ExpectedValue: m.Group(2),
					Params: types.Params{
						types.KeyHTTPMethod:   "STATUS",
						types.KeyComparisonOp: op.String(),
					},
					Modifiers: types.Modifiers{Negated: m.Has(1)},
				}, nil
			},
			Examples: []string{
				"Verify the API response status is 200",
				"Verify that the API response status should be 201",
				"Verify the API response status is not 500",
			},
		},
		{
			ID:       "api-verify-json",
			Pattern:  apiResponse + ` (?:field |json )?{q} {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentAPIVerifyJSON,
			Priority: 878,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				path, err := jsonPath(m, 1)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				op, err := comparison(m, 2)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{
					TargetText:    path,
					ExpectedValue: m.Literal(3),
					Params: types.Params{
						types.KeyJSONPath:     path,
						types.KeyComparisonOp: op,
					},
				}, nil
			},
			Examples: []string{
				"Verify the API response field 'data.status' is 'active'",
				"Verify that the API response json '$.items[0].name' contains 'Widget'",
				"Verify the API response 'data.total' is greater than '0'",
			},
		},
		{
			ID:       "api-verify-json-exists",
			Pattern:  apiResponse + ` (?:field |json )?{q} (exists|does not exist)$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentAPIVerifyJSON,
			Priority: 879,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				path, err := jsonPath(m, 1)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{
					TargetText: path,
					Params: types.Params{
						types.KeyJSONPath:  path,
						types.KeyCondition: "exists",
					},
					Modifiers: types.Modifiers{Negated: m.Lower(2) != "exists"},
				}, nil
			},
			Examples: []string{
				"Verify the API response field 'data.id' exists",
				"Verify the API response 'error' does not exist",
			},
		},
		{
			ID:       "api-verify-header",
			Pattern:  apiResponse + ` header {q} {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentAPIVerifyHeader,
			Priority: 882,
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
						types.KeyHeaderName:   name,
						types.KeyComparisonOp: op,
					},
				}, nil
			},
			Examples: []string{"Verify the API response header 'Content-Type' contains 'application/json'"},
		},
		{
			ID:       "api-verify-time",
			Pattern:  apiResponse + ` time is (?:less than|under|below) ` + amount + ` ?` + rules.DurationUnitPattern + `$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentAPIVerifyTime,
			Priority: 885,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				p := types.Params{types.KeyComparisonOp: rules.OpLt.String()}
				if err := setDuration(p, types.KeyMaxResponseMs, m, 1); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: "time", ExpectedValue: m.Group(1) + " " + m.Lower(2), Params: p}, nil
			},
			Examples: []string{
				"Verify the API response time is less than 500 ms",
				"Verify that the API response time is under 2 seconds",
			},
		},
		{
			ID:       "api-verify-body",
			Pattern:  apiResponse + ` body {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentAPIVerifyBody,
			Priority: 888,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				op, err := comparison(m, 1)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{
					TargetText:    "body",
					ExpectedValue: m.Literal(2),
					Params:        types.Params{types.KeyComparisonOp: op},
				}, nil
			},
			Examples: []string{
				"Verify the API response body contains 'created'",
				"Verify the API response body does not contain 'error'",
			},
		},
		{
			ID:       "api-verify-schema",
			Pattern:  apiResponse + ` matches (?:the )?(?:json )?schema {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentAPIVerifySchema,
			Priority: 891,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(1)
				return types.ExtractionResult{TargetText: name, Params: types.Params{types.KeySchemaName: name}}, nil
			},
			Examples: []string{"Verify the API response matches schema 'user.schema.json'"},
		},
		{
			ID:       "api-verify-array-length",
			Pattern:  apiResponse + ` (?:array |list )?{q} has (\d+) (?:items?|elements?|entries)$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentAPIVerifyArrayLength,
			Priority: 894,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				path, err := jsonPath(m, 1)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				p := types.Params{
					types.KeyJSONPath:     path,
					types.KeyComparisonOp: rules.OpEq.String(),
				}
				if err := setInt(p, types.KeyItemCount, m, 2); err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{TargetText: path, ExpectedValue: m.Group(2), Params: p}, nil
			},
			Examples: []string{"Verify the API response array 'data.items' has 3 items"},
		},
		{
			ID:       "api-store-field",
			Pattern:  `^store (?:the )?api response (?:field |json )?{q} as {q}$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentAPIStoreField,
			Priority: 897,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				path, err := jsonPath(m, 1)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				return types.ExtractionResult{
					TargetText: path,
					Params: types.Params{
						types.KeyJSONPath:         path,
						types.KeyTargetContextVar: m.Literal(2),
					},
				}, nil
			},
			Examples: []string{"Store the API response field 'data.id' as 'userId'"},
		},
		{
			ID:       "api-store-response",
			Pattern:  `^store (?:the )?(?:full )?api response as {q}$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentAPIStoreResponse,
			Priority: 900,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				name := m.Literal(1)
				return types.ExtractionResult{TargetText: name, Params: types.Params{types.KeyTargetContextVar: name}}, nil
			},
			Examples: []string{"Store the API response as 'createUserResponse'"},
		},
	}
}
