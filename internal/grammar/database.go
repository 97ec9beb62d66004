package grammar

import (
	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// withParams is the optional "params '<json>'" clause of query steps.
const withParams = `(?: params {q})?`

// queryResult builds the shared alias/query/params result of query steps.
// aliasGroup and queryGroup are required literals; paramsGroup is optional.
func queryResult(m *rules.Match, aliasGroup, queryGroup, paramsGroup int) (types.ExtractionResult, types.Params) {
	query := m.Literal(queryGroup)
	p := types.Params{
		types.KeyDBAlias: m.Literal(aliasGroup),
		types.KeyDBQuery: query,
	}
	if paramsGroup > 0 {
		setOpt(p, types.KeyDBParams, m, paramsGroup)
	}
	return types.ExtractionResult{TargetText: query, Params: p}, p
}

// databaseRules covers named-query database steps. Queries are referenced by
// key; resolving the key to SQL is the executor's job.
func databaseRules() []rules.Rule {
	return []rules.Rule{
		{
			ID:       "db-connect",
			Pattern:  `^connect to database {q}(?: (?:using|with) {q})?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentDBConnect,
			Priority: 551,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				alias := m.Literal(1)
				p := types.Params{types.KeyDBAlias: alias}
				setOpt(p, types.KeyURL, m, 2)
				return types.ExtractionResult{TargetText: alias, Params: p}, nil
			},
			Examples: []string{
				"Connect to database 'PRIMARY_DB'",
				"Connect to database 'REPORTS' using 'postgres://reports.local/app'",
			},
		},
		{
			ID:       "db-query-named-params",
			Pattern:  `^query database {q} with {q} params {q}` + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentDBQuery,
			Priority: 552,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := queryResult(m, 1, 2, 3)
				setOpt(p, types.KeyTargetContextVar, m, 4)
				return res, nil
			},
			Examples: []string{
				`Query database 'PRIMARY_DB' with 'GET_BY_CODE' params '["A100"]'`,
				`Query database 'PRIMARY_DB' with 'GET_BY_CODE' params '["A100"]' and store results as 'products'`,
			},
		},
		{
			ID:       "db-query-named",
			Pattern:  `^query database {q} with {q}` + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentDBQuery,
			Priority: 553,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := queryResult(m, 1, 2, 0)
				setOpt(p, types.KeyTargetContextVar, m, 3)
				return res, nil
			},
			Examples: []string{
				"Query database 'PRIMARY_DB' with 'GET_ALL_USERS'",
				"Query database 'PRIMARY_DB' with 'GET_ALL_USERS' and store it as 'users'",
			},
		},
		{
			ID:       "db-get-column",
			Pattern:  `^get (?:column )?{q} from database {q} query {q}` + withParams + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentDBGetValue,
			Priority: 554,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := queryResult(m, 2, 3, 4)
				p[types.KeyDBColumn] = m.Literal(1)
				setOpt(p, types.KeyTargetContextVar, m, 5)
				return res, nil
			},
			Examples: []string{
				"Get 'status' from database 'PRIMARY_DB' query 'GET_ORDER'",
				`Get column 'email' from database 'PRIMARY_DB' query 'GET_USER' params '[42]' and store it as 'userEmail'`,
			},
		},
		{
			ID:       "db-get-value",
			Pattern:  `^get database value from {q} query {q}` + withParams + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentDBGetValue,
			Priority: 555,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := queryResult(m, 1, 2, 3)
				setOpt(p, types.KeyTargetContextVar, m, 4)
				return res, nil
			},
			Examples: []string{
				"Get database value from 'PRIMARY_DB' query 'GET_STATUS'",
				`Get database value from 'PRIMARY_DB' query 'GET_STATUS' params '["A1"]'`,
				"Get database value from 'PRIMARY_DB' query 'GET_STATUS' and store it as 'status'",
			},
		},
		{
			ID:       "db-get-row",
			Pattern:  `^get database row from {q} query {q}` + withParams + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentDBGetRow,
			Priority: 558,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := queryResult(m, 1, 2, 3)
				setOpt(p, types.KeyTargetContextVar, m, 4)
				return res, nil
			},
			Examples: []string{
				"Get database row from 'PRIMARY_DB' query 'GET_FIRST_ACTIVE'",
				`Get database row from 'PRIMARY_DB' query 'GET_BY_ID' params '[7]'`,
				"Get database row from 'PRIMARY_DB' query 'GET_FIRST_ACTIVE' and store it as 'row'",
			},
		},
		{
			ID:       "db-get-rows",
			Pattern:  `^get database rows from {q} query {q}` + withParams + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentDBGetRows,
			Priority: 561,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := queryResult(m, 1, 2, 3)
				setOpt(p, types.KeyTargetContextVar, m, 4)
				return res, nil
			},
			Examples: []string{
				"Get database rows from 'PRIMARY_DB' query 'GET_ACTIVE_USERS'",
				`Get database rows from 'PRIMARY_DB' query 'GET_BY_STATUS' params '["OPEN"]' and store them as 'openOrders'`,
			},
		},
		{
			ID:       "db-count",
			Pattern:  `^count database rows (?:from|in) {q} query {q}` + withParams + storeAs + `$`,
			Category: types.CategoryQuery,
			Intent:   types.IntentDBCount,
			Priority: 564,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := queryResult(m, 1, 2, 3)
				setOpt(p, types.KeyTargetContextVar, m, 4)
				return res, nil
			},
			Examples: []string{
				"Count database rows in 'PRIMARY_DB' query 'GET_PENDING'",
				"Count database rows from 'PRIMARY_DB' query 'GET_PENDING' and store it as 'pending'",
			},
		},
		{
			ID:       "db-execute",
			Pattern:  `^execute {q} on database {q}` + withParams + `$`,
			Category: types.CategoryAction,
			Intent:   types.IntentDBExecute,
			Priority: 567,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := queryResult(m, 2, 1, 3)
				return res, nil
			},
			Examples: []string{
				"Execute 'RESET_FIXTURES' on database 'PRIMARY_DB'",
				`Execute 'DELETE_USER' on database 'PRIMARY_DB' params '[42]'`,
			},
		},
		{
			ID:       "db-verify-field",
			Pattern:  `^verify (?:that )?database field {q} (?:of|in|from) {q} query {q}` + withParams + ` {op} {q}$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyDBField,
			Priority: 570,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				op, err := comparison(m, 5)
				if err != nil {
					return types.ExtractionResult{}, err
				}
				res, p := queryResult(m, 2, 3, 4)
				p[types.KeyDBColumn] = m.Literal(1)
				p[types.KeyComparisonOp] = op
				res.TargetText = m.Literal(1)
				res.ExpectedValue = m.Literal(6)
				return res, nil
			},
			Examples: []string{
				"Verify database field 'status' in 'PRIMARY_DB' query 'GET_ORDER' is 'SHIPPED'",
				`Verify that database field 'total' from 'PRIMARY_DB' query 'GET_ORDER' params '[7]' is greater than '10'`,
			},
		},
		{
			ID:       "db-verify-count",
			Pattern:  `^verify (?:that )?database {q} query {q}` + withParams + ` returns (\d+) (?:rows?|records?)$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyDBCount,
			Priority: 573,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, p := queryResult(m, 1, 2, 3)
				p[types.KeyComparisonOp] = rules.OpEq.String()
				if err := setInt(p, types.KeyRowCount, m, 4); err != nil {
					return types.ExtractionResult{}, err
				}
				res.ExpectedValue = m.Group(4)
				return res, nil
			},
			Examples: []string{
				"Verify database 'PRIMARY_DB' query 'GET_PENDING' returns 3 rows",
				`Verify that database 'PRIMARY_DB' query 'GET_BY_CODE' params '["A1"]' returns 1 record`,
			},
		},
		{
			ID:       "db-verify-exists",
			Pattern:  `^verify (?:that )?database {q} query {q}` + withParams + ` (returns|does not return) (?:any )?(?:rows|records|results)$`,
			Category: types.CategoryAssertion,
			Intent:   types.IntentVerifyDBExist,
			Priority: 576,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				res, _ := queryResult(m, 1, 2, 3)
				res.Modifiers.Negated = m.Lower(4) != "returns"
				return res, nil
			},
			Examples: []string{
				"Verify database 'PRIMARY_DB' query 'GET_ORPHANS' does not return any rows",
				`Verify that database 'PRIMARY_DB' query 'GET_BY_CODE' params '["A1"]' returns results`,
			},
		},
		{
			ID:       "db-transaction",
			Pattern:  `^(begin|start|commit|rollback|roll back) (?:the )?(?:database )?transaction(?: on {q})?$`,
			Category: types.CategoryAction,
			Intent:   types.IntentDBTransaction,
			Priority: 580,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				action := m.Lower(1)
				switch action {
				case "start":
					action = "begin"
				case "roll back":
					action = "rollback"
				}
				p := types.Params{types.KeyTxAction: action}
				setOpt(p, types.KeyDBAlias, m, 2)
				return types.ExtractionResult{TargetText: action, Params: p}, nil
			},
			Examples: []string{
				"Begin database transaction on 'PRIMARY_DB'",
				"Commit transaction",
				"Roll back the database transaction on 'PRIMARY_DB'",
			},
		},
		{
			ID:       "db-disconnect-all",
			Pattern:  `^disconnect from all databases$`,
			Category: types.CategoryAction,
			Intent:   types.IntentDBDisconnect,
			Priority: 583,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				return types.ExtractionResult{Params: types.Params{types.KeyScope: "all"}}, nil
			},
			Examples: []string{"Disconnect from all databases"},
		},
		{
			ID:       "db-disconnect",
			Pattern:  `^disconnect from database {q}$`,
			Category: types.CategoryAction,
			Intent:   types.IntentDBDisconnect,
			Priority: 584,
			Extract: func(m *rules.Match) (types.ExtractionResult, error) {
				alias := m.Literal(1)
				return types.ExtractionResult{
					TargetText: alias,
					Params:     types.Params{types.KeyDBAlias: alias},
				}, nil
			},
			Examples: []string{"Disconnect from database 'PRIMARY_DB'"},
		},
	}
}
