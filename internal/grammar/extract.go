package grammar

import (
	"encoding/json"
	"strings"

	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// Shared pattern fragments.
const (
	// storeAs is an optional trailing "and store it as '<name>'" clause.
	storeAs = `(?: (?:and )?store (?:it |them |the result |results )?as {q})?`

	// amount captures a whole or decimal number.
	amount = `(\d+(?:\.\d+)?)`
)

// setOpt copies optional literal group i into p under key when it participated.
func setOpt(p types.Params, key string, m *rules.Match, i int) {
	if v, ok := m.OptLiteral(i); ok {
		p[key] = v
	}
}

// comparison normalizes the {op} phrase captured by group i.
func comparison(m *rules.Match, i int) (string, error) {
	op, err := rules.ParseComparison(m.Group(i))
	if err != nil {
		return "", err
	}
	return op.String(), nil
}

// jsonPath resolves literal group i and normalizes it to "$." form.
// An empty literal stays empty.
func jsonPath(m *rules.Match, i int) (string, error) {
	raw := m.Literal(i)
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return rules.NormalizeJSONPath(raw)
}

// setDuration stores the amount/unit pair in groups i and i+1 under key as
// milliseconds when the pair participated.
func setDuration(p types.Params, key string, m *rules.Match, i int) error {
	if !m.Has(i) {
		return nil
	}
	ms, err := rules.ParseDurationMs(m.Group(i), m.Group(i+1))
	if err != nil {
		return err
	}
	p[key] = ms
	return nil
}

// setInt stores group i as int64 under key when it participated.
func setInt(p types.Params, key string, m *rules.Match, i int) error {
	if !m.Has(i) {
		return nil
	}
	n, err := rules.ParseInt(m.Group(i))
	if err != nil {
		return err
	}
	p[key] = n
	return nil
}

// setLower stores group i lowercased under key when it participated.
func setLower(p types.Params, key string, m *rules.Match, i int) {
	if m.Has(i) {
		p[key] = m.Lower(i)
	}
}

// encodeJSON serializes a composite param value. Map keys are emitted in
// sorted order, so output is deterministic.
func encodeJSON(v map[string]string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
