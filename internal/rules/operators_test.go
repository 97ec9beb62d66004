package rules

import (
	"errors"
	"regexp"
	"testing"

	"github.com/solatis/stepgrammar/internal/types"
)

func TestParseComparison(t *testing.T) {
	tests := []struct {
		phrase string
		want   Operator
	}{
		{"is", OpEq},
		{"equals", OpEq},
		{"IS EQUAL TO", OpEq},
		{"is not", OpNeq},
		{"is   not equal to", OpNeq},
		{"does not contain", OpNotContains},
		{"contains", OpContains},
		{"starts with", OpPrefix},
		{"ends with", OpSuffix},
		{"is greater than", OpGt},
		{"is greater than or equal to", OpGte},
		{"is at least", OpGte},
		{"<", OpLt},
		{"<=", OpLte},
		{"matches", OpRegex},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got, err := ParseComparison(tt.phrase)
			if err != nil {
				t.Fatalf("ParseComparison(%q) error = %v", tt.phrase, err)
			}
			if got != tt.want {
				t.Errorf("ParseComparison(%q) = %v, want %v", tt.phrase, got, tt.want)
			}
		})
	}

	if _, err := ParseComparison("is roughly"); !errors.Is(err, types.ErrUnknownOperator) {
		t.Errorf("ParseComparison(unknown) error = %v, want %v", err, types.ErrUnknownOperator)
	}
}

func TestOpPattern_LongestPhraseWins(t *testing.T) {
	re := regexp.MustCompile(`(?i)^value ` + opPattern + ` (\d+)$`)
	tests := []struct {
		sentence string
		phrase   string
	}{
		{"value is not equal to 5", "is not equal to"},
		{"value is greater than or equal to 5", "is greater than or equal to"},
		{"value is 5", "is"},
		{"value >= 5", ">="},
	}
	for _, tt := range tests {
		m := re.FindStringSubmatch(tt.sentence)
		if m == nil {
			t.Errorf("%q did not match", tt.sentence)
			continue
		}
		if m[1] != tt.phrase {
			t.Errorf("%q captured %q, want %q", tt.sentence, m[1], tt.phrase)
		}
	}
}

func TestOperatorStringAndNegate(t *testing.T) {
	if OpNotContains.String() != "not_contains" {
		t.Errorf("OpNotContains.String() = %q", OpNotContains.String())
	}
	if Operator(99).String() != "unspecified" {
		t.Errorf("Operator(99).String() = %q", Operator(99).String())
	}
	pairs := [][2]Operator{{OpEq, OpNeq}, {OpContains, OpNotContains}, {OpLt, OpGte}, {OpGt, OpLte}}
	for _, p := range pairs {
		if p[0].Negate() != p[1] || p[1].Negate() != p[0] {
			t.Errorf("Negate(%v) / Negate(%v) not complementary", p[0], p[1])
		}
	}
	if OpRegex.Negate() != OpRegex {
		t.Errorf("OpRegex.Negate() = %v", OpRegex.Negate())
	}
}

func TestParseOperator(t *testing.T) {
	for op := OpEq; op <= OpRegex; op++ {
		got, err := ParseOperator(op.String())
		if err != nil || got != op {
			t.Errorf("ParseOperator(%q) = %v, %v, want %v", op.String(), got, err, op)
		}
	}
	for _, name := range []string{"", "unspecified", "EQ", "equals"} {
		if _, err := ParseOperator(name); !errors.Is(err, types.ErrUnknownOperator) {
			t.Errorf("ParseOperator(%q) error = %v, want ErrUnknownOperator", name, err)
		}
	}
}
