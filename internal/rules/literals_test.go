package rules

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestExtractLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantText string
		wantLits []string
	}{
		{
			name:     "no quotes",
			input:    "Verify the API response status is 200",
			wantText: "Verify the API response status is 200",
			wantLits: []string{},
		},
		{
			name:     "single quoted",
			input:    "Get count of context 'searchResults'",
			wantText: "Get count of context __QUOTED_0__",
			wantLits: []string{"searchResults"},
		},
		{
			name:     "three literals in order",
			input:    `Query database 'PRIMARY_DB' with 'GET_BY_CODE' params '["A100"]'`,
			wantText: "Query database __QUOTED_0__ with __QUOTED_1__ params __QUOTED_2__",
			wantLits: []string{"PRIMARY_DB", "GET_BY_CODE", `["A100"]`},
		},
		{
			name:     "double quoted keeps single quote inside",
			input:    `Fill "name" with "it's me"`,
			wantText: "Fill __QUOTED_0__ with __QUOTED_1__",
			wantLits: []string{"name", "it's me"},
		},
		{
			name:     "empty quotes give empty literal",
			input:    "Fill 'name' with ''",
			wantText: "Fill __QUOTED_0__ with __QUOTED_1__",
			wantLits: []string{"name", ""},
		},
		{
			name:     "unterminated quote stays plain",
			input:    "Click 'Submit",
			wantText: "Click 'Submit",
			wantLits: []string{},
		},
		{
			name:     "unterminated after a literal",
			input:    `Click 'OK' and "Cancel`,
			wantText: `Click __QUOTED_0__ and "Cancel`,
			wantLits: []string{"OK"},
		},
		{
			name:     "apostrophe is not an opener",
			input:    "I don't click 'Submit'",
			wantText: "I don't click __QUOTED_0__",
			wantLits: []string{"Submit"},
		},
		{
			name:     "apostrophe closes a single-quoted literal early",
			input:    "Click on 'user's profile'",
			wantText: "Click on __QUOTED_0__s profile'",
			wantLits: []string{"user"},
		},
		{
			name:     "apostrophe inside double quotes",
			input:    `Click on "user's profile"`,
			wantText: "Click on __QUOTED_0__",
			wantLits: []string{"user's profile"},
		},
		{
			name:     "token in input passes through",
			input:    "Enter 'secret' into __QUOTED_0__",
			wantText: "Enter __QUOTED_0__ into __QUOTED_0__",
			wantLits: []string{"secret"},
		},
		{
			name:     "backslash is ordinary content",
			input:    `Fill 'path' with 'C:\temp\'`,
			wantText: "Fill __QUOTED_0__ with __QUOTED_1__",
			wantLits: []string{"path", `C:\temp\`},
		},
		{
			name:     "adjacent literals",
			input:    "'a''b'",
			wantText: "__QUOTED_0____QUOTED_1__",
			wantLits: []string{"a", "b"},
		},
		{
			name:     "whitespace inside literal preserved",
			input:    "Fill 'x' with '  two  spaces '",
			wantText: "Fill __QUOTED_0__ with __QUOTED_1__",
			wantLits: []string{"x", "  two  spaces "},
		},
		{
			name:     "empty input",
			input:    "",
			wantText: "",
			wantLits: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, lits := ExtractLiterals(tt.input)
			if text != tt.wantText {
				t.Errorf("ExtractLiterals() text = %q, want %q", text, tt.wantText)
			}
			if got := lits.Values(); !reflect.DeepEqual(got, tt.wantLits) {
				t.Errorf("ExtractLiterals() literals = %q, want %q", got, tt.wantLits)
			}
		})
	}
}

func TestStrayPlaceholders(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Get count of context 'searchResults'", false},
		{"Get count of context '__QUOTED_0__'", false},
		{"Verify the API response status is 200", false},
		{"Enter 'secret' into __QUOTED_0__", true},
		{"Click on __QUOTED_0__", true},
		{"Click on __QUOTED_7__ and 'OK'", true},
		{"Click on __QUOTED_x__", false},
	}
	for _, tt := range tests {
		text, lits := ExtractLiterals(tt.input)
		if got := StrayPlaceholders(text, lits); got != tt.want {
			t.Errorf("StrayPlaceholders(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLiteralsGet(t *testing.T) {
	_, lits := ExtractLiterals("'a' 'b'")
	if v, ok := lits.Get(1); !ok || v != "b" {
		t.Errorf("Get(1) = (%q, %v), want (\"b\", true)", v, ok)
	}
	if _, ok := lits.Get(2); ok {
		t.Error("Get(2) ok = true, want false")
	}
	if _, ok := lits.Get(-1); ok {
		t.Error("Get(-1) ok = true, want false")
	}
}

func TestRestore_UnknownIndexUntouched(t *testing.T) {
	got := Restore("x __QUOTED_3__ y", Literals{{Value: "a", Quote: '\''}})
	if got != "x __QUOTED_3__ y" {
		t.Errorf("Restore() = %q, want placeholder left in place", got)
	}
}

func TestPlaceholder(t *testing.T) {
	if got := Placeholder(12); got != "__QUOTED_12__" {
		t.Errorf("Placeholder(12) = %q", got)
	}
}

var sentenceAlphabet = []string{"a", "Z", "7", " ", "'", `"`, `\`, ".", "é", "\t"}

func sentenceFrom(idx []int) string {
	var b strings.Builder
	for _, i := range idx {
		b.WriteString(sentenceAlphabet[i])
	}
	return b.String()
}

// Property-based test: extraction round trip
func TestExtractLiterals_PropertyRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("restore inverts extraction", prop.ForAll(
		func(idx []int) bool {
			s := sentenceFrom(idx)
			text, lits := ExtractLiterals(s)
			return Restore(text, lits) == s
		},
		gen.SliceOf(gen.IntRange(0, len(sentenceAlphabet)-1)),
	))

	properties.Property("normalized text has one placeholder per literal", prop.ForAll(
		func(idx []int) bool {
			text, lits := ExtractLiterals(sentenceFrom(idx))
			return len(placeholderRe.FindAllString(text, -1)) == len(lits)
		},
		gen.SliceOf(gen.IntRange(0, len(sentenceAlphabet)-1)),
	))

	properties.TestingRun(t)
}
