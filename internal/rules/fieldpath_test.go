package rules

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solatis/stepgrammar/internal/types"
)

func TestParseJSONPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    []PathSegment
		wantErr error
	}{
		{
			name: "rooted dotted path",
			path: "$.data.id",
			want: []PathSegment{{Key: "data"}, {Key: "id"}},
		},
		{
			name: "unrooted path",
			path: "data.id",
			want: []PathSegment{{Key: "data"}, {Key: "id"}},
		},
		{
			name: "index and wildcard",
			path: "items[0].tags[*]",
			want: []PathSegment{{Key: "items"}, {Index: 0, IsIndex: true}, {Key: "tags"}, {Wildcard: true}},
		},
		{
			name: "dotted wildcard",
			path: "items.*.price",
			want: []PathSegment{{Key: "items"}, {Wildcard: true}, {Key: "price"}},
		},
		{
			name: "root index",
			path: "$[2].name",
			want: []PathSegment{{Index: 2, IsIndex: true}, {Key: "name"}},
		},
		{name: "empty", path: "", wantErr: types.ErrInvalidJSONPath},
		{name: "root only", path: "$", wantErr: types.ErrInvalidJSONPath},
		{name: "double dot", path: "a..b", wantErr: types.ErrInvalidJSONPath},
		{name: "trailing dot", path: "a.", wantErr: types.ErrInvalidJSONPath},
		{name: "unclosed bracket", path: "a[0", wantErr: types.ErrInvalidJSONPath},
		{name: "negative index", path: "a[-1]", wantErr: types.ErrInvalidJSONPath},
		{name: "stray bracket", path: "a]b", wantErr: types.ErrInvalidJSONPath},
		{name: "too deep", path: strings.Repeat("a.", types.MaxPathDepth) + "a", wantErr: types.ErrPathTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSONPath(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseJSONPath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseJSONPath(%q) error = %v", tt.path, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseJSONPath(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNormalizeJSONPath(t *testing.T) {
	tests := map[string]string{
		"data.items[0].id": "$.data.items[0].id",
		"$.data.id":        "$.data.id",
		"$data.id":         "$.data.id",
		"items.*.price":    "$.items[*].price",
		"  token  ":        "$.token",
	}
	for in, want := range tests {
		got, err := NormalizeJSONPath(in)
		if err != nil {
			t.Errorf("NormalizeJSONPath(%q) error = %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizeJSONPath(%q) = %q, want %q", in, got, want)
		}
	}
}

// Property-based test: normalization is idempotent
func TestNormalizeJSONPath_PropertyIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	parts := []string{"a", "bb", "[0]", "[3]", "[*]", ".", "*", "$"}

	properties.Property("normalize(normalize(p)) == normalize(p)", prop.ForAll(
		func(idx []int) bool {
			var b strings.Builder
			for _, i := range idx {
				b.WriteString(parts[i])
			}
			once, err := NormalizeJSONPath(b.String())
			if err != nil {
				return true
			}
			twice, err := NormalizeJSONPath(once)
			return err == nil && twice == once
		},
		gen.SliceOf(gen.IntRange(0, len(parts)-1)),
	))

	properties.TestingRun(t)
}
