// internal/rules/fieldpath.go
package rules

import (
	"strconv"
	"strings"

	"github.com/solatis/stepgrammar/internal/types"
)

/*
 * JSON path normalization.
 *
 * API and data-mapping steps name response fields with loose path syntax:
 * "$.data.items[0].id", "data.items[0].id", "items[*].price". Extractors
 * normalize every jsonPath param to the canonical "$."-rooted dotted form so
 * executors see one spelling.
 *
 * Grammar:
 *   path    = ["$" ["."]] segment { "." segment | index }
 *   segment = key { index }
 *   index   = "[" (digits | "*") "]"
 *
 * Keys are any run of characters other than ".", "[" and "]". Depth is
 * bounded by MaxPathDepth.
 */

// PathSegment is one step of a JSON path: an object key, an array index or
// a wildcard.
type PathSegment struct {
	Key      string
	Index    int
	IsIndex  bool
	Wildcard bool
}

// ParseJSONPath splits a path into segments.
// Returns ErrInvalidJSONPath for malformed input, ErrPathTooDeep past depth.
func ParseJSONPath(path string) ([]PathSegment, error) {
	p := strings.TrimSpace(path)
	p = strings.TrimPrefix(p, "$")
	p = strings.TrimPrefix(p, ".")
	if p == "" {
		return nil, types.ErrInvalidJSONPath
	}

	var segs []PathSegment
	for p != "" {
		switch p[0] {
		case '[':
			end := strings.IndexByte(p, ']')
			if end < 0 {
				return nil, types.ErrInvalidJSONPath
			}
			inner := p[1:end]
			if inner == "*" {
				segs = append(segs, PathSegment{Wildcard: true})
			} else {
				n, err := strconv.Atoi(inner)
				if err != nil || n < 0 {
					return nil, types.ErrInvalidJSONPath
				}
				segs = append(segs, PathSegment{Index: n, IsIndex: true})
			}
			p = p[end+1:]
		case '.':
			p = p[1:]
			if p == "" || p[0] == '.' || p[0] == '[' {
				return nil, types.ErrInvalidJSONPath
			}
		case ']':
			return nil, types.ErrInvalidJSONPath
		default:
			end := strings.IndexAny(p, ".[]")
			if end < 0 {
				end = len(p)
			}
			key := p[:end]
			if key == "*" {
				segs = append(segs, PathSegment{Wildcard: true})
			} else {
				segs = append(segs, PathSegment{Key: key})
			}
			p = p[end:]
		}
		if len(segs) > types.MaxPathDepth {
			return nil, types.ErrPathTooDeep
		}
	}
	return segs, nil
}

// FormatJSONPath renders segments in canonical form.
func FormatJSONPath(segs []PathSegment) string {
	var b strings.Builder
	b.WriteString("$")
	for _, s := range segs {
		switch {
		case s.Wildcard:
			b.WriteString("[*]")
		case s.IsIndex:
			b.WriteString("[")
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteString("]")
		default:
			b.WriteString(".")
			b.WriteString(s.Key)
		}
	}
	return b.String()
}

// NormalizeJSONPath parses and re-renders path in canonical form.
func NormalizeJSONPath(path string) (string, error) {
	segs, err := ParseJSONPath(path)
	if err != nil {
		return "", err
	}
	return FormatJSONPath(segs), nil
}
