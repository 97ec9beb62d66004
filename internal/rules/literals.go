// internal/rules/literals.go
package rules

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

/*
 * Quoted-literal extraction.
 *
 * Replaces every single- or double-quoted substring of a step sentence with a
 * positional placeholder (__QUOTED_<n>__) so rule patterns describe sentence
 * structure instead of arbitrary literal content.
 *
 * Scanning rules:
 *   - Openers are ' and ". A literal closes at the first quote of the same
 *     style; the other style is ordinary content ("it's" stays intact).
 *   - No escape sequences. A backslash is ordinary content.
 *   - A ' directly after a letter or digit is an apostrophe (don't), not an
 *     opener.
 *   - An unterminated quote leaves the quote and the rest of the line as
 *     plain text.
 *
 * Round trip: Restore(ExtractLiterals(s)) == s for any s that does not
 * already contain placeholder tokens.
 *
 * Placeholder tokens typed into the unquoted text would alias real literals,
 * so Registry.Match treats a sentence with StrayPlaceholders as unmatched.
 */

// PlaceholderPrefix and PlaceholderSuffix delimit a placeholder token.
const (
	PlaceholderPrefix = "__QUOTED_"
	PlaceholderSuffix = "__"
)

// placeholderPattern is the regex fragment the {q} macro expands to.
const placeholderPattern = `__QUOTED_(\d+)__`

var placeholderRe = regexp.MustCompile(placeholderPattern)

// Literal is one quoted substring with its quote character.
type Literal struct {
	Value string
	Quote byte
}

// Literals holds the quoted substrings of one sentence in extraction order.
// Lifetime is one match attempt.
type Literals []Literal

// Get returns the content of literal i, or ("", false) when i is out of range.
func (l Literals) Get(i int) (string, bool) {
	if i < 0 || i >= len(l) {
		return "", false
	}
	return l[i].Value, true
}

// Values returns the literal contents in order.
func (l Literals) Values() []string {
	out := make([]string, len(l))
	for i, lit := range l {
		out[i] = lit.Value
	}
	return out
}

// Placeholder returns the token standing in for literal i.
func Placeholder(i int) string {
	return PlaceholderPrefix + strconv.Itoa(i) + PlaceholderSuffix
}

// ExtractLiterals normalizes sentence into placeholder-substituted text and
// the ordered list of literal contents (quotes stripped). Pure.
func ExtractLiterals(sentence string) (string, Literals) {
	var out strings.Builder
	out.Grow(len(sentence))
	lits := Literals{}

	prev := rune(-1)
	i := 0
	for i < len(sentence) {
		c := sentence[i]
		if (c == '\'' || c == '"') && isOpener(c, prev) {
			end := strings.IndexByte(sentence[i+1:], c)
			if end >= 0 {
				lits = append(lits, Literal{Value: sentence[i+1 : i+1+end], Quote: c})
				out.WriteString(Placeholder(len(lits) - 1))
				i += end + 2
				prev = rune(c)
				continue
			}
			// Unterminated: keep the remainder verbatim.
			out.WriteString(sentence[i:])
			break
		}
		r, size := utf8.DecodeRuneInString(sentence[i:])
		out.WriteString(sentence[i : i+size])
		prev = r
		i += size
	}
	return out.String(), lits
}

// StrayPlaceholders reports whether normalized holds placeholder tokens that
// ExtractLiterals did not emit. Every literal yields exactly one token, so any
// surplus came from the input itself.
func StrayPlaceholders(normalized string, lits Literals) bool {
	return len(placeholderRe.FindAllStringIndex(normalized, -1)) != len(lits)
}

// isOpener reports whether quote byte c, following rune prev, opens a literal.
func isOpener(c byte, prev rune) bool {
	if c == '"' || prev < 0 {
		return true
	}
	return !unicode.IsLetter(prev) && !unicode.IsDigit(prev)
}

// Restore substitutes literals back into placeholder positions of normalized.
// Tokens whose index has no literal are left untouched.
func Restore(normalized string, lits Literals) string {
	return placeholderRe.ReplaceAllStringFunc(normalized, func(tok string) string {
		n, err := strconv.Atoi(tok[len(PlaceholderPrefix) : len(tok)-len(PlaceholderSuffix)])
		if err != nil {
			return tok
		}
		if n < 0 || n >= len(lits) {
			return tok
		}
		q := string(lits[n].Quote)
		return q + lits[n].Value + q
	})
}
