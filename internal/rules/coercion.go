// internal/rules/coercion.go
package rules

import (
	"math"
	"strconv"
	"strings"

	"github.com/solatis/stepgrammar/internal/types"
)

/*
 * Value coercion for captured step text.
 *
 * Extractors receive every capture as text. These helpers convert the few
 * shapes the grammar carries as numbers into the scalar types params use:
 *
 *   - durations ("5 seconds", "500 ms", "1.5 minutes") -> int64 milliseconds
 *   - ordinals ("first", "3rd", "last", "2") -> int64, last = -1
 *   - integers and decimals -> int64 / float64
 *
 * Failures return ErrCoercionFailed. Patterns constrain captures tightly, so
 * a failure here means the pattern accepted something the extractor cannot
 * represent, and the sentence is reported extraction-failed.
 */

// LastPosition is the ordinal value of "last".
const LastPosition int64 = -1

var unitMillis = map[string]float64{
	"ms":           1,
	"msec":         1,
	"millisecond":  1,
	"milliseconds": 1,
	"s":            1000,
	"sec":          1000,
	"secs":         1000,
	"second":       1000,
	"seconds":      1000,
	"m":            60000,
	"min":          60000,
	"mins":         60000,
	"minute":       60000,
	"minutes":      60000,
}

// DurationUnitPattern matches every unit ParseDurationMs accepts.
const DurationUnitPattern = `(milliseconds?|msec|ms|seconds?|secs?|s|minutes?|mins?|m)`

// ParseDurationMs converts an amount and unit to whole milliseconds.
// Fractional results round to the nearest millisecond.
func ParseDurationMs(amount, unit string) (int64, error) {
	mult, ok := unitMillis[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, types.ErrCoercionFailed
	}
	f, err := ParseFloat(amount)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, types.ErrCoercionFailed
	}
	return int64(math.Round(f * mult)), nil
}

var ordinalWords = map[string]int64{
	"first":   1,
	"second":  2,
	"third":   3,
	"fourth":  4,
	"fifth":   5,
	"sixth":   6,
	"seventh": 7,
	"eighth":  8,
	"ninth":   9,
	"tenth":   10,
	"last":    LastPosition,
}

// OrdinalPattern matches every form ParseOrdinal accepts.
const OrdinalPattern = `(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth|last|\d+(?:st|nd|rd|th)?)`

// ParseOrdinal converts an ordinal word or numbered position (1-based) to
// int64. "last" yields LastPosition.
func ParseOrdinal(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, ok := ordinalWords[s]; ok {
		return n, nil
	}
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	n, err := ParseInt(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, types.ErrCoercionFailed
	}
	return n, nil
}

// ParseInt parses a base-10 integer after trimming whitespace.
func ParseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, types.ErrCoercionFailed
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, types.ErrCoercionFailed
	}
	return n, nil
}

// ParseFloat parses a decimal number after trimming whitespace.
// Whitespace-only strings, NaN and infinities are rejected.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, types.ErrCoercionFailed
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, types.ErrCoercionFailed
	}
	return f, nil
}
