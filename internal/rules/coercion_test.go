package rules

import (
	"errors"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solatis/stepgrammar/internal/types"
)

func TestParseDurationMs(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		unit    string
		want    int64
		wantErr error
	}{
		{name: "seconds", amount: "5", unit: "seconds", want: 5000},
		{name: "single second", amount: "1", unit: "second", want: 1000},
		{name: "milliseconds", amount: "500", unit: "ms", want: 500},
		{name: "fractional seconds", amount: "1.5", unit: "s", want: 1500},
		{name: "minutes", amount: "2", unit: "minutes", want: 120000},
		{name: "unit case", amount: "3", unit: "SECONDS", want: 3000},
		{name: "rounds to nearest ms", amount: "0.0004", unit: "s", want: 0},
		{name: "unknown unit", amount: "5", unit: "hours", wantErr: types.ErrCoercionFailed},
		{name: "non numeric", amount: "five", unit: "seconds", wantErr: types.ErrCoercionFailed},
		{name: "negative", amount: "-1", unit: "seconds", wantErr: types.ErrCoercionFailed},
		{name: "empty", amount: "  ", unit: "seconds", wantErr: types.ErrCoercionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDurationMs(tt.amount, tt.unit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDurationMs() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDurationMs() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDurationMs() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseOrdinal(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "first", want: 1},
		{in: "Third", want: 3},
		{in: "tenth", want: 10},
		{in: "last", want: LastPosition},
		{in: "1st", want: 1},
		{in: "22nd", want: 22},
		{in: "3rd", want: 3},
		{in: "4th", want: 4},
		{in: "7", want: 7},
		{in: "0", wantErr: true},
		{in: "0th", wantErr: true},
		{in: "eleventh", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrdinal(tt.in)
			if tt.wantErr {
				if !errors.Is(err, types.ErrCoercionFailed) {
					t.Errorf("ParseOrdinal(%q) error = %v, want %v", tt.in, err, types.ErrCoercionFailed)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOrdinal(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseOrdinal(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "3.14", want: 3.14},
		{in: " 42 ", want: 42},
		{in: "-0.5", want: -0.5},
		{in: "1e3", want: 1000},
		{in: "NaN", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFloat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFloat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseFloat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Property-based test: whole seconds convert exactly
func TestParseDurationMs_PropertySeconds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("n seconds is n*1000 ms", prop.ForAll(
		func(n int) bool {
			got, err := ParseDurationMs(strconv.Itoa(n), "seconds")
			return err == nil && got == int64(n)*1000
		},
		gen.IntRange(0, 100000),
	))

	properties.TestingRun(t)
}
