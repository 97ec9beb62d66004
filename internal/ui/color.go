package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/solatis/stepgrammar/internal/rules"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
)

// MatchLine prints a one-line summary of a match result.
func MatchLine(w io.Writer, res rules.Result) {
	switch res.Status {
	case rules.StatusMatched:
		fmt.Fprintf(w, "%s  %s %s  %s\n", okStyle.Render("ok  "), boldStyle.Render(string(res.RuleID)),
			dimStyle.Render(string(res.Intent.Intent)), res.Sentence)
	case rules.StatusExtractionFailed:
		fmt.Fprintf(w, "%s  %s  %s  %v\n", failStyle.Render("fail"), boldStyle.Render(string(res.RuleID)),
			res.Sentence, res.Err)
	default:
		fmt.Fprintf(w, "%s  %s\n", warnStyle.Render("none"), res.Sentence)
	}
}

// ParamsBlock prints intent fields and params, one per indented line.
func ParamsBlock(w io.Writer, res rules.Result) {
	in := res.Intent
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "    %s %s\n", dimStyle.Render(name+":"), value)
		}
	}
	field("target", in.TargetText)
	field("value", in.Value)
	field("expected", in.ExpectedValue)
	if in.Modifiers.Negated {
		field("negated", "true")
	}
	for _, k := range in.Params.Keys() {
		v, _ := in.Params.String(k)
		field(k, v)
	}
	for _, f := range res.Faults {
		fmt.Fprintf(w, "    %s %s\n", warnStyle.Render("fault:"), f)
	}
}

// StepLine prints a located step result from a feature file scan.
func StepLine(w io.Writer, path string, line int, res rules.Result) {
	loc := dimStyle.Render(fmt.Sprintf("%s:%d", path, line))
	switch res.Status {
	case rules.StatusExtractionFailed:
		fmt.Fprintf(w, "%s  %s  %s  %v\n", failStyle.Render("fail"), loc, res.Sentence, res.Err)
	default:
		fmt.Fprintf(w, "%s  %s  %s\n", warnStyle.Render("none"), loc, res.Sentence)
	}
}

// RuleLine prints a registry entry.
func RuleLine(w io.Writer, r *rules.CompiledRule) {
	fmt.Fprintf(w, "%4d  %-10s %-28s %s\n", r.Priority, r.Domain, boldStyle.Render(string(r.ID)), dimStyle.Render(string(r.Intent)))
}

// Warn prints a warning line.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnStyle.Render("warn")+"  "+fmt.Sprintf(format, args...))
}

// Fail prints an error line.
func Fail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, failStyle.Render("fail")+"  "+fmt.Sprintf(format, args...))
}

// SummaryLine prints totals; zero counts are omitted.
func SummaryLine(w io.Writer, total, matched, unmatched, failed int) {
	parts := []string{fmt.Sprintf("%d steps", total), okStyle.Render(fmt.Sprintf("%d matched", matched))}
	if unmatched > 0 {
		parts = append(parts, warnStyle.Render(fmt.Sprintf("%d unmatched", unmatched)))
	}
	if failed > 0 {
		parts = append(parts, failStyle.Render(fmt.Sprintf("%d failed", failed)))
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
}
