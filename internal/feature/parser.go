// Package feature extracts steps from Gherkin feature files.
//
// The parser is line oriented and forgiving: it keeps what step matching
// needs (section names, tags, steps and outline example tables), skips doc
// strings and step data tables, and reports structural problems as
// ParseErrors without stopping.
package feature

import (
	"fmt"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`@[^@\s]+`)

var stepKeywords = []string{"Given", "When", "Then", "And", "But", "*"}

type parser struct {
	lines       []string
	file        *File
	errs        []ParseError
	pendingTags []string

	// At most one of background and scenario >= 0 holds: the open section.
	background bool
	scenario   int
	examples   *Examples
	described  bool
}

// Parse parses content read from filename.
func Parse(filename string, content []byte) (*File, []ParseError) {
	p := &parser{
		lines:    strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n"),
		file:     &File{Path: filename},
		scenario: -1,
	}
	p.run()
	if p.file.Name == "" {
		p.file.Name = baseName(filename)
	}
	return p.file, p.errs
}

func (p *parser) run() {
	for i := 0; i < len(p.lines); i++ {
		line := i + 1
		t := strings.TrimSpace(p.lines[i])

		switch {
		case t == "" || strings.HasPrefix(t, "#"):
			continue

		case isDocStringDelimiter(t):
			next, ok := skipDocString(p.lines, i)
			if !ok {
				p.fail(line, "unterminated doc string")
			}
			i = next - 1

		case strings.HasPrefix(t, "|"):
			p.tableRow(line, t)

		case strings.HasPrefix(t, "@"):
			p.pendingTags = append(p.pendingTags, tagPattern.FindAllString(t, -1)...)

		case strings.HasPrefix(t, "Feature:"):
			if p.file.Name != "" {
				p.fail(line, "duplicate Feature")
				continue
			}
			p.file.Name = strings.TrimSpace(strings.TrimPrefix(t, "Feature:"))
			p.file.Tags = p.takeTags()

		case strings.HasPrefix(t, "Rule:"):
			p.closeSection()
			p.pendingTags = nil

		case strings.HasPrefix(t, "Background:"):
			p.closeSection()
			p.pendingTags = nil
			if p.file.Background != nil {
				p.fail(line, "duplicate Background")
			}
			p.file.Background = &Block{Line: line}
			p.background = true

		case strings.HasPrefix(t, "Scenario Outline:"), strings.HasPrefix(t, "Scenario Template:"):
			p.openScenario(line, afterColon(t), true)

		case strings.HasPrefix(t, "Scenario:"), strings.HasPrefix(t, "Example:"):
			p.openScenario(line, afterColon(t), false)

		case strings.HasPrefix(t, "Examples:"), strings.HasPrefix(t, "Scenarios:"):
			p.pendingTags = nil
			if p.scenario < 0 || !p.file.Scenarios[p.scenario].Outline {
				p.fail(line, "Examples outside Scenario Outline")
				p.examples = nil
				continue
			}
			sc := &p.file.Scenarios[p.scenario]
			sc.Examples = append(sc.Examples, Examples{Line: line})
			p.examples = &sc.Examples[len(sc.Examples)-1]

		default:
			kw, text, ok := splitStep(t)
			if !ok {
				// Free-form description text.
				continue
			}
			p.step(Step{Keyword: kw, Text: text, Line: line})
		}
	}
}

func (p *parser) openScenario(line int, name string, outline bool) {
	p.closeSection()
	p.file.Scenarios = append(p.file.Scenarios, Scenario{
		Name:    name,
		Line:    line,
		Tags:    p.takeTags(),
		Outline: outline,
	})
	p.scenario = len(p.file.Scenarios) - 1
}

func (p *parser) closeSection() {
	p.background = false
	p.scenario = -1
	p.examples = nil
	p.described = true
}

func (p *parser) step(s Step) {
	switch {
	case p.background:
		p.file.Background.Steps = append(p.file.Background.Steps, s)
	case p.scenario >= 0 && p.examples != nil:
		p.fail(s.Line, "step after Examples")
	case p.scenario >= 0:
		sc := &p.file.Scenarios[p.scenario]
		sc.Steps = append(sc.Steps, s)
	case !p.described:
		// Before the first section, step-like lines are Feature description.
	default:
		p.fail(s.Line, "step outside Scenario or Background")
	}
}

func (p *parser) tableRow(line int, t string) {
	if p.examples == nil {
		// Step data table.
		return
	}
	cells := splitRow(t)
	if p.examples.Header == nil {
		p.examples.Header = cells
		return
	}
	if len(cells) != len(p.examples.Header) {
		p.fail(line, fmt.Sprintf("example row has %d cells, header has %d", len(cells), len(p.examples.Header)))
		return
	}
	p.examples.Rows = append(p.examples.Rows, Row{Line: line, Values: cells})
}

func (p *parser) takeTags() []string {
	tags := p.pendingTags
	p.pendingTags = nil
	return tags
}

func (p *parser) fail(line int, msg string) {
	p.errs = append(p.errs, ParseError{Line: line, Message: msg})
}

// Steps returns every step in file order: background first, then each
// scenario. Outline steps are expanded once per example row; an outline
// without example rows yields its template steps.
func (f *File) Steps() []Step {
	var out []Step
	if f.Background != nil {
		out = append(out, f.Background.Steps...)
	}
	for _, sc := range f.Scenarios {
		out = append(out, sc.Expand()...)
	}
	return out
}

// Expand returns the scenario's steps with outline placeholders substituted.
func (sc Scenario) Expand() []Step {
	if !sc.Outline {
		return sc.Steps
	}
	var out []Step
	for _, ex := range sc.Examples {
		for _, row := range ex.Rows {
			pairs := make([]string, 0, 2*len(ex.Header))
			for i, h := range ex.Header {
				pairs = append(pairs, "<"+h+">", row.Values[i])
			}
			r := strings.NewReplacer(pairs...)
			for _, s := range sc.Steps {
				s.Text = r.Replace(s.Text)
				s.ExampleLine = row.Line
				out = append(out, s)
			}
		}
	}
	if out == nil {
		return sc.Steps
	}
	return out
}

func splitStep(t string) (keyword, text string, ok bool) {
	for _, kw := range stepKeywords {
		if !strings.HasPrefix(t, kw) {
			continue
		}
		rest := t[len(kw):]
		if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		text = strings.TrimSpace(rest)
		if text == "" {
			return "", "", false
		}
		return kw, text, true
	}
	return "", "", false
}

// splitRow splits a "| a | b |" table row. "\|" is a literal pipe and "\\"
// a literal backslash.
func splitRow(t string) []string {
	t = strings.TrimSpace(t)
	t = strings.TrimPrefix(t, "|")
	var cells []string
	var cur strings.Builder
	for i := 0; i < len(t); i++ {
		c := t[i]
		switch {
		case c == '\\' && i+1 < len(t) && (t[i+1] == '|' || t[i+1] == '\\'):
			cur.WriteByte(t[i+1])
			i++
		case c == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		cells = append(cells, rest)
	}
	return cells
}

func isDocStringDelimiter(t string) bool {
	return strings.HasPrefix(t, `"""`) || strings.HasPrefix(t, "```")
}

// skipDocString returns the index after the closing delimiter of the doc
// string opened at i. ok is false when the file ends first.
func skipDocString(lines []string, i int) (next int, ok bool) {
	delimiter := `"""`
	if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
		delimiter = "```"
	}
	for j := i + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == delimiter {
			return j + 1, true
		}
	}
	return len(lines), false
}

func afterColon(t string) string {
	_, name, _ := strings.Cut(t, ":")
	return strings.TrimSpace(name)
}

func baseName(path string) string {
	name := path
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
