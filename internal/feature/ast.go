package feature

// File is a parsed .feature or .ft file reduced to what step matching needs.
type File struct {
	Path       string
	Name       string
	Tags       []string
	Background *Block
	Scenarios  []Scenario
}

// Block is a Background: section.
type Block struct {
	Line  int // 1-based line of the Background: keyword
	Steps []Step
}

// Scenario is a Scenario: or Scenario Outline: section.
type Scenario struct {
	Name     string
	Line     int // 1-based line of the keyword
	Tags     []string
	Outline  bool
	Steps    []Step
	Examples []Examples
}

// Examples is an outline's example table.
type Examples struct {
	Line   int
	Header []string
	Rows   []Row
}

// Row is one example table row.
type Row struct {
	Line   int
	Values []string
}

// Step is one Given/When/Then/And/But/* line.
type Step struct {
	Keyword string // Given, When, Then, And, But or *
	Text    string
	Line    int
	// ExampleLine is the example row a step was expanded from, 0 otherwise.
	ExampleLine int
}

// ParseError reports a structural problem. Parsing continues past it.
type ParseError struct {
	Line    int
	Message string
}
