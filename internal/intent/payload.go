// Package intent provides typed views over matched step intents.
//
// The matcher hands executors a flat types.StepIntent whose Params map is
// keyed by the shared vocabulary in types/params.go. Decode lifts that map
// into one struct per executor family so consumers switch on a Go type
// instead of probing string keys. The flat Params stay reachable through
// Base.Params for keys a variant does not model.
package intent

import (
	"time"

	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/types"
)

// Kind names a payload family.
type Kind string

const (
	KindContextRead      Kind = "context-read"
	KindContextWrite     Kind = "context-write"
	KindContextAssertion Kind = "context-assertion"
	KindDBQuery          Kind = "db-query"
	KindDBAssertion      Kind = "db-assertion"
	KindDBControl        Kind = "db-control"
	KindDataMapping      Kind = "data-mapping"
	KindAPICall          Kind = "api-call"
	KindAPIConfig        Kind = "api-config"
	KindAPIAssertion     Kind = "api-assertion"
	KindUIAction         Kind = "ui-action"
	KindUIAssertion      Kind = "ui-assertion"
	KindWait             Kind = "wait"
	KindVariable         Kind = "variable"
)

// Payload is implemented by every typed variant.
type Payload interface {
	Kind() Kind
	Common() Base
}

// Base carries the fields every variant shares.
type Base struct {
	RuleID    types.RuleID
	Intent    types.Intent
	Category  types.Category
	Target    string
	Modifiers types.Modifiers
	Params    types.Params
}

// Common returns the shared fields.
func (b Base) Common() Base { return b }

// ContextRead reads from a scenario context variable.
type ContextRead struct {
	Base
	Source   string
	Field    string
	Position int64 // 1-based; rules.LastPosition for "last"; 0 when unset
	StoreAs  string
}

// ContextWrite mutates scenario context: set, copy, clear, filter, sort,
// merge and log.
type ContextWrite struct {
	Base
	Source      string
	Destination string
	Field       string
	Value       string
	Operator    rules.Operator
	SortOrder   string // asc or desc; empty when the step names no order
	Other       string // second input of a merge
	AllScopes   bool
}

// ContextAssertion checks a context variable's size, field or state.
type ContextAssertion struct {
	Base
	Source    string
	Field     string
	Operator  rules.Operator
	Expected  string
	Count     int64
	HasCount  bool
	Condition string
}

// DBQuery runs a named query and optionally stores the result.
type DBQuery struct {
	Base
	Alias   string
	Query   string
	Args    string // JSON array text, empty when no params clause
	Column  string
	StoreAs string
}

// DBAssertion checks the outcome of a named query.
type DBAssertion struct {
	Base
	Alias    string
	Query    string
	Args     string
	Column   string
	Operator rules.Operator
	Expected string
	RowCount int64
	HasCount bool
}

// DBControl manages connections and transactions.
type DBControl struct {
	Base
	Alias    string
	URL      string
	TxAction string
	All      bool
}

// DataMapping moves or reshapes data between context, databases, files and
// the last API response.
type DataMapping struct {
	Base
	Source      string
	Destination string
	MapName     string
	SourceField string
	TargetField string
	Transform   string
	FileName    string
	SheetName   string
	JSONPath    string
	Alias       string
	Query       string
	Args        string
	MatchKey    string
	Ignore      []string
}

// APICall sends an HTTP request.
type APICall struct {
	Base
	Method  string
	URL     string
	Body    string
	Headers map[string]string
}

// APIConfig configures the API client: base URL, default headers and auth.
type APIConfig struct {
	Base
	BaseURL     string
	HeaderName  string
	HeaderValue string
	AuthType    string
	Auth        map[string]string
}

// APIAssertion checks the last API response.
type APIAssertion struct {
	Base
	Operator    rules.Operator
	Expected    string
	JSONPath    string
	HeaderName  string
	StatusClass string
	SchemaName  string
	Condition   string
	MaxResponse time.Duration
	ItemCount   int64
	HasCount    bool
}

// UIAction drives the browser.
type UIAction struct {
	Base
	ElementType   string
	Index         int64
	Value         string
	Key           string
	Direction     string
	Frame         string
	Window        int64
	DialogAction  string
	FileName      string
	AttributeName string
	State         string
	Variable      string
	Screenshot    string
	DropTarget    string
	URL           string
	MainFrame     bool
}

// UIAssertion checks element or page state.
type UIAssertion struct {
	Base
	ElementType   string
	AttributeName string
	State         string
	Operator      rules.Operator
	Expected      string
	Count         int64
	Row           int64
	Column        int64
}

// Wait blocks until a condition holds or a fixed time passes.
type Wait struct {
	Base
	ElementType string
	Condition   string
	Operator    rules.Operator
	Expected    string
	Timeout     time.Duration // zero means the executor default
	Duration    time.Duration
}

// Variable creates, updates or checks a scenario variable.
type Variable struct {
	Base
	Name        string
	Value       string
	ValueKind   string
	Length      int64
	DateKind    string
	DateFormat  string
	Environment string
	Arithmetic  string
	Left        string
	Right       string
	Operator    rules.Operator
	Expected    string
}

func (ContextRead) Kind() Kind      { return KindContextRead }
func (ContextWrite) Kind() Kind     { return KindContextWrite }
func (ContextAssertion) Kind() Kind { return KindContextAssertion }
func (DBQuery) Kind() Kind          { return KindDBQuery }
func (DBAssertion) Kind() Kind      { return KindDBAssertion }
func (DBControl) Kind() Kind        { return KindDBControl }
func (DataMapping) Kind() Kind      { return KindDataMapping }
func (APICall) Kind() Kind          { return KindAPICall }
func (APIConfig) Kind() Kind        { return KindAPIConfig }
func (APIAssertion) Kind() Kind     { return KindAPIAssertion }
func (UIAction) Kind() Kind         { return KindUIAction }
func (UIAssertion) Kind() Kind      { return KindUIAssertion }
func (Wait) Kind() Kind             { return KindWait }
func (Variable) Kind() Kind         { return KindVariable }
