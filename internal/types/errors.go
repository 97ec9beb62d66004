package types

import "errors"

// Sentinel errors for stepgrammar operations.
var (
	// ErrDuplicateRuleID indicates two rules in one registry share an id.
	ErrDuplicateRuleID = errors.New("duplicate rule id")

	// ErrEmptyRuleID indicates a rule was declared without an id.
	ErrEmptyRuleID = errors.New("rule id is empty")

	// ErrUnanchoredPattern indicates a pattern does not start with ^ and end with $.
	ErrUnanchoredPattern = errors.New("pattern must be anchored with ^ and $")

	// ErrInvalidPattern indicates a pattern failed to compile.
	ErrInvalidPattern = errors.New("pattern does not compile")

	// ErrUnknownCategory indicates a category outside action/query/assertion.
	ErrUnknownCategory = errors.New("unknown rule category")

	// ErrUnknownIntent indicates an intent tag outside the closed vocabulary.
	ErrUnknownIntent = errors.New("unknown intent")

	// ErrNilExtractor indicates a rule without an extract function.
	ErrNilExtractor = errors.New("rule has no extractor")

	// ErrMissingExamples indicates a rule without example sentences.
	ErrMissingExamples = errors.New("rule has no examples")

	// ErrPriorityOutOfBand indicates a priority outside the domain's reserved band.
	ErrPriorityOutOfBand = errors.New("priority outside domain band")

	// ErrUnknownDomain indicates a table declared a domain with no band.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrPriorityCollision indicates two distinct rules share a priority (strict mode only).
	ErrPriorityCollision = errors.New("priority collision")

	// ErrExtractorPanic indicates an extractor panicked during extraction.
	ErrExtractorPanic = errors.New("extractor panicked")

	// ErrCoercionFailed indicates a captured value could not be coerced.
	ErrCoercionFailed = errors.New("value coercion failed")

	// ErrUnknownOperator indicates a comparison phrase outside the vocabulary.
	ErrUnknownOperator = errors.New("unknown comparison operator")

	// ErrInvalidJSONPath indicates a malformed JSON path in a step.
	ErrInvalidJSONPath = errors.New("invalid json path")

	// ErrPathTooDeep indicates a JSON path exceeds MaxPathDepth.
	ErrPathTooDeep = errors.New("json path exceeds maximum depth")

	// ErrMissingParam indicates a typed intent lacks a required parameter.
	ErrMissingParam = errors.New("required parameter missing")

	// ErrUnsupportedIntent indicates no typed variant exists for an intent.
	ErrUnsupportedIntent = errors.New("no typed variant for intent")
)

// Resource limits enforced by the engine.
const (
	// MaxPathDepth bounds JSON path segments accepted from step text.
	MaxPathDepth = 16

	// MaxSentenceLength bounds the step text accepted by the matcher.
	// Longer input is reported unmatched without attempting any pattern.
	MaxSentenceLength = 4096
)
