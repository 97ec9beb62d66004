package api

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/stepgrammar/internal/intent"
	"github.com/solatis/stepgrammar/internal/rules"
)

// ResultMap renders a match result with the JSON field names of StepIntent.
// Matched results also carry the typed payload kind. Unmatched results
// carry only status and sentence.
func ResultMap(res rules.Result) map[string]interface{} {
	out := map[string]interface{}{
		"status":   res.Status.String(),
		"sentence": res.Sentence,
	}
	if res.RuleID != "" {
		out["ruleId"] = string(res.RuleID)
	}
	if res.Err != nil {
		out["error"] = res.Err.Error()
	}
	if len(res.Faults) > 0 {
		faults := make([]interface{}, len(res.Faults))
		for i, f := range res.Faults {
			faults[i] = f.String()
		}
		out["faults"] = faults
	}
	if !res.Matched() {
		return out
	}

	in := res.Intent
	out["intent"] = string(in.Intent)
	out["category"] = string(in.Category)
	if kind, ok := intent.KindOf(in.Intent); ok {
		out["kind"] = string(kind)
	}
	out["targetText"] = in.TargetText
	if in.Value != "" {
		out["value"] = in.Value
	}
	if in.ExpectedValue != "" {
		out["expectedValue"] = in.ExpectedValue
	}
	params := make(map[string]interface{}, len(in.Params))
	for k, v := range in.Params {
		params[k] = v
	}
	out["params"] = params
	if !in.Modifiers.IsZero() {
		out["modifiers"] = map[string]interface{}{
			"negated":    in.Modifiers.Negated,
			"ignoreCase": in.Modifiers.IgnoreCase,
			"partial":    in.Modifiers.Partial,
		}
	}
	return out
}

// ResultStruct converts a match result to a protobuf Struct. Integer params
// become JSON numbers.
func ResultStruct(res rules.Result) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(ResultMap(res))
	if err != nil {
		return nil, fmt.Errorf("failed to encode result for %s: %w", res.RuleID, err)
	}
	return s, nil
}
