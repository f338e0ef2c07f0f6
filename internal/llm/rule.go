// Package llm - rule.go classifies instructions the rule grammar gave up on.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/challenge-solver/internal/types"
)

// ruleResponse is the JSON shape the model is asked to return.
type ruleResponse struct {
	Kind   string `json:"kind"`
	Target *int   `json:"target"`
}

// BuildRulePrompt constructs the classification prompt for one instruction.
func BuildRulePrompt(instruction string) string {
	var sb strings.Builder
	sb.WriteString("Classify the following challenge instruction into one of these rule kinds:\n")
	sb.WriteString("- MAXIMUM: pick the image with the most/highest of something\n")
	sb.WriteString("- EXACT_COUNT: pick the image with exactly N of something\n")
	sb.WriteString("- OUTLIER: pick the image that differs from the others\n")
	sb.WriteString("- UNKNOWN: none of the above\n\n")
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString(`{"kind": "MAXIMUM" | "EXACT_COUNT" | "OUTLIER" | "UNKNOWN", "target": integer or null}` + "\n\n")
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- target is the count N for EXACT_COUNT, null otherwise.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")
	sb.WriteString("Instruction:\n\"\"\"\n")
	sb.WriteString(instruction)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

// ParseRuleResponse turns the model's JSON reply into a Rule. Unrecognized
// kinds and malformed replies come back as an error so the caller can keep
// the grammar's UNKNOWN classification instead.
func ParseRuleResponse(reply string) (types.Rule, error) {
	var resp ruleResponse
	if err := json.Unmarshal([]byte(CleanJSONBlock(reply)), &resp); err != nil {
		return types.Rule{}, fmt.Errorf("parsing rule response: %w", err)
	}

	rule := types.Rule{}
	switch strings.ToLower(strings.TrimSpace(resp.Kind)) {
	case string(types.RuleMaximum):
		rule.Kind = types.RuleMaximum
	case string(types.RuleExactCount):
		rule.Kind = types.RuleExactCount
		if resp.Target == nil {
			return types.Rule{}, fmt.Errorf("exact-count response carries no target")
		}
		rule.Target = *resp.Target
		rule.HasTarget = true
	case string(types.RuleOutlier):
		rule.Kind = types.RuleOutlier
	case string(types.RuleUnknown):
		rule.Kind = types.RuleUnknown
	default:
		return types.Rule{}, fmt.Errorf("unrecognized rule kind %q", resp.Kind)
	}
	return rule, nil
}

// RuleFallback adapts a Client into a second-chance rule interpreter.
func RuleFallback(client Client) func(ctx context.Context, markup string) (types.Rule, error) {
	return func(ctx context.Context, markup string) (types.Rule, error) {
		return ClassifyRule(ctx, client, markup)
	}
}

// ClassifyRule asks the model to classify an instruction the grammar could
// not. The returned rule is never UNKNOWN with a nil error.
func ClassifyRule(ctx context.Context, client Client, instruction string) (types.Rule, error) {
	reply, err := client.GenerateJSON(ctx, BuildRulePrompt(instruction), TierLite)
	if err != nil {
		return types.Rule{}, fmt.Errorf("rule classification: %w", err)
	}
	rule, err := ParseRuleResponse(reply)
	if err != nil {
		return types.Rule{}, err
	}
	if rule.Kind == types.RuleUnknown {
		return types.Rule{}, fmt.Errorf("model could not classify the instruction")
	}
	return rule, nil
}
