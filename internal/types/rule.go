// Package types provides type definitions for structured data used throughout the challenge solver.
package types

// RuleKind identifies the family of selection rule an instruction describes.
type RuleKind string

const (
	// RuleMaximum selects the candidate with the largest metric.
	RuleMaximum RuleKind = "maximum"
	// RuleExactCount selects the candidate whose metric equals a target count.
	RuleExactCount RuleKind = "exact_count"
	// RuleOutlier selects the candidate unlike the others (recognized but unsupported).
	RuleOutlier RuleKind = "outlier"
	// RuleUnknown is the fallback for instructions that match no known family.
	RuleUnknown RuleKind = "unknown"
)

// Rule is the structured form of a challenge instruction.
// It is immutable once produced by the interpreter.
type Rule struct {
	Kind           RuleKind `json:"kind"`
	Target         int      `json:"target,omitempty"`     // only meaningful when HasTarget is true
	HasTarget      bool     `json:"has_target,omitempty"` // set for exact-count rules with an extracted integer
	NormalizedText string   `json:"normalized_text"`
}
