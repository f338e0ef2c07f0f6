package db

import (
	"time"

	"github.com/google/uuid"
)

// SolveRun represents one attempt at a challenge.
type SolveRun struct {
	ID            uuid.UUID  `json:"id"`
	Source        string     `json:"source"` // page URL or manifest path
	RuleKind      string     `json:"rule_kind"`
	SelectedIndex *int       `json:"selected_index,omitempty"`
	Approximate   bool       `json:"approximate"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ArtifactStep constants for known artifact types.
const (
	StepInstruction = "instruction"
	StepRule        = "rule"
	StepResults     = "results"
	StepDecision    = "decision"
)
