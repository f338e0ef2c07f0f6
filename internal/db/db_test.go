package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactStepConstants(t *testing.T) {
	steps := []string{
		StepInstruction,
		StepRule,
		StepResults,
		StepDecision,
	}

	for _, step := range steps {
		assert.NotEmpty(t, step, "step constant should not be empty")
	}
}

func TestSolveRunType(t *testing.T) {
	run := SolveRun{
		Source:   "http://challenge.local/widget",
		RuleKind: "maximum",
		Status:   StatusRunning,
	}

	assert.Equal(t, "http://challenge.local/widget", run.Source)
	assert.Equal(t, "maximum", run.RuleKind)
	assert.Equal(t, StatusRunning, run.Status)
	assert.Nil(t, run.SelectedIndex)
	assert.Nil(t, run.CompletedAt)
}
