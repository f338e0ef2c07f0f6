package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecision_JSONOmitsUnsetIndex(t *testing.T) {
	jsonBytes, err := json.Marshal(NoDecision())
	require.NoError(t, err)
	assert.NotContains(t, string(jsonBytes), "selected_index")
	assert.Contains(t, string(jsonBytes), `"approximate":false`)
}

func TestDecision_JSONIncludesSelectedIndex(t *testing.T) {
	jsonBytes, err := json.Marshal(SelectApproximate(2))
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"selected_index":2`)
	assert.Contains(t, string(jsonBytes), `"approximate":true`)
}

func TestDecision_Decided(t *testing.T) {
	assert.False(t, NoDecision().Decided())
	assert.True(t, Select(0).Decided())
}

func TestDetectedShape_CentroidDistance(t *testing.T) {
	a := DetectedShape{CentroidX: 0, CentroidY: 0}
	b := DetectedShape{CentroidX: 3, CentroidY: 4}
	assert.InDelta(t, 5.0, a.CentroidDistance(b), 1e-9)
	assert.InDelta(t, 5.0, b.CentroidDistance(a), 1e-9)
}
