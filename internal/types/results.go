package types

// PerImageResult summarizes the analysis of one candidate image.
// The Index is the 0-based position of the image in the input batch;
// result ordering always matches input ordering.
type PerImageResult struct {
	Index       int `json:"index"`
	TotalShapes int `json:"total_shapes"`
	// Metric is the rule-dependent measurement, e.g. the count of empty shapes.
	Metric int `json:"metric"`
}

// Decision is the outcome of evaluating a rule over a batch of results.
type Decision struct {
	// SelectedIndex is nil when no candidate qualifies.
	SelectedIndex *int `json:"selected_index,omitempty"`
	// Approximate is true only for exact-count rules resolved by nearest match.
	Approximate bool `json:"approximate"`
}

// NoDecision is the sentinel returned when no candidate qualifies.
func NoDecision() Decision {
	return Decision{}
}

// Select builds a non-approximate decision for the given index.
func Select(index int) Decision {
	return Decision{SelectedIndex: &index}
}

// SelectApproximate builds an approximate decision for the given index.
func SelectApproximate(index int) Decision {
	return Decision{SelectedIndex: &index, Approximate: true}
}

// Decided reports whether a candidate was selected.
func (d Decision) Decided() bool {
	return d.SelectedIndex != nil
}
