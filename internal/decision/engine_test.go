package decision

import (
	"testing"

	"github.com/jonathan/challenge-solver/internal/types"
)

func resultsFor(metrics ...int) []types.PerImageResult {
	out := make([]types.PerImageResult, len(metrics))
	for i, m := range metrics {
		out[i] = types.PerImageResult{Index: i, TotalShapes: m + 1, Metric: m}
	}
	return out
}

func TestDecide_MaximumSelectsLargestMetric(t *testing.T) {
	d := Decide(types.Rule{Kind: types.RuleMaximum}, resultsFor(0, 3, 1, 2))
	if !d.Decided() || *d.SelectedIndex != 1 {
		t.Fatalf("expected index 1, got %+v", d)
	}
	if d.Approximate {
		t.Errorf("maximum decisions are never approximate")
	}
}

func TestDecide_MaximumTieBreaksOnFewestShapes(t *testing.T) {
	results := []types.PerImageResult{
		{Index: 0, TotalShapes: 6, Metric: 3},
		{Index: 1, TotalShapes: 4, Metric: 3},
		{Index: 2, TotalShapes: 5, Metric: 3},
	}
	d := Decide(types.Rule{Kind: types.RuleMaximum}, results)
	if !d.Decided() || *d.SelectedIndex != 1 {
		t.Fatalf("expected the tie to go to fewest total shapes (index 1), got %+v", d)
	}
}

func TestDecide_MaximumAllZeroIsNoDecision(t *testing.T) {
	d := Decide(types.Rule{Kind: types.RuleMaximum}, resultsFor(0, 0, 0))
	if d.Decided() {
		t.Fatalf("expected no decision for all-zero metrics, got %+v", d)
	}
}

func TestDecide_ExactCountExactMatch(t *testing.T) {
	rule := types.Rule{Kind: types.RuleExactCount, Target: 2, HasTarget: true}
	d := Decide(rule, resultsFor(0, 3, 1, 2))
	if !d.Decided() || *d.SelectedIndex != 3 {
		t.Fatalf("expected index 3, got %+v", d)
	}
	if d.Approximate {
		t.Errorf("exact matches must not be flagged approximate")
	}
}

func TestDecide_ExactCountNearestFallback(t *testing.T) {
	rule := types.Rule{Kind: types.RuleExactCount, Target: 5, HasTarget: true}
	d := Decide(rule, resultsFor(0, 3, 1, 2))
	if !d.Decided() || *d.SelectedIndex != 1 {
		t.Fatalf("expected nearest metric 3 at index 1, got %+v", d)
	}
	if !d.Approximate {
		t.Errorf("fallback selections must be flagged approximate")
	}
}

func TestDecide_ExactCountNearestTieTakesLowestIndex(t *testing.T) {
	rule := types.Rule{Kind: types.RuleExactCount, Target: 2, HasTarget: true}
	d := Decide(rule, resultsFor(1, 3)) // both one away from 2
	if !d.Decided() || *d.SelectedIndex != 0 {
		t.Fatalf("expected the first-encountered nearest result, got %+v", d)
	}
	if !d.Approximate {
		t.Errorf("tie fallback is still approximate")
	}
}

func TestDecide_ExactCountEmptyResults(t *testing.T) {
	rule := types.Rule{Kind: types.RuleExactCount, Target: 1, HasTarget: true}
	if d := Decide(rule, nil); d.Decided() {
		t.Fatalf("expected no decision for an empty result list, got %+v", d)
	}
}

func TestDecide_ExactCountWithoutTarget(t *testing.T) {
	rule := types.Rule{Kind: types.RuleExactCount}
	if d := Decide(rule, resultsFor(1, 2)); d.Decided() {
		t.Fatalf("expected no decision when no target was extracted, got %+v", d)
	}
}

func TestDecide_OutlierAndUnknown(t *testing.T) {
	for _, kind := range []types.RuleKind{types.RuleOutlier, types.RuleUnknown} {
		if d := Decide(types.Rule{Kind: kind}, resultsFor(1, 2, 3)); d.Decided() {
			t.Errorf("kind %s should yield no decision, got %+v", kind, d)
		}
	}
}
