// Package decision selects the winning candidate for a rule over an ordered
// result list. Pure functions: no randomness, no I/O.
package decision

import (
	"github.com/jonathan/challenge-solver/internal/types"
)

// Decide evaluates a rule against the ordered per-image results.
//
// Maximum rules select the largest metric, breaking ties toward the image
// with the fewest total shapes (fewer distractors make the emptiness read
// more reliable); an all-zero metric column yields no decision. Exact-count
// rules select an exact metric match when one exists, otherwise fall back to
// the nearest metric (lowest index on ties) flagged as approximate. Outlier
// and unknown rules always yield no decision.
func Decide(rule types.Rule, results []types.PerImageResult) types.Decision {
	switch rule.Kind {
	case types.RuleMaximum:
		return decideMaximum(results)
	case types.RuleExactCount:
		if !rule.HasTarget {
			return types.NoDecision()
		}
		return decideExactCount(rule.Target, results)
	default:
		return types.NoDecision()
	}
}

func decideMaximum(results []types.PerImageResult) types.Decision {
	best := -1
	for i, r := range results {
		if r.Metric <= 0 {
			continue
		}
		if best < 0 ||
			r.Metric > results[best].Metric ||
			(r.Metric == results[best].Metric && r.TotalShapes < results[best].TotalShapes) {
			best = i
		}
	}
	if best < 0 {
		return types.NoDecision()
	}
	return types.Select(results[best].Index)
}

func decideExactCount(target int, results []types.PerImageResult) types.Decision {
	if len(results) == 0 {
		return types.NoDecision()
	}
	for _, r := range results {
		if r.Metric == target {
			return types.Select(r.Index)
		}
	}

	// No exact match: nearest metric wins, first-encountered on ties.
	best := 0
	for i, r := range results[1:] {
		if absDiff(r.Metric, target) < absDiff(results[best].Metric, target) {
			best = i + 1
		}
	}
	return types.SelectApproximate(results[best].Index)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
