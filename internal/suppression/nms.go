// Package suppression removes overlapping duplicate detections from a shape set.
package suppression

import (
	"sort"

	"github.com/jonathan/challenge-solver/internal/types"
)

// Suppress performs non-maximum suppression by area: shapes are considered
// largest first, and a shape is kept only if its centroid lies farther than
// kept.Extent * overlapFactor from every already-kept centroid. The dual
// thresholding upstream can register the same physical mark twice with
// slightly different contours; a centroid inside that radius means "same
// mark", and the smaller detection is dropped.
//
// The algorithm is deterministic and order-stable: area ties preserve
// discovery order.
func Suppress(shapes []types.DetectedShape, overlapFactor float64) []types.DetectedShape {
	if len(shapes) < 2 {
		return shapes
	}

	ordered := append([]types.DetectedShape(nil), shapes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Area > ordered[j].Area
	})

	kept := make([]types.DetectedShape, 0, len(ordered))
	for _, candidate := range ordered {
		duplicate := false
		for _, k := range kept {
			if candidate.CentroidDistance(k) <= k.Extent*overlapFactor {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
		}
	}
	return kept
}
