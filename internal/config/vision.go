package config

import "fmt"

// Vision holds the tunable parameters of the image analysis pipeline.
// The defaults are empirically chosen; none of them is assumed optimal,
// which is why every stage receives them as explicit configuration rather
// than reading package-level state.
type Vision struct {
	// KernelSize is the side of the square structuring element used by the
	// black-hat filter that enhances dark strokes.
	KernelSize int `json:"kernel_size,omitempty"`
	// AdaptiveBlockSize is the window side for the local Gaussian threshold.
	// Must be odd.
	AdaptiveBlockSize int `json:"adaptive_block_size,omitempty"`
	// AdaptiveC is subtracted from the local Gaussian mean before comparing.
	AdaptiveC float64 `json:"adaptive_c,omitempty"`
	// MinArea is the minimum enclosed contour area, in square pixels, for a
	// contour to be considered a mark candidate.
	MinArea float64 `json:"min_area,omitempty"`
	// EpsilonRatio sets the polygon approximation tolerance as a fraction of
	// the contour arc length.
	EpsilonRatio float64 `json:"epsilon_ratio,omitempty"`
	// AngleTolerance is the maximum deviation from 90 degrees, in degrees,
	// allowed at each vertex of an accepted quadrilateral. Boundary inclusive.
	AngleTolerance float64 `json:"angle_tolerance,omitempty"`
	// OverlapFactor scales a kept shape's extent into the centroid distance
	// below which a later detection counts as a duplicate.
	OverlapFactor float64 `json:"overlap_factor,omitempty"`
	// ErosionFactor scales a shape's extent into the number of erosion
	// iterations applied to its interior mask before measuring content.
	ErosionFactor float64 `json:"erosion_factor,omitempty"`
	// IntensityCap is the upper bound on the content threshold level.
	IntensityCap float64 `json:"intensity_cap,omitempty"`
	// LocalMargin is subtracted from the mean interior intensity to form the
	// content threshold level.
	LocalMargin float64 `json:"local_margin,omitempty"`
	// EmptinessThreshold is the content ratio below which a shape is "empty".
	EmptinessThreshold float64 `json:"emptiness_threshold,omitempty"`
}

// DefaultVision returns the default pipeline parameters.
func DefaultVision() Vision {
	return Vision{
		KernelSize:         5,
		AdaptiveBlockSize:  11,
		AdaptiveC:          2,
		MinArea:            100,
		EpsilonRatio:       0.04,
		AngleTolerance:     15,
		OverlapFactor:      0.6,
		ErosionFactor:      0.1,
		IntensityCap:       100,
		LocalMargin:        10,
		EmptinessThreshold: 0.015,
	}
}

// Normalize fills zero-valued fields from the defaults and validates ranges.
func (v *Vision) Normalize() error {
	defaults := DefaultVision()
	if v.KernelSize == 0 {
		v.KernelSize = defaults.KernelSize
	}
	if v.AdaptiveBlockSize == 0 {
		v.AdaptiveBlockSize = defaults.AdaptiveBlockSize
	}
	if v.AdaptiveC == 0 {
		v.AdaptiveC = defaults.AdaptiveC
	}
	if v.MinArea == 0 {
		v.MinArea = defaults.MinArea
	}
	if v.EpsilonRatio == 0 {
		v.EpsilonRatio = defaults.EpsilonRatio
	}
	if v.AngleTolerance == 0 {
		v.AngleTolerance = defaults.AngleTolerance
	}
	if v.OverlapFactor == 0 {
		v.OverlapFactor = defaults.OverlapFactor
	}
	if v.ErosionFactor == 0 {
		v.ErosionFactor = defaults.ErosionFactor
	}
	if v.IntensityCap == 0 {
		v.IntensityCap = defaults.IntensityCap
	}
	if v.LocalMargin == 0 {
		v.LocalMargin = defaults.LocalMargin
	}
	if v.EmptinessThreshold == 0 {
		v.EmptinessThreshold = defaults.EmptinessThreshold
	}

	if v.KernelSize < 1 {
		return fmt.Errorf("vision config error: 'kernel_size' must be positive, got %d", v.KernelSize)
	}
	if v.AdaptiveBlockSize < 3 || v.AdaptiveBlockSize%2 == 0 {
		return fmt.Errorf("vision config error: 'adaptive_block_size' must be odd and at least 3, got %d", v.AdaptiveBlockSize)
	}
	if v.EpsilonRatio <= 0 || v.EpsilonRatio >= 1 {
		return fmt.Errorf("vision config error: 'epsilon_ratio' must be in (0, 1), got %g", v.EpsilonRatio)
	}
	if v.AngleTolerance < 0 || v.AngleTolerance >= 90 {
		return fmt.Errorf("vision config error: 'angle_tolerance' must be in [0, 90), got %g", v.AngleTolerance)
	}
	if v.OverlapFactor <= 0 {
		return fmt.Errorf("vision config error: 'overlap_factor' must be positive, got %g", v.OverlapFactor)
	}
	if v.EmptinessThreshold <= 0 || v.EmptinessThreshold >= 1 {
		return fmt.Errorf("vision config error: 'emptiness_threshold' must be in (0, 1), got %g", v.EmptinessThreshold)
	}
	return nil
}
