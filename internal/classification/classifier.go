// Package classification labels the interior content of detected shapes and
// maps rule kinds to per-shape measurement strategies.
package classification

import (
	"image"
	"math"

	"github.com/jonathan/challenge-solver/internal/config"
	"github.com/jonathan/challenge-solver/internal/types"
	"github.com/jonathan/challenge-solver/internal/vision"
)

// Classifier measures the interior content of shapes against a grayscale
// source image. Safe for concurrent use.
type Classifier struct {
	cfg config.Vision
}

// New creates a Classifier with the given pipeline parameters.
func New(cfg config.Vision) *Classifier {
	return &Classifier{cfg: cfg}
}

// ContentRatio returns the fraction of a shape's interior classified as
// foreground content. The interior mask is eroded inward before measuring so
// border pixels biased by the mark's own outline do not count as content.
// The second return is false when erosion leaves no interior to measure.
func (c *Classifier) ContentRatio(gray *image.Gray, shape types.DetectedShape) (float64, bool) {
	mask := vision.FillContour(gray.Bounds(), shape.Contour)

	iterations := int(math.Floor(shape.Extent * c.cfg.ErosionFactor))
	if iterations < 1 {
		iterations = 1
	}
	eroded := vision.ErodeN(mask, vision.EllipseKernel(3, 3), iterations)

	interior := vision.CountNonzero(eroded)
	if interior == 0 {
		return 0, false
	}

	// Threshold level: the interior's own mean intensity minus a margin,
	// capped so bright interiors do not push the level above plausible ink.
	var sum float64
	b := gray.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if eroded.Pix[y*eroded.Stride+x] != 0 {
				sum += float64(gray.Pix[y*gray.Stride+x])
			}
		}
	}
	mean := sum / float64(interior)
	level := math.Min(c.cfg.IntensityCap, mean-c.cfg.LocalMargin)

	foreground := 0
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if eroded.Pix[y*eroded.Stride+x] != 0 && float64(gray.Pix[y*gray.Stride+x]) < level {
				foreground++
			}
		}
	}
	return float64(foreground) / float64(interior), true
}

// IsEmpty reports whether a shape's interior is unmarked. Shapes whose
// interior vanishes under erosion are too small to verify and count as
// not empty.
func (c *Classifier) IsEmpty(gray *image.Gray, shape types.DetectedShape) bool {
	ratio, ok := c.ContentRatio(gray, shape)
	if !ok {
		return false
	}
	return ratio < c.cfg.EmptinessThreshold
}

// EmptyCount returns the number of shapes classified as empty.
func (c *Classifier) EmptyCount(gray *image.Gray, shapes []types.DetectedShape) int {
	count := 0
	for _, s := range shapes {
		if c.IsEmpty(gray, s) {
			count++
		}
	}
	return count
}
