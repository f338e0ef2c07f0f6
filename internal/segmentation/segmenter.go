// Package segmentation extracts candidate mark-shapes from a single image.
package segmentation

import (
	"image"

	"github.com/jonathan/challenge-solver/internal/config"
	"github.com/jonathan/challenge-solver/internal/types"
	"github.com/jonathan/challenge-solver/internal/vision"
)

// Segmenter turns a decoded image into the list of mark-shapes it contains.
// It is stateless apart from its configuration and safe for concurrent use.
type Segmenter struct {
	cfg config.Vision
}

// New creates a Segmenter with the given pipeline parameters.
func New(cfg config.Vision) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Segment extracts the detected shapes of one image. It never fails: an
// unreadable (nil) image yields an empty list.
//
// The pipeline is: grayscale -> black-hat stroke enhancement -> AND of a
// global Otsu mask and a local adaptive Gaussian mask -> outer contours ->
// rectangularity gate -> centroid and extent measurement.
func (s *Segmenter) Segment(img image.Image) []types.DetectedShape {
	gray := vision.ToGray(img)
	if gray == nil || gray.Bounds().Dx() == 0 || gray.Bounds().Dy() == 0 {
		return nil
	}
	return s.SegmentGray(gray)
}

// SegmentGray is Segment for callers that already hold a grayscale surface.
func (s *Segmenter) SegmentGray(gray *image.Gray) []types.DetectedShape {
	enhanced := vision.BlackHat(gray, vision.RectKernel(s.cfg.KernelSize, s.cfg.KernelSize))

	// Dual thresholding: a region must be dark relative to the whole image
	// (global Otsu on the enhanced strokes) and to its local neighborhood
	// (adaptive Gaussian) to survive. Either mask alone admits
	// uneven-illumination noise.
	global := vision.Threshold(enhanced, vision.OtsuLevel(enhanced))
	local := vision.AdaptiveGaussianThreshold(enhanced, s.cfg.AdaptiveBlockSize, s.cfg.AdaptiveC)
	mask := vision.And(global, local)

	var shapes []types.DetectedShape
	for _, contour := range vision.FindContours(mask) {
		area := vision.Area(contour)
		if area < s.cfg.MinArea {
			continue
		}

		eps := s.cfg.EpsilonRatio * vision.ArcLength(contour)
		poly := vision.ApproxPolygon(contour, eps)
		if !vision.IsRectangular(poly, s.cfg.AngleTolerance) {
			continue
		}

		// Centroid from the pixel mass of the original contour, not the
		// approximated polygon.
		filled := vision.FillContour(gray.Bounds(), contour)
		cx, cy, ok := vision.Centroid(filled)
		if !ok {
			continue
		}
		box := vision.BoundingBox(contour)
		extent := box.Dx()
		if box.Dy() > extent {
			extent = box.Dy()
		}

		shapes = append(shapes, types.DetectedShape{
			Contour:   append([]image.Point(nil), contour...),
			CentroidX: cx,
			CentroidY: cy,
			Extent:    float64(extent),
			Area:      area,
		})
	}
	return shapes
}
