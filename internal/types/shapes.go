package types

import (
	"image"
	"math"
)

// DetectedShape is one mark-shape extracted from a candidate image.
// Shapes live only for the duration of a single analysis pass.
type DetectedShape struct {
	// Contour is the closed boundary polyline of the shape, in pixel coordinates.
	Contour []image.Point
	// CentroidX and CentroidY hold the pixel-mass centroid of the filled contour.
	CentroidX float64
	CentroidY float64
	// Extent is the larger of the bounding box width and height.
	Extent float64
	// Area is the enclosed contour area in square pixels.
	Area float64
}

// CentroidDistance returns the Euclidean distance between the centroids of two shapes.
func (s DetectedShape) CentroidDistance(other DetectedShape) float64 {
	return math.Hypot(s.CentroidX-other.CentroidX, s.CentroidY-other.CentroidY)
}
