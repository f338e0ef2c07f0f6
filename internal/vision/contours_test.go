package vision

import (
	"image"
	"testing"
)

// rectMask fills the pixels of r (inclusive bounds given as image.Rectangle
// in the usual half-open convention) in a w x h mask.
func rectMask(w, h int, r image.Rectangle) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			mask.Pix[y*mask.Stride+x] = 255
		}
	}
	return mask
}

func TestFindContours_SingleRegion(t *testing.T) {
	mask := rectMask(20, 20, image.Rect(4, 5, 16, 15))
	contours := FindContours(mask)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	if got := BoundingBox(contours[0]); got != image.Rect(4, 5, 16, 15) {
		t.Errorf("bounding box = %v, want %v", got, image.Rect(4, 5, 16, 15))
	}
	// Shoelace area of the boundary polygon of a filled a x b pixel block is
	// (a-1) * (b-1).
	if got := Area(contours[0]); got != 99 {
		t.Errorf("area = %g, want 99", got)
	}
}

func TestFindContours_TwoRegionsScanOrder(t *testing.T) {
	mask := rectMask(40, 40, image.Rect(2, 3, 10, 11))
	for y := 20; y < 30; y++ {
		for x := 25; x < 35; x++ {
			mask.Pix[y*mask.Stride+x] = 255
		}
	}
	contours := FindContours(mask)
	if len(contours) != 2 {
		t.Fatalf("expected 2 contours, got %d", len(contours))
	}
	if contours[0][0] != image.Pt(2, 3) {
		t.Errorf("first contour should start at the topmost region, got %v", contours[0][0])
	}
	if contours[1][0] != image.Pt(25, 20) {
		t.Errorf("second contour should start at the lower region, got %v", contours[1][0])
	}
}

func TestFindContours_RingYieldsOuterBoundary(t *testing.T) {
	// A rectangle outline (stroke width 2) is one connected region; its outer
	// boundary must enclose the full rectangle, hole included.
	mask := image.NewGray(image.Rect(0, 0, 40, 40))
	outer := image.Rect(5, 5, 35, 35)
	for y := outer.Min.Y; y < outer.Max.Y; y++ {
		for x := outer.Min.X; x < outer.Max.X; x++ {
			onBorder := x < outer.Min.X+2 || x >= outer.Max.X-2 ||
				y < outer.Min.Y+2 || y >= outer.Max.Y-2
			if onBorder {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	contours := FindContours(mask)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour for the ring, got %d", len(contours))
	}
	if got := BoundingBox(contours[0]); got != outer {
		t.Errorf("bounding box = %v, want %v", got, outer)
	}
	if got := Area(contours[0]); got != 29*29 {
		t.Errorf("area = %g, want %d", got, 29*29)
	}
}

func TestFindContours_IsolatedPixel(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 5, 5))
	mask.Pix[2*mask.Stride+2] = 255
	contours := FindContours(mask)
	if len(contours) != 1 || len(contours[0]) != 1 {
		t.Fatalf("expected one single-point contour, got %v", contours)
	}
	if Area(contours[0]) != 0 {
		t.Errorf("single pixel should have zero polygon area")
	}
}

func TestArcLength_Square(t *testing.T) {
	c := Contour{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := ArcLength(c); got != 40 {
		t.Errorf("arc length = %g, want 40", got)
	}
}
