package vision

import (
	"image"
	"sort"
)

// FillContour renders the filled contour as a mask over the given bounds
// using even-odd scanline filling. The boundary pixels themselves are always
// part of the mask.
func FillContour(bounds image.Rectangle, c Contour) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if len(c) == 0 {
		return dst
	}
	w, h := bounds.Dx(), bounds.Dy()

	box := BoundingBox(c)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		if y < 0 || y >= h {
			continue
		}
		// Intersect the scanline through the pixel-row center with every
		// non-horizontal contour edge.
		scan := float64(y) + 0.5
		var xs []float64
		for i := range c {
			a, b := c[i], c[(i+1)%len(c)]
			ay, by := float64(a.Y), float64(b.Y)
			if ay == by {
				continue
			}
			if (scan >= ay && scan < by) || (scan >= by && scan < ay) {
				t := (scan - ay) / (by - ay)
				xs = append(xs, float64(a.X)+t*float64(b.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(xs[i] + 0.5)
			x1 := int(xs[i+1] + 0.5)
			for x := x0; x <= x1; x++ {
				if x >= 0 && x < w {
					dst.Pix[y*dst.Stride+x] = 255
				}
			}
		}
	}
	for _, p := range c {
		if p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h {
			dst.Pix[p.Y*dst.Stride+p.X] = 255
		}
	}
	return dst
}

// Centroid returns the pixel-mass centroid of a mask. The second return is
// false when the mask has no foreground pixels.
func Centroid(mask *image.Gray) (float64, float64, bool) {
	b := mask.Bounds()
	var sx, sy, n float64
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if mask.Pix[y*mask.Stride+x] != 0 {
				sx += float64(x)
				sy += float64(y)
				n++
			}
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return sx / n, sy / n, true
}

// CountNonzero returns the number of foreground pixels in a mask.
func CountNonzero(mask *image.Gray) int {
	n := 0
	b := mask.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if mask.Pix[y*mask.Stride+x] != 0 {
				n++
			}
		}
	}
	return n
}
