// Package vision implements the grayscale, morphology, thresholding, contour
// and polygon primitives the shape segmenter and content classifier are built
// from. Everything operates on stdlib image surfaces; masks are *image.Gray
// with 0 for background and 255 for foreground.
package vision

import (
	"image"
	"image/color"
)

// ToGray converts a decoded image to a single-channel grayscale surface
// anchored at the origin. A nil input yields a nil surface.
func ToGray(src image.Image) *image.Gray {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if g, ok := src.(*image.Gray); ok && b.Min == (image.Point{}) && g.Stride == dst.Stride {
		copy(dst.Pix, g.Pix)
		return dst
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			dst.SetGray(x, y, c)
		}
	}
	return dst
}

// clone returns a copy of a grayscale surface.
func clone(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// clampIndex clamps v into [0, n) for replicate border handling.
func clampIndex(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
