package vision

import "image"

// Kernel is a flat binary structuring element anchored at its center.
type Kernel struct {
	W, H int
	Mask []bool // row-major, length W*H
}

// RectKernel returns a filled rectangular structuring element.
func RectKernel(w, h int) Kernel {
	mask := make([]bool, w*h)
	for i := range mask {
		mask[i] = true
	}
	return Kernel{W: w, H: h, Mask: mask}
}

// EllipseKernel returns an elliptical structuring element inscribed in w by h.
// The 3x3 ellipse degenerates to the 4-connected cross.
func EllipseKernel(w, h int) Kernel {
	mask := make([]bool, w*h)
	rx := float64(w-1) / 2
	ry := float64(h-1) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-rx, float64(y)-ry
			// Degenerate axes (w or h of 1) keep the full row/column.
			nx, ny := 0.0, 0.0
			if rx > 0 {
				nx = dx / rx
			}
			if ry > 0 {
				ny = dy / ry
			}
			if nx*nx+ny*ny <= 1.0+1e-9 {
				mask[y*w+x] = true
			}
		}
	}
	return Kernel{W: w, H: h, Mask: mask}
}

// Dilate replaces each pixel with the maximum over the structuring element.
// Borders are handled by replication.
func Dilate(src *image.Gray, k Kernel) *image.Gray {
	return morph(src, k, false)
}

// Erode replaces each pixel with the minimum over the structuring element.
// Borders are handled by replication.
func Erode(src *image.Gray, k Kernel) *image.Gray {
	return morph(src, k, true)
}

// Close performs a morphological closing (dilate then erode).
func Close(src *image.Gray, k Kernel) *image.Gray {
	return Erode(Dilate(src, k), k)
}

// BlackHat returns closing(src) - src, which highlights dark features smaller
// than the structuring element against a lighter background.
func BlackHat(src *image.Gray, k Kernel) *image.Gray {
	closed := Close(src, k)
	dst := image.NewGray(src.Bounds())
	for i := range dst.Pix {
		c, s := int(closed.Pix[i]), int(src.Pix[i])
		if c > s {
			dst.Pix[i] = uint8(c - s)
		}
	}
	return dst
}

// ErodeN applies n erosion passes with the same kernel.
func ErodeN(src *image.Gray, k Kernel, n int) *image.Gray {
	out := src
	for i := 0; i < n; i++ {
		out = Erode(out, k)
	}
	if out == src {
		out = clone(src)
	}
	return out
}

func morph(src *image.Gray, k Kernel, min bool) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)
	ax, ay := k.W/2, k.H/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var best uint8
			if min {
				best = 255
			}
			for ky := 0; ky < k.H; ky++ {
				for kx := 0; kx < k.W; kx++ {
					if !k.Mask[ky*k.W+kx] {
						continue
					}
					sx := clampIndex(x+kx-ax, w)
					sy := clampIndex(y+ky-ay, h)
					v := src.Pix[sy*src.Stride+sx]
					if min {
						if v < best {
							best = v
						}
					} else if v > best {
						best = v
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = best
		}
	}
	return dst
}
