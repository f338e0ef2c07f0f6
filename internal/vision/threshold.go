package vision

import (
	"image"
	"math"
)

// OtsuLevel computes the global threshold that minimizes intra-class
// intensity variance over the image histogram.
func OtsuLevel(src *image.Gray) uint8 {
	var hist [256]int
	total := 0
	b := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()]
		for _, v := range row {
			hist[v]++
		}
		total += b.Dx()
	}
	if total == 0 {
		return 0
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumB, wB float64
	bestLevel, bestVar := 0, -1.0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			bestLevel = t
		}
	}
	return uint8(bestLevel)
}

// Threshold returns a mask with 255 wherever the pixel value exceeds level.
func Threshold(src *image.Gray, level uint8) *image.Gray {
	dst := image.NewGray(src.Bounds())
	for i, v := range src.Pix {
		if v > level {
			dst.Pix[i] = 255
		}
	}
	return dst
}

// AdaptiveGaussianThreshold returns a mask with 255 wherever the pixel value
// exceeds the Gaussian-weighted mean of its block x block neighborhood minus c.
// block must be odd; borders are handled by replication.
func AdaptiveGaussianThreshold(src *image.Gray, block int, c float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	kernel := gaussianKernel1D(block)
	half := block / 2

	// Separable blur: horizontal pass into a float buffer, then vertical.
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k := -half; k <= half; k++ {
				sx := clampIndex(x+k, w)
				acc += kernel[k+half] * float64(src.Pix[y*src.Stride+sx])
			}
			tmp[y*w+x] = acc
		}
	}

	dst := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var mean float64
			for k := -half; k <= half; k++ {
				sy := clampIndex(y+k, h)
				mean += kernel[k+half] * tmp[sy*w+x]
			}
			if float64(src.Pix[y*src.Stride+x]) > mean-c {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

// And intersects two masks of identical geometry.
func And(a, b *image.Gray) *image.Gray {
	dst := image.NewGray(a.Bounds())
	for i := range dst.Pix {
		if a.Pix[i] != 0 && b.Pix[i] != 0 {
			dst.Pix[i] = 255
		}
	}
	return dst
}

// gaussianKernel1D returns a normalized 1D Gaussian of the given odd size,
// with sigma derived from the size the way adaptive thresholding expects.
func gaussianKernel1D(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2
	kernel := make([]float64, size)
	var sum float64
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+half] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
