package vision

import (
	"image"
	"math"
)

// Contour is the closed boundary polyline of a connected foreground region.
type Contour []image.Point

// mooreDirs enumerates the 8-neighborhood clockwise starting west.
var mooreDirs = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// FindContours returns the outer boundary of every 8-connected foreground
// region of the mask, in scan order of the region's topmost-leftmost pixel.
// Foreground is any nonzero pixel.
func FindContours(mask *image.Gray) []Contour {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	labels := make([]int32, w*h)
	var contours []Contour

	next := int32(1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x] == 0 || labels[y*w+x] != 0 {
				continue
			}
			label := next
			next++
			floodLabel(mask, labels, x, y, label)
			contours = append(contours, traceBoundary(labels, w, h, image.Pt(x, y), label))
		}
	}
	return contours
}

// floodLabel marks the 8-connected component containing (x, y).
func floodLabel(mask *image.Gray, labels []int32, x, y int, label int32) {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	stack := []image.Point{{X: x, Y: y}}
	labels[y*w+x] = label
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range mooreDirs {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if mask.Pix[ny*mask.Stride+nx] == 0 || labels[ny*w+nx] != 0 {
				continue
			}
			labels[ny*w+nx] = label
			stack = append(stack, image.Point{X: nx, Y: ny})
		}
	}
}

// traceBoundary walks the outer boundary of a labeled component clockwise
// using Moore-neighbor tracing. start must be the component's topmost-leftmost
// pixel so that its west neighbor is guaranteed outside the component.
func traceBoundary(labels []int32, w, h int, start image.Point, label int32) Contour {
	inComponent := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && labels[p.Y*w+p.X] == label
	}

	contour := Contour{start}
	cur := start
	// Entry direction: we conceptually arrived from the west.
	backtrack := 0
	limit := 4 * (w*h + 1)

	for step := 0; step < limit; step++ {
		found := -1
		// Scan the 8 neighbors clockwise, starting just after the backtrack.
		for i := 1; i <= 8; i++ {
			d := (backtrack + i) % 8
			if inComponent(cur.Add(mooreDirs[d])) {
				found = d
				break
			}
		}
		if found < 0 {
			// Isolated pixel.
			return contour
		}
		cur = cur.Add(mooreDirs[found])
		// New backtrack points at the previous pixel relative to the new one.
		backtrack = (found + 4) % 8
		if cur == start && len(contour) > 1 {
			return contour
		}
		contour = append(contour, cur)
	}
	return contour
}

// Area returns the enclosed area of a closed contour via the shoelace formula.
func Area(c Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	var sum float64
	for i := range c {
		j := (i + 1) % len(c)
		sum += float64(c[i].X)*float64(c[j].Y) - float64(c[j].X)*float64(c[i].Y)
	}
	return math.Abs(sum) / 2
}

// ArcLength returns the closed perimeter of a contour.
func ArcLength(c Contour) float64 {
	if len(c) < 2 {
		return 0
	}
	var sum float64
	for i := range c {
		j := (i + 1) % len(c)
		sum += math.Hypot(float64(c[j].X-c[i].X), float64(c[j].Y-c[i].Y))
	}
	return sum
}

// BoundingBox returns the axis-aligned bounding rectangle of a contour.
func BoundingBox(c Contour) image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0].Add(image.Pt(1, 1))}
	for _, p := range c[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X+1 > r.Max.X {
			r.Max.X = p.X + 1
		}
		if p.Y+1 > r.Max.Y {
			r.Max.Y = p.Y + 1
		}
	}
	return r
}
