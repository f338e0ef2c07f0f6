package vision

import (
	"image"
	"math"
)

// ApproxPolygon approximates a closed contour with the Ramer-Douglas-Peucker
// algorithm. epsilon is the absolute tolerance in pixels.
func ApproxPolygon(c Contour, epsilon float64) []image.Point {
	if len(c) < 3 {
		return append([]image.Point(nil), c...)
	}

	// Split the closed curve at the two mutually farthest anchor points so
	// each half is an open chain RDP can simplify.
	far := 0
	best := -1.0
	for i := range c {
		d := sqDist(c[0], c[i])
		if d > best {
			best = d
			far = i
		}
	}
	if far == 0 {
		// Degenerate contour: every point coincides with the first.
		return []image.Point{c[0]}
	}

	first := rdp(c[:far+1], epsilon)
	tail := append(append([]image.Point(nil), c[far:]...), c[0])
	second := rdp(tail, epsilon)

	// Drop the duplicated anchors when joining the two chains.
	poly := append([]image.Point(nil), first[:len(first)-1]...)
	poly = append(poly, second[:len(second)-1]...)
	return poly
}

// rdp simplifies an open point chain, keeping both endpoints.
func rdp(points []image.Point, epsilon float64) []image.Point {
	if len(points) < 3 {
		return points
	}
	idx, maxDist := 0, -1.0
	a, b := points[0], points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], a, b)
		if d > maxDist {
			maxDist = d
			idx = i
		}
	}
	if maxDist <= epsilon {
		return []image.Point{a, b}
	}
	left := rdp(points[:idx+1], epsilon)
	right := rdp(points[idx:], epsilon)
	return append(left[:len(left)-1], right...)
}

// perpendicularDistance is the distance from p to the segment line through a and b.
func perpendicularDistance(p, a, b image.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return math.Hypot(float64(p.X-a.X), float64(p.Y-a.Y))
	}
	return math.Abs(dx*float64(a.Y-p.Y)-float64(a.X-p.X)*dy) / norm
}

func sqDist(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return dx*dx + dy*dy
}

// IsConvex reports whether the closed polygon turns in a single direction at
// every vertex. Collinear vertices are tolerated.
func IsConvex(poly []image.Point) bool {
	if len(poly) < 3 {
		return false
	}
	sign := 0
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b, c := poly[i], poly[(i+1)%n], poly[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross == 0 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return sign != 0
}

// MaxRightAngleDeviation returns the largest deviation from 90 degrees, in
// degrees, over all interior angles of the closed polygon.
func MaxRightAngleDeviation(poly []image.Point) float64 {
	n := len(poly)
	worst := 0.0
	for i := 0; i < n; i++ {
		prev := poly[(i+n-1)%n]
		cur := poly[i]
		next := poly[(i+1)%n]
		ux, uy := float64(prev.X-cur.X), float64(prev.Y-cur.Y)
		vx, vy := float64(next.X-cur.X), float64(next.Y-cur.Y)
		nu, nv := math.Hypot(ux, uy), math.Hypot(vx, vy)
		if nu == 0 || nv == 0 {
			return 180
		}
		cos := (ux*vx + uy*vy) / (nu * nv)
		cos = math.Max(-1, math.Min(1, cos))
		angle := math.Acos(cos) * 180 / math.Pi
		if dev := math.Abs(angle - 90); dev > worst {
			worst = dev
		}
	}
	return worst
}

// IsRectangular reports whether the polygon is a convex quadrilateral whose
// every interior angle is within tolDeg of 90 degrees, boundary inclusive.
func IsRectangular(poly []image.Point, tolDeg float64) bool {
	if len(poly) != 4 {
		return false
	}
	if !IsConvex(poly) {
		return false
	}
	return MaxRightAngleDeviation(poly) <= tolDeg
}
