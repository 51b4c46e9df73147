package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Line is a directed segment from A to B.
type Line struct {
	A, B r2.Vec
}

// Len returns the segment length.
func (l Line) Len() float64 { return r2.Norm(r2.Sub(l.B, l.A)) }

// Vector returns B-A.
func (l Line) Vector() r2.Vec { return r2.Sub(l.B, l.A) }

// Dir returns the unit direction, or the zero vector for degenerate segments.
func (l Line) Dir() r2.Vec {
	v := l.Vector()
	n := r2.Norm(v)
	if n < Epsilon {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// Midpoint returns the center of the segment.
func (l Line) Midpoint() r2.Vec { return r2.Scale(0.5, r2.Add(l.A, l.B)) }

// ClosestPoint returns the point of the segment nearest to p.
func (l Line) ClosestPoint(p r2.Vec) r2.Vec {
	v := l.Vector()
	n2 := r2.Norm2(v)
	if n2 < Epsilon*Epsilon {
		return l.A
	}
	t := r2.Dot(r2.Sub(p, l.A), v) / n2
	t = math.Max(0, math.Min(1, t))
	return r2.Add(l.A, r2.Scale(t, v))
}

// Distance returns the euclidean distance from p to the segment.
func (l Line) Distance(p r2.Vec) float64 {
	return r2.Norm(r2.Sub(p, l.ClosestPoint(p)))
}

// Bounds returns the segment bounding box.
func (l Line) Bounds() BBox { return EmptyBBox().Extend(l.A).Extend(l.B) }

// Perpendicular returns v rotated by +90 degrees.
func Perpendicular(v r2.Vec) r2.Vec { return r2.Vec{X: -v.Y, Y: v.X} }

// Polyline converts a point sequence to consecutive segments.
func Polyline(points []r2.Vec) []Line {
	if len(points) < 2 {
		return nil
	}
	out := make([]Line, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		out = append(out, Line{A: points[i-1], B: points[i]})
	}
	return out
}

// Subdivide splits every segment longer than step into equal pieces no
// longer than step. Input vertices are kept.
func Subdivide(points []r2.Vec, step float64) []r2.Vec {
	if len(points) < 2 || step <= 0 {
		return points
	}
	out := make([]r2.Vec, 0, len(points))
	out = append(out, points[0])
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		n := int(math.Ceil(r2.Norm(r2.Sub(b, a)) / step))
		for k := 1; k < n; k++ {
			t := float64(k) / float64(n)
			out = append(out, r2.Add(a, r2.Scale(t, r2.Sub(b, a))))
		}
		out = append(out, b)
	}
	return out
}
