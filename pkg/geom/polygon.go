package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the tolerance used for degenerate lengths and areas.
const Epsilon = 1e-4

// Polygon is a closed contour. The closing edge from the last vertex back
// to the first is implicit.
type Polygon []r2.Vec

// SignedArea returns the shoelace area, positive for counter-clockwise contours.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i, a := range p {
		b := p[(i+1)%len(p)]
		sum += r2.Cross(a, b)
	}
	return sum / 2
}

// IsCCW reports whether the contour winds counter-clockwise.
func (p Polygon) IsCCW() bool { return p.SignedArea() > 0 }

// Reversed returns a copy of p with the opposite winding.
func (p Polygon) Reversed() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Oriented returns p wound counter-clockwise when ccw is true, clockwise otherwise.
func (p Polygon) Oriented(ccw bool) Polygon {
	if p.IsCCW() == ccw {
		return p
	}
	return p.Reversed()
}

// BBox returns the axis-aligned bounds of the contour.
func (p Polygon) BBox() BBox {
	bb := EmptyBBox()
	for _, v := range p {
		bb = bb.Extend(v)
	}
	return bb
}

// IsConvex reports whether every turn of the contour has the same sign.
// Collinear vertices are tolerated.
func (p Polygon) IsConvex() bool {
	if len(p) < 3 {
		return false
	}
	sign := 0
	n := len(p)
	for i := range p {
		c := r2.Cross(r2.Sub(p[(i+1)%n], p[i]), r2.Sub(p[(i+2)%n], p[(i+1)%n]))
		switch {
		case c > Epsilon*Epsilon:
			if sign < 0 {
				return false
			}
			sign = 1
		case c < -Epsilon*Epsilon:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

// Contains tests whether pt lies inside the contour using ray casting.
func (p Polygon) Contains(pt r2.Vec) bool {
	if len(p) < 3 {
		return false
	}
	inside := false
	n := len(p)
	for i := 0; i < n; i++ {
		a, b := p[i], p[(i+1)%n]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Lines returns the closed edge list of the contour.
func (p Polygon) Lines() []Line {
	if len(p) < 2 {
		return nil
	}
	out := make([]Line, 0, len(p))
	for i, a := range p {
		out = append(out, Line{A: a, B: p[(i+1)%len(p)]})
	}
	return out
}

// ExPolygon is an outer contour with zero or more holes.
type ExPolygon struct {
	Contour Polygon
	Holes   []Polygon
}

// Normalized returns a copy with a ccw contour and cw holes.
func (e ExPolygon) Normalized() ExPolygon {
	out := ExPolygon{Contour: e.Contour.Oriented(true)}
	for _, h := range e.Holes {
		out.Holes = append(out.Holes, h.Oriented(false))
	}
	return out
}

// Contours returns the outer contour followed by the holes.
func (e ExPolygon) Contours() []Polygon {
	out := make([]Polygon, 0, 1+len(e.Holes))
	out = append(out, e.Contour)
	return append(out, e.Holes...)
}

// BBox returns the bounds of the outer contour.
func (e ExPolygon) BBox() BBox { return e.Contour.BBox() }

// Area returns the filled area, holes excluded.
func (e ExPolygon) Area() float64 {
	a := math.Abs(e.Contour.SignedArea())
	for _, h := range e.Holes {
		a -= math.Abs(h.SignedArea())
	}
	return a
}

// Contains reports whether pt is inside the contour and outside every hole.
func (e ExPolygon) Contains(pt r2.Vec) bool {
	if !e.Contour.Contains(pt) {
		return false
	}
	for _, h := range e.Holes {
		if h.Contains(pt) {
			return false
		}
	}
	return true
}

// IsSimpleConvex reports whether e is a single convex contour without holes.
func (e ExPolygon) IsSimpleConvex() bool {
	return len(e.Holes) == 0 && e.Contour.IsConvex()
}

// Lines returns the edges of all contours.
func (e ExPolygon) Lines() []Line {
	var out []Line
	for _, c := range e.Contours() {
		out = append(out, c.Lines()...)
	}
	return out
}

// BoundaryLines collects the edges of every polygon in the set.
func BoundaryLines(polys []ExPolygon) []Line {
	var out []Line
	for _, p := range polys {
		out = append(out, p.Lines()...)
	}
	return out
}

// ContainsAny reports whether any polygon of the set contains pt.
func ContainsAny(polys []ExPolygon, pt r2.Vec) bool {
	for _, p := range polys {
		if p.Contains(pt) {
			return true
		}
	}
	return false
}

// BBoxOf returns the union of the bounds of a polygon set.
func BBoxOf(polys []ExPolygon) BBox {
	bb := EmptyBBox()
	for _, p := range polys {
		bb = bb.Union(p.BBox())
	}
	return bb
}

// Rectangle returns the ccw rectangle of the given width centered on the
// segment a-b. Degenerate segments yield nil.
func Rectangle(a, b r2.Vec, width float64) Polygon {
	d := r2.Sub(b, a)
	l := r2.Norm(d)
	if l < Epsilon || width <= 0 {
		return nil
	}
	n := r2.Scale(width/(2*l), r2.Vec{X: -d.Y, Y: d.X})
	return Polygon{r2.Sub(a, n), r2.Sub(b, n), r2.Add(b, n), r2.Add(a, n)}
}
