package geom

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// Intersection returns contours whose signed areas integrate to the
// intersection of the two polygon sets. Polygons within each set must be
// pairwise disjoint, which holds for the islands of a single slice layer.
//
// Outer contours of the result are ccw and holes cw. The result is meant
// for integration, not for display: the convex fast path may emit
// zero-width slivers along the clip boundary.
func Intersection(subject, clip []ExPolygon) []Polygon {
	var out []Polygon
	for _, s := range subject {
		sb := s.BBox()
		for _, c := range clip {
			cb := c.BBox()
			if !sb.Overlaps(cb) {
				continue
			}
			out = append(out, intersectPair(s.Normalized(), c.Normalized(), sb.Intersect(cb))...)
		}
	}
	return out
}

func intersectPair(s, c ExPolygon, overlap BBox) []Polygon {
	switch {
	case c.IsSimpleConvex():
		return clipContours(s, c.Contour, overlap)
	case s.IsSimpleConvex():
		return clipContours(c, s.Contour, overlap)
	default:
		return polyclipIntersect(s, c, overlap)
	}
}

// clipContours clips every contour of e against a convex ccw window.
// Holes keep their cw winding so they still subtract.
func clipContours(e ExPolygon, window Polygon, overlap BBox) []Polygon {
	var out []Polygon
	for _, contour := range e.Contours() {
		if !contour.BBox().Overlaps(overlap) {
			continue
		}
		if p := ClipConvex(contour, window); len(p) >= 3 {
			out = append(out, p)
		}
	}
	return out
}

// ClipConvex clips subject against a convex window using Sutherland-Hodgman.
// The window must be wound ccw; the subject keeps its own winding.
// Returns nil when nothing remains.
func ClipConvex(subject, window Polygon) Polygon {
	if len(subject) < 3 || len(window) < 3 {
		return nil
	}
	output := make(Polygon, len(subject))
	copy(output, subject)

	for i := range window {
		if len(output) == 0 {
			return nil
		}
		output = clipByEdge(output, window[i], window[(i+1)%len(window)])
	}
	if len(output) < 3 {
		return nil
	}
	return output
}

func clipByEdge(poly Polygon, e1, e2 r2.Vec) Polygon {
	var clipped Polygon
	for i := range poly {
		cur := poly[i]
		next := poly[(i+1)%len(poly)]
		curIn := insideEdge(cur, e1, e2)
		nextIn := insideEdge(next, e1, e2)

		if curIn {
			clipped = append(clipped, cur)
			if !nextIn {
				if p, ok := lineIntersection(cur, next, e1, e2); ok {
					clipped = append(clipped, p)
				}
			}
		} else if nextIn {
			if p, ok := lineIntersection(cur, next, e1, e2); ok {
				clipped = append(clipped, p)
			}
		}
	}
	return clipped
}

// insideEdge reports whether p is on the left of the directed edge e1-e2.
func insideEdge(p, e1, e2 r2.Vec) bool {
	return r2.Cross(r2.Sub(e2, e1), r2.Sub(p, e1)) >= 0
}

func lineIntersection(p1, p2, e1, e2 r2.Vec) (r2.Vec, bool) {
	d := r2.Sub(p2, p1)
	e := r2.Sub(e2, e1)
	denom := r2.Cross(d, e)
	if math.Abs(denom) < 1e-12 {
		return r2.Vec{}, false
	}
	t := r2.Cross(r2.Sub(e1, p1), e) / denom
	return r2.Add(p1, r2.Scale(t, d)), true
}

// polyclipIntersect handles the general case. Contours whose bounds miss
// the overlap box cannot contribute and are dropped before clipping.
func polyclipIntersect(s, c ExPolygon, overlap BBox) []Polygon {
	subject := toPolyclip(s, overlap)
	clip := toPolyclip(c, overlap)
	if len(subject) == 0 || len(clip) == 0 {
		return nil
	}
	result := subject.Construct(polyclip.INTERSECTION, clip)

	contours := make([]Polygon, 0, len(result))
	for _, rc := range result {
		if len(rc) < 3 {
			continue
		}
		p := make(Polygon, len(rc))
		for i, pt := range rc {
			p[i] = r2.Vec{X: pt.X, Y: pt.Y}
		}
		contours = append(contours, p)
	}
	return orientByNesting(contours)
}

func toPolyclip(e ExPolygon, overlap BBox) polyclip.Polygon {
	var out polyclip.Polygon
	for i, contour := range e.Contours() {
		if i > 0 && !contour.BBox().Overlaps(overlap) {
			continue
		}
		pc := make(polyclip.Contour, len(contour))
		for j, v := range contour {
			pc[j] = polyclip.Point{X: v.X, Y: v.Y}
		}
		out = append(out, pc)
	}
	return out
}

// orientByNesting winds contours at even nesting depth ccw and odd depth cw,
// since polyclip does not guarantee any orientation on output.
func orientByNesting(contours []Polygon) []Polygon {
	out := make([]Polygon, len(contours))
	for i, c := range contours {
		depth := 0
		for j, other := range contours {
			if i != j && other.Contains(c[0]) {
				depth++
			}
		}
		out[i] = c.Oriented(depth%2 == 0)
	}
	return out
}
