package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Boundary is the outline of a slice layer, used to measure how far a point
// hangs over the layer beneath it.
type Boundary struct {
	polys []ExPolygon
	index *LineIndex
}

// NewBoundary indexes the edges of polys. A boundary with no polygons
// reports every point as supported.
func NewBoundary(polys []ExPolygon) *Boundary {
	return &Boundary{polys: polys, index: NewLineIndex(BoundaryLines(polys))}
}

// SignedDistance returns the distance from p to the outline, negative when
// p lies inside a polygon.
func (b *Boundary) SignedDistance(p r2.Vec) float64 {
	n, ok := b.index.Nearest(p)
	if !ok {
		return 0
	}
	if ContainsAny(b.polys, p) {
		return -n.Distance
	}
	return n.Distance
}

// Empty reports whether the boundary has no edges.
func (b *Boundary) Empty() bool { return b == nil || b.index.Len() == 0 }

// Annotation holds per-point properties of an extrusion path.
type Annotation struct {
	Position r2.Vec

	// Distance to the previous layer outline. Points buried deeper than
	// half a flow width inside the outline get a negative distance.
	Distance float64

	// Curvature is the signed turning angle divided by the mean length of
	// the two adjacent segments. Zero at path endpoints.
	Curvature float64
}

// Annotate computes distance and curvature for every point of a path.
// A nil or empty boundary means the path rests on the print bed.
func Annotate(points []r2.Vec, below *Boundary, flowWidth float64) []Annotation {
	curv := Curvature(points)
	out := make([]Annotation, len(points))
	for i, p := range points {
		out[i] = Annotation{Position: p, Curvature: curv[i]}
		if below.Empty() {
			continue
		}
		sd := below.SignedDistance(p)
		if sd+0.5*flowWidth < 0 {
			out[i].Distance = sd
		} else {
			out[i].Distance = math.Abs(sd)
		}
	}
	return out
}

// Curvature estimates discrete curvature at each vertex of a polyline.
// Left turns are positive.
func Curvature(points []r2.Vec) []float64 {
	out := make([]float64, len(points))
	for i := 1; i+1 < len(points); i++ {
		a := r2.Sub(points[i], points[i-1])
		b := r2.Sub(points[i+1], points[i])
		la, lb := r2.Norm(a), r2.Norm(b)
		if la < Epsilon || lb < Epsilon {
			continue
		}
		angle := math.Atan2(r2.Cross(a, b), r2.Dot(a, b))
		out[i] = angle / ((la + lb) / 2)
	}
	return out
}
