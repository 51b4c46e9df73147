package stability

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stabilizer/pkg/geom"
)

// Moments accumulates area integrals of a planar shape about the origin.
// Values compose by addition over disjoint shapes.
type Moments struct {
	Area          float64
	FirstMoment   r2.Vec  // ∫x dA, ∫y dA
	SecondMoment  r2.Vec  // ∫x² dA, ∫y² dA
	ProductMoment float64 // ∫xy dA
}

// Integrate sums the moments of every contour. Counter-clockwise contours
// add and clockwise contours subtract, so holes need no special handling.
func Integrate(contours []geom.Polygon) Moments {
	var m Moments
	for _, c := range contours {
		m = m.Add(integrateContour(c))
	}
	return m
}

// IntegrateExPolygons integrates polygons with holes.
func IntegrateExPolygons(polys []geom.ExPolygon) Moments {
	var m Moments
	for _, p := range polys {
		n := p.Normalized()
		m = m.Add(Integrate(n.Contours()))
	}
	return m
}

// integrateContour fans the contour from its first vertex and sums the
// closed-form triangle integrals weighted by signed triangle area.
func integrateContour(c geom.Polygon) Moments {
	var m Moments
	if len(c) < 3 {
		return m
	}
	p0 := c[0]
	for i := 1; i+1 < len(c); i++ {
		p1, p2 := c[i], c[i+1]
		a := r2.Cross(r2.Sub(p1, p0), r2.Sub(p2, p0)) / 2
		if a == 0 {
			continue
		}
		m.Area += a
		m.FirstMoment.X += a * (p0.X + p1.X + p2.X) / 3
		m.FirstMoment.Y += a * (p0.Y + p1.Y + p2.Y) / 3
		m.SecondMoment.X += a * (p0.X*p0.X + p1.X*p1.X + p2.X*p2.X + p0.X*p1.X + p0.X*p2.X + p1.X*p2.X) / 6
		m.SecondMoment.Y += a * (p0.Y*p0.Y + p1.Y*p1.Y + p2.Y*p2.Y + p0.Y*p1.Y + p0.Y*p2.Y + p1.Y*p2.Y) / 6
		m.ProductMoment += a * (2*p0.X*p0.Y + 2*p1.X*p1.Y + 2*p2.X*p2.Y +
			p0.X*p1.Y + p1.X*p0.Y + p0.X*p2.Y + p2.X*p0.Y + p1.X*p2.Y + p2.X*p1.Y) / 12
	}
	return m
}

// Add returns the moments of the union of two disjoint shapes.
func (m Moments) Add(o Moments) Moments {
	return Moments{
		Area:          m.Area + o.Area,
		FirstMoment:   r2.Add(m.FirstMoment, o.FirstMoment),
		SecondMoment:  r2.Add(m.SecondMoment, o.SecondMoment),
		ProductMoment: m.ProductMoment + o.ProductMoment,
	}
}

// AddPoint treats area as concentrated at p.
func (m Moments) AddPoint(p r2.Vec, area float64) Moments {
	return m.Add(Moments{
		Area:          area,
		FirstMoment:   r2.Scale(area, p),
		SecondMoment:  r2.Vec{X: area * p.X * p.X, Y: area * p.Y * p.Y},
		ProductMoment: area * p.X * p.Y,
	})
}

// Empty reports whether the area is negligible.
func (m Moments) Empty() bool { return m.Area < geom.Epsilon }

// Centroid returns the area centroid, or the origin for empty shapes.
func (m Moments) Centroid() r2.Vec {
	if m.Empty() {
		return r2.Vec{}
	}
	return r2.Scale(1/m.Area, m.FirstMoment)
}

// Variance returns the summed x and y variance of the area distribution.
func (m Moments) Variance() float64 {
	if m.Empty() {
		return 0
	}
	c := m.Centroid()
	v := m.SecondMoment.X/m.Area - c.X*c.X + m.SecondMoment.Y/m.Area - c.Y*c.Y
	return math.Max(0, v)
}

// SecondMomentAboutAxis returns the second moment of area about the axis
// through the centroid with direction axis. The origin tensor is projected
// onto the axis normal and shifted to the centroid with the parallel-axis
// theorem. A zero direction yields zero.
func SecondMomentAboutAxis(m Moments, axis r2.Vec) float64 {
	if r2.Norm(axis) < geom.Epsilon || m.Empty() {
		return 0
	}
	n := geom.Perpendicular(r2.Unit(axis))
	tensor := mat.NewSymDense(2, []float64{
		m.SecondMoment.X, m.ProductMoment,
		m.ProductMoment, m.SecondMoment.Y,
	})
	v := mat.NewVecDense(2, []float64{n.X, n.Y})
	origin := mat.Inner(v, tensor, v)
	d := r2.Dot(n, m.Centroid())
	return math.Max(0, origin-m.Area*d*d)
}

// SectionModulus divides the second moment about axis by the distance from
// the centroidal axis to the extreme fibre. Returns zero for a negligible
// moment.
func SectionModulus(m Moments, axis r2.Vec, extreme r2.Vec) float64 {
	i := SecondMomentAboutAxis(m, axis)
	if i < geom.Epsilon {
		return 0
	}
	n := geom.Perpendicular(r2.Unit(axis))
	fibre := math.Abs(r2.Dot(n, r2.Sub(extreme, m.Centroid())))
	return i / math.Max(fibre, geom.Epsilon)
}
