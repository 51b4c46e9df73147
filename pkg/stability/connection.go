package stability

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stabilizer/pkg/geom"
)

// SliceConnection is the contact area between a region and the regions
// below it. CentroidAccumulator holds ∫(x, y, z) dA with z at the contact
// height.
type SliceConnection struct {
	Moments
	CentroidAccumulator r3.Vec
}

// newSliceConnection integrates contact contours lying at height z.
func newSliceConnection(contours []geom.Polygon, z float64) SliceConnection {
	m := Integrate(contours)
	return SliceConnection{
		Moments: m,
		CentroidAccumulator: r3.Vec{
			X: m.FirstMoment.X,
			Y: m.FirstMoment.Y,
			Z: z * m.Area,
		},
	}
}

// Add merges two connections.
func (c SliceConnection) Add(o SliceConnection) SliceConnection {
	return SliceConnection{
		Moments:             c.Moments.Add(o.Moments),
		CentroidAccumulator: r3.Add(c.CentroidAccumulator, o.CentroidAccumulator),
	}
}

// AddSupportPoint treats a support point as additional contact area.
func (c *SliceConnection) AddSupportPoint(p r3.Vec, area float64) {
	c.Moments = c.Moments.AddPoint(r2.Vec{X: p.X, Y: p.Y}, area)
	c.CentroidAccumulator = r3.Add(c.CentroidAccumulator, r3.Scale(area, p))
}

// Centroid3 returns the 3D centroid of the contact area.
func (c SliceConnection) Centroid3() r3.Vec {
	if c.Empty() {
		return r3.Vec{}
	}
	return r3.Scale(1/c.Area, c.CentroidAccumulator)
}

// Strength estimates how well the connection resists bending for a layer
// printed at bottomZ. Smaller is weaker. An empty connection does not
// exist and scores +Inf so it is never picked as the weakest.
func (c SliceConnection) Strength(bottomZ float64) float64 {
	if c.Empty() {
		return math.Inf(1)
	}
	arm := math.Max(1, bottomZ-c.Centroid3().Z)
	return c.Area * math.Sqrt(c.Variance()) / arm
}

// weaker returns whichever connection has the lower strength at bottomZ,
// preferring a on ties.
func weaker(a, b SliceConnection, bottomZ float64) SliceConnection {
	if a.Strength(bottomZ) > b.Strength(bottomZ) {
		return b
	}
	return a
}
