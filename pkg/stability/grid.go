package stability

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stabilizer/pkg/geom"
)

// SupportGridFilter is a uniform voxel grid over the object that keeps
// structural support points apart.
type SupportGridFilter struct {
	cell   float64
	origin r3.Vec
	nx, ny int
	nz     int
	taken  map[int]struct{}
}

// NewSupportGridFilter covers bbox from the bed up to height with cubic
// cells of the given edge. The grid is padded by one cell on every side.
func NewSupportGridFilter(bbox geom.BBox, height, cell float64) *SupportGridFilter {
	if bbox.Empty() {
		bbox = geom.BBox{}
	}
	origin := r3.Vec{X: bbox.Min.X - cell, Y: bbox.Min.Y - cell, Z: -cell}
	size := r3.Vec{
		X: bbox.Max.X + cell - origin.X,
		Y: bbox.Max.Y + cell - origin.Y,
		Z: height + cell - origin.Z,
	}
	return &SupportGridFilter{
		cell:   cell,
		origin: origin,
		nx:     int(math.Ceil(size.X/cell)) + 1,
		ny:     int(math.Ceil(size.Y/cell)) + 1,
		nz:     int(math.Ceil(size.Z/cell)) + 1,
		taken:  make(map[int]struct{}),
	}
}

// CellIndex returns the linear index of the cell containing p. Points
// outside the grid are clamped to the border cells.
func (g *SupportGridFilter) CellIndex(p r3.Vec) int {
	x := g.coord(p.X-g.origin.X, g.nx)
	y := g.coord(p.Y-g.origin.Y, g.ny)
	z := g.coord(p.Z-g.origin.Z, g.nz)
	return z*g.nx*g.ny + y*g.nx + x
}

func (g *SupportGridFilter) coord(v float64, n int) int {
	i := int(math.Floor(v / g.cell))
	return min(max(i, 0), n-1)
}

// PositionTaken reports whether the cell of p already holds a point.
func (g *SupportGridFilter) PositionTaken(p r3.Vec) bool {
	_, ok := g.taken[g.CellIndex(p)]
	return ok
}

// TakePosition reserves the cell of p.
func (g *SupportGridFilter) TakePosition(p r3.Vec) {
	g.taken[g.CellIndex(p)] = struct{}{}
}

// Taken returns the number of reserved cells.
func (g *SupportGridFilter) Taken() int { return len(g.taken) }
