package stability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stabilizer/pkg/geom"
	"github.com/matzehuels/stabilizer/pkg/model"
)

func TestSupportGridFilter(t *testing.T) {
	g := NewSupportGridFilter(geom.BBox{Max: r2.Vec{X: 10, Y: 10}}, 5, 2)

	a := r3.Vec{X: 1, Y: 1, Z: 1}
	assert.False(t, g.PositionTaken(a))
	g.TakePosition(a)
	assert.True(t, g.PositionTaken(a))
	assert.True(t, g.PositionTaken(r3.Vec{X: 1.5, Y: 0.5, Z: 1.9}), "same cell")
	assert.False(t, g.PositionTaken(r3.Vec{X: 3, Y: 1, Z: 1}), "neighbour cell")

	// Far outside points clamp to the border instead of wrapping around.
	assert.NotEqual(t, g.CellIndex(r3.Vec{X: 1000, Y: 0, Z: 0}), g.CellIndex(r3.Vec{X: 0, Y: 1000, Z: 0}))
	assert.Equal(t, g.CellIndex(r3.Vec{X: 1000}), g.CellIndex(r3.Vec{X: 2000}))
	assert.Equal(t, 1, g.Taken())
}

func newTestAnalysis() *analysis {
	obj := stack(0.2, []model.Region{boxRegion(0, 0, 10, 10)})
	return newAnalysis(obj, DefaultParams(), Options{}.withDefaults())
}

func TestReckonDedup(t *testing.T) {
	a := newTestAnalysis()
	part := a.parts.Insert(ObjectPart{ConnectedToBed: true})
	conn := SliceConnection{}
	pos := r3.Vec{X: 5, Y: 5}
	near := r3.Vec{X: 5.1, Y: 5.1}

	assert.True(t, a.reckon(0, part, SupportPoint{Cause: SeparationFromBed, Position: pos}, &conn))
	assert.False(t, a.reckon(0, part, SupportPoint{Cause: WeakObjectPart, Position: near}, &conn),
		"structural point in a taken cell")
	assert.True(t, a.reckon(0, part, SupportPoint{Cause: LongBridge, Position: near}, &conn),
		"local point in a taken cell")

	sticking := a.parts.Access(part).Sticking.Area
	assert.InDelta(t, a.params.SpotArea(), sticking, 1e-9, "only the first point strengthens the part")
	assert.Len(t, a.points, 2)
	assert.Equal(t, 1, a.stats.RejectedPoints)
	assert.True(t, conn.Empty(), "empty connections stay empty")
}

func TestReckonGlobalPointsHaveDistinctCells(t *testing.T) {
	a := newTestAnalysis()
	part := a.parts.Insert(ObjectPart{})
	conn := newSliceConnection([]geom.Polygon{rect(0, 0, 10, 10)}, 0)
	areaBefore := conn.Area

	for i := 0; i < 200; i++ {
		pos := r3.Vec{X: float64(i%13) * 0.7, Y: float64(i%7) * 1.3, Z: float64(i%3) * 0.5}
		cause := UnstableFloatingPart
		if i%4 == 0 {
			cause = FloatingExtrusion
		}
		a.reckon(0, part, SupportPoint{Cause: cause, Position: pos}, &conn)
	}

	seen := make(map[int]bool)
	for _, pt := range a.points {
		if !pt.Cause.IsGlobal() {
			continue
		}
		cell := a.grid.CellIndex(pt.Position)
		assert.False(t, seen[cell], "two structural points in cell %d", cell)
		seen[cell] = true
	}
	assert.Greater(t, conn.Area, areaBefore)
}
