package stability

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stabilizer/pkg/geom"
	"github.com/matzehuels/stabilizer/pkg/model"
)

const testWidth = 0.45

func rect(x0, y0, w, h float64) geom.Polygon {
	return geom.Polygon{{X: x0, Y: y0}, {X: x0 + w, Y: y0}, {X: x0 + w, Y: y0 + h}, {X: x0, Y: y0 + h}}
}

// loop returns the closed outline of a rectangle as a path.
func loop(x0, y0, w, h float64) []r2.Vec {
	p := rect(x0, y0, w, h)
	return append([]r2.Vec(p), p[0])
}

// boxRegion is a rectangular island with an external perimeter printed on
// its outline.
func boxRegion(x0, y0, w, h float64, below ...int) model.Region {
	return model.Region{
		Polygons:      []geom.ExPolygon{{Contour: rect(x0, y0, w, h)}},
		OverlapsBelow: below,
		Entities: []model.Entity{{
			Role:   model.RoleExternalPerimeter,
			Width:  testWidth,
			Points: loop(x0, y0, w, h),
		}},
	}
}

// solidRegion fills a square with parallel infill lines one flow width
// apart, so the extruded area equals the square.
func solidRegion(size, width float64) model.Region {
	var lines []model.Entity
	for y := width / 2; y < size; y += width {
		lines = append(lines, model.Entity{
			Role:   model.RoleSolidInfill,
			Width:  width,
			Points: []r2.Vec{{X: 0, Y: y}, {X: size, Y: y}},
		})
	}
	return model.Region{
		Polygons: []geom.ExPolygon{{Contour: rect(0, 0, size, size)}},
		Entities: []model.Entity{{Children: lines}},
	}
}

func stack(height float64, layers ...[]model.Region) *model.Object {
	obj := &model.Object{Name: "test"}
	for i, regions := range layers {
		obj.Layers = append(obj.Layers, model.Layer{
			PrintZ:  float64(i+1) * height,
			Height:  height,
			Regions: regions,
		})
	}
	return obj
}

// recorder is a Tracer that keeps every event.
type recorder struct {
	NopTracer
	created []int
	merged  []PartialObject
	closed  []PartialObject
	points  []SupportPoint
	layers  []int
	onLayer func(layer int)
}

func (r *recorder) PartCreated(_, _, part int, _ bool) { r.created = append(r.created, part) }

func (r *recorder) PartsMerged(_, _, _ int, closed PartialObject) {
	r.merged = append(r.merged, closed)
}

func (r *recorder) PartClosed(_ int, closed PartialObject) { r.closed = append(r.closed, closed) }

func (r *recorder) SupportPointAdded(_, _ int, pt SupportPoint) { r.points = append(r.points, pt) }

func (r *recorder) LayerDone(layer int, _ float64) {
	r.layers = append(r.layers, layer)
	if r.onLayer != nil {
		r.onLayer(layer)
	}
}
