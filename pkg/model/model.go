package model

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stabilizer/pkg/geom"
)

// Object is a sliced print.
type Object struct {
	Name   string
	Layers []Layer
}

// Layer is one slice of the object.
type Layer struct {
	PrintZ  float64 // top of the layer
	Height  float64 // layer thickness
	Regions []Region
}

// BottomZ returns the height the layer is printed on.
func (l Layer) BottomZ() float64 { return l.PrintZ - l.Height }

// Region is a connected island of a layer.
type Region struct {
	Polygons []geom.ExPolygon

	// OverlapsBelow lists indices of regions in the previous layer that
	// overlap this one.
	OverlapsBelow []int

	// Brim polygons attached to the region. Only used on the first layer.
	Brim []geom.ExPolygon

	Entities []Entity
}

// Entity is an extrusion path or a collection of them.
type Entity struct {
	Role   Role
	Width  float64 // flow width
	Height float64 // flow height; zero means the layer height
	Points []r2.Vec

	// Children makes the entity a collection. Collections carry no points.
	Children []Entity
}

// IsCollection reports whether e groups other entities.
func (e Entity) IsCollection() bool { return len(e.Children) > 0 }

// Path is a flattened, role-tagged extrusion path.
type Path struct {
	Role   Role
	Width  float64
	Height float64
	Points []r2.Vec
}

// Lines returns the consecutive segments of the path.
func (p Path) Lines() []geom.Line { return geom.Polyline(p.Points) }

// Flatten walks an entity tree depth first and returns its leaf paths in
// print order. Zero heights are replaced by layerHeight.
func Flatten(entities []Entity, layerHeight float64) []Path {
	var out []Path
	var walk func([]Entity)
	walk = func(es []Entity) {
		for _, e := range es {
			if e.IsCollection() {
				walk(e.Children)
				continue
			}
			h := e.Height
			if h <= 0 {
				h = layerHeight
			}
			out = append(out, Path{Role: e.Role, Width: e.Width, Height: h, Points: e.Points})
		}
	}
	walk(entities)
	return out
}

// BBox returns the xy bounds of every region outline in the object.
func (o *Object) BBox() geom.BBox {
	bb := geom.EmptyBBox()
	for _, l := range o.Layers {
		for _, r := range l.Regions {
			bb = bb.Union(geom.BBoxOf(r.Polygons))
			bb = bb.Union(geom.BBoxOf(r.Brim))
		}
	}
	return bb
}

// RegionCount returns the total number of regions over all layers.
func (o *Object) RegionCount() int {
	n := 0
	for _, l := range o.Layers {
		n += len(l.Regions)
	}
	return n
}
