package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// BBox is an axis-aligned rectangle. The zero value is a degenerate box at
// the origin; use EmptyBBox for an accumulator.
type BBox struct {
	Min, Max r2.Vec
}

// EmptyBBox returns a box that contains nothing and grows on Extend.
func EmptyBBox() BBox {
	return BBox{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Empty reports whether the box contains no points.
func (b BBox) Empty() bool { return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y }

// Extend grows the box to include p.
func (b BBox) Extend(p r2.Vec) BBox {
	return BBox{
		Min: r2.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y)},
		Max: r2.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest box containing both.
func (b BBox) Union(o BBox) BBox {
	if o.Empty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Expand grows the box by d on every side.
func (b BBox) Expand(d float64) BBox {
	if b.Empty() {
		return b
	}
	return BBox{
		Min: r2.Vec{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: r2.Vec{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Overlaps reports whether the boxes share any point.
func (b BBox) Overlaps(o BBox) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y
}

// Intersect returns the overlap of two boxes, possibly empty.
func (b BBox) Intersect(o BBox) BBox {
	return BBox{
		Min: r2.Vec{X: math.Max(b.Min.X, o.Min.X), Y: math.Max(b.Min.Y, o.Min.Y)},
		Max: r2.Vec{X: math.Min(b.Max.X, o.Max.X), Y: math.Min(b.Max.Y, o.Max.Y)},
	}
}

// Size returns the box extent.
func (b BBox) Size() r2.Vec { return r2.Sub(b.Max, b.Min) }

// Polygon returns the box as a ccw contour.
func (b BBox) Polygon() Polygon {
	return Polygon{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
	}
}
