package geom

import (
	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"
)

// R-tree fan-out, matching the rtreego documentation examples.
const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
)

// LineIndex answers nearest-segment queries over a fixed set of lines.
// It is immutable after construction and safe for concurrent readers.
type LineIndex struct {
	lines []Line
	tree  *rtreego.Rtree
}

type indexedLine struct {
	idx  int
	rect rtreego.Rect
}

func (l *indexedLine) Bounds() rtreego.Rect { return l.rect }

// Nearest is the result of a nearest-line query.
type Nearest struct {
	Index    int     // position in the indexed slice
	Distance float64 // unsigned distance to the segment
	Point    r2.Vec  // closest point on the segment
}

// NewLineIndex bulk-loads lines into an R-tree.
func NewLineIndex(lines []Line) *LineIndex {
	objs := make([]rtreego.Spatial, 0, len(lines))
	for i, l := range lines {
		objs = append(objs, &indexedLine{idx: i, rect: toRect(l.Bounds())})
	}
	return &LineIndex{
		lines: lines,
		tree:  rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, objs...),
	}
}

// Len returns the number of indexed lines.
func (ix *LineIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.lines)
}

// Line returns the i-th indexed line.
func (ix *LineIndex) Line(i int) Line { return ix.lines[i] }

// Nearest finds the segment closest to p. The R-tree ranks candidates by
// bounding box distance, so the first hit only bounds the search radius;
// every segment whose box meets that radius is then measured exactly.
// Ties resolve to the lowest index.
func (ix *LineIndex) Nearest(p r2.Vec) (Nearest, bool) {
	if ix.Len() == 0 {
		return Nearest{}, false
	}
	seed := ix.tree.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if seed == nil {
		return Nearest{}, false
	}
	best := seed.(*indexedLine).idx
	dist := ix.lines[best].Distance(p)

	window := BBox{
		Min: r2.Vec{X: p.X - dist, Y: p.Y - dist},
		Max: r2.Vec{X: p.X + dist, Y: p.Y + dist},
	}
	for _, s := range ix.tree.SearchIntersect(toRect(window)) {
		i := s.(*indexedLine).idx
		d := ix.lines[i].Distance(p)
		if d < dist || (d == dist && i < best) {
			best, dist = i, d
		}
	}
	return Nearest{Index: best, Distance: dist, Point: ix.lines[best].ClosestPoint(p)}, true
}

// toRect converts a box to an R-tree rectangle, padding degenerate extents
// since rtreego rejects zero-length sides.
func toRect(b BBox) rtreego.Rect {
	size := b.Size()
	r, err := rtreego.NewRect(
		rtreego.Point{b.Min.X - Epsilon, b.Min.Y - Epsilon},
		[]float64{size.X + 2*Epsilon, size.Y + 2*Epsilon},
	)
	if err != nil {
		panic("geom: invalid rtree rect: " + err.Error())
	}
	return r
}
