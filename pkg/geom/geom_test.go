package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func square(x0, y0, size float64) Polygon {
	return Polygon{{X: x0, Y: y0}, {X: x0 + size, Y: y0}, {X: x0 + size, Y: y0 + size}, {X: x0, Y: y0 + size}}
}

func signedSum(ps []Polygon) float64 {
	var a float64
	for _, p := range ps {
		a += p.SignedArea()
	}
	return a
}

func TestPolygonOrientation(t *testing.T) {
	sq := square(0, 0, 2)
	assert.InDelta(t, 4, sq.SignedArea(), 1e-9)
	assert.True(t, sq.IsCCW())
	assert.InDelta(t, -4, sq.Reversed().SignedArea(), 1e-9)
	assert.True(t, sq.Reversed().Oriented(true).IsCCW())
	assert.True(t, sq.IsConvex())

	lshape := Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	assert.False(t, lshape.IsConvex())
}

func TestExPolygonContains(t *testing.T) {
	e := ExPolygon{Contour: square(0, 0, 10), Holes: []Polygon{square(4, 4, 2)}}
	assert.True(t, e.Contains(r2.Vec{X: 1, Y: 1}))
	assert.False(t, e.Contains(r2.Vec{X: 5, Y: 5}))
	assert.False(t, e.Contains(r2.Vec{X: 11, Y: 5}))
	assert.InDelta(t, 96, e.Area(), 1e-9)
}

func TestIntersection(t *testing.T) {
	tests := []struct {
		name    string
		subject []ExPolygon
		clip    []ExPolygon
		want    float64
	}{
		{
			name:    "identical squares",
			subject: []ExPolygon{{Contour: square(0, 0, 10)}},
			clip:    []ExPolygon{{Contour: square(0, 0, 10)}},
			want:    100,
		},
		{
			name:    "offset squares",
			subject: []ExPolygon{{Contour: square(0, 0, 10)}},
			clip:    []ExPolygon{{Contour: square(5, 5, 10)}},
			want:    25,
		},
		{
			name:    "disjoint",
			subject: []ExPolygon{{Contour: square(0, 0, 1)}},
			clip:    []ExPolygon{{Contour: square(5, 5, 1)}},
			want:    0,
		},
		{
			name:    "hole subtracts",
			subject: []ExPolygon{{Contour: square(0, 0, 10), Holes: []Polygon{square(4, 4, 2)}}},
			clip:    []ExPolygon{{Contour: square(0, 0, 10)}},
			want:    96,
		},
		{
			name:    "clockwise input is normalized",
			subject: []ExPolygon{{Contour: square(0, 0, 4).Reversed()}},
			clip:    []ExPolygon{{Contour: square(2, 0, 4).Reversed()}},
			want:    8,
		},
		{
			name: "two islands below",
			subject: []ExPolygon{{Contour: square(0, 0, 10)}},
			clip: []ExPolygon{
				{Contour: square(-1, -1, 3)},
				{Contour: square(8, 8, 3)},
			},
			want: 4 + 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := signedSum(Intersection(tt.subject, tt.clip))
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestClipConvexKeepsSubjectWinding(t *testing.T) {
	hole := square(1, 1, 2).Reversed()
	got := ClipConvex(hole, square(0, 0, 2))
	require.NotNil(t, got)
	assert.InDelta(t, -1, got.SignedArea(), 1e-9)
}

func TestOrientByNesting(t *testing.T) {
	outer := square(0, 0, 10).Reversed()
	inner := square(2, 2, 2)
	got := orientByNesting([]Polygon{outer, inner})
	assert.True(t, got[0].IsCCW())
	assert.False(t, got[1].IsCCW())
	assert.InDelta(t, 96, signedSum(got), 1e-9)
}

func TestLineIndexNearest(t *testing.T) {
	lines := []Line{
		{A: r2.Vec{X: 0, Y: 0}, B: r2.Vec{X: 10, Y: 0}},
		{A: r2.Vec{X: 0, Y: 5}, B: r2.Vec{X: 10, Y: 5}},
		// Its bounding box is closest to the query, the segment is not.
		{A: r2.Vec{X: 4, Y: 2.5}, B: r2.Vec{X: 30, Y: 30}},
	}
	ix := NewLineIndex(lines)

	n, ok := ix.Nearest(r2.Vec{X: 3, Y: 1})
	require.True(t, ok)
	assert.Equal(t, 0, n.Index)
	assert.InDelta(t, 1, n.Distance, 1e-9)
	assert.InDelta(t, 3, n.Point.X, 1e-9)

	n, ok = ix.Nearest(r2.Vec{X: 20, Y: 5})
	require.True(t, ok)
	assert.InDelta(t, math.Min(10, lines[2].Distance(r2.Vec{X: 20, Y: 5})), n.Distance, 1e-9)

	_, ok = NewLineIndex(nil).Nearest(r2.Vec{})
	assert.False(t, ok)
}

func TestLineIndexNearestBruteForce(t *testing.T) {
	var lines []Line
	for i := 0; i < 200; i++ {
		f := float64(i)
		lines = append(lines, Line{
			A: r2.Vec{X: math.Mod(f*7.3, 50), Y: math.Mod(f*3.1, 40)},
			B: r2.Vec{X: math.Mod(f*7.3, 50) + math.Cos(f), Y: math.Mod(f*3.1, 40) + 3*math.Sin(f)},
		})
	}
	ix := NewLineIndex(lines)
	for i := 0; i < 50; i++ {
		p := r2.Vec{X: math.Mod(float64(i)*11.7, 55) - 2, Y: math.Mod(float64(i)*5.9, 45) - 2}
		want := math.Inf(1)
		for _, l := range lines {
			want = math.Min(want, l.Distance(p))
		}
		n, ok := ix.Nearest(p)
		require.True(t, ok)
		assert.InDelta(t, want, n.Distance, 1e-9)
	}
}

func TestAnnotate(t *testing.T) {
	below := NewBoundary([]ExPolygon{{Contour: square(0, 0, 10)}})
	path := []r2.Vec{{X: 5, Y: 5}, {X: 9.9, Y: 5}, {X: 12, Y: 5}}
	got := Annotate(path, below, 0.4)

	require.Len(t, got, 3)
	assert.InDelta(t, -5, got[0].Distance, 1e-9)
	assert.InDelta(t, 0.1, got[1].Distance, 1e-9)
	assert.InDelta(t, 2, got[2].Distance, 1e-9)

	onBed := Annotate(path, nil, 0.4)
	for _, a := range onBed {
		assert.Zero(t, a.Distance)
	}
}

func TestCurvature(t *testing.T) {
	straight := Curvature([]r2.Vec{{X: 0}, {X: 1}, {X: 2}})
	assert.Equal(t, []float64{0, 0, 0}, straight)

	left := Curvature([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
	assert.InDelta(t, math.Pi/2, left[1], 1e-9)

	right := Curvature([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: -1}})
	assert.InDelta(t, -math.Pi/2, right[1], 1e-9)
}

func TestRectangle(t *testing.T) {
	r := Rectangle(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 4, Y: 0}, 0.5)
	require.Len(t, r, 4)
	assert.InDelta(t, 2, r.SignedArea(), 1e-9)
	assert.Nil(t, Rectangle(r2.Vec{}, r2.Vec{}, 1))
}

func TestSubdivide(t *testing.T) {
	got := Subdivide([]r2.Vec{{X: 0}, {X: 10}, {X: 11}}, 3)
	require.Len(t, got, 6)
	assert.InDelta(t, 2.5, got[1].X, 1e-9)
	assert.InDelta(t, 10, got[4].X, 1e-9)
	assert.InDelta(t, 11, got[5].X, 1e-9)

	short := []r2.Vec{{X: 0}, {X: 1}}
	assert.Equal(t, short, Subdivide(short, 3))
}
