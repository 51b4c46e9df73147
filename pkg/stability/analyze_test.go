package stability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/geom"
	"github.com/matzehuels/stabilizer/pkg/model"
)

func TestFirstLayerCreatesBedPart(t *testing.T) {
	for _, useBrim := range []bool{false, true} {
		region := solidRegion(10, 0.5)
		region.Brim = []geom.ExPolygon{{Contour: rect(-1, -1, 12, 12), Holes: []geom.Polygon{rect(0, 0, 10, 10)}}}
		obj := stack(0.2, []model.Region{region})

		p := DefaultParams()
		p.UseBrim = useBrim
		rec := &recorder{}
		a := newAnalysis(obj, p, Options{Tracer: rec}.withDefaults())
		a.processLayer(0, make([]SliceConnection, 1))

		require.Len(t, rec.created, 1)
		part := a.parts.Access(rec.created[0])
		assert.True(t, part.ConnectedToBed)
		want := 100.0
		if useBrim {
			want += 44
		}
		assert.InDelta(t, want, part.Sticking.Area, 1e-6, "brim %v", useBrim)
		assert.InDelta(t, 20, part.Volume, 1e-6)
	}
}

func TestTowersMergeIntoOnePart(t *testing.T) {
	twin := []model.Region{boxRegion(0, 0, 4, 4), boxRegion(6, 0, 4, 4)}
	var layers [][]model.Region
	layers = append(layers, twin)
	for i := 1; i < 5; i++ {
		layers = append(layers, []model.Region{boxRegion(0, 0, 4, 4, 0), boxRegion(6, 0, 4, 4, 1)})
	}
	layers = append(layers, []model.Region{boxRegion(0, 0, 10, 4, 0, 1)})
	obj := stack(0.2, layers...)

	rec := &recorder{}
	res, err := Analyze(context.Background(), obj, DefaultParams(), Options{Tracer: rec, Workers: 2})
	require.NoError(t, err)

	require.Len(t, rec.merged, 1, "exactly one closeout from the merge")
	require.Len(t, rec.closed, 1, "one surviving part")
	assert.Len(t, rec.created, 2)
	assert.Equal(t, 1, res.Stats.Merges)
	require.Len(t, res.PartialObjects, 2)

	var total, tower float64
	for li, l := range obj.Layers {
		for ri, r := range l.Regions {
			v := newObjectPart(model.Flatten(r.Entities, l.Height), nil, l, li == 0).Volume
			total += v
			if ri == 1 {
				tower += v
			}
		}
	}
	assert.InDelta(t, tower, rec.merged[0].Volume, 1e-9)
	assert.InDelta(t, total, rec.closed[0].Volume, 1e-9)
	assert.True(t, rec.closed[0].ConnectedToBed)
}

func TestStablePrismNeedsNoSupport(t *testing.T) {
	layers := [][]model.Region{{boxRegion(0, 0, 10, 10)}}
	for i := 1; i < 10; i++ {
		layers = append(layers, []model.Region{boxRegion(0, 0, 10, 10, 0)})
	}
	res, err := Analyze(context.Background(), stack(0.2, layers...), DefaultParams(), Options{})
	require.NoError(t, err)
	assert.Empty(t, res.SupportPoints)
	require.Len(t, res.PartialObjects, 1)
	assert.True(t, res.PartialObjects[0].ConnectedToBed)
	assert.Equal(t, 10, res.Stats.Layers)
	assert.Equal(t, 1, res.Stats.Parts)
}

func TestBridgeBetweenPillars(t *testing.T) {
	pillars := []model.Region{boxRegion(0, 0, 2, 2), boxRegion(22, 0, 2, 2)}
	deck := model.Region{
		Polygons:      []geom.ExPolygon{{Contour: rect(0, 0, 24, 2)}},
		OverlapsBelow: []int{0, 1},
		Entities: []model.Entity{{
			Role:   model.RoleBridgeInfill,
			Width:  testWidth,
			Points: []r2.Vec{{X: 2.5, Y: 1}, {X: 21.5, Y: 1}},
		}},
	}
	res, err := Analyze(context.Background(), stack(0.2, pillars, []model.Region{deck}), DefaultParams(), Options{})
	require.NoError(t, err)

	require.Len(t, res.SupportPoints, 1)
	pt := res.SupportPoints[0]
	assert.Contains(t, []Cause{LongBridge, FloatingBridgeAnchor}, pt.Cause)
	assert.InDelta(t, 12, pt.Position.X, 1e-6)
	assert.InDelta(t, 0.2, pt.Position.Z, 1e-9)
	assert.Equal(t, 1, res.Stats.Merges)
}

func TestFloatingIslandGetsSupported(t *testing.T) {
	layers := [][]model.Region{{boxRegion(0, 0, 4, 4)}}
	for i := 1; i < 4; i++ {
		layers = append(layers, []model.Region{boxRegion(0, 0, 4, 4, 0)})
	}
	layers = append(layers, []model.Region{boxRegion(0, 0, 4, 4, 0), boxRegion(20, 0, 4, 4)})

	res, err := Analyze(context.Background(), stack(0.2, layers...), DefaultParams(), Options{})
	require.NoError(t, err)

	var floating int
	for _, pt := range res.SupportPoints {
		if pt.Cause == UnstableFloatingPart {
			floating++
			assert.GreaterOrEqual(t, pt.Position.X, 20.0)
		}
	}
	assert.Positive(t, floating)

	var island *PartialObject
	for i, po := range res.PartialObjects {
		if !po.ConnectedToBed {
			island = &res.PartialObjects[i]
		}
	}
	require.NotNil(t, island)
	assert.InDelta(t, 22, island.Centroid.X, 0.1)
}

func TestAnalyzeCancelledBetweenLayers(t *testing.T) {
	layers := [][]model.Region{{boxRegion(0, 0, 4, 4)}}
	for i := 1; i < 8; i++ {
		layers = append(layers, []model.Region{boxRegion(0, 0, 4, 4, 0), boxRegion(20, 0, 4, 4)})
	}
	obj := stack(0.2, layers...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{onLayer: func(layer int) {
		if layer == 2 {
			cancel()
		}
	}}

	res, err := Analyze(ctx, obj, DefaultParams(), Options{Tracer: rec})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCancelled))
	assert.Equal(t, []int{0, 1, 2}, rec.layers)
	assert.Equal(t, 3, res.Stats.Layers)
	for _, pt := range res.SupportPoints {
		assert.LessOrEqual(t, pt.Position.Z, obj.Layers[2].BottomZ()+1e-9)
	}
	assert.Equal(t, len(rec.points), len(res.SupportPoints))
}

func TestAnalyzeAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	obj := stack(0.2, []model.Region{boxRegion(0, 0, 4, 4)}, []model.Region{boxRegion(0, 0, 4, 4, 0)})

	_, err := Analyze(ctx, obj, DefaultParams(), Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeCancelled))
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		obj  *model.Object
		p    func(*Params)
		code errors.Code
	}{
		{
			name: "single point path",
			obj: stack(0.2, []model.Region{{
				Polygons: []geom.ExPolygon{{Contour: rect(0, 0, 1, 1)}},
				Entities: []model.Entity{{Role: model.RolePerimeter, Width: 0.4, Points: []r2.Vec{{X: 1}}}},
			}}),
			code: errors.ErrCodePrecondition,
		},
		{
			name: "link out of range",
			obj:  stack(0.2, []model.Region{boxRegion(0, 0, 1, 1)}, []model.Region{boxRegion(0, 0, 1, 1, 3)}),
			code: errors.ErrCodePrecondition,
		},
		{
			name: "negative density",
			obj:  stack(0.2, []model.Region{boxRegion(0, 0, 1, 1)}),
			p:    func(p *Params) { p.FilamentDensity = -1 },
			code: errors.ErrCodeInvalidParams,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			if tt.p != nil {
				tt.p(&p)
			}
			_, err := Analyze(context.Background(), tt.obj, p, Options{})
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestAnalyzeDeterministicAcrossWorkers(t *testing.T) {
	layers := [][]model.Region{{boxRegion(0, 0, 4, 4), boxRegion(6, 0, 4, 4)}}
	for i := 1; i < 6; i++ {
		layers = append(layers, []model.Region{boxRegion(0, 0, 4, 4, 0), boxRegion(6, 0, 4, 4, 1), boxRegion(30, 0, 3, 3)})
		if i > 1 {
			layers[i][2].OverlapsBelow = []int{2}
		}
	}
	obj := stack(0.2, layers...)

	one, err := Analyze(context.Background(), obj, DefaultParams(), Options{Workers: 1})
	require.NoError(t, err)
	many, err := Analyze(context.Background(), obj, DefaultParams(), Options{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, one.SupportPoints, many.SupportPoints)
	assert.Equal(t, one.PartialObjects, many.PartialObjects)
}

func TestMultiTracerFansOut(t *testing.T) {
	assert.Equal(t, NopTracer{}, MultiTracer())
	one := &recorder{}
	assert.Same(t, one, MultiTracer(nil, one))

	a, b := &recorder{}, &recorder{}
	obj := stack(0.2, []model.Region{boxRegion(0, 0, 5, 5)}, []model.Region{boxRegion(0, 0, 5, 5, 0)})
	_, err := Analyze(context.Background(), obj, DefaultParams(), Options{Tracer: MultiTracer(a, nil, b)})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, a.layers)
	assert.Equal(t, a.layers, b.layers)
	assert.Equal(t, a.created, b.created)
	assert.Len(t, b.closed, 1)
}
