package stability

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/geom"
	"github.com/matzehuels/stabilizer/pkg/model"
)

// Options control how Analyze runs. They do not change its result.
type Options struct {
	// Workers bounds the parallel phases. Zero means GOMAXPROCS.
	Workers int

	// Logger receives per-layer debug output. Nil discards it.
	Logger *log.Logger

	// Tracer receives bookkeeping events. Nil means NopTracer.
	Tracer Tracer
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Tracer == nil {
		o.Tracer = NopTracer{}
	}
	return o
}

// Stats summarizes a run.
type Stats struct {
	Layers         int           `json:"layers"`
	Regions        int           `json:"regions"`
	Parts          int           `json:"parts"`
	Merges         int           `json:"merges"`
	LocalPoints    int           `json:"local_points"`
	GlobalPoints   int           `json:"global_points"`
	RejectedPoints int           `json:"rejected_points"`
	Duration       time.Duration `json:"duration"`
}

// Result is the outcome of Analyze.
type Result struct {
	SupportPoints  []SupportPoint
	PartialObjects []PartialObject
	Stats          Stats
}

// Analyze walks the object bottom-up and returns the support points that
// keep it printable, together with every part that existed along the way.
//
// Input that violates the model contract fails with a precondition error
// before any work starts. When ctx is cancelled the layer in progress is
// discarded; the returned result then covers the completed layers only and
// the error carries the CANCELLED code.
func Analyze(ctx context.Context, obj *model.Object, params Params, opts Options) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	if err := model.Validate(obj); err != nil {
		return Result{}, err
	}
	opts = opts.withDefaults()
	start := time.Now()

	a := newAnalysis(obj, params, opts)
	conns, err := sliceConnections(ctx, obj, opts.Workers)
	if err != nil {
		return Result{}, errors.Cancelled(err, "estimating slice connections")
	}
	for i := range obj.Layers {
		if err := ctx.Err(); err != nil {
			res := a.result(start)
			return res, errors.Cancelled(err, "analysis stopped before layer %d", i)
		}
		a.processLayer(i, conns[i])
	}
	a.closeLive()

	res := a.result(start)
	opts.Logger.Info("analysis complete",
		"object", obj.Name,
		"layers", res.Stats.Layers,
		"parts", res.Stats.Parts,
		"points", len(res.SupportPoints),
		"duration", res.Stats.Duration)
	return res, nil
}

// sliceConnections integrates, for every region, its overlap with the
// regions it links to in the layer below. Regions are independent, so the
// whole object is processed in one parallel pass into indexed slots.
func sliceConnections(ctx context.Context, obj *model.Object, workers int) ([][]SliceConnection, error) {
	out := make([][]SliceConnection, len(obj.Layers))
	type job struct{ layer, region int }
	var jobs []job
	for li, l := range obj.Layers {
		out[li] = make([]SliceConnection, len(l.Regions))
		if li == 0 {
			continue
		}
		for ri := range l.Regions {
			jobs = append(jobs, job{li, ri})
		}
	}
	err := parallelFor(ctx, len(jobs), workers, func(i int) {
		j := jobs[i]
		out[j.layer][j.region] = connectionBelow(obj, j.layer, j.region)
	})
	return out, err
}

func connectionBelow(obj *model.Object, li, ri int) SliceConnection {
	region := obj.Layers[li].Regions[ri]
	below := obj.Layers[li-1]
	var under []geom.ExPolygon
	for _, idx := range region.OverlapsBelow {
		under = append(under, below.Regions[idx].Polygons...)
	}
	return newSliceConnection(geom.Intersection(region.Polygons, under), below.PrintZ)
}

// parallelFor runs fn for 0..n-1 on at most workers goroutines. Pending
// iterations are skipped once ctx is done.
func parallelFor(ctx context.Context, n, workers int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// forEach is parallelFor without cancellation, for phases that must run
// to completion once a layer has started.
func forEach(n, workers int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
