package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stabilizer/pkg/cache"
	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/io"
	"github.com/matzehuels/stabilizer/pkg/model"
	"github.com/matzehuels/stabilizer/pkg/observability"
	"github.com/matzehuels/stabilizer/pkg/render/genealogy"
	"github.com/matzehuels/stabilizer/pkg/stability"
)

// Runner executes the pipeline with caching. It holds no per-run state,
// so one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means cache.DefaultKeyer, a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Analyze produces the report for obj.
//
// When the analysis is cancelled the returned result holds a report of
// the completed layers alongside the CANCELLED error. Such reports are
// never cached.
func (r *Runner) Analyze(ctx context.Context, obj *model.Object, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := model.Validate(obj); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hashStart := time.Now()
	objectHash, err := HashObject(obj)
	if err != nil {
		return nil, err
	}
	paramsHash, err := HashParams(opts.Params)
	if err != nil {
		return nil, err
	}
	reportKey := r.Keyer.ReportKey(objectHash, paramsHash)
	genealogyKey := r.Keyer.GenealogyKey(objectHash, paramsHash, opts.Genealogy)
	opts.Logger.Debug("hashed input",
		"object", objectHash[:12],
		"params", paramsHash[:12],
		"duration", time.Since(hashStart))

	if !opts.Refresh && opts.Tracer == nil {
		if res, ok := r.lookup(ctx, reportKey, genealogyKey, opts); ok {
			res.ObjectHash = objectHash
			opts.Logger.Info("loaded report from cache",
				"object", obj.Name,
				"points", len(res.Report.Points))
			return res, nil
		}
	}

	tracers := []stability.Tracer{opts.Tracer}
	if opts.Progress != nil {
		tracers = append(tracers, progressTracer{fn: opts.Progress, total: len(obj.Layers)})
	}
	var rec *genealogy.Recorder
	if opts.Genealogy != "" {
		rec = genealogy.NewRecorder()
		tracers = append(tracers, rec)
	}

	observability.Analysis().OnAnalyzeStart(ctx, obj.Name, len(obj.Layers))
	start := time.Now()
	analysis, err := stability.Analyze(ctx, obj, opts.Params, stability.Options{
		Workers: opts.Workers,
		Logger:  opts.Logger,
		Tracer:  stability.MultiTracer(tracers...),
	})
	observability.Analysis().OnAnalyzeComplete(ctx, obj.Name, len(analysis.SupportPoints), time.Since(start), err)

	if err != nil && !errors.Is(err, errors.ErrCodeCancelled) {
		return nil, err
	}

	issues := stability.GatherIssues(analysis.SupportPoints, analysis.PartialObjects, opts.Params)
	res := &Result{
		Report:     io.NewReport(uuid.NewString(), obj.Name, paramsHash, analysis, issues),
		ObjectHash: objectHash,
	}
	if err != nil {
		return res, err
	}
	opts.Logger.Debug("summarized issues", "issues", len(issues))

	if rec != nil {
		renderStart := time.Now()
		res.Genealogy, err = genealogy.Render(ctx, rec, opts.Genealogy)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render genealogy")
		}
		opts.Logger.Info("rendered genealogy",
			"format", opts.Genealogy,
			"parts", len(rec.Parts()),
			"duration", time.Since(renderStart))
	}

	r.store(ctx, reportKey, genealogyKey, res)
	return res, nil
}

// lookup returns a cached result when every requested artifact is present.
func (r *Runner) lookup(ctx context.Context, reportKey, genealogyKey string, opts Options) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, reportKey)
	if err != nil || !hit {
		if err != nil {
			opts.Logger.Warn("cache lookup failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, false
	}
	report, err := io.ReadReport(bytes.NewReader(data))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "report")

	res := &Result{Report: report, CacheHit: true}
	if opts.Genealogy == "" {
		return res, true
	}
	data, hit, err = r.Cache.Get(ctx, genealogyKey)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "genealogy")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "genealogy")
	res.Genealogy = data
	return res, true
}

// store writes the artifacts of a fresh run. Cache failures are logged,
// never returned: a run that produced a report has succeeded.
func (r *Runner) store(ctx context.Context, reportKey, genealogyKey string, res *Result) {
	var buf bytes.Buffer
	if err := io.WriteReport(res.Report, &buf); err == nil {
		if err := r.Cache.Set(ctx, reportKey, buf.Bytes(), cache.TTLReport); err != nil {
			r.Logger.Warn("cache write failed", "key", "report", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "report", buf.Len())
		}
	}
	if res.Genealogy == nil {
		return
	}
	if err := r.Cache.Set(ctx, genealogyKey, res.Genealogy, cache.TTLGenealogy); err != nil {
		r.Logger.Warn("cache write failed", "key", "genealogy", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "genealogy", len(res.Genealogy))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
