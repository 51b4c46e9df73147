// Package pipeline runs the stability analysis end to end.
//
// This package is the single place where the CLI and the HTTP API turn a
// sliced object into a report, so both share validation, caching and
// logging behaviour.
//
// # Stages
//
//  1. Validate: options and parameters are checked before any work
//  2. Lookup: the report for the object and parameter hashes is read from the cache
//  3. Analyze: [stability.Analyze] walks the layers bottom-up
//  4. Summarize: [stability.GatherIssues] groups the points into issues
//  5. Report: the result is converted to an [io.Report] and cached
//
// An optional genealogy of the parts is recorded during stage 3 and
// rendered as DOT or SVG.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Analyze(ctx, obj, pipeline.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(res.Report.Points), "support points")
package pipeline

import (
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stabilizer/pkg/cache"
	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/io"
	"github.com/matzehuels/stabilizer/pkg/model"
	"github.com/matzehuels/stabilizer/pkg/render/genealogy"
	"github.com/matzehuels/stabilizer/pkg/stability"
)

// MaxWorkers caps Options.Workers.
const MaxWorkers = 256

// Options configures one pipeline run.
type Options struct {
	Params stability.Params `json:"params"`

	// Workers bounds the parallel phases of the analysis. Zero means
	// GOMAXPROCS.
	Workers int `json:"workers,omitempty"`

	// Genealogy selects a genealogy format ("dot" or "svg"). Empty skips it.
	Genealogy string `json:"genealogy,omitempty"`

	// Refresh skips the cache lookup. The fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Tracer receives analysis events. A run with a tracer always
	// analyzes, since cached reports carry no events.
	Tracer stability.Tracer `json:"-"`

	// Progress is called after each analyzed layer. Unlike a tracer it
	// does not bypass the cache; a cached run reports no progress.
	Progress func(done, total int) `json:"-"`

	Logger *log.Logger `json:"-"`
}

// DefaultOptions returns options with the default parameter set.
func DefaultOptions() Options {
	return Options{Params: stability.DefaultParams()}
}

// Validate checks the options and parameters.
func (o Options) Validate() error {
	if o.Workers < 0 || o.Workers > MaxWorkers {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be within [0, %d], got %d", MaxWorkers, o.Workers)
	}
	if o.Genealogy != "" {
		if err := genealogy.ValidateFormat(o.Genealogy); err != nil {
			return err
		}
	}
	return o.Params.Validate()
}

// Result is the outcome of a pipeline run.
type Result struct {
	Report *io.Report

	// Genealogy holds the rendered part history when requested.
	Genealogy []byte

	ObjectHash string
	CacheHit   bool
}

// HashObject returns the content hash of a sliced object.
func HashObject(obj *model.Object) (string, error) {
	data, err := io.MarshalObject(obj)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// HashParams returns the content hash of a parameter set.
func HashParams(p stability.Params) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode params")
	}
	return cache.Hash(data), nil
}

// progressTracer forwards layer completion to Options.Progress.
type progressTracer struct {
	stability.NopTracer
	fn    func(done, total int)
	total int
}

func (p progressTracer) LayerDone(layer int, _ float64) { p.fn(layer+1, p.total) }
