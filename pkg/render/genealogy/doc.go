// Package genealogy records how the parts of a print come into existence
// and merge, and renders that history as a graph.
//
// A [Recorder] implements stability.Tracer. Pass it to the analysis, then
// convert it to Graphviz DOT with [Recorder.DOT] or straight to SVG with
// [RenderSVG]:
//
//	rec := genealogy.NewRecorder()
//	res, err := stability.Analyze(ctx, obj, params, stability.Options{Tracer: rec})
//	svg, err := genealogy.RenderSVG(ctx, rec.DOT())
//
// Every part becomes a node labelled with the layer it started on, its
// final volume and the support points it received. A merge draws an edge
// from the absorbed part to the part that survived it. Parts that start in
// mid-air are drawn dashed.
//
// # Dependencies
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]; no system installation is needed.
package genealogy
