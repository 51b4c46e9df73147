// Package render holds the visual outputs of an analysis.
//
// The [genealogy] subpackage draws how partial objects are created, merged
// and closed while the layers are walked. It records events through the
// stability tracer and emits Graphviz DOT, or SVG rendered in-process:
//
//	rec := genealogy.NewRecorder()
//	res, err := stability.Analyze(ctx, obj, params, stability.Options{Tracer: rec})
//	svg, err := genealogy.Render(ctx, rec, genealogy.FormatSVG)
package render
