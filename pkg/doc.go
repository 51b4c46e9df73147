// Package pkg provides the libraries behind stabilizer, a print stability
// checker for sliced 3D objects.
//
// # Overview
//
// Stabilizer walks a sliced object bottom up. Every island of every layer
// joins a partial object, the set of material that is stuck together so
// far. Partial objects that rest on the bed are held by adhesion, the rest
// hang on thin connections to the layer below. For each new layer the
// extrusion paths are checked for bridges and overhangs, and every partial
// object is checked for the torque that the nozzle, gravity and the print
// head acceleration put on its weakest connection. Where something would
// fail, a support point is placed.
//
// # Architecture
//
//	object JSON
//	     ↓
//	[io] (decode, validate)
//	     ↓
//	[model] (layers, regions, extrusion paths)
//	     ↓
//	[stability] (connections, partial objects, support points)
//	     ↓
//	[pipeline] (hashing, caching, hooks)
//	     ↓
//	report JSON, genealogy DOT/SVG
//
// Geometry lives in [geom]: polygon clipping, nearest-line queries and path
// annotation. Parameters are loaded from TOML by [config].
//
// # Quick Start
//
//	obj, err := io.ImportObject("benchy.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Analyze(ctx, obj, pipeline.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, p := range res.Report.Points {
//	    fmt.Println(p.Cause, p.Position)
//	}
package pkg
