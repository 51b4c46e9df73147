// Package stability predicts where a sliced print becomes mechanically
// unstable while it is being printed and places support points that keep
// it in shape.
//
// The analysis walks the layers bottom-up. Regions of consecutive layers
// that overlap are tracked as physical parts in a union-find arena, so a
// part knows its volume, its contact with the bed and the weakest
// connection it hangs from. Two kinds of points are produced:
//
//   - Local points come from single extrusion paths printed over air:
//     long bridges, bridge anchors on curved overhangs and floating
//     extrusions. They are found from each point's distance to the outline
//     of the layer below.
//   - Global points come from a torque balance of a whole part against the
//     bed adhesion and against the yield strength of its weakest
//     connection, evaluated along the external perimeter.
//
// A voxel grid keeps structural points apart. Every accepted point is fed
// back into the part and its connection, so later candidates in the same
// layer see the improved stability.
//
// # Usage
//
//	res, err := stability.Analyze(ctx, obj, stability.DefaultParams(), stability.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, is := range stability.GatherIssues(res.SupportPoints, res.PartialObjects, params) {
//	    fmt.Println(is.Cause.Description(), len(is.Points))
//	}
//
// The numeric core never fails. Missing data such as an empty bed contact
// or a connection too fresh to judge maps to a fixed verdict instead.
package stability
