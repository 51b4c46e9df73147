// Package geom provides the 2D geometry services consumed by the stability
// analysis: polygons with holes, bounding boxes, polygon intersection and
// nearest-line queries over extrusion lines.
//
// # Orientation
//
// Contours are counter-clockwise and holes clockwise. Signed areas therefore
// compose by addition: integrating every contour of a polygon set, outer and
// hole alike, yields the moments of the filled shape. [Intersection] keeps this
// property for its output so callers never need to track which returned
// contour is a hole.
//
// # Backends
//
// Intersection has a fast path for convex operands (Sutherland-Hodgman
// clipping) and falls back to polyclip-go for general polygon pairs. Nearest
// line lookups use an R-tree from rtreego.
package geom
