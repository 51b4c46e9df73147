// Package model defines the sliced-object input consumed by the stability
// analysis.
//
// An [Object] is a stack of [Layer] values in increasing print height. Each
// layer holds independent [Region] islands. A region knows its outline, the
// indices of the regions in the previous layer it overlaps, and the
// extrusion paths printed inside it.
//
// Extrusion entities form a tree: perimeter loops and infill fills are
// grouped into collections by the slicer. [Flatten] walks that tree once and
// returns role-tagged [Path] values so the analysis never needs to inspect
// entity kinds.
//
// [Validate] checks the structural contract of slicer output before any
// analysis begins.
package model
