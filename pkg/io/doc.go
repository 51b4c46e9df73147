// Package io reads sliced objects and writes analysis reports as JSON.
//
// # Object format
//
// A sliced object lists its layers bottom-up. Each layer holds regions,
// the islands of that slice, with their outline, the indices of the regions
// they rest on in the previous layer, and the extrusion paths printed in
// them:
//
//	{
//	  "name": "bracket",
//	  "layers": [
//	    {
//	      "print_z": 0.2,
//	      "height": 0.2,
//	      "regions": [
//	        {
//	          "polygons": [{"contour": [[0,0],[10,0],[10,10],[0,10]], "holes": []}],
//	          "overlaps_below": [],
//	          "brim": [],
//	          "entities": [
//	            {"role": "external_perimeter", "width": 0.45, "points": [[0,0],[10,0]]},
//	            {"children": [ ... ]}
//	          ]
//	        }
//	      ]
//	    }
//	  ]
//	}
//
// Entities with children are collections and carry no points. A missing
// entity height means the layer height.
//
// # Report format
//
// [WriteReport] emits the support points, the parts that existed while
// printing, the issue summary and run statistics. Reports written by this
// package can be read back with [ReadReport], which the result cache uses.
//
// Use [ImportObject] and [ExportReport] for files, [ReadObject] and
// [WriteReport] for any reader or writer.
package io
