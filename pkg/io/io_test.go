package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/model"
	"github.com/matzehuels/stabilizer/pkg/stability"
)

const sample = `{
  "name": "plate",
  "layers": [
    {
      "print_z": 0.2,
      "height": 0.2,
      "regions": [
        {
          "polygons": [{"contour": [[0,0],[10,0],[10,10],[0,10]], "holes": [[[4,4],[4,6],[6,6],[6,4]]]}],
          "brim": [{"contour": [[-1,-1],[11,-1],[11,11],[-1,11]]}],
          "entities": [
            {"role": "external_perimeter", "width": 0.45, "points": [[0,0],[10,0],[10,10]]},
            {"children": [
              {"role": "solid_infill", "width": 0.5, "height": 0.1, "points": [[1,1],[9,1]]}
            ]}
          ]
        }
      ]
    },
    {
      "print_z": 0.4,
      "height": 0.2,
      "regions": [
        {
          "polygons": [{"contour": [[0,0],[10,0],[10,10],[0,10]]}],
          "overlaps_below": [0],
          "entities": [{"role": "bridge_infill", "width": 0.45, "points": [[0,5],[10,5]]}]
        }
      ]
    }
  ]
}`

func TestReadObject(t *testing.T) {
	obj, err := ReadObject(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadObject() error: %v", err)
	}
	if err := model.Validate(obj); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if obj.Name != "plate" || len(obj.Layers) != 2 {
		t.Fatalf("unexpected object: %s with %d layers", obj.Name, len(obj.Layers))
	}
	r := obj.Layers[0].Regions[0]
	if len(r.Polygons[0].Holes) != 1 || len(r.Brim) != 1 {
		t.Errorf("holes=%d brim=%d", len(r.Polygons[0].Holes), len(r.Brim))
	}
	paths := model.Flatten(r.Entities, obj.Layers[0].Height)
	if len(paths) != 2 || paths[1].Role != model.RoleSolidInfill || paths[1].Height != 0.1 {
		t.Errorf("unexpected paths: %+v", paths)
	}
	if got := obj.Layers[1].Regions[0].OverlapsBelow; len(got) != 1 || got[0] != 0 {
		t.Errorf("overlaps_below = %v", got)
	}
}

func TestReadObjectErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"layers": [`},
		{"unknown field", `{"layers": [], "colour": "red"}`},
		{"bad point", `{"layers": [{"regions": [{"entities": [{"points": [["a",2]]}]}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadObject(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("got %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestObjectRoundTrip(t *testing.T) {
	obj, err := ReadObject(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	first, err := MarshalObject(obj)
	if err != nil {
		t.Fatal(err)
	}
	again, err := ReadObject(bytes.NewReader(first))
	if err != nil {
		t.Fatal(err)
	}
	second, err := MarshalObject(again)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("encoding is not stable:\n%s\n%s", first, second)
	}
}

func TestImportObjectMissing(t *testing.T) {
	_, err := ImportObject(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestReport(t *testing.T) {
	res := stability.Result{
		SupportPoints: []stability.SupportPoint{
			{Cause: stability.LongBridge, Position: r3.Vec{X: 1, Y: 2, Z: 3}, SpotRadius: 1.5},
		},
		PartialObjects: []stability.PartialObject{{Centroid: r3.Vec{X: 5}, Volume: 7, ConnectedToBed: true}},
		Stats:          stability.Stats{Layers: 4, Parts: 1},
	}
	issues := stability.GatherIssues(res.SupportPoints, res.PartialObjects, stability.DefaultParams())
	rep := NewReport("run-1", "plate", "abc", res, issues)

	path := filepath.Join(t.TempDir(), "report.json")
	if err := ExportReport(rep, path); err != nil {
		t.Fatalf("ExportReport() error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteReport(rep, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"cause": "long_bridge"`) {
		t.Errorf("cause should be encoded by name:\n%s", buf.String())
	}

	back, err := ReadReport(&buf)
	if err != nil {
		t.Fatalf("ReadReport() error: %v", err)
	}
	if back.RunID != "run-1" || back.Stats.Layers != 4 || len(back.Issues) != 1 {
		t.Errorf("unexpected report: %+v", back)
	}
	pts := back.SupportPoints()
	if len(pts) != 1 || pts[0] != res.SupportPoints[0] {
		t.Errorf("SupportPoints() = %+v", pts)
	}
}
