package model

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/geom"
)

func squareRegion(below ...int) Region {
	return Region{
		Polygons:      []geom.ExPolygon{{Contour: geom.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}}},
		OverlapsBelow: below,
		Entities: []Entity{{
			Role:   RoleExternalPerimeter,
			Width:  0.4,
			Points: []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}},
		}},
	}
}

func TestFlatten(t *testing.T) {
	tree := []Entity{
		{Children: []Entity{
			{Role: RoleExternalPerimeter, Width: 0.45, Points: []r2.Vec{{X: 0}, {X: 1}}},
			{Children: []Entity{
				{Role: RolePerimeter, Width: 0.45, Height: 0.1, Points: []r2.Vec{{X: 0}, {X: 2}}},
			}},
		}},
		{Role: RoleBridgeInfill, Width: 0.5, Points: []r2.Vec{{X: 0}, {X: 3}}},
	}

	got := Flatten(tree, 0.2)
	if len(got) != 3 {
		t.Fatalf("Flatten() returned %d paths, want 3", len(got))
	}
	wantRoles := []Role{RoleExternalPerimeter, RolePerimeter, RoleBridgeInfill}
	for i, r := range wantRoles {
		if got[i].Role != r {
			t.Errorf("path %d role = %s, want %s", i, got[i].Role, r)
		}
	}
	if got[0].Height != 0.2 {
		t.Errorf("zero height should default to layer height, got %v", got[0].Height)
	}
	if got[1].Height != 0.1 {
		t.Errorf("explicit height should be kept, got %v", got[1].Height)
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role      Role
		bridge    bool
		external  bool
		perimeter bool
		object    bool
	}{
		{RoleExternalPerimeter, false, true, true, true},
		{RoleOverhangPerimeter, true, false, true, true},
		{RoleBridgeInfill, true, false, false, true},
		{RoleInternalInfill, false, false, false, true},
		{RoleSkirt, false, false, false, false},
		{RoleSupportMaterial, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if tt.role.IsBridge() != tt.bridge {
				t.Errorf("IsBridge() = %v", tt.role.IsBridge())
			}
			if tt.role.IsExternalPerimeter() != tt.external {
				t.Errorf("IsExternalPerimeter() = %v", tt.role.IsExternalPerimeter())
			}
			if tt.role.IsPerimeter() != tt.perimeter {
				t.Errorf("IsPerimeter() = %v", tt.role.IsPerimeter())
			}
			if tt.role.IsObject() != tt.object {
				t.Errorf("IsObject() = %v", tt.role.IsObject())
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Object {
		return &Object{Layers: []Layer{
			{PrintZ: 0.2, Height: 0.2, Regions: []Region{squareRegion()}},
			{PrintZ: 0.4, Height: 0.2, Regions: []Region{squareRegion(0)}},
		}}
	}

	tests := []struct {
		name   string
		mutate func(o *Object)
		code   errors.Code
	}{
		{"valid", func(o *Object) {}, ""},
		{"overlap out of range", func(o *Object) { o.Layers[1].Regions[0].OverlapsBelow = []int{1} }, errors.ErrCodePrecondition},
		{"overlap on first layer", func(o *Object) { o.Layers[0].Regions[0].OverlapsBelow = []int{0} }, errors.ErrCodePrecondition},
		{"single point path", func(o *Object) {
			o.Layers[0].Regions[0].Entities[0].Points = o.Layers[0].Regions[0].Entities[0].Points[:1]
		}, errors.ErrCodePrecondition},
		{"zero width", func(o *Object) { o.Layers[0].Regions[0].Entities[0].Width = 0 }, errors.ErrCodePrecondition},
		{"unknown role", func(o *Object) { o.Layers[0].Regions[0].Entities[0].Role = "wipe" }, errors.ErrCodePrecondition},
		{"non monotonic z", func(o *Object) { o.Layers[1].PrintZ = 0.2 }, errors.ErrCodePrecondition},
		{"zero height", func(o *Object) { o.Layers[0].Height = 0 }, errors.ErrCodePrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.mutate(o)
			err := Validate(o)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestObjectBBox(t *testing.T) {
	o := &Object{Layers: []Layer{{PrintZ: 0.2, Height: 0.2, Regions: []Region{squareRegion()}}}}
	bb := o.BBox()
	if bb.Min.X != 0 || bb.Max.Y != 1 {
		t.Errorf("BBox() = %+v", bb)
	}
	if o.RegionCount() != 1 {
		t.Errorf("RegionCount() = %d, want 1", o.RegionCount())
	}
}
