package model

import (
	"github.com/matzehuels/stabilizer/pkg/errors"
)

// Validate checks the contract the analysis relies on. Violations are
// reported as [errors.ErrCodePrecondition] because they indicate a defect in
// the producer of the sliced object, not a condition worth retrying.
func Validate(o *Object) error {
	if o == nil {
		return errors.New(errors.ErrCodeInvalidInput, "object is nil")
	}
	prevZ := 0.0
	for li, l := range o.Layers {
		if err := errors.ValidateFinite("print_z", l.PrintZ, l.Height); err != nil {
			return errors.Wrap(errors.ErrCodePrecondition, err, "layer %d", li)
		}
		if l.Height <= 0 {
			return errors.New(errors.ErrCodePrecondition, "layer %d: height must be positive, got %v", li, l.Height)
		}
		if li > 0 && l.PrintZ <= prevZ {
			return errors.New(errors.ErrCodePrecondition, "layer %d: print_z %v is not above previous layer %v", li, l.PrintZ, prevZ)
		}
		prevZ = l.PrintZ

		below := 0
		if li > 0 {
			below = len(o.Layers[li-1].Regions)
		}
		for ri, r := range l.Regions {
			for _, idx := range r.OverlapsBelow {
				if idx < 0 || idx >= below {
					return errors.New(errors.ErrCodePrecondition,
						"layer %d region %d: overlap index %d out of range [0, %d)", li, ri, idx, below)
				}
			}
			for pi, p := range r.Polygons {
				if len(p.Contour) < 3 {
					return errors.New(errors.ErrCodePrecondition,
						"layer %d region %d: polygon %d has %d vertices", li, ri, pi, len(p.Contour))
				}
			}
			if err := validateEntities(r.Entities, li, ri); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateEntities(es []Entity, li, ri int) error {
	for _, e := range es {
		if e.IsCollection() {
			if err := validateEntities(e.Children, li, ri); err != nil {
				return err
			}
			continue
		}
		if !e.Role.Valid() {
			return errors.New(errors.ErrCodePrecondition, "layer %d region %d: unknown role %q", li, ri, e.Role)
		}
		if len(e.Points) < 2 {
			return errors.New(errors.ErrCodePrecondition,
				"layer %d region %d: %s path has %d points", li, ri, e.Role, len(e.Points))
		}
		if e.Width <= 0 {
			return errors.New(errors.ErrCodePrecondition,
				"layer %d region %d: %s path has width %v", li, ri, e.Role, e.Width)
		}
		for _, p := range e.Points {
			if err := errors.ValidateFinite("path", p.X, p.Y); err != nil {
				return errors.Wrap(errors.ErrCodePrecondition, err, "layer %d region %d", li, ri)
			}
		}
	}
	return nil
}
