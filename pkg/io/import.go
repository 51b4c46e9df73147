package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/geom"
	"github.com/matzehuels/stabilizer/pkg/model"
)

type object struct {
	Name   string  `json:"name"`
	Layers []layer `json:"layers"`
}

type layer struct {
	PrintZ  float64  `json:"print_z"`
	Height  float64  `json:"height"`
	Regions []region `json:"regions"`
}

type region struct {
	Polygons      []polygon `json:"polygons"`
	OverlapsBelow []int     `json:"overlaps_below,omitempty"`
	Brim          []polygon `json:"brim,omitempty"`
	Entities      []entity  `json:"entities"`
}

type polygon struct {
	Contour []point   `json:"contour"`
	Holes   [][]point `json:"holes,omitempty"`
}

type entity struct {
	Role     model.Role `json:"role,omitempty"`
	Width    float64    `json:"width,omitempty"`
	Height   float64    `json:"height,omitempty"`
	Points   []point    `json:"points,omitempty"`
	Children []entity   `json:"children,omitempty"`
}

type point [2]float64

// ReadObject decodes a sliced object from r. Only the JSON structure is
// checked here; call [model.Validate] for the analysis contract.
func ReadObject(r io.Reader) (*model.Object, error) {
	var data object
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode object")
	}
	obj := &model.Object{Name: data.Name, Layers: make([]model.Layer, len(data.Layers))}
	for li, l := range data.Layers {
		ml := model.Layer{PrintZ: l.PrintZ, Height: l.Height, Regions: make([]model.Region, len(l.Regions))}
		for ri, r := range l.Regions {
			ml.Regions[ri] = model.Region{
				Polygons:      toExPolygons(r.Polygons),
				OverlapsBelow: r.OverlapsBelow,
				Brim:          toExPolygons(r.Brim),
				Entities:      toEntities(r.Entities),
			}
		}
		obj.Layers[li] = ml
	}
	return obj, nil
}

// ImportObject reads a sliced object from a JSON file.
func ImportObject(path string) (*model.Object, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadObject(f)
}

// WriteObject encodes obj in the format [ReadObject] accepts.
func WriteObject(obj *model.Object, w io.Writer) error {
	out := object{Name: obj.Name, Layers: make([]layer, len(obj.Layers))}
	for li, l := range obj.Layers {
		ol := layer{PrintZ: l.PrintZ, Height: l.Height, Regions: make([]region, len(l.Regions))}
		for ri, r := range l.Regions {
			ol.Regions[ri] = region{
				Polygons:      fromExPolygons(r.Polygons),
				OverlapsBelow: r.OverlapsBelow,
				Brim:          fromExPolygons(r.Brim),
				Entities:      fromEntities(r.Entities),
			}
		}
		out.Layers[li] = ol
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode object")
	}
	return nil
}

// MarshalObject returns the canonical encoding of obj, used for hashing.
func MarshalObject(obj *model.Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteObject(obj, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toPolygon(pts []point) geom.Polygon {
	if len(pts) == 0 {
		return nil
	}
	out := make(geom.Polygon, len(pts))
	for i, p := range pts {
		out[i] = r2.Vec{X: p[0], Y: p[1]}
	}
	return out
}

func fromPolygon(p []r2.Vec) []point {
	out := make([]point, len(p))
	for i, v := range p {
		out[i] = point{v.X, v.Y}
	}
	return out
}

func toExPolygons(ps []polygon) []geom.ExPolygon {
	if len(ps) == 0 {
		return nil
	}
	out := make([]geom.ExPolygon, len(ps))
	for i, p := range ps {
		out[i].Contour = toPolygon(p.Contour)
		for _, h := range p.Holes {
			out[i].Holes = append(out[i].Holes, toPolygon(h))
		}
	}
	return out
}

func fromExPolygons(ps []geom.ExPolygon) []polygon {
	if len(ps) == 0 {
		return nil
	}
	out := make([]polygon, len(ps))
	for i, p := range ps {
		out[i].Contour = fromPolygon(p.Contour)
		for _, h := range p.Holes {
			out[i].Holes = append(out[i].Holes, fromPolygon(h))
		}
	}
	return out
}

func toEntities(es []entity) []model.Entity {
	if len(es) == 0 {
		return nil
	}
	out := make([]model.Entity, len(es))
	for i, e := range es {
		out[i] = model.Entity{
			Role:     e.Role,
			Width:    e.Width,
			Height:   e.Height,
			Points:   []r2.Vec(toPolygon(e.Points)),
			Children: toEntities(e.Children),
		}
	}
	return out
}

func fromEntities(es []model.Entity) []entity {
	if len(es) == 0 {
		return nil
	}
	out := make([]entity, len(es))
	for i, e := range es {
		out[i] = entity{
			Role:     e.Role,
			Width:    e.Width,
			Height:   e.Height,
			Points:   fromPolygon(e.Points),
			Children: fromEntities(e.Children),
		}
	}
	return out
}
