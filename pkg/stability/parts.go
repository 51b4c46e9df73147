package stability

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stabilizer/pkg/geom"
	"github.com/matzehuels/stabilizer/pkg/model"
)

// ObjectPart is a physically connected piece of the object as printed so far.
type ObjectPart struct {
	Volume                    float64
	VolumeCentroidAccumulator r3.Vec // ∫(x, y, z) dV
	ConnectedToBed            bool

	// Bed contact. Only first-layer geometry and support points contribute.
	Sticking                    Moments
	StickingCentroidAccumulator r3.Vec // ∫(x, y, z) dA
}

// newObjectPart integrates the extrusion paths of one region. Each segment
// counts as a rectangle of flow width, so path moments compose by addition
// just like outline moments. Bed contact is recorded only when onBed is set;
// brim polygons then extend it.
func newObjectPart(paths []model.Path, brim []geom.ExPolygon, layer model.Layer, onBed bool) ObjectPart {
	part := ObjectPart{ConnectedToBed: onBed}
	bedZ := layer.BottomZ()
	for _, p := range paths {
		if !p.Role.IsObject() {
			continue
		}
		z := layer.PrintZ - p.Height/2
		for _, l := range p.Lines() {
			rect := geom.Rectangle(l.A, l.B, p.Width)
			if rect == nil {
				continue
			}
			m := Integrate([]geom.Polygon{rect})
			vol := m.Area * p.Height
			part.Volume += vol
			part.VolumeCentroidAccumulator = r3.Add(part.VolumeCentroidAccumulator,
				r3.Scale(vol, r3.Vec{X: m.Centroid().X, Y: m.Centroid().Y, Z: z}))
			if onBed {
				part.addSticking(m, bedZ)
			}
		}
	}
	if onBed && len(brim) > 0 {
		part.addSticking(IntegrateExPolygons(brim), bedZ)
	}
	return part
}

func (p *ObjectPart) addSticking(m Moments, z float64) {
	p.Sticking = p.Sticking.Add(m)
	p.StickingCentroidAccumulator = r3.Add(p.StickingCentroidAccumulator,
		r3.Vec{X: m.FirstMoment.X, Y: m.FirstMoment.Y, Z: z * m.Area})
}

// Add folds another part into p.
func (p *ObjectPart) Add(o ObjectPart) {
	p.Volume += o.Volume
	p.VolumeCentroidAccumulator = r3.Add(p.VolumeCentroidAccumulator, o.VolumeCentroidAccumulator)
	p.ConnectedToBed = p.ConnectedToBed || o.ConnectedToBed
	p.Sticking = p.Sticking.Add(o.Sticking)
	p.StickingCentroidAccumulator = r3.Add(p.StickingCentroidAccumulator, o.StickingCentroidAccumulator)
}

// AddSupportPoint anchors the part at pos with the given contact area.
func (p *ObjectPart) AddSupportPoint(pos r3.Vec, area float64) {
	p.Sticking = p.Sticking.AddPoint(r2.Vec{X: pos.X, Y: pos.Y}, area)
	p.StickingCentroidAccumulator = r3.Add(p.StickingCentroidAccumulator, r3.Scale(area, pos))
}

// MassCentroid returns the volume centroid, or the origin for an empty part.
func (p *ObjectPart) MassCentroid() r3.Vec {
	if p.Volume < geom.Epsilon {
		return r3.Vec{}
	}
	return r3.Scale(1/p.Volume, p.VolumeCentroidAccumulator)
}

// BedCentroid returns the centroid of the bed contact area.
func (p *ObjectPart) BedCentroid() r3.Vec {
	if p.Sticking.Empty() {
		return r3.Vec{}
	}
	return r3.Scale(1/p.Sticking.Area, p.StickingCentroidAccumulator)
}

// snapshot closes the part out into an immutable record.
func (p *ObjectPart) snapshot() PartialObject {
	return PartialObject{
		Centroid:       p.MassCentroid(),
		Volume:         p.Volume,
		ConnectedToBed: p.ConnectedToBed,
	}
}

// PartialObject is a finalized record of a part that existed while printing.
type PartialObject struct {
	Centroid       r3.Vec
	Volume         float64
	ConnectedToBed bool
}

// ActiveObjectParts is a union-find arena of parts. Handles are stable
// indices; merged-away handles forward to the surviving part.
type ActiveObjectParts struct {
	parts  []ObjectPart
	parent []int
	closed []bool
}

// Insert registers a part and returns its handle.
func (a *ActiveObjectParts) Insert(p ObjectPart) int {
	a.parts = append(a.parts, p)
	a.parent = append(a.parent, len(a.parent))
	a.closed = append(a.closed, false)
	return len(a.parts) - 1
}

// FlatID resolves a handle to its surviving part, compressing the path.
func (a *ActiveObjectParts) FlatID(id int) int {
	root := id
	for a.parent[root] != root {
		root = a.parent[root]
	}
	for a.parent[id] != root {
		next := a.parent[id]
		a.parent[id] = root
		id = next
	}
	return root
}

// Access returns the surviving part for a handle.
func (a *ActiveObjectParts) Access(id int) *ObjectPart {
	return &a.parts[a.FlatID(id)]
}

// Merge folds from into to. It returns the snapshot of the part that was
// merged away and false when both handles already share a part.
func (a *ActiveObjectParts) Merge(from, to int) (PartialObject, bool) {
	from, to = a.FlatID(from), a.FlatID(to)
	if from == to {
		return PartialObject{}, false
	}
	closed := a.parts[from].snapshot()
	a.parts[to].Add(a.parts[from])
	a.parts[from] = ObjectPart{}
	a.parent[from] = to
	a.closed[from] = true
	return closed, true
}

// Live returns the handles of all surviving parts in creation order.
func (a *ActiveObjectParts) Live() []int {
	var out []int
	for id := range a.parts {
		if !a.closed[id] {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of handles ever issued.
func (a *ActiveObjectParts) Len() int { return len(a.parts) }
