package stability

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stabilizer/pkg/geom"
	"github.com/matzehuels/stabilizer/pkg/model"
)

// processLayer runs one layer: part tracking, the parallel local check of
// every path, then the serial application of local and global points.
func (a *analysis) processLayer(li int, conns []SliceConnection) {
	layer := a.obj.Layers[li]
	bottom := layer.BottomZ()
	paths := make([][]model.Path, len(layer.Regions))
	for ri, r := range layer.Regions {
		paths[ri] = model.Flatten(r.Entities, layer.Height)
	}
	partOf, weakest := a.trackParts(li, conns, paths)

	type task struct{ region, path int }
	var tasks []task
	for ri := range paths {
		for pi, p := range paths[ri] {
			if p.Role.IsObject() {
				tasks = append(tasks, task{ri, pi})
			}
		}
	}
	lines := make([][]ExtrusionLine, len(tasks))
	local := make([][]SupportPoint, len(tasks))
	forEach(len(tasks), a.opts.Workers, func(i int) {
		t := tasks[i]
		path := paths[t.region][t.path]
		pts := geom.Subdivide(path.Points, a.params.MinDistanceBetweenSupportPoints)
		ann := geom.Annotate(pts, a.prevBoundary, path.Width)
		lines[i], local[i] = localCheck(path, t.path, ann, a.prevLines, bottom, a.params)
	})

	before := len(a.points)
	external := make([][]ExtrusionLine, len(layer.Regions))
	for i, t := range tasks {
		for _, pt := range local[i] {
			a.reckon(li, partOf[t.region], pt, &weakest[t.region])
		}
		if paths[t.region][t.path].Role.IsExternalPerimeter() {
			external[t.region] = append(external[t.region], lines[i]...)
		}
	}
	var layerExternal []ExtrusionLine
	var outline []geom.ExPolygon
	for ri, r := range layer.Regions {
		a.placeGlobal(li, partOf[ri], &weakest[ri], external[ri])
		layerExternal = append(layerExternal, external[ri]...)
		outline = append(outline, r.Polygons...)
	}

	a.prevPart, a.prevConn = partOf, weakest
	a.prevLines = newLineSet(layerExternal)
	a.prevBoundary = geom.NewBoundary(outline)
	a.stats.Layers++
	a.stats.Regions += len(layer.Regions)

	a.opts.Logger.Debug("layer done",
		"layer", li,
		"z", layer.PrintZ,
		"regions", len(layer.Regions),
		"paths", len(tasks),
		"points", len(a.points)-before)
	a.opts.Tracer.LayerDone(li, layer.PrintZ)
}

// placeGlobal walks the external perimeter of a region and asks the torque
// balance whether the part needs a structural point. Candidates are spaced
// by the minimum point distance, or taken early where the line curls up.
// The candidate is the perimeter point farthest along the line direction.
func (a *analysis) placeGlobal(li, part int, conn *SliceConnection, ext []ExtrusionLine) {
	if len(ext) == 0 {
		return
	}
	layer := a.obj.Layers[li]
	set := newLineSet(ext)
	minDist := a.params.MinDistanceBetweenSupportPoints
	unchecked := minDist + 1
	for _, l := range ext {
		if (unchecked+l.Length < minDist && l.CurledUpHeight < a.params.CurlingToleranceLimit) || l.Length < geom.Epsilon {
			unchecked += l.Length
			continue
		}
		unchecked = l.Length

		look := r2.Add(l.B, r2.Scale(a.params.LookaheadDistance, l.Dir()))
		n, ok := set.index.Nearest(look)
		if !ok {
			continue
		}
		pos := at(n.Point, layer.BottomZ())
		margin, cause := Evaluate(a.parts.Access(part), *conn, l, pos, layer.PrintZ, a.params)
		if margin <= 0 {
			continue
		}
		a.reckon(li, part, SupportPoint{
			Cause:      cause,
			Position:   pos,
			SpotRadius: a.params.SupportPointsInterfaceRadius,
		}, conn)
	}
}

// reckon accepts or rejects a point against the dedup grid. Structural
// points need a free cell. Local points are always kept but only strengthen
// the part when their cell was free.
func (a *analysis) reckon(li, part int, pt SupportPoint, conn *SliceConnection) bool {
	taken := a.grid.PositionTaken(pt.Position)
	if taken && pt.Cause.IsGlobal() {
		a.stats.RejectedPoints++
		return false
	}
	a.points = append(a.points, pt)
	if pt.Cause.IsGlobal() {
		a.stats.GlobalPoints++
	} else {
		a.stats.LocalPoints++
	}
	if !taken {
		area := a.params.SpotArea()
		a.grid.TakePosition(pt.Position)
		a.parts.Access(part).AddSupportPoint(pt.Position, area)
		if !conn.Empty() {
			conn.AddSupportPoint(pt.Position, area)
		}
	}
	a.opts.Tracer.SupportPointAdded(li, a.parts.FlatID(part), pt)
	return true
}
