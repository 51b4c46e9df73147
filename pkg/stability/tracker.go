package stability

import (
	"time"

	"github.com/matzehuels/stabilizer/pkg/geom"
	"github.com/matzehuels/stabilizer/pkg/model"
)

// analysis holds the state carried from one layer to the next. Only the
// goroutine running Analyze touches it.
type analysis struct {
	obj    *model.Object
	params Params
	opts   Options

	parts    ActiveObjectParts
	grid     *SupportGridFilter
	points   []SupportPoint
	partials []PartialObject
	stats    Stats

	// Per region of the previous layer.
	prevPart []int
	prevConn []SliceConnection

	prevLines    *lineSet
	prevBoundary *geom.Boundary
}

func newAnalysis(obj *model.Object, p Params, opts Options) *analysis {
	height := 0.0
	if n := len(obj.Layers); n > 0 {
		height = obj.Layers[n-1].PrintZ
	}
	return &analysis{
		obj:    obj,
		params: p,
		opts:   opts,
		grid:   NewSupportGridFilter(obj.BBox(), height, p.CellSize()),
	}
}

// trackParts assigns every region of layer li to a part, merging the parts
// below where a region bridges several of them. It returns the part handle
// and weakest connection of each region.
func (a *analysis) trackParts(li int, conns []SliceConnection, paths [][]model.Path) ([]int, []SliceConnection) {
	layer := a.obj.Layers[li]
	bottom := layer.BottomZ()
	partOf := make([]int, len(layer.Regions))
	weakest := make([]SliceConnection, len(layer.Regions))

	for ri, region := range layer.Regions {
		var brim []geom.ExPolygon
		if li == 0 && a.params.UseBrim {
			brim = region.Brim
		}
		local := newObjectPart(paths[ri], brim, layer, li == 0)

		below := a.flatBelow(region.OverlapsBelow)
		if conns[ri].Empty() || len(below) == 0 {
			id := a.parts.Insert(local)
			partOf[ri] = id
			weakest[ri] = SliceConnection{}
			a.stats.Parts++
			a.opts.Tracer.PartCreated(li, ri, id, local.ConnectedToBed)
			continue
		}

		into := below[0]
		for _, from := range below[1:] {
			closed, ok := a.parts.Merge(from, into)
			if !ok {
				continue
			}
			a.stats.Merges++
			if closed.Volume > geom.Epsilon {
				a.partials = append(a.partials, closed)
			}
			a.opts.Tracer.PartsMerged(li, from, into, closed)
		}

		transferred := SliceConnection{}
		for _, idx := range region.OverlapsBelow {
			transferred = weaker(transferred, a.prevConn[idx], bottom)
		}
		weakest[ri] = weaker(transferred, conns[ri], bottom)

		a.parts.Access(into).Add(local)
		partOf[ri] = into
	}
	return partOf, weakest
}

// flatBelow resolves the parts of the linked regions, without duplicates,
// in link order.
func (a *analysis) flatBelow(links []int) []int {
	var ids []int
	for _, idx := range links {
		if idx >= len(a.prevPart) {
			continue
		}
		id := a.parts.FlatID(a.prevPart[idx])
		seen := false
		for _, have := range ids {
			if have == id {
				seen = true
				break
			}
		}
		if !seen {
			ids = append(ids, id)
		}
	}
	return ids
}

// closeLive records every surviving part.
func (a *analysis) closeLive() {
	for _, id := range a.parts.Live() {
		closed := a.parts.Access(id).snapshot()
		a.partials = append(a.partials, closed)
		a.opts.Tracer.PartClosed(id, closed)
	}
}

func (a *analysis) result(start time.Time) Result {
	stats := a.stats
	stats.Duration = time.Since(start)
	return Result{
		SupportPoints:  a.points,
		PartialObjects: a.partials,
		Stats:          stats,
	}
}
