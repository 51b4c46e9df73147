package stability

// Tracer receives bookkeeping events from Analyze. Calls happen on the
// goroutine running Analyze, in layer order.
type Tracer interface {
	// PartCreated is called when a region starts a new part.
	PartCreated(layer, region, part int, onBed bool)
	// PartsMerged is called when from is folded into into. closed is the
	// record of the part that stopped existing.
	PartsMerged(layer, from, into int, closed PartialObject)
	// PartClosed is called for every part still alive at the end.
	PartClosed(part int, closed PartialObject)
	// SupportPointAdded is called for every accepted point.
	SupportPointAdded(layer, part int, pt SupportPoint)
	// LayerDone is called after a layer has been fully applied.
	LayerDone(layer int, printZ float64)
}

// NopTracer ignores every event.
type NopTracer struct{}

func (NopTracer) PartCreated(int, int, int, bool)          {}
func (NopTracer) PartsMerged(int, int, int, PartialObject) {}
func (NopTracer) PartClosed(int, PartialObject)            {}
func (NopTracer) SupportPointAdded(int, int, SupportPoint) {}
func (NopTracer) LayerDone(int, float64)                   {}

// MultiTracer forwards every event to each tracer in order. Nil entries
// are skipped.
func MultiTracer(tracers ...Tracer) Tracer {
	var ts multiTracer
	for _, t := range tracers {
		if t != nil {
			ts = append(ts, t)
		}
	}
	switch len(ts) {
	case 0:
		return NopTracer{}
	case 1:
		return ts[0]
	}
	return ts
}

type multiTracer []Tracer

func (m multiTracer) PartCreated(layer, region, part int, onBed bool) {
	for _, t := range m {
		t.PartCreated(layer, region, part, onBed)
	}
}

func (m multiTracer) PartsMerged(layer, from, into int, closed PartialObject) {
	for _, t := range m {
		t.PartsMerged(layer, from, into, closed)
	}
}

func (m multiTracer) PartClosed(part int, closed PartialObject) {
	for _, t := range m {
		t.PartClosed(part, closed)
	}
}

func (m multiTracer) SupportPointAdded(layer, part int, pt SupportPoint) {
	for _, t := range m {
		t.SupportPointAdded(layer, part, pt)
	}
}

func (m multiTracer) LayerDone(layer int, printZ float64) {
	for _, t := range m {
		t.LayerDone(layer, printZ)
	}
}
