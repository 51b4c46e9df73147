package genealogy

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/stabilizer/pkg/stability"
)

// Formats accepted by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Recorder is a stability.Tracer that keeps the part history.
// It is not safe for concurrent use, matching the analysis which emits
// every event from a single goroutine.
type Recorder struct {
	parts  map[int]*Part
	merges []Merge
	layers int
}

// Part is one node of the genealogy.
type Part struct {
	ID         int
	Layer      int // layer the part started on
	Region     int
	OnBed      bool
	EndLayer   int // layer it was merged away on, -1 while alive
	Closed     stability.PartialObject
	PointCount map[stability.Cause]int
}

// Merge is one edge of the genealogy.
type Merge struct {
	Layer    int
	From, To int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{parts: make(map[int]*Part)}
}

func (r *Recorder) PartCreated(layer, region, part int, onBed bool) {
	r.parts[part] = &Part{
		ID:         part,
		Layer:      layer,
		Region:     region,
		OnBed:      onBed,
		EndLayer:   -1,
		PointCount: make(map[stability.Cause]int),
	}
}

func (r *Recorder) PartsMerged(layer, from, into int, closed stability.PartialObject) {
	r.merges = append(r.merges, Merge{Layer: layer, From: from, To: into})
	if p, ok := r.parts[from]; ok {
		p.EndLayer = layer
		p.Closed = closed
	}
}

func (r *Recorder) PartClosed(part int, closed stability.PartialObject) {
	if p, ok := r.parts[part]; ok {
		p.Closed = closed
	}
}

func (r *Recorder) SupportPointAdded(_, part int, pt stability.SupportPoint) {
	if p, ok := r.parts[part]; ok {
		p.PointCount[pt.Cause]++
	}
}

func (r *Recorder) LayerDone(layer int, _ float64) { r.layers = layer + 1 }

var _ stability.Tracer = (*Recorder)(nil)

// Parts returns the recorded parts ordered by id.
func (r *Recorder) Parts() []*Part {
	out := make([]*Part, 0, len(r.parts))
	for _, p := range r.parts {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Part) int { return a.ID - b.ID })
	return out
}

// Merges returns the recorded merges in the order they happened.
func (r *Recorder) Merges() []Merge { return r.merges }

// Layers returns the number of completed layers.
func (r *Recorder) Layers() int { return r.layers }

// DOT converts the history to Graphviz DOT. Parts are ranked by their
// starting layer so the graph reads bottom-up like the print.
func (r *Recorder) DOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph genealogy {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	parts := r.Parts()
	for _, p := range parts {
		fmt.Fprintf(&buf, "  p%d [%s];\n", p.ID, strings.Join(nodeAttrs(p), ", "))
	}

	byLayer := make(map[int][]int)
	var layers []int
	for _, p := range parts {
		if _, ok := byLayer[p.Layer]; !ok {
			layers = append(layers, p.Layer)
		}
		byLayer[p.Layer] = append(byLayer[p.Layer], p.ID)
	}
	for _, l := range layers {
		if ids := byLayer[l]; len(ids) > 1 {
			buf.WriteString("  { rank=same;")
			for _, id := range ids {
				fmt.Fprintf(&buf, " p%d;", id)
			}
			buf.WriteString(" }\n")
		}
	}

	if len(r.merges) > 0 {
		buf.WriteString("\n")
	}
	for _, m := range r.merges {
		fmt.Fprintf(&buf, "  p%d -> p%d [label=\"layer %d\"];\n", m.From, m.To, m.Layer)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(p *Part) []string {
	attrs := []string{fmt.Sprintf("label=%q", label(p))}
	switch {
	case !p.OnBed:
		attrs = append(attrs, `style="rounded,filled,dashed"`, "fillcolor=mistyrose")
	case p.EndLayer < 0:
		attrs = append(attrs, "fillcolor=honeydew")
	}
	return attrs
}

func label(p *Part) string {
	lines := []string{
		fmt.Sprintf("part %d", p.ID),
		fmt.Sprintf("layer %d, region %d", p.Layer, p.Region),
		fmt.Sprintf("volume %.1f mm³", p.Closed.Volume),
	}
	for _, c := range stability.AllCauses {
		if n := p.PointCount[c]; n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", c, n))
		}
	}
	return strings.Join(lines, "\n")
}
