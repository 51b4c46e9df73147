package stability

import (
	"sort"

	"github.com/matzehuels/stabilizer/pkg/geom"
)

// Issue groups support points and parts by the failure they indicate.
type Issue struct {
	Cause    Cause
	Critical bool
	Points   []SupportPoint
	Parts    []PartialObject
}

// GatherIssues summarizes a result for display. Parts that never reached
// the bed are reported as floating even when they received no points.
// Issues are ordered critical first, then structural, then by size.
func GatherIssues(points []SupportPoint, parts []PartialObject, p Params) []Issue {
	byCause := make(map[Cause]*Issue)
	get := func(c Cause) *Issue {
		if is, ok := byCause[c]; ok {
			return is
		}
		is := &Issue{Cause: c}
		byCause[c] = is
		return is
	}
	for _, pt := range points {
		is := get(pt.Cause)
		is.Points = append(is.Points, pt)
	}

	floating := make([]PartialObject, 0)
	for _, po := range parts {
		if !po.ConnectedToBed && po.Volume > geom.Epsilon {
			floating = append(floating, po)
		}
	}
	sort.SliceStable(floating, func(i, j int) bool { return floating[i].Volume > floating[j].Volume })
	if len(floating) > 0 {
		get(UnstableFloatingPart).Parts = floating
	}

	out := make([]Issue, 0, len(byCause))
	for _, c := range AllCauses {
		is, ok := byCause[c]
		if !ok {
			continue
		}
		is.Critical = c.IsGlobal() || len(is.Points) >= p.CriticalLocalPointCount
		out = append(out, *is)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Critical != b.Critical {
			return a.Critical
		}
		if a.Cause.IsGlobal() != b.Cause.IsGlobal() {
			return a.Cause.IsGlobal()
		}
		return len(a.Points)+len(a.Parts) > len(b.Points)+len(b.Parts)
	})
	return out
}
