package stability

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stabilizer/pkg/geom"
	"github.com/matzehuels/stabilizer/pkg/model"
)

// ExtrusionLine is a single segment of an extrusion path together with what
// the analysis learned about it.
type ExtrusionLine struct {
	geom.Line
	Length float64
	Origin int // index of the path within its region
	Role   model.Role

	CurledUpHeight        float64
	FormQuality           float64
	SupportPointGenerated Cause
}

func newExtrusionLine(l geom.Line, origin int, role model.Role) ExtrusionLine {
	return ExtrusionLine{Line: l, Length: l.Len(), Origin: origin, Role: role, FormQuality: 1}
}

// lineSet is a read-only snapshot of one layer's external perimeter lines.
type lineSet struct {
	lines []ExtrusionLine
	index *geom.LineIndex
}

func newLineSet(lines []ExtrusionLine) *lineSet {
	segs := make([]geom.Line, len(lines))
	for i, l := range lines {
		segs[i] = l.Line
	}
	return &lineSet{lines: lines, index: geom.NewLineIndex(segs)}
}

// nearest returns the line closest to p.
func (s *lineSet) nearest(p r2.Vec) (ExtrusionLine, bool) {
	if s == nil {
		return ExtrusionLine{}, false
	}
	n, ok := s.index.Nearest(p)
	if !ok {
		return ExtrusionLine{}, false
	}
	return s.lines[n.Index], true
}

// estimateCurl predicts how far the end of a segment lifts off the layer.
// Lines printed on solid ground inherit a decayed curl from the line below.
func estimateCurl(a geom.Annotation, width, height float64, prev *lineSet, p Params) float64 {
	lo := p.MalformationDistanceFactorA * width
	hi := p.MalformationDistanceFactorB * width
	switch {
	case a.Distance <= lo:
		if below, ok := prev.nearest(a.Position); ok {
			return 0.85 * below.CurledUpHeight
		}
		return 0
	case a.Distance < hi && a.Curvature > -0.1:
		factor := math.Max(a.Distance-lo, 0.01) / (hi - lo)
		curl := height * math.Sqrt(math.Sqrt(factor)) * clamp(3*a.Curvature, 1, 3)
		return math.Min(curl, p.MaxCurledHeightFactor*height)
	default:
		return 0
	}
}

// localCheck walks one annotated path and returns its lines and the local
// support points it needs. Points sit at bottomZ. It only reads shared
// state, so paths of a layer may be checked concurrently.
func localCheck(path model.Path, origin int, ann []geom.Annotation, prev *lineSet, bottomZ float64, p Params) ([]ExtrusionLine, []SupportPoint) {
	if len(ann) < 2 {
		return nil, nil
	}
	lines := make([]ExtrusionLine, 0, len(ann)-1)
	for i := 1; i < len(ann); i++ {
		l := newExtrusionLine(geom.Line{A: ann[i-1].Position, B: ann[i].Position}, origin, path.Role)
		l.CurledUpHeight = estimateCurl(ann[i], path.Width, path.Height, prev, p)
		lines = append(lines, l)
	}
	var pts []SupportPoint
	if path.Role.IsBridge() {
		pts = checkBridge(lines, ann, path.Width, bottomZ, p)
	} else {
		pts = checkOverhang(lines, ann, path.Width, prev, bottomZ, p)
	}
	return lines, pts
}

// maxBridgeLength discounts the allowed unsupported length on curved paths.
func maxBridgeLength(curvature float64, p Params) float64 {
	return math.Max(2*p.SupportPointsInterfaceRadius, p.BridgeDistance/math.Pow(1+math.Abs(curvature), 3))
}

func checkOverhang(lines []ExtrusionLine, ann []geom.Annotation, width float64, prev *lineSet, bottomZ float64, p Params) []SupportPoint {
	var (
		pts     []SupportPoint
		bridged float64
	)
	emit := func(l *ExtrusionLine) {
		l.SupportPointGenerated = FloatingExtrusion
		pts = append(pts, SupportPoint{
			Cause:      FloatingExtrusion,
			Position:   at(l.B, bottomZ),
			SpotRadius: p.SupportPointsInterfaceRadius,
		})
		bridged = 0
	}
	for i := range lines {
		l := &lines[i]
		a := ann[i+1]
		maxLen := maxBridgeLength(a.Curvature, p)
		switch {
		case a.Distance > p.UnsupportedFlowFactor*width:
			l.FormQuality = 0.8
			bridged += l.Length
			if bridged > maxLen {
				emit(l)
			}
		case a.Distance > p.SupportedFlowFactor*width:
			bridged += l.Length
			quality := 1.0
			if below, ok := prev.nearest(a.Position); ok {
				quality = below.FormQuality
			}
			l.FormQuality = quality - p.FormQualityPenalty
			if l.FormQuality < 0 && bridged > maxLen {
				l.FormQuality = 0.5
				emit(l)
			}
		default:
			bridged = 0
		}
	}
	return pts
}

// checkBridge treats the first unsupported segment as the bridging
// direction. Segments running against it are skipped so the return pass of
// a zigzag does not flag the far anchor a second time. Each unsupported run
// longer than the allowed length gets points spread evenly along it.
func checkBridge(lines []ExtrusionLine, ann []geom.Annotation, width float64, bottomZ float64, p Params) []SupportPoint {
	var (
		pts     []SupportPoint
		dir     r2.Vec
		haveDir bool
		run     []int
		runLen  float64
		maxCurv float64
	)
	closeRun := func() {
		defer func() { run, runLen, maxCurv = run[:0], 0, 0 }()
		maxLen := maxBridgeLength(maxCurv, p)
		if len(run) == 0 || runLen <= maxLen {
			return
		}
		cause := LongBridge
		if maxCurv > p.AnchorCurvature {
			cause = FloatingBridgeAnchor
		}
		n := max(1, int(math.Ceil(runLen/maxLen))-1)
		for k := 1; k <= n; k++ {
			target := runLen * float64(k) / float64(n+1)
			idx, pos := locateAlong(lines, run, target)
			lines[idx].SupportPointGenerated = cause
			pts = append(pts, SupportPoint{
				Cause:      cause,
				Position:   at(pos, bottomZ),
				SpotRadius: p.SupportPointsInterfaceRadius,
			})
		}
	}
	for i := range lines {
		l := lines[i]
		a := ann[i+1]
		if a.Distance <= p.SupportedFlowFactor*width || l.Length < geom.Epsilon {
			closeRun()
			continue
		}
		if !haveDir {
			dir, haveDir = l.Dir(), true
		}
		if r2.Dot(l.Dir(), dir) < p.BridgeDirectionCosine {
			closeRun()
			continue
		}
		run = append(run, i)
		runLen += l.Length
		maxCurv = math.Max(maxCurv, math.Abs(a.Curvature))
	}
	closeRun()
	return pts
}

// locateAlong finds the point at arc length target along the run of lines.
func locateAlong(lines []ExtrusionLine, run []int, target float64) (int, r2.Vec) {
	for _, i := range run {
		l := lines[i]
		if target <= l.Length {
			return i, r2.Add(l.A, r2.Scale(target/l.Length, l.Vector()))
		}
		target -= l.Length
	}
	last := run[len(run)-1]
	return last, lines[last].B
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
