package stability

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stabilizer/pkg/geom"
)

// SupportPoint is a point where a support structure should touch the object.
type SupportPoint struct {
	Cause      Cause
	Position   r3.Vec
	SpotRadius float64
}

// Evaluate runs the bed and weakest-connection torque balances for a part
// while line is extruded at height layerZ. The nozzle pushes along the line;
// extreme is the point the support would be attached to.
//
// A positive margin means the part is unstable and the returned cause names
// why. The bed check runs first; the weakest connection is only judged once
// the bed holds.
func Evaluate(part *ObjectPart, conn SliceConnection, line ExtrusionLine, extreme r3.Vec, layerZ float64, p Params) (float64, Cause) {
	f := newForces(part, line, p)
	if margin, cause := f.bedCheck(part, extreme, layerZ, p); margin > 0 {
		return margin, cause
	}
	return f.connectionCheck(part, conn, extreme, layerZ, p)
}

type forces struct {
	dir      r2.Vec
	weight   float64
	movement float64
	conflict float64
}

func newForces(part *ObjectPart, line ExtrusionLine, p Params) forces {
	mass := part.Volume * p.FilamentDensity
	dir := line.Dir()
	if r2.Norm(dir) < geom.Epsilon {
		dir = r2.Vec{X: 1}
	}
	return forces{
		dir:      dir,
		weight:   mass * p.Gravity,
		movement: p.MaxAcceleration * mass,
		conflict: p.StandardExtruderConflictForce + math.Min(line.CurledUpHeight, 1)*p.MalformationAdditiveForce,
	}
}

func (f forces) bedCheck(part *ObjectPart, extreme r3.Vec, layerZ float64, p Params) (float64, Cause) {
	if part.Sticking.Empty() {
		return 1, UnstableFloatingPart
	}
	cause := UnstableFloatingPart
	if part.ConnectedToBed {
		cause = SeparationFromBed
	}
	bed := part.BedCentroid()
	mass := part.MassCentroid()
	yield := -BedYieldTorque(part, f.dir, extreme, p)

	arm := r2.Sub(xy(mass), xy(bed))
	armLen := r2.Norm(arm)
	sign := 1.0
	if armLen > geom.Epsilon {
		spread := math.Sqrt(SecondMomentAboutAxis(part.Sticking, geom.Perpendicular(arm)) / part.Sticking.Area)
		if armLen < p.TippingSigmaFactor*spread {
			sign = -1
		}
	}
	weightTorque := sign * armLen * f.weight
	movementTorque := f.movement * math.Max(0, mass.Z-bed.Z)

	conflictArm := math.Max(layerZ-bed.Z, geom.Epsilon)
	conflictTorque := f.conflict * conflictArm

	total := weightTorque + movementTorque + conflictTorque + yield
	return total / conflictArm, cause
}

func (f forces) connectionCheck(part *ObjectPart, conn SliceConnection, extreme r3.Vec, layerZ float64, p Params) (float64, Cause) {
	if conn.Empty() {
		if !part.ConnectedToBed {
			return 1, UnstableFloatingPart
		}
		return -1, UnstableFloatingPart
	}
	c := conn.Centroid3()
	separation := layerZ - c.Z
	if separation < p.FreshConnectionDistance {
		return -1, WeakObjectPart
	}
	separation = math.Max(separation, geom.Epsilon)
	mass := part.MassCentroid()
	yield := ConnectionYieldTorque(conn, f.dir, extreme, p)

	var weightTorque float64
	if separation >= p.WeightArmSuppressionDistance {
		arm := r2.Norm(r2.Sub(xy(c), xy(mass)))
		lever := 1 - c.Z/math.Max(layerZ, geom.Epsilon)
		weightTorque = arm * f.weight * lever * lever
	}
	movementTorque := f.movement * math.Max(0, mass.Z-c.Z)
	conflictTorque := f.conflict * separation

	total := movementTorque + conflictTorque + weightTorque - yield
	return total / separation, WeakObjectPart
}

// BedYieldTorque is the torque the bed contact of part withstands before
// the part peels off when pushed along dir at extreme.
func BedYieldTorque(part *ObjectPart, dir r2.Vec, extreme r3.Vec, p Params) float64 {
	return SectionModulus(part.Sticking, geom.Perpendicular(dir), xy(extreme)) * p.BedAdhesion()
}

// ConnectionYieldTorque is the torque a connection withstands before the
// bond between layers breaks.
func ConnectionYieldTorque(conn SliceConnection, dir r2.Vec, extreme r3.Vec, p Params) float64 {
	return SectionModulus(conn.Moments, geom.Perpendicular(dir), xy(extreme)) * p.MaterialYieldStrength
}

func xy(v r3.Vec) r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

func at(p r2.Vec, z float64) r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: z} }
