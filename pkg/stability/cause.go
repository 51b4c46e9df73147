package stability

import (
	"fmt"
)

// Cause names the failure mode a support point prevents. The zero value
// means no support point.
type Cause int

// Local causes come from a single extrusion path, global causes from the
// torque balance of a whole part.
const (
	LongBridge Cause = iota + 1
	FloatingBridgeAnchor
	FloatingExtrusion
	SeparationFromBed
	UnstableFloatingPart
	WeakObjectPart
)

var causeNames = map[Cause]string{
	LongBridge:           "long_bridge",
	FloatingBridgeAnchor: "floating_bridge_anchor",
	FloatingExtrusion:    "floating_extrusion",
	SeparationFromBed:    "separation_from_bed",
	UnstableFloatingPart: "unstable_floating_part",
	WeakObjectPart:       "weak_object_part",
}

var causeDescriptions = map[Cause]string{
	LongBridge:           "Long bridge without anchoring",
	FloatingBridgeAnchor: "Bridge anchored on a curved overhang",
	FloatingExtrusion:    "Extrusion printed over air",
	SeparationFromBed:    "Part may detach from the bed",
	UnstableFloatingPart: "Part starts in mid-air",
	WeakObjectPart:       "Thin connection may snap",
}

// AllCauses lists every cause in declaration order.
var AllCauses = []Cause{
	LongBridge, FloatingBridgeAnchor, FloatingExtrusion,
	SeparationFromBed, UnstableFloatingPart, WeakObjectPart,
}

// IsGlobal reports whether the cause is structural. Global points reserve
// their grid cell and are rejected from an occupied one.
func (c Cause) IsGlobal() bool {
	return c == SeparationFromBed || c == UnstableFloatingPart || c == WeakObjectPart
}

// Valid reports whether c names a cause.
func (c Cause) Valid() bool {
	_, ok := causeNames[c]
	return ok
}

func (c Cause) String() string {
	if s, ok := causeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("cause(%d)", int(c))
}

// Description returns a human readable explanation.
func (c Cause) Description() string { return causeDescriptions[c] }

// MarshalText implements encoding.TextMarshaler.
func (c Cause) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid cause %d", int(c))
	}
	return []byte(causeNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cause) UnmarshalText(b []byte) error {
	for k, v := range causeNames {
		if v == string(b) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown cause %q", string(b))
}
