package stability

import (
	"math"
	"strings"

	"github.com/matzehuels/stabilizer/pkg/errors"
)

// Params holds the physical constants and thresholds of the analysis.
// Units are millimetres, grams and seconds.
//
// The calibration fields at the end are empirically tuned and carry no
// physical derivation.
type Params struct {
	FilamentType string `toml:"filament_type" json:"filament_type"`

	Gravity               float64 `toml:"gravity" json:"gravity"`                                 // mm/s²
	FilamentDensity       float64 `toml:"filament_density" json:"filament_density"`               // g/mm³
	MaterialYieldStrength float64 `toml:"material_yield_strength" json:"material_yield_strength"` // inter-layer bond

	// BedAdhesionYieldStrength overrides the filament based default when positive.
	BedAdhesionYieldStrength float64 `toml:"bed_adhesion_yield_strength" json:"bed_adhesion_yield_strength,omitempty"`

	StandardExtruderConflictForce float64 `toml:"standard_extruder_conflict_force" json:"standard_extruder_conflict_force"`
	MalformationAdditiveForce     float64 `toml:"malformation_additive_force" json:"malformation_additive_force"`
	MaxAcceleration               float64 `toml:"max_acceleration" json:"max_acceleration"` // mm/s²

	BridgeDistance                  float64 `toml:"bridge_distance" json:"bridge_distance"`
	MinDistanceBetweenSupportPoints float64 `toml:"min_distance_between_support_points" json:"min_distance_between_support_points"`
	SupportPointsInterfaceRadius    float64 `toml:"support_points_interface_radius" json:"support_points_interface_radius"`

	// GridCellSize is the edge of a dedup voxel. Zero means
	// MinDistanceBetweenSupportPoints.
	GridCellSize float64 `toml:"grid_cell_size" json:"grid_cell_size,omitempty"`

	CurlingToleranceLimit       float64 `toml:"curling_tolerance_limit" json:"curling_tolerance_limit"`
	MalformationDistanceFactorA float64 `toml:"malformation_distance_factor_min" json:"malformation_distance_factor_min"`
	MalformationDistanceFactorB float64 `toml:"malformation_distance_factor_max" json:"malformation_distance_factor_max"`
	MaxCurledHeightFactor       float64 `toml:"max_curled_height_factor" json:"max_curled_height_factor"`

	// UseBrim adds brim polygons to the bed contact area.
	UseBrim bool `toml:"use_brim" json:"use_brim"`

	// Calibration constants.
	FreshConnectionDistance      float64 `toml:"fresh_connection_distance" json:"fresh_connection_distance"`
	WeightArmSuppressionDistance float64 `toml:"weight_arm_suppression_distance" json:"weight_arm_suppression_distance"`
	TippingSigmaFactor           float64 `toml:"tipping_sigma_factor" json:"tipping_sigma_factor"`
	LookaheadDistance            float64 `toml:"lookahead_distance" json:"lookahead_distance"`
	SupportedFlowFactor          float64 `toml:"supported_flow_factor" json:"supported_flow_factor"`
	UnsupportedFlowFactor        float64 `toml:"unsupported_flow_factor" json:"unsupported_flow_factor"`
	BridgeDirectionCosine        float64 `toml:"bridge_direction_cosine" json:"bridge_direction_cosine"`
	AnchorCurvature              float64 `toml:"anchor_curvature" json:"anchor_curvature"`
	FormQualityPenalty           float64 `toml:"form_quality_penalty" json:"form_quality_penalty"`
	CriticalLocalPointCount      int     `toml:"critical_local_point_count" json:"critical_local_point_count"`
}

// GravityConstant is standard gravity in mm/s².
const GravityConstant = 9806.65

// DefaultParams returns the reference parameter set.
func DefaultParams() Params {
	return Params{
		FilamentType:                    "PLA",
		Gravity:                         GravityConstant,
		FilamentDensity:                 1.25e-3,
		MaterialYieldStrength:           33e6,
		StandardExtruderConflictForce:   10 * GravityConstant,
		MalformationAdditiveForce:       65 * GravityConstant,
		MaxAcceleration:                 9000,
		BridgeDistance:                  16,
		MinDistanceBetweenSupportPoints: 3,
		SupportPointsInterfaceRadius:    1.5,
		CurlingToleranceLimit:           0.1,
		MalformationDistanceFactorA:     0.2,
		MalformationDistanceFactorB:     1.1,
		MaxCurledHeightFactor:           10,
		UseBrim:                         true,
		FreshConnectionDistance:         3,
		WeightArmSuppressionDistance:    30,
		TippingSigmaFactor:              2,
		LookaheadDistance:               300,
		SupportedFlowFactor:             0.8,
		UnsupportedFlowFactor:           1.2,
		BridgeDirectionCosine:           0.8,
		AnchorCurvature:                 0.1,
		FormQualityPenalty:              0.3,
		CriticalLocalPointCount:         3,
	}
}

// BedAdhesion returns the bed adhesion yield strength for the filament.
func (p Params) BedAdhesion() float64 {
	if p.BedAdhesionYieldStrength > 0 {
		return p.BedAdhesionYieldStrength
	}
	switch strings.ToUpper(p.FilamentType) {
	case "PLA":
		return 0.018e6
	case "PET", "PETG":
		return 0.3e6
	default:
		return 0.1e6
	}
}

// CellSize returns the dedup voxel edge.
func (p Params) CellSize() float64 {
	if p.GridCellSize > 0 {
		return p.GridCellSize
	}
	return p.MinDistanceBetweenSupportPoints
}

// SpotArea is the bed contact area a single support point contributes.
func (p Params) SpotArea() float64 {
	r := p.SupportPointsInterfaceRadius
	return r * r * math.Pi
}

// Validate rejects parameter sets the analysis cannot run with.
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"gravity", p.Gravity},
		{"filament_density", p.FilamentDensity},
		{"material_yield_strength", p.MaterialYieldStrength},
		{"max_acceleration", p.MaxAcceleration},
		{"bridge_distance", p.BridgeDistance},
		{"min_distance_between_support_points", p.MinDistanceBetweenSupportPoints},
		{"support_points_interface_radius", p.SupportPointsInterfaceRadius},
		{"max_curled_height_factor", p.MaxCurledHeightFactor},
		{"lookahead_distance", p.LookaheadDistance},
		{"supported_flow_factor", p.SupportedFlowFactor},
		{"unsupported_flow_factor", p.UnsupportedFlowFactor},
		{"tipping_sigma_factor", p.TippingSigmaFactor},
	}
	for _, f := range positive {
		if err := errors.ValidatePositive(f.name, f.v); err != nil {
			return err
		}
	}
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"bed_adhesion_yield_strength", p.BedAdhesionYieldStrength},
		{"grid_cell_size", p.GridCellSize},
		{"standard_extruder_conflict_force", p.StandardExtruderConflictForce},
		{"malformation_additive_force", p.MalformationAdditiveForce},
		{"curling_tolerance_limit", p.CurlingToleranceLimit},
		{"fresh_connection_distance", p.FreshConnectionDistance},
		{"weight_arm_suppression_distance", p.WeightArmSuppressionDistance},
		{"anchor_curvature", p.AnchorCurvature},
		{"form_quality_penalty", p.FormQualityPenalty},
	}
	for _, f := range nonNegative {
		if err := errors.ValidateNonNegative(f.name, f.v); err != nil {
			return err
		}
	}
	if p.SupportedFlowFactor > p.UnsupportedFlowFactor {
		return errors.New(errors.ErrCodeInvalidParams, "supported_flow_factor %v exceeds unsupported_flow_factor %v",
			p.SupportedFlowFactor, p.UnsupportedFlowFactor)
	}
	if p.MalformationDistanceFactorA >= p.MalformationDistanceFactorB {
		return errors.New(errors.ErrCodeInvalidParams, "malformation distance factors must be increasing, got %v and %v",
			p.MalformationDistanceFactorA, p.MalformationDistanceFactorB)
	}
	if err := errors.ValidateRange("bridge_direction_cosine", p.BridgeDirectionCosine, -1, 1); err != nil {
		return err
	}
	if p.CriticalLocalPointCount < 1 {
		return errors.New(errors.ErrCodeInvalidParams, "critical_local_point_count must be at least 1")
	}
	return nil
}
