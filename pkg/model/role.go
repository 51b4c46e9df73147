package model

// Role classifies an extrusion path.
type Role string

// Extrusion roles.
const (
	RolePerimeter         Role = "perimeter"
	RoleExternalPerimeter Role = "external_perimeter"
	RoleOverhangPerimeter Role = "overhang_perimeter"
	RoleInternalInfill    Role = "internal_infill"
	RoleSolidInfill       Role = "solid_infill"
	RoleTopSolidInfill    Role = "top_solid_infill"
	RoleBridgeInfill      Role = "bridge_infill"
	RoleGapFill           Role = "gap_fill"
	RoleSkirt             Role = "skirt"
	RoleSupportMaterial   Role = "support_material"
)

var knownRoles = map[Role]bool{
	RolePerimeter:         true,
	RoleExternalPerimeter: true,
	RoleOverhangPerimeter: true,
	RoleInternalInfill:    true,
	RoleSolidInfill:       true,
	RoleTopSolidInfill:    true,
	RoleBridgeInfill:      true,
	RoleGapFill:           true,
	RoleSkirt:             true,
	RoleSupportMaterial:   true,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return knownRoles[r] }

// IsBridge reports whether the path is printed over air on purpose.
// Overhang perimeters span gaps the same way bridge infill does.
func (r Role) IsBridge() bool { return r == RoleBridgeInfill || r == RoleOverhangPerimeter }

// IsExternalPerimeter reports whether the path is the outer wall.
func (r Role) IsExternalPerimeter() bool { return r == RoleExternalPerimeter }

// IsPerimeter reports whether the path is any wall loop.
func (r Role) IsPerimeter() bool {
	return r == RolePerimeter || r == RoleExternalPerimeter || r == RoleOverhangPerimeter
}

// IsObject reports whether the path belongs to the printed object rather
// than to skirt or support structures.
func (r Role) IsObject() bool {
	return r != RoleSkirt && r != RoleSupportMaterial
}
