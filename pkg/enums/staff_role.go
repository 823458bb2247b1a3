package enums

import "fmt"

// StaffRole gates route groups per production station.
type StaffRole string

const (
	StaffRoleAdmin       StaffRole = "admin"
	StaffRoleCS          StaffRole = "cs"
	StaffRolePrint       StaffRole = "print"
	StaffRoleQCLine      StaffRole = "qc_line"
	StaffRoleQCCutting   StaffRole = "qc_cutting"
	StaffRoleQCFinishing StaffRole = "qc_finishing"
	StaffRoleWarehouse   StaffRole = "warehouse"
	StaffRoleLeader      StaffRole = "leader"
)

var validStaffRoles = []StaffRole{
	StaffRoleAdmin,
	StaffRoleCS,
	StaffRolePrint,
	StaffRoleQCLine,
	StaffRoleQCCutting,
	StaffRoleQCFinishing,
	StaffRoleWarehouse,
	StaffRoleLeader,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
