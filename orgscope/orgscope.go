// Package orgscope defines the organizational-unit scoping capability.
//
// A caller's org scope is the set of locations, divisions, and
// departments they may act within. Sharing a dashboard with a principal
// outside that scope requires an extra grant, so scope membership is
// part of every share-target validation.
package orgscope

import "context"

// UnitType names an organizational unit kind.
type UnitType string

const (
	// UnitLocation is a physical or logical site.
	UnitLocation UnitType = "location"

	// UnitDivision is a business division.
	UnitDivision UnitType = "division"

	// UnitDepartment is a department within a division.
	UnitDepartment UnitType = "department"
)

// ParseUnitType maps a principal type string to a UnitType.
func ParseUnitType(s string) (UnitType, bool) {
	switch UnitType(s) {
	case UnitLocation, UnitDivision, UnitDepartment:
		return UnitType(s), true
	}
	return "", false
}

// Scope is the resolved set of org units a caller may act within.
// The zero value is the empty scope: nothing is inside it.
type Scope struct {
	LocationIDs   []string `json:"location_ids,omitempty"`
	DivisionIDs   []string `json:"division_ids,omitempty"`
	DepartmentIDs []string `json:"department_ids,omitempty"`
}

// ContainsUnit reports whether the given org unit is inside the scope.
func (s Scope) ContainsUnit(unitType UnitType, unitID string) bool {
	var ids []string
	switch unitType {
	case UnitLocation:
		ids = s.LocationIDs
	case UnitDivision:
		ids = s.DivisionIDs
	case UnitDepartment:
		ids = s.DepartmentIDs
	default:
		return false
	}
	for _, v := range ids {
		if v == unitID {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the scope contains no units.
func (s Scope) IsEmpty() bool {
	return len(s.LocationIDs) == 0 && len(s.DivisionIDs) == 0 && len(s.DepartmentIDs) == 0
}

// Identity carries the caller attributes the resolver needs.
type Identity struct {
	SubjectID string
	Groups    []string
}

// Resolver resolves a caller's org scope and answers user membership.
//
// An error from either method means the upstream directory was
// unreachable; callers must treat that as the empty scope (fail
// closed), never as universal membership.
type Resolver interface {
	// ResolveScope returns the org units the identity may act within.
	ResolveScope(ctx context.Context, ident Identity) (Scope, error)

	// IsUserInScope reports whether the given user belongs to any unit
	// of the scope.
	IsUserInScope(ctx context.Context, userID string, scope Scope) (bool, error)
}
