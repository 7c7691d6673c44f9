// Package share defines the dashboard ACL Share entity and its store
// interface.
//
// A share grants one principal (user, group/role, or org unit) access
// to one dashboard. The tuple (dashboardID, principalType, principalID)
// is the row's identity: repeating a grant updates permission and audit
// fields instead of duplicating.
package share

import (
	"time"

	"github.com/xraph/dashcore/id"
)

// PrincipalType is the caller-supplied target kind of a share grant.
// It is persisted verbatim; Category collapses it to the ACL category
// used for permission checks.
type PrincipalType string

const (
	PrincipalUser       PrincipalType = "user"
	PrincipalGroup      PrincipalType = "group"
	PrincipalRole       PrincipalType = "role"
	PrincipalLocation   PrincipalType = "location"
	PrincipalDivision   PrincipalType = "division"
	PrincipalDepartment PrincipalType = "department"
)

// Category is the ACL category of a share target.
type Category string

const (
	// CategoryUser targets one user.
	CategoryUser Category = "user"

	// CategoryGroup targets a group or role. Groups carry no org-unit
	// mapping, so they are always treated as outside the caller's scope.
	CategoryGroup Category = "group"

	// CategoryLDD targets a location, division, or department.
	CategoryLDD Category = "ldd"
)

// Category maps the principal type to its ACL category.
// The second return is false for unknown principal types.
func (p PrincipalType) Category() (Category, bool) {
	switch p {
	case PrincipalUser:
		return CategoryUser, true
	case PrincipalGroup, PrincipalRole:
		return CategoryGroup, true
	case PrincipalLocation, PrincipalDivision, PrincipalDepartment:
		return CategoryLDD, true
	}
	return "", false
}

// Permission is the level of access a share grants.
type Permission string

const (
	// PermissionView allows viewing the dashboard.
	PermissionView Permission = "view"

	// PermissionFull allows viewing and editing.
	PermissionFull Permission = "full"
)

// NormalizePermission coerces a raw value to a Permission.
// Anything other than an explicit "full" is view.
func NormalizePermission(v string) Permission {
	if Permission(v) == PermissionFull {
		return PermissionFull
	}
	return PermissionView
}

// Share is an ACL grant attached to exactly one dashboard.
type Share struct {
	ID            id.ShareID     `json:"id" db:"id"`
	DashboardID   id.DashboardID `json:"dashboard_id" db:"dashboard_id"`
	PrincipalType PrincipalType  `json:"principal_type" db:"principal_type"`
	PrincipalID   string         `json:"principal_id" db:"principal_id"`
	Permission    Permission     `json:"permission" db:"permission"`
	SharedBy      string         `json:"shared_by" db:"shared_by"`
	SharedByName  string         `json:"shared_by_name,omitempty" db:"shared_by_name"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}
