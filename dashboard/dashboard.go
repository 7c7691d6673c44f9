// Package dashboard defines the dashboard Definition entity and its
// store interface.
package dashboard

import (
	"strings"
	"time"

	"github.com/xraph/dashcore/id"
)

// Visibility controls who can see a dashboard.
type Visibility string

const (
	// VisibilityPublic dashboards are visible to all authenticated users.
	VisibilityPublic Visibility = "public"

	// VisibilityPrivate dashboards require ownership or an explicit share.
	VisibilityPrivate Visibility = "private"
)

// NormalizeVisibility coerces a raw value to a Visibility.
// Anything other than an explicit "public" (case-insensitive) is private.
func NormalizeVisibility(v string) Visibility {
	if strings.EqualFold(strings.TrimSpace(v), string(VisibilityPublic)) {
		return VisibilityPublic
	}
	return VisibilityPrivate
}

// ScopeKind discriminates the dashboard scope variant.
type ScopeKind string

const (
	// ScopeGlobal dashboards belong to the catalog-wide set.
	ScopeGlobal ScopeKind = "global"

	// ScopePack dashboards are bound to one feature pack.
	ScopePack ScopeKind = "pack"
)

// Scope is the tagged variant describing where a dashboard applies.
type Scope struct {
	Kind ScopeKind `json:"kind"`
	Pack string    `json:"pack,omitempty"`
}

// GlobalScope is the catalog-wide scope value.
func GlobalScope() Scope { return Scope{Kind: ScopeGlobal} }

// PackScope binds a dashboard to one feature pack.
func PackScope(pack string) Scope { return Scope{Kind: ScopePack, Pack: pack} }

// SystemOwner is the owner sentinel for static/system dashboards.
const SystemOwner = "system"

// Definition is a named, versioned dashboard configuration document.
type Definition struct {
	ID          id.DashboardID `json:"id" db:"id"`
	Key         string         `json:"key" db:"key"`
	OwnerUserID string         `json:"owner_user_id" db:"owner_user_id"`
	IsSystem    bool           `json:"is_system" db:"is_system"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description,omitempty" db:"description"`
	Visibility  Visibility     `json:"visibility" db:"visibility"`
	Scope       Scope          `json:"scope" db:"-"`
	Version     int            `json:"version" db:"version"`
	Definition  map[string]any `json:"definition" db:"-"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing dashboard definitions.
type ListFilter struct {
	OwnerUserID string      `json:"owner_user_id,omitempty"`
	IsSystem    *bool       `json:"is_system,omitempty"`
	Visibility  *Visibility `json:"visibility,omitempty"`
	Pack        string      `json:"pack,omitempty"`
	Search      string      `json:"search,omitempty"`
	Limit       int         `json:"limit,omitempty"`
	Offset      int         `json:"offset,omitempty"`
}
