package api

import (
	"time"

	"github.com/xraph/dashcore/dashboard"
)

// DashboardResponse is the wire form of a dashboard definition.
// Static catalog entries carry a synthetic "static:<key>" id; dynamic
// rows carry their stored TypeID.
type DashboardResponse struct {
	ID          string         `json:"id" description:"Dashboard ID (static entries use static:<key>)"`
	Key         string         `json:"key" description:"Unique dashboard key"`
	OwnerUserID string         `json:"owner_user_id" description:"Owner user ID (system for static entries)"`
	IsSystem    bool           `json:"is_system" description:"Static catalog entry flag"`
	Name        string         `json:"name" description:"Display name"`
	Description string         `json:"description,omitempty" description:"Human-readable description"`
	Visibility  string         `json:"visibility" description:"public or private"`
	Scope       map[string]any `json:"scope" description:"Scope variant (global or pack)"`
	Version     int            `json:"version" description:"Definition version"`
	Definition  map[string]any `json:"definition" description:"Normalized definition document"`
	CreatedAt   time.Time      `json:"created_at" description:"Creation time"`
	UpdatedAt   time.Time      `json:"updated_at" description:"Last update time"`
}

func toDashboardResponse(d *dashboard.Definition) *DashboardResponse {
	idStr := d.ID.String()
	if d.ID.IsNil() {
		idStr = "static:" + d.Key
	}

	scope := map[string]any{"kind": string(d.Scope.Kind)}
	if d.Scope.Pack != "" {
		scope["pack"] = d.Scope.Pack
	}

	return &DashboardResponse{
		ID:          idStr,
		Key:         d.Key,
		OwnerUserID: d.OwnerUserID,
		IsSystem:    d.IsSystem,
		Name:        d.Name,
		Description: d.Description,
		Visibility:  string(d.Visibility),
		Scope:       scope,
		Version:     d.Version,
		Definition:  d.Definition,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toDashboardResponses(defs []*dashboard.Definition) []*DashboardResponse {
	out := make([]*DashboardResponse, len(defs))
	for i, d := range defs {
		out[i] = toDashboardResponse(d)
	}
	return out
}

// ScopeModeResponse is the response for a scope-mode lookup.
type ScopeModeResponse struct {
	Verb   string `json:"verb" description:"Operation class"`
	Entity string `json:"entity" description:"Entity class"`
	Mode   string `json:"mode" description:"Resolved scope mode (none, own, ldd, all)"`
}

// ListResponse wraps a list of items with pagination metadata.
type ListResponse[T any] struct {
	Items  []T   `json:"items" description:"List of items"`
	Total  int64 `json:"total" description:"Total count"`
	Limit  int   `json:"limit" description:"Page size"`
	Offset int   `json:"offset" description:"Page offset"`
}
