package api

// ──────────────────────────────────────────────────
// Scope requests
// ──────────────────────────────────────────────────

// ResolveScopeModeRequest holds query parameters for a scope-mode lookup.
type ResolveScopeModeRequest struct {
	Verb   string `query:"verb" description:"Operation class (read, write, delete)"`
	Entity string `query:"entity" description:"Entity class (default: dashboards)"`
}

// ──────────────────────────────────────────────────
// Dashboard requests
// ──────────────────────────────────────────────────

// CreateDashboardRequest is the body for creating a dashboard.
type CreateDashboardRequest struct {
	Key         string `json:"key" description:"Unique dashboard key"`
	Name        string `json:"name,omitempty" description:"Display name (defaults to key)"`
	Description string `json:"description,omitempty" description:"Human-readable description"`
	Visibility  string `json:"visibility,omitempty" description:"public or private (default: private)"`
	Pack        string `json:"pack,omitempty" description:"Feature pack the dashboard belongs to"`
	Definition  any    `json:"definition,omitempty" description:"Dashboard definition document"`
}

// UpdateDashboardRequest is the body for updating a dashboard.
type UpdateDashboardRequest struct {
	Name        *string `json:"name,omitempty" description:"Display name"`
	Description *string `json:"description,omitempty" description:"Human-readable description"`
	Visibility  *string `json:"visibility,omitempty" description:"public or private"`
	Definition  any     `json:"definition,omitempty" description:"Replacement definition document (bumps version)"`
}

// GetDashboardRequest is the path parameter for getting a dashboard.
type GetDashboardRequest struct {
	Key string `path:"key" description:"Dashboard key"`
}

// ListDashboardsRequest holds query parameters for listing dashboards.
type ListDashboardsRequest struct {
	Owner      string `query:"owner" description:"Filter by owner user ID"`
	Visibility string `query:"visibility" description:"Filter by visibility (public/private)"`
	Pack       string `query:"pack" description:"Filter by feature pack"`
	Search     string `query:"search" description:"Search by name or key"`
	Limit      int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset     int    `query:"offset" description:"Results to skip"`
}

// ListPackDashboardsRequest holds parameters for the merged pack listing.
type ListPackDashboardsRequest struct {
	Pack          string `path:"pack" description:"Feature pack name"`
	IncludeGlobal *bool  `query:"include_global" description:"Include catalog-wide dashboards (default: true)"`
}

// ──────────────────────────────────────────────────
// Catalog requests
// ──────────────────────────────────────────────────

// ListCatalogRequest holds query parameters for listing static dashboards.
type ListCatalogRequest struct {
	Pack          string `query:"pack" description:"Filter by feature pack"`
	IncludeGlobal *bool  `query:"include_global" description:"Include catalog-wide dashboards when filtering by pack (default: true)"`
}

// GetCatalogDashboardRequest is the path parameter for a static lookup.
type GetCatalogDashboardRequest struct {
	Key string `path:"key" description:"Static dashboard key"`
}

// ──────────────────────────────────────────────────
// Share requests
// ──────────────────────────────────────────────────

// AddShareRequest is the body for granting a share.
type AddShareRequest struct {
	PrincipalType string `json:"principal_type" description:"Principal type (user, group, role, location, division, department)"`
	PrincipalID   string `json:"principal_id" description:"Principal identifier"`
	Permission    string `json:"permission,omitempty" description:"view or full (default: view)"`
}

// ListSharesRequest is the path parameter for listing shares.
type ListSharesRequest struct {
	Key string `path:"key" description:"Dashboard key"`
}

// RemoveShareRequest holds path parameters for revoking a share.
type RemoveShareRequest struct {
	Key           string `path:"key" description:"Dashboard key"`
	PrincipalType string `path:"principalType" description:"Principal type"`
	PrincipalID   string `path:"principalId" description:"Principal identifier"`
}

// ──────────────────────────────────────────────────
// Audit log requests
// ──────────────────────────────────────────────────

// ListAuditLogsRequest holds query parameters for querying audit logs.
type ListAuditLogsRequest struct {
	SubjectID    string `query:"subject_id" description:"Filter by subject ID"`
	Verb         string `query:"verb" description:"Filter by verb"`
	Entity       string `query:"entity" description:"Filter by entity"`
	DashboardKey string `query:"dashboard_key" description:"Filter by dashboard key"`
	Decision     string `query:"decision" description:"Filter by decision"`
	After        string `query:"after" description:"After timestamp (RFC3339)"`
	Before       string `query:"before" description:"Before timestamp (RFC3339)"`
	Limit        int    `query:"limit" description:"Maximum results"`
	Offset       int    `query:"offset" description:"Results to skip"`
}
