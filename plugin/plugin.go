// Package plugin defines the plugin system for dashcore.
// Plugins are notified of lifecycle events (scope mode resolved, share
// created, dashboard deleted, etc.) and can react — logging, metrics,
// tracing, etc.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/share"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Scope-resolution lifecycle hooks
// ──────────────────────────────────────────────────

// BeforeResolve is called before a scope mode is resolved.
// verb and entity are the raw string forms (passed as strings to avoid
// an import cycle with the engine package).
type BeforeResolve interface {
	OnBeforeResolve(ctx context.Context, subjectID, verb, entity string) error
}

// AfterResolve is called after a scope mode resolves.
type AfterResolve interface {
	OnAfterResolve(ctx context.Context, subjectID, verb, entity, mode string) error
}

// ──────────────────────────────────────────────────
// Share lifecycle hooks
// ──────────────────────────────────────────────────

// ShareCreated is called after a share is created or its grant updated.
type ShareCreated interface {
	OnShareCreated(ctx context.Context, s *share.Share) error
}

// ShareDeleted is called after a share is removed.
type ShareDeleted interface {
	OnShareDeleted(ctx context.Context, dashboardID id.DashboardID, principalType share.PrincipalType, principalID string) error
}

// ──────────────────────────────────────────────────
// Dashboard lifecycle hooks
// ──────────────────────────────────────────────────

// DashboardCreated is called after a dashboard is created.
type DashboardCreated interface {
	OnDashboardCreated(ctx context.Context, d *dashboard.Definition) error
}

// DashboardUpdated is called after a dashboard is updated.
type DashboardUpdated interface {
	OnDashboardUpdated(ctx context.Context, d *dashboard.Definition) error
}

// DashboardDeleted is called after a dashboard is deleted.
type DashboardDeleted interface {
	OnDashboardDeleted(ctx context.Context, dashboardID id.DashboardID) error
}

// ──────────────────────────────────────────────────
// Catalog lifecycle hooks
// ──────────────────────────────────────────────────

// CatalogLoaded is called after the static catalog is (re)loaded.
type CatalogLoaded interface {
	OnCatalogLoaded(ctx context.Context, defs []*dashboard.Definition) error
}

// ──────────────────────────────────────────────────
// Shutdown hook
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
