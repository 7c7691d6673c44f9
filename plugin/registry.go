package plugin

import (
	"context"
	"log/slog"

	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/share"
)

// Named entry types pair a hook with the plugin name for logging.

type beforeResolveEntry struct {
	name string
	hook BeforeResolve
}
type afterResolveEntry struct {
	name string
	hook AfterResolve
}
type shareCreatedEntry struct {
	name string
	hook ShareCreated
}
type shareDeletedEntry struct {
	name string
	hook ShareDeleted
}
type dashboardCreatedEntry struct {
	name string
	hook DashboardCreated
}
type dashboardUpdatedEntry struct {
	name string
	hook DashboardUpdated
}
type dashboardDeletedEntry struct {
	name string
	hook DashboardDeleted
}
type catalogLoadedEntry struct {
	name string
	hook CatalogLoaded
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeResolve    []beforeResolveEntry
	afterResolve     []afterResolveEntry
	shareCreated     []shareCreatedEntry
	shareDeleted     []shareDeletedEntry
	dashboardCreated []dashboardCreatedEntry
	dashboardUpdated []dashboardUpdatedEntry
	dashboardDeleted []dashboardDeletedEntry
	catalogLoaded    []catalogLoadedEntry
	shutdown         []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeResolve); ok {
		r.beforeResolve = append(r.beforeResolve, beforeResolveEntry{name, h})
	}
	if h, ok := p.(AfterResolve); ok {
		r.afterResolve = append(r.afterResolve, afterResolveEntry{name, h})
	}
	if h, ok := p.(ShareCreated); ok {
		r.shareCreated = append(r.shareCreated, shareCreatedEntry{name, h})
	}
	if h, ok := p.(ShareDeleted); ok {
		r.shareDeleted = append(r.shareDeleted, shareDeletedEntry{name, h})
	}
	if h, ok := p.(DashboardCreated); ok {
		r.dashboardCreated = append(r.dashboardCreated, dashboardCreatedEntry{name, h})
	}
	if h, ok := p.(DashboardUpdated); ok {
		r.dashboardUpdated = append(r.dashboardUpdated, dashboardUpdatedEntry{name, h})
	}
	if h, ok := p.(DashboardDeleted); ok {
		r.dashboardDeleted = append(r.dashboardDeleted, dashboardDeletedEntry{name, h})
	}
	if h, ok := p.(CatalogLoaded); ok {
		r.catalogLoaded = append(r.catalogLoaded, catalogLoadedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// EmitBeforeResolve notifies all plugins that implement BeforeResolve.
func (r *Registry) EmitBeforeResolve(ctx context.Context, subjectID, verb, entity string) {
	for _, e := range r.beforeResolve {
		if err := e.hook.OnBeforeResolve(ctx, subjectID, verb, entity); err != nil {
			r.logHookError("OnBeforeResolve", e.name, err)
		}
	}
}

// EmitAfterResolve notifies all plugins that implement AfterResolve.
func (r *Registry) EmitAfterResolve(ctx context.Context, subjectID, verb, entity, mode string) {
	for _, e := range r.afterResolve {
		if err := e.hook.OnAfterResolve(ctx, subjectID, verb, entity, mode); err != nil {
			r.logHookError("OnAfterResolve", e.name, err)
		}
	}
}

// EmitShareCreated notifies all plugins that implement ShareCreated.
func (r *Registry) EmitShareCreated(ctx context.Context, s *share.Share) {
	for _, e := range r.shareCreated {
		if err := e.hook.OnShareCreated(ctx, s); err != nil {
			r.logHookError("OnShareCreated", e.name, err)
		}
	}
}

// EmitShareDeleted notifies all plugins that implement ShareDeleted.
func (r *Registry) EmitShareDeleted(ctx context.Context, dashboardID id.DashboardID, principalType share.PrincipalType, principalID string) {
	for _, e := range r.shareDeleted {
		if err := e.hook.OnShareDeleted(ctx, dashboardID, principalType, principalID); err != nil {
			r.logHookError("OnShareDeleted", e.name, err)
		}
	}
}

// EmitDashboardCreated notifies all plugins that implement DashboardCreated.
func (r *Registry) EmitDashboardCreated(ctx context.Context, d *dashboard.Definition) {
	for _, e := range r.dashboardCreated {
		if err := e.hook.OnDashboardCreated(ctx, d); err != nil {
			r.logHookError("OnDashboardCreated", e.name, err)
		}
	}
}

// EmitDashboardUpdated notifies all plugins that implement DashboardUpdated.
func (r *Registry) EmitDashboardUpdated(ctx context.Context, d *dashboard.Definition) {
	for _, e := range r.dashboardUpdated {
		if err := e.hook.OnDashboardUpdated(ctx, d); err != nil {
			r.logHookError("OnDashboardUpdated", e.name, err)
		}
	}
}

// EmitDashboardDeleted notifies all plugins that implement DashboardDeleted.
func (r *Registry) EmitDashboardDeleted(ctx context.Context, dashboardID id.DashboardID) {
	for _, e := range r.dashboardDeleted {
		if err := e.hook.OnDashboardDeleted(ctx, dashboardID); err != nil {
			r.logHookError("OnDashboardDeleted", e.name, err)
		}
	}
}

// EmitCatalogLoaded notifies all plugins that implement CatalogLoaded.
func (r *Registry) EmitCatalogLoaded(ctx context.Context, defs []*dashboard.Definition) {
	for _, e := range r.catalogLoaded {
		if err := e.hook.OnCatalogLoaded(ctx, defs); err != nil {
			r.logHookError("OnCatalogLoaded", e.name, err)
		}
	}
}

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

func (r *Registry) logHookError(hook, plugin string, err error) {
	r.logger.Warn("plugin hook failed",
		slog.String("hook", hook),
		slog.String("plugin", plugin),
		slog.String("error", err.Error()),
	)
}
