package dashcore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xraph/dashcore/auditlog"
	"github.com/xraph/dashcore/authz"
	"github.com/xraph/dashcore/catalog"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/orgscope"
	"github.com/xraph/dashcore/plugin"
	"github.com/xraph/dashcore/store"
)

// Engine is the central access-control engine. It coordinates scope
// resolution, share ACL enforcement, and catalog merging, manages the
// store, and fires extension hooks.
type Engine struct {
	store       store.Store
	authorizer  authz.Provider
	orgResolver orgscope.Resolver
	catalog     *catalog.Resolver
	resolver    *ScopeResolver
	cache       Cache
	plugins     *plugin.Registry
	logger      *slog.Logger
	config      Config
}

// NewEngine creates a new dashcore engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("dashcore: store is required")
	}
	if e.authorizer == nil {
		return nil, errors.New("dashcore: authorization provider is required")
	}
	e.resolver = NewScopeResolver(e.authorizer, e.config.ProbeTimeout, e.logger)
	return e, nil
}

// Store returns the underlying composite store.
func (e *Engine) Store() store.Store { return e.store }

// Catalog returns the static catalog resolver (may be nil).
func (e *Engine) Catalog() *catalog.Resolver { return e.catalog }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start performs any startup initialization.
func (e *Engine) Start(ctx context.Context) error {
	if e.catalog != nil && e.plugins != nil {
		defs, err := e.catalog.StaticDashboards(ctx)
		if err == nil {
			e.plugins.EmitCatalogLoaded(ctx, defs)
		}
	}
	return nil
}

// Stop performs graceful shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// ResolveScopeMode resolves the caller's scope mode for a verb on an
// entity. This is the hot path. A systemic authorization-provider
// outage yields ModeNone with ErrUpstreamUnavailable.
func (e *Engine) ResolveScopeMode(ctx context.Context, verb Verb, entity Entity) (ScopeMode, error) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return ModeNone, ErrIdentityRequired
	}

	if e.cache != nil {
		if mode, ok := e.cache.Get(ctx, ident.SubjectID, verb, entity); ok {
			return mode, nil
		}
	}

	if e.plugins != nil {
		e.plugins.EmitBeforeResolve(ctx, ident.SubjectID, string(verb), string(entity))
	}

	mode, err := e.resolver.Resolve(ctx, verb, entity)
	if err != nil {
		return mode, err
	}

	if e.cache != nil {
		e.cache.Set(ctx, ident.SubjectID, verb, entity, mode)
	}
	if e.plugins != nil {
		e.plugins.EmitAfterResolve(ctx, ident.SubjectID, string(verb), string(entity), string(mode))
	}
	return mode, nil
}

// CheckAction reports whether a single raw action key is granted to
// the caller, fail closed.
func (e *Engine) CheckAction(ctx context.Context, actionKey string) (bool, error) {
	return e.resolver.CheckAction(ctx, actionKey)
}

// InvalidateSubject drops any cached scope modes for a subject. Call
// after the subject's grants change upstream.
func (e *Engine) InvalidateSubject(ctx context.Context, subjectID string) {
	if e.cache != nil {
		e.cache.InvalidateSubject(ctx, subjectID)
	}
}

// resolveOrgScope fetches the caller's organizational scope. A missing
// resolver or a resolution failure yields an empty scope, so every
// target is treated as outside and requires the share_outside grant.
func (e *Engine) resolveOrgScope(ctx context.Context, ident Identity) orgscope.Scope {
	if e.orgResolver == nil {
		return orgscope.Scope{}
	}
	scope, err := e.orgResolver.ResolveScope(ctx, orgscope.Identity{
		SubjectID: ident.SubjectID,
		Groups:    ident.Groups,
	})
	if err != nil {
		e.logger.Warn("org scope resolution failed, treating targets as outside scope",
			slog.String("subject_id", ident.SubjectID),
			slog.String("error", err.Error()),
		)
		return orgscope.Scope{}
	}
	return scope
}

// audit writes one decision record. Failures are logged, never fatal.
func (e *Engine) audit(ctx context.Context, ident Identity, verb Verb, entity Entity, dashboardKey string, decision Decision, reason string, start time.Time) {
	if !e.config.auditEnabled() {
		return
	}
	entry := &auditlog.Entry{
		ID:           id.NewAuditLogID(),
		SubjectID:    ident.SubjectID,
		Verb:         string(verb),
		Entity:       string(entity),
		DashboardKey: dashboardKey,
		Decision:     string(decision),
		Reason:       reason,
		EvalTimeNs:   time.Since(start).Nanoseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.store.CreateAuditLog(ctx, entry); err != nil {
		e.logger.Warn("audit log write failed",
			slog.String("subject_id", ident.SubjectID),
			slog.String("decision", string(decision)),
			slog.String("error", err.Error()),
		)
	}
}
