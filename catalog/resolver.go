// Package catalog resolves the immutable set of system dashboards from
// a generated template registry.
//
// Registry entries are normalized and deduplicated by key, with a fixed
// legacy fallback template appended for installations that predate the
// registry. The resolved set is an additive overlay on dynamically
// stored dashboards; the store's create path rejects dynamic keys that
// collide with a static one.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/xraph/dashcore/dashboard"
)

// DefaultTTL bounds the staleness of the resolved template set.
const DefaultTTL = 30 * time.Second

// Resolver normalizes registry templates into static dashboard
// definitions, caching the resolved set for a bounded time.
type Resolver struct {
	registry Registry
	ttl      time.Duration

	mu       sync.Mutex
	cached   []*dashboard.Definition
	byKey    map[string]*dashboard.Definition
	loadedAt time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTTL overrides the cache TTL. A zero or negative TTL disables
// caching so every call reloads the registry.
func WithTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.ttl = ttl
	}
}

// NewResolver returns a resolver over the given registry.
func NewResolver(registry Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		registry: registry,
		ttl:      DefaultTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StaticDashboards returns every resolved static dashboard, in
// registry order with the legacy fallback last. No two entries share
// a key. The returned definitions are shared and must not be mutated.
func (r *Resolver) StaticDashboards(ctx context.Context) ([]*dashboard.Definition, error) {
	defs, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dashboard.Definition, len(defs))
	copy(out, defs)
	return out, nil
}

// StaticDashboardsForPack filters the resolved set by pack. Pack-scoped
// entries match by exact pack name; global entries are included only
// when includeGlobal is true. An empty pack returns the full set.
func (r *Resolver) StaticDashboardsForPack(ctx context.Context, pack string, includeGlobal bool) ([]*dashboard.Definition, error) {
	p := strings.TrimSpace(pack)
	defs, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if p == "" {
		out := make([]*dashboard.Definition, len(defs))
		copy(out, defs)
		return out, nil
	}
	out := make([]*dashboard.Definition, 0, len(defs))
	for _, d := range defs {
		switch d.Scope.Kind {
		case dashboard.ScopePack:
			if d.Scope.Pack == p {
				out = append(out, d)
			}
		case dashboard.ScopeGlobal:
			if includeGlobal {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

// StaticDashboardByKey returns the static dashboard with the given key,
// or nil when no such template exists.
func (r *Resolver) StaticDashboardByKey(ctx context.Context, key string) (*dashboard.Definition, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return nil, nil
	}
	_, byKey, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return byKey[k], nil
}

// IsStaticKey reports whether key names a static dashboard.
func (r *Resolver) IsStaticKey(ctx context.Context, key string) (bool, error) {
	d, err := r.StaticDashboardByKey(ctx, key)
	if err != nil {
		return false, err
	}
	return d != nil, nil
}

func (r *Resolver) load(ctx context.Context) ([]*dashboard.Definition, map[string]*dashboard.Definition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && r.ttl > 0 && time.Since(r.loadedAt) < r.ttl {
		return r.cached, r.byKey, nil
	}

	templates, err := r.registry.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	byKey := make(map[string]*dashboard.Definition)
	defs := make([]*dashboard.Definition, 0, len(templates)+1)

	add := func(t Template) {
		d := normalizeTemplate(t, now)
		if d == nil {
			return
		}
		if _, exists := byKey[d.Key]; exists {
			return
		}
		byKey[d.Key] = d
		defs = append(defs, d)
	}

	for _, t := range templates {
		add(t)
	}
	add(legacyFallbackTemplate())

	r.cached = defs
	r.byKey = byKey
	r.loadedAt = now
	return defs, byKey, nil
}

// normalizeTemplate turns a raw registry record into a static dashboard
// definition. Records without a usable key or definition are dropped.
func normalizeTemplate(t Template, now time.Time) *dashboard.Definition {
	key := strings.TrimSpace(t.TemplateKey)
	if key == "" {
		key = strings.TrimSpace(t.Key)
	}
	if key == "" {
		return nil
	}

	pack := strings.TrimSpace(t.PackName)

	name := strings.TrimSpace(t.Title)
	if name == "" {
		name = strings.TrimSpace(t.Name)
	}
	if name == "" {
		name = key
	}

	description := ""
	if t.Description != nil {
		description = *t.Description
	}

	version := 0
	if t.Version != "" {
		if n, err := t.Version.Int64(); err == nil {
			version = int(n)
		} else if f, err := t.Version.Float64(); err == nil {
			version = int(f)
		}
	}

	// Templates default to public; dynamic dashboards default to private.
	visibility := dashboard.VisibilityPublic
	if t.Visibility != nil {
		visibility = dashboard.NormalizeVisibility(*t.Visibility)
	}

	def, err := dashboard.NormalizeDefinition(t.Definition)
	if err != nil {
		return nil
	}

	return &dashboard.Definition{
		Key:         key,
		OwnerUserID: dashboard.SystemOwner,
		IsSystem:    true,
		Name:        name,
		Description: description,
		Visibility:  visibility,
		Scope:       normalizeScope(t.Scope, pack),
		Version:     version,
		Definition:  def,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// normalizeScope resolves the scope variant: an explicit global wins,
// an explicit pack with a non-empty name wins, then the record's own
// pack name, then global.
func normalizeScope(raw map[string]any, fallbackPack string) dashboard.Scope {
	if raw != nil {
		kind, _ := raw["kind"].(string)
		switch strings.ToLower(strings.TrimSpace(kind)) {
		case "global":
			return dashboard.GlobalScope()
		case "pack":
			pack, _ := raw["pack"].(string)
			pack = strings.TrimSpace(pack)
			if pack == "" {
				pack = fallbackPack
			}
			if pack != "" {
				return dashboard.PackScope(pack)
			}
		}
	}
	if fallbackPack != "" {
		return dashboard.PackScope(fallbackPack)
	}
	return dashboard.GlobalScope()
}

// legacyFallbackTemplate is appended after registry entries for
// installations that predate the generated registry. A registry entry
// with the same key takes precedence.
func legacyFallbackTemplate() Template {
	description := "KPI-only dashboard that shows every project-scoped metric (summed across projects)."
	return Template{
		TemplateKey: "system.projects_kpi_catalog",
		PackName:    "projects",
		Title:       "All Project KPIs",
		Description: &description,
		Version:     "0",
		Definition: map[string]any{
			"time":   map[string]any{"mode": "picker", "default": "last_30_days"},
			"layout": map[string]any{"grid": map[string]any{"cols": 12, "rowHeight": 36, "gap": 14}},
			"widgets": []any{
				map[string]any{
					"key":   "kpi_catalog.project_metrics",
					"kind":  "kpi_catalog",
					"title": "All Metrics (Auto-scoped totals)",
					"grid":  map[string]any{"x": 0, "y": 0, "w": 12, "h": 8},
					"time":  "inherit",
					"presentation": map[string]any{
						"entityKind":     "auto",
						"owner":          map[string]any{"kind": "feature_pack", "id": "projects"},
						"onlyWithPoints": false,
					},
				},
			},
		},
	}
}
