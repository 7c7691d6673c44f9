package dashcore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/orgscope"
	"github.com/xraph/dashcore/share"
)

// CreateDashboardInput is the caller-supplied dashboard definition.
type CreateDashboardInput struct {
	Key         string `json:"key"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	Pack        string `json:"pack,omitempty"`
	Definition  any    `json:"definition,omitempty"`
}

// UpdateDashboardInput carries partial dashboard updates. Nil fields
// are left unchanged; a non-nil Definition bumps the version.
type UpdateDashboardInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Visibility  *string `json:"visibility,omitempty"`
	Definition  any     `json:"definition,omitempty"`
}

// CreateDashboard creates a dynamic dashboard owned by the caller.
// Keys reserved by the static catalog are rejected, so the static and
// dynamic key spaces never overlap.
func (e *Engine) CreateDashboard(ctx context.Context, in CreateDashboardInput) (*dashboard.Definition, error) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, ErrIdentityRequired
	}
	start := time.Now()

	key := strings.TrimSpace(in.Key)
	if key == "" {
		return nil, ErrMissingKey
	}

	mode, err := e.ResolveScopeMode(ctx, VerbWrite, EntityDashboards)
	if err != nil {
		e.audit(ctx, ident, VerbWrite, EntityDashboards, key, DecisionDenyUpstream, "authorization upstream unavailable", start)
		return nil, err
	}
	if mode == ModeNone {
		e.audit(ctx, ident, VerbWrite, EntityDashboards, key, DecisionDenyScopeNone, "write scope is none", start)
		return nil, fmt.Errorf("%w: write scope is none", ErrAccessDenied)
	}

	if e.catalog != nil {
		static, err := e.catalog.IsStaticKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("dashcore: catalog lookup: %w", err)
		}
		if static {
			return nil, ErrStaticKeyConflict
		}
	}
	existing, err := e.store.GetDashboardByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("dashcore: load dashboard: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateKey
	}

	def, err := dashboard.NormalizeDefinition(in.Definition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = key
	}
	scope := dashboard.GlobalScope()
	if pack := strings.TrimSpace(in.Pack); pack != "" {
		scope = dashboard.PackScope(pack)
	}
	now := time.Now().UTC()
	d := &dashboard.Definition{
		ID:          id.NewDashboardID(),
		Key:         key,
		OwnerUserID: ident.SubjectID,
		Name:        name,
		Description: in.Description,
		Visibility:  dashboard.NormalizeVisibility(in.Visibility),
		Scope:       scope,
		Version:     1,
		Definition:  def,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.store.CreateDashboard(ctx, d); err != nil {
		return nil, fmt.Errorf("dashcore: create dashboard: %w", err)
	}

	if e.plugins != nil {
		e.plugins.EmitDashboardCreated(ctx, d)
	}
	e.audit(ctx, ident, VerbWrite, EntityDashboards, key, DecisionAllow, "dashboard created", start)
	return d, nil
}

// GetDashboardByKey returns a single dashboard, static or dynamic.
// Static dashboards are readable under any mode above none. Dynamic
// dashboards under own or ldd require ownership, public visibility,
// or a share reaching the caller.
func (e *Engine) GetDashboardByKey(ctx context.Context, key string) (*dashboard.Definition, error) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, ErrIdentityRequired
	}

	k := strings.TrimSpace(key)
	if k == "" {
		return nil, ErrMissingKey
	}

	mode, err := e.ResolveScopeMode(ctx, VerbRead, EntityDashboards)
	if err != nil {
		return nil, err
	}
	if mode == ModeNone {
		return nil, fmt.Errorf("%w: read scope is none", ErrAccessDenied)
	}

	if e.catalog != nil {
		static, err := e.catalog.StaticDashboardByKey(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("dashcore: catalog lookup: %w", err)
		}
		if static != nil {
			return static, nil
		}
	}

	d, err := e.store.GetDashboardByKey(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("dashcore: load dashboard: %w", err)
	}
	if d == nil {
		return nil, ErrDashboardNotFound
	}

	if mode != ModeAll && !e.canReadDashboard(ctx, ident, d) {
		return nil, fmt.Errorf("%w: dashboard is not visible to caller", ErrAccessDenied)
	}
	return d, nil
}

// UpdateDashboard applies a partial update. System dashboards are
// immutable; under own or ldd mode only the owner may update.
func (e *Engine) UpdateDashboard(ctx context.Context, key string, in UpdateDashboardInput) (*dashboard.Definition, error) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, ErrIdentityRequired
	}
	start := time.Now()

	d, result, err := e.loadForMutation(ctx, ident, key, VerbWrite)
	if err != nil {
		if result.Decision != "" {
			e.audit(ctx, ident, VerbWrite, EntityDashboards, strings.TrimSpace(key), result.Decision, result.Reason, start)
		}
		return nil, err
	}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			d.Name = name
		}
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.Visibility != nil {
		d.Visibility = dashboard.NormalizeVisibility(*in.Visibility)
	}
	if in.Definition != nil {
		def, err := dashboard.NormalizeDefinition(in.Definition)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
		d.Definition = def
		d.Version++
	}
	d.UpdatedAt = time.Now().UTC()

	if err := e.store.UpdateDashboard(ctx, d); err != nil {
		return nil, fmt.Errorf("dashcore: update dashboard: %w", err)
	}

	if e.plugins != nil {
		e.plugins.EmitDashboardUpdated(ctx, d)
	}
	e.audit(ctx, ident, VerbWrite, EntityDashboards, d.Key, DecisionAllow, "dashboard updated", start)
	return d, nil
}

// DeleteDashboard removes a dynamic dashboard and cascades its shares.
func (e *Engine) DeleteDashboard(ctx context.Context, key string) error {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return ErrIdentityRequired
	}
	start := time.Now()

	d, result, err := e.loadForMutation(ctx, ident, key, VerbDelete)
	if err != nil {
		if result.Decision != "" {
			e.audit(ctx, ident, VerbDelete, EntityDashboards, strings.TrimSpace(key), result.Decision, result.Reason, start)
		}
		return err
	}

	if err := e.store.DeleteDashboard(ctx, d.ID); err != nil {
		return fmt.Errorf("dashcore: delete dashboard: %w", err)
	}

	if e.plugins != nil {
		e.plugins.EmitDashboardDeleted(ctx, d.ID)
	}
	e.audit(ctx, ident, VerbDelete, EntityDashboards, d.Key, DecisionAllow, "dashboard deleted", start)
	return nil
}

// ListDashboards lists dynamic dashboards visible to the caller. Under
// own or ldd mode the result is restricted to the caller's own rows
// plus public ones.
func (e *Engine) ListDashboards(ctx context.Context, filter *dashboard.ListFilter) ([]*dashboard.Definition, error) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, ErrIdentityRequired
	}

	mode, err := e.ResolveScopeMode(ctx, VerbRead, EntityDashboards)
	if err != nil {
		return nil, err
	}
	if mode == ModeNone {
		return nil, fmt.Errorf("%w: read scope is none", ErrAccessDenied)
	}

	if filter == nil {
		filter = &dashboard.ListFilter{}
	}
	defs, err := e.store.ListDashboards(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("dashcore: list dashboards: %w", err)
	}
	if mode == ModeAll {
		return defs, nil
	}

	visible := make([]*dashboard.Definition, 0, len(defs))
	for _, d := range defs {
		if d.OwnerUserID == ident.SubjectID || d.Visibility == dashboard.VisibilityPublic {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

// ListDashboardsForPack returns the union of the static catalog set
// and dynamic rows for a pack. Static entries come first and their
// keys are never overridden by dynamic rows.
func (e *Engine) ListDashboardsForPack(ctx context.Context, pack string, includeGlobal bool) ([]*dashboard.Definition, error) {
	var static []*dashboard.Definition
	if e.catalog != nil {
		var err error
		static, err = e.catalog.StaticDashboardsForPack(ctx, pack, includeGlobal)
		if err != nil {
			return nil, fmt.Errorf("dashcore: catalog: %w", err)
		}
	}

	dynamic, err := e.ListDashboards(ctx, &dashboard.ListFilter{})
	if err != nil {
		return nil, err
	}

	p := strings.TrimSpace(pack)
	seen := make(map[string]struct{}, len(static))
	out := make([]*dashboard.Definition, 0, len(static)+len(dynamic))
	for _, d := range static {
		seen[d.Key] = struct{}{}
		out = append(out, d)
	}
	for _, d := range dynamic {
		if _, ok := seen[d.Key]; ok {
			continue
		}
		if p != "" {
			switch d.Scope.Kind {
			case dashboard.ScopePack:
				if d.Scope.Pack != p {
					continue
				}
			case dashboard.ScopeGlobal:
				if !includeGlobal {
					continue
				}
			}
		}
		seen[d.Key] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// loadForMutation loads a dynamic dashboard and enforces the write or
// delete guard: system dashboards are immutable, mode none denies, and
// own or ldd mode requires ownership.
func (e *Engine) loadForMutation(ctx context.Context, ident Identity, key string, verb Verb) (*dashboard.Definition, AccessResult, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return nil, AccessResult{}, ErrMissingKey
	}

	if e.catalog != nil {
		static, err := e.catalog.IsStaticKey(ctx, k)
		if err != nil {
			return nil, AccessResult{}, fmt.Errorf("dashcore: catalog lookup: %w", err)
		}
		if static {
			return nil, AccessResult{}, ErrSystemImmutable
		}
	}

	d, err := e.store.GetDashboardByKey(ctx, k)
	if err != nil {
		return nil, AccessResult{}, fmt.Errorf("dashcore: load dashboard: %w", err)
	}
	if d == nil {
		return nil, AccessResult{}, ErrDashboardNotFound
	}
	if d.IsSystem {
		return nil, AccessResult{}, ErrSystemImmutable
	}

	mode, err := e.ResolveScopeMode(ctx, verb, EntityDashboards)
	if err != nil {
		return nil, AccessResult{Decision: DecisionDenyUpstream, Reason: "authorization upstream unavailable"}, err
	}
	if mode == ModeNone {
		result := AccessResult{Decision: DecisionDenyScopeNone, Mode: mode, Reason: string(verb) + " scope is none"}
		return nil, result, fmt.Errorf("%w: %s", ErrAccessDenied, result.Reason)
	}
	if mode != ModeAll && d.OwnerUserID != ident.SubjectID {
		result := AccessResult{Decision: DecisionDenyNotOwner, Mode: mode, Reason: "caller does not own this dashboard"}
		return nil, result, fmt.Errorf("%w: %s", ErrAccessDenied, result.Reason)
	}
	return d, AccessResult{Allowed: true, Decision: DecisionAllow, Mode: mode}, nil
}

// canReadDashboard reports whether a share or visibility rule makes a
// dynamic dashboard readable under a restricted mode.
func (e *Engine) canReadDashboard(ctx context.Context, ident Identity, d *dashboard.Definition) bool {
	if d.OwnerUserID == ident.SubjectID || d.Visibility == dashboard.VisibilityPublic {
		return true
	}

	shares, err := e.store.ListShares(ctx, d.ID)
	if err != nil || len(shares) == 0 {
		return false
	}

	var scope *orgscope.Scope
	for _, s := range shares {
		category, ok := s.PrincipalType.Category()
		if !ok {
			continue
		}
		switch category {
		case share.CategoryUser:
			if s.PrincipalID == ident.SubjectID {
				return true
			}
		case share.CategoryGroup:
			for _, g := range ident.Groups {
				if g == s.PrincipalID {
					return true
				}
			}
			for _, r := range ident.Roles {
				if r == s.PrincipalID {
					return true
				}
			}
		case share.CategoryLDD:
			if scope == nil {
				sc := e.resolveOrgScope(ctx, ident)
				scope = &sc
			}
			if unit, ok := orgscope.ParseUnitType(string(s.PrincipalType)); ok && scope.ContainsUnit(unit, s.PrincipalID) {
				return true
			}
		}
	}
	return false
}
