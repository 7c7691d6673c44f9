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

// AddShareInput is the caller-supplied share grant.
type AddShareInput struct {
	PrincipalType string `json:"principal_type"`
	PrincipalID   string `json:"principal_id"`
	Permission    string `json:"permission,omitempty"`
}

// ListShares returns the shares of a dashboard. Share management is
// owner-exclusive: any caller whose write scope is none, or who does
// not own the dashboard, is denied.
func (e *Engine) ListShares(ctx context.Context, dashboardKey string) ([]*share.Share, error) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, ErrIdentityRequired
	}
	start := time.Now()

	key := strings.TrimSpace(dashboardKey)
	if key == "" {
		return nil, ErrMissingKey
	}

	d, err := e.store.GetDashboardByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("dashcore: load dashboard: %w", err)
	}
	if d == nil {
		return nil, ErrDashboardNotFound
	}

	if result := e.authorizeShareAccess(ctx, ident, d); !result.Allowed {
		e.audit(ctx, ident, VerbWrite, EntityDashboards, key, result.Decision, result.Reason, start)
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, result.Reason)
	}

	shares, err := e.store.ListShares(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("dashcore: list shares: %w", err)
	}
	return shares, nil
}

// AddShare grants a principal access to a dashboard. A repeat grant
// for the same (principalType, principalID) tuple updates permission
// and the shared-by audit fields, leaving id and createdAt untouched.
func (e *Engine) AddShare(ctx context.Context, dashboardKey string, in AddShareInput) (*share.Share, error) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, ErrIdentityRequired
	}
	start := time.Now()

	key := strings.TrimSpace(dashboardKey)
	if key == "" {
		return nil, ErrMissingKey
	}
	principalType := share.PrincipalType(strings.TrimSpace(in.PrincipalType))
	principalID := strings.TrimSpace(in.PrincipalID)
	if principalType == "" || principalID == "" {
		return nil, ErrMissingPrincipal
	}
	category, ok := principalType.Category()
	if !ok {
		return nil, ErrInvalidPrincipalType
	}
	permission := share.NormalizePermission(strings.ToLower(strings.TrimSpace(in.Permission)))

	// Target validation runs before the ownership check, independently.
	if result := e.authorizeShareTarget(ctx, ident, category, principalType, principalID); !result.Allowed {
		e.audit(ctx, ident, VerbWrite, EntityDashboards, key, result.Decision, result.Reason, start)
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, result.Reason)
	}

	d, err := e.store.GetDashboardByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("dashcore: load dashboard: %w", err)
	}
	if d == nil {
		return nil, ErrDashboardNotFound
	}

	if result := e.authorizeShareAccess(ctx, ident, d); !result.Allowed {
		e.audit(ctx, ident, VerbWrite, EntityDashboards, key, result.Decision, result.Reason, start)
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, result.Reason)
	}

	if category == share.CategoryUser && principalID == ident.SubjectID {
		e.audit(ctx, ident, VerbWrite, EntityDashboards, key, DecisionDenySelfShare, "share target is the caller", start)
		return nil, ErrSelfShare
	}

	s := &share.Share{
		ID:            id.NewShareID(),
		DashboardID:   d.ID,
		PrincipalType: principalType,
		PrincipalID:   principalID,
		Permission:    permission,
		SharedBy:      ident.SubjectID,
		SharedByName:  ident.DisplayName(),
		CreatedAt:     time.Now().UTC(),
	}
	out, err := e.store.UpsertShare(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("dashcore: upsert share: %w", err)
	}

	if e.plugins != nil {
		e.plugins.EmitShareCreated(ctx, out)
	}
	e.audit(ctx, ident, VerbWrite, EntityDashboards, key, DecisionAllow, "share granted to "+string(principalType)+" "+principalID, start)
	return out, nil
}

// RemoveShare deletes a share by its exact (principalType, principalID)
// tuple. A missing tuple is ErrShareNotFound, not a silent success.
func (e *Engine) RemoveShare(ctx context.Context, dashboardKey, principalType, principalID string) error {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return ErrIdentityRequired
	}
	start := time.Now()

	key := strings.TrimSpace(dashboardKey)
	if key == "" {
		return ErrMissingKey
	}
	pt := share.PrincipalType(strings.TrimSpace(principalType))
	pid := strings.TrimSpace(principalID)
	if pt == "" || pid == "" {
		return ErrMissingPrincipal
	}

	d, err := e.store.GetDashboardByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("dashcore: load dashboard: %w", err)
	}
	if d == nil {
		return ErrDashboardNotFound
	}

	if result := e.authorizeShareAccess(ctx, ident, d); !result.Allowed {
		e.audit(ctx, ident, VerbWrite, EntityDashboards, key, result.Decision, result.Reason, start)
		return fmt.Errorf("%w: %s", ErrAccessDenied, result.Reason)
	}

	deleted, err := e.store.DeleteShare(ctx, d.ID, pt, pid)
	if err != nil {
		return fmt.Errorf("dashcore: delete share: %w", err)
	}
	if deleted == 0 {
		return ErrShareNotFound
	}

	if e.plugins != nil {
		e.plugins.EmitShareDeleted(ctx, d.ID, pt, pid)
	}
	e.audit(ctx, ident, VerbWrite, EntityDashboards, key, DecisionAllow, "share removed from "+string(pt)+" "+pid, start)
	return nil
}

// authorizeShareAccess enforces the owner-only share-management rule.
// Share management always requires write-level scope, regardless of
// the surrounding operation's verb. Under own, ldd, and all alike only
// the owner may manage shares; none blocks everyone including the
// owner. The ldd collapse to an ownership match is intentional:
// dashboards carry no organizational-unit fields of their own.
func (e *Engine) authorizeShareAccess(ctx context.Context, ident Identity, d *dashboard.Definition) AccessResult {
	mode, err := e.ResolveScopeMode(ctx, VerbWrite, EntityDashboards)
	if err != nil {
		return AccessResult{Decision: DecisionDenyUpstream, Mode: mode, Reason: "authorization upstream unavailable"}
	}
	if mode == ModeNone {
		return AccessResult{Decision: DecisionDenyScopeNone, Mode: mode, Reason: "write scope is none"}
	}
	if d.OwnerUserID != ident.SubjectID {
		return AccessResult{Decision: DecisionDenyNotOwner, Mode: mode, Reason: "only the dashboard owner may manage shares"}
	}
	return AccessResult{Allowed: true, Decision: DecisionAllow, Mode: mode}
}

// authorizeShareTarget validates a share target: the fine-grained
// category grant is always required, and targets outside the caller's
// organizational scope additionally require the share_outside grant.
// Groups and roles have no org-unit mapping and are always treated as
// outside.
func (e *Engine) authorizeShareTarget(ctx context.Context, ident Identity, category share.Category, principalType share.PrincipalType, principalID string) AccessResult {
	granted, err := e.resolver.CheckAction(ctx, ShareActionKey(category))
	if err != nil || !granted {
		return AccessResult{Decision: DecisionDenyShareCategory, Reason: "missing share grant for category " + string(category)}
	}

	outside := true
	switch category {
	case share.CategoryGroup:
		// Always outside.
	case share.CategoryUser:
		scope := e.resolveOrgScope(ctx, ident)
		if e.orgResolver != nil {
			inScope, err := e.orgResolver.IsUserInScope(ctx, principalID, scope)
			if err == nil && inScope {
				outside = false
			}
		}
	case share.CategoryLDD:
		scope := e.resolveOrgScope(ctx, ident)
		if unit, ok := orgscope.ParseUnitType(string(principalType)); ok && scope.ContainsUnit(unit, principalID) {
			outside = false
		}
	}

	if outside {
		granted, err := e.resolver.CheckAction(ctx, ShareOutsideActionKey)
		if err != nil || !granted {
			return AccessResult{Decision: DecisionDenyShareOutside, Reason: "target is outside caller scope and share_outside is not granted"}
		}
	}
	return AccessResult{Allowed: true, Decision: DecisionAllow}
}
