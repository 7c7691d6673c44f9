// Package middleware provides HTTP scope-enforcement middleware for dashcore.
package middleware

import (
	"context"
	"encoding/json"

	"github.com/xraph/forge"

	"github.com/xraph/dashcore"
)

// AdminRole is the role name that bypasses scope enforcement.
const AdminRole = "admin"

// RequireScope enforces a minimum scope mode for a verb on an entity.
// It resolves the caller from the request context (attached identity >
// Forge user > anonymous) and denies when the resolved mode is none.
// Callers carrying the admin role bypass the probe entirely.
func RequireScope(eng *dashcore.Engine, verb dashcore.Verb, entity dashcore.Entity) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			rc, ident, ok := resolveIdentity(ctx)
			if !ok {
				return denyResponse(ctx)
			}
			if ident.HasRole(AdminRole) {
				return next(ctx)
			}

			mode, err := eng.ResolveScopeMode(rc, verb, entity)
			if err != nil || mode == dashcore.ModeNone {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireAction allows the request only when a single raw action key is
// granted to the caller. Probe failures deny.
func RequireAction(eng *dashcore.Engine, actionKey string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			rc, ident, ok := resolveIdentity(ctx)
			if !ok {
				return denyResponse(ctx)
			}
			if ident.HasRole(AdminRole) {
				return next(ctx)
			}

			granted, err := eng.CheckAction(rc, actionKey)
			if err != nil || !granted {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// resolveIdentity extracts the caller identity from context.
// Priority: attached dashcore identity → Forge user ID → anonymous (denied).
func resolveIdentity(ctx forge.Context) (context.Context, dashcore.Identity, bool) {
	rc := ctx.Context()
	if ident, ok := dashcore.IdentityFromContext(rc); ok {
		return rc, ident, true
	}
	if userID := forge.UserIDFromContext(rc); userID != "" {
		ident := dashcore.Identity{SubjectID: userID}
		return dashcore.WithIdentity(rc, ident), ident, true
	}
	return rc, dashcore.Identity{}, false
}

func denyResponse(ctx forge.Context) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(403)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": "access denied"})
}
