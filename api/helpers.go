package api

import (
	"context"
	"errors"

	"github.com/xraph/forge"

	"github.com/xraph/dashcore"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return forge.NotFound(err.Error())
	}
	if isBadRequest(err) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, dashcore.ErrAccessDenied) || errors.Is(err, dashcore.ErrIdentityRequired) {
		return forge.Forbidden(err.Error())
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, dashcore.ErrDashboardNotFound) ||
		errors.Is(err, dashcore.ErrShareNotFound)
}

func isBadRequest(err error) bool {
	return errors.Is(err, dashcore.ErrMissingKey) ||
		errors.Is(err, dashcore.ErrMissingPrincipal) ||
		errors.Is(err, dashcore.ErrInvalidPrincipalType) ||
		errors.Is(err, dashcore.ErrInvalidDefinition) ||
		errors.Is(err, dashcore.ErrDuplicateKey) ||
		errors.Is(err, dashcore.ErrStaticKeyConflict) ||
		errors.Is(err, dashcore.ErrSystemImmutable) ||
		errors.Is(err, dashcore.ErrSelfShare)
}

// requestContext returns the request context with the caller identity
// attached. Middleware may have attached a richer identity already; the
// Forge user ID is the fallback.
func requestContext(ctx forge.Context) context.Context {
	rc := ctx.Context()
	if _, ok := dashcore.IdentityFromContext(rc); ok {
		return rc
	}
	if userID := forge.UserIDFromContext(rc); userID != "" {
		return dashcore.WithIdentity(rc, dashcore.Identity{SubjectID: userID})
	}
	return rc
}

// includeGlobal interprets the include_global query parameter.
// An absent parameter means global-scope entries are included.
func includeGlobal(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
