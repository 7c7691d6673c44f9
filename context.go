package dashcore

import (
	"context"

	"github.com/xraph/forge"
)

type contextKey int

const ctxKeyIdentity contextKey = iota

// WithIdentity returns a context carrying the acting identity.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, ident)
}

// IdentityFromContext extracts the acting identity. Falls back to the
// Forge user ID when no identity was attached explicitly (standalone
// subject with no roles or groups).
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ident, ok := ctx.Value(ctxKeyIdentity).(Identity); ok && ident.SubjectID != "" {
		return ident, true
	}
	if userID := forge.UserIDFromContext(ctx); userID != "" {
		return Identity{SubjectID: userID}, true
	}
	return Identity{}, false
}
