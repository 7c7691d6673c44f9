// Package authz defines the external authorization provider capability.
//
// The provider answers whether the current caller holds a dotted action
// key (e.g. "dashboard-core.dashboards.write.scope.own"). Callers must
// treat any provider error — timeout, transport failure, malformed
// response — as "not granted" (fail closed), never as a grant.
package authz

import "context"

// Result is the outcome of a single action-key check.
type Result struct {
	// Granted reports whether the caller holds the action key.
	Granted bool `json:"granted"`

	// Source identifies what produced the decision (role name, grant
	// rule, provider tag). Informational only.
	Source string `json:"source,omitempty"`
}

// Provider answers action-key permission checks for the current caller.
//
// A non-nil error means the provider could not produce a decision; the
// zero Result it accompanies is never a grant. Implementations must not
// retry transparently — retry policy belongs to the client wrapper.
type Provider interface {
	Check(ctx context.Context, actionKey string) (Result, error)
}

// Static is a fixed-grant Provider backed by a set of action keys.
// Intended for tests and development.
type Static struct {
	granted map[string]struct{}
	source  string
}

// NewStatic creates a Static provider granting exactly the given keys.
func NewStatic(keys ...string) *Static {
	g := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		g[k] = struct{}{}
	}
	return &Static{granted: g, source: "static"}
}

// Grant adds action keys to the granted set.
func (s *Static) Grant(keys ...string) {
	for _, k := range keys {
		s.granted[k] = struct{}{}
	}
}

// Revoke removes action keys from the granted set.
func (s *Static) Revoke(keys ...string) {
	for _, k := range keys {
		delete(s.granted, k)
	}
}

// Check reports whether the key is in the granted set.
func (s *Static) Check(_ context.Context, actionKey string) (Result, error) {
	if _, ok := s.granted[actionKey]; ok {
		return Result{Granted: true, Source: s.source}, nil
	}
	return Result{}, nil
}
