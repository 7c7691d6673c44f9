package dashcore

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/dashcore/authz"
)

// ScopeResolver resolves the effective scope mode for a (verb, entity)
// pair by probing the authorization provider over a fixed key lattice:
//
//   - entity override: dashboard-core.{entity}.{verb}.scope.{mode}
//   - pack-wide default: dashboard-core.{verb}.scope.{mode}
//   - fallback: own
//
// Probes run in restrictiveness order (none, own, ldd, all); when
// multiple modes are granted the most restrictive one wins. A probe
// that errors or times out counts as not granted. When every probe
// fails to reach the provider the resolver returns ModeNone with
// ErrUpstreamUnavailable so callers can distinguish "denied by policy"
// from "policy engine unreachable".
type ScopeResolver struct {
	authorizer   authz.Provider
	probeTimeout time.Duration
	logger       *slog.Logger
}

// NewScopeResolver builds a resolver over the given provider. A zero
// probeTimeout leaves probe deadlines to the caller's context.
func NewScopeResolver(p authz.Provider, probeTimeout time.Duration, logger *slog.Logger) *ScopeResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScopeResolver{
		authorizer:   p,
		probeTimeout: probeTimeout,
		logger:       logger,
	}
}

// Resolve returns the effective scope mode for verb on entity.
func (r *ScopeResolver) Resolve(ctx context.Context, verb Verb, entity Entity) (ScopeMode, error) {
	probes := 0
	unavailable := 0

	check := func(key string) bool {
		probes++
		res, err := r.probe(ctx, key)
		if err != nil {
			unavailable++
			r.logger.Warn("scope probe failed, treating as not granted",
				slog.String("action_key", key),
				slog.String("error", err.Error()),
			)
			return false
		}
		return res.Granted
	}

	for _, mode := range scopeModes {
		if check(ScopeActionKey(verb, entity, mode)) {
			return mode, nil
		}
	}
	if entity != "" {
		for _, mode := range scopeModes {
			if check(ScopeActionKey(verb, "", mode)) {
				return mode, nil
			}
		}
	}

	// Every probe failed to reach the provider: fail closed, but make
	// the systemic outage visible to the caller.
	if unavailable == probes {
		return ModeNone, ErrUpstreamUnavailable
	}

	// No grant anywhere: a caller always has at least same-owner access.
	return ModeOwn, nil
}

// CheckAction reports whether a single action key is granted,
// fail closed.
func (r *ScopeResolver) CheckAction(ctx context.Context, key string) (bool, error) {
	res, err := r.probe(ctx, key)
	if err != nil {
		return false, err
	}
	return res.Granted, nil
}

func (r *ScopeResolver) probe(ctx context.Context, key string) (authz.Result, error) {
	if r.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.probeTimeout)
		defer cancel()
	}
	return r.authorizer.Check(ctx, key)
}
