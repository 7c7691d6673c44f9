package dashcore

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/dashcore/authz"
)

func TestResolveDefaultsToOwn(t *testing.T) {
	r := NewScopeResolver(authz.NewStatic(), 0, nil)

	mode, err := r.Resolve(context.Background(), VerbRead, EntityDashboards)
	if err != nil {
		t.Fatal(err)
	}
	if mode != ModeOwn {
		t.Fatalf("expected own with no grants, got %s", mode)
	}
}

func TestResolveEntityOverridesGlobal(t *testing.T) {
	// Entity-specific own beats pack-wide all.
	p := authz.NewStatic(
		"dashboard-core.dashboards.write.scope.own",
		"dashboard-core.write.scope.all",
	)
	r := NewScopeResolver(p, 0, nil)

	mode, err := r.Resolve(context.Background(), VerbWrite, EntityDashboards)
	if err != nil {
		t.Fatal(err)
	}
	if mode != ModeOwn {
		t.Fatalf("entity-specific own should win, got %s", mode)
	}
}

func TestResolveFallsBackToGlobalPrefix(t *testing.T) {
	p := authz.NewStatic("dashboard-core.read.scope.all")
	r := NewScopeResolver(p, 0, nil)

	mode, err := r.Resolve(context.Background(), VerbRead, EntityDashboards)
	if err != nil {
		t.Fatal(err)
	}
	if mode != ModeAll {
		t.Fatalf("expected all from global prefix, got %s", mode)
	}
}

func TestResolveMostRestrictiveWins(t *testing.T) {
	p := authz.NewStatic(
		"dashboard-core.dashboards.write.scope.none",
		"dashboard-core.dashboards.write.scope.all",
	)
	r := NewScopeResolver(p, 0, nil)

	mode, err := r.Resolve(context.Background(), VerbWrite, EntityDashboards)
	if err != nil {
		t.Fatal(err)
	}
	if mode != ModeNone {
		t.Fatalf("none must win over all, got %s", mode)
	}
}

func TestResolveNoEntityProbesGlobalOnly(t *testing.T) {
	p := authz.NewStatic("dashboard-core.delete.scope.ldd")
	r := NewScopeResolver(p, 0, nil)

	mode, err := r.Resolve(context.Background(), VerbDelete, "")
	if err != nil {
		t.Fatal(err)
	}
	if mode != ModeLDD {
		t.Fatalf("expected ldd, got %s", mode)
	}
}

// failingProvider simulates an unreachable authorization upstream.
type failingProvider struct{}

func (failingProvider) Check(context.Context, string) (authz.Result, error) {
	return authz.Result{}, errors.New("connect refused")
}

func TestResolveUpstreamOutageFailsClosed(t *testing.T) {
	r := NewScopeResolver(failingProvider{}, 0, nil)

	mode, err := r.Resolve(context.Background(), VerbWrite, EntityDashboards)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if mode != ModeNone {
		t.Fatalf("outage must resolve to none, got %s", mode)
	}
}

// flakyProvider errors on one specific key and answers the rest.
type flakyProvider struct {
	inner   *authz.Static
	failKey string
}

func (f flakyProvider) Check(ctx context.Context, key string) (authz.Result, error) {
	if key == f.failKey {
		return authz.Result{}, errors.New("timeout")
	}
	return f.inner.Check(ctx, key)
}

func TestResolvePartialFailureIsNotGranted(t *testing.T) {
	// The probe for entity-level all errors out; the grant sits on the
	// global prefix and must still be found.
	p := flakyProvider{
		inner:   authz.NewStatic("dashboard-core.write.scope.ldd"),
		failKey: "dashboard-core.dashboards.write.scope.all",
	}
	r := NewScopeResolver(p, 0, nil)

	mode, err := r.Resolve(context.Background(), VerbWrite, EntityDashboards)
	if err != nil {
		t.Fatal(err)
	}
	if mode != ModeLDD {
		t.Fatalf("expected ldd, got %s", mode)
	}
}

func TestScopeActionKey(t *testing.T) {
	cases := []struct {
		verb   Verb
		entity Entity
		mode   ScopeMode
		want   string
	}{
		{VerbWrite, EntityDashboards, ModeOwn, "dashboard-core.dashboards.write.scope.own"},
		{VerbRead, "", ModeAll, "dashboard-core.read.scope.all"},
		{VerbDelete, EntityDashboards, ModeNone, "dashboard-core.dashboards.delete.scope.none"},
	}
	for _, c := range cases {
		if got := ScopeActionKey(c.verb, c.entity, c.mode); got != c.want {
			t.Fatalf("ScopeActionKey(%s, %q, %s) = %q, want %q", c.verb, c.entity, c.mode, got, c.want)
		}
	}
}
