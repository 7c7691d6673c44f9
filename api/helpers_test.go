package api

import (
	"context"
	"testing"

	"github.com/xraph/dashcore/catalog"
	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
)

func TestIncludeGlobalDefaultsTrue(t *testing.T) {
	if !includeGlobal(nil) {
		t.Fatal("absent include_global must include global-scope entries")
	}

	f := false
	if includeGlobal(&f) {
		t.Fatal("explicit include_global=false must exclude global-scope entries")
	}

	tr := true
	if !includeGlobal(&tr) {
		t.Fatal("explicit include_global=true must include global-scope entries")
	}
}

func TestDashboardResponseSyntheticStaticID(t *testing.T) {
	resolver := catalog.NewResolver(catalog.NewStaticRegistry(catalog.Template{
		Key:   "sales.kpis",
		Title: "Sales KPIs",
		Scope: map[string]any{"kind": "pack", "pack": "sales"},
	}))

	d, err := resolver.StaticDashboardByKey(context.Background(), "sales.kpis")
	if err != nil {
		t.Fatalf("StaticDashboardByKey: %v", err)
	}
	if d == nil {
		t.Fatal("expected static dashboard")
	}

	resp := toDashboardResponse(d)
	if resp.ID != "static:sales.kpis" {
		t.Fatalf("expected static:sales.kpis, got %q", resp.ID)
	}
	if !resp.IsSystem {
		t.Fatal("static entry must be marked system")
	}
	if resp.Scope["kind"] != "pack" || resp.Scope["pack"] != "sales" {
		t.Fatalf("unexpected scope: %v", resp.Scope)
	}
}

func TestDashboardResponseDynamicID(t *testing.T) {
	did := id.NewDashboardID()
	resp := toDashboardResponse(&dashboard.Definition{
		ID:         did,
		Key:        "team.custom",
		Name:       "Team Custom",
		Visibility: dashboard.VisibilityPrivate,
		Scope:      dashboard.GlobalScope(),
	})

	if resp.ID != did.String() {
		t.Fatalf("expected %q, got %q", did.String(), resp.ID)
	}
	if _, ok := resp.Scope["pack"]; ok {
		t.Fatal("global scope must not carry a pack field")
	}
}
