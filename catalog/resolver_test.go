package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xraph/dashcore/dashboard"
)

func TestResolveNormalizesTemplates(t *testing.T) {
	reg := NewStaticRegistry(
		Template{
			TemplateKey: "system.company_overview",
			Title:       "Company Overview",
			Version:     "3",
			Scope:       map[string]any{"kind": "global"},
		},
		Template{
			Key:      "sales.pipeline",
			PackName: "sales",
		},
	)
	r := NewResolver(reg)

	defs, err := r.StaticDashboards(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Two registry entries plus the legacy fallback.
	if len(defs) != 3 {
		t.Fatalf("expected 3 dashboards, got %d", len(defs))
	}

	first := defs[0]
	if first.Key != "system.company_overview" {
		t.Fatalf("unexpected key %q", first.Key)
	}
	if first.Name != "Company Overview" || first.Version != 3 {
		t.Fatalf("unexpected name/version: %q/%d", first.Name, first.Version)
	}
	if !first.IsSystem || first.OwnerUserID != dashboard.SystemOwner {
		t.Fatal("static dashboards must be system-owned")
	}
	if first.Visibility != dashboard.VisibilityPublic {
		t.Fatalf("templates default public, got %q", first.Visibility)
	}
	if first.Scope.Kind != dashboard.ScopeGlobal {
		t.Fatalf("unexpected scope %+v", first.Scope)
	}
	if _, ok := first.Definition["widgets"]; !ok {
		t.Fatal("normalized definition missing widgets")
	}

	second := defs[1]
	if second.Key != "sales.pipeline" {
		t.Fatalf("unexpected key %q", second.Key)
	}
	// Name falls back to the key, scope to the record's pack.
	if second.Name != "sales.pipeline" {
		t.Fatalf("unexpected name %q", second.Name)
	}
	if second.Scope.Kind != dashboard.ScopePack || second.Scope.Pack != "sales" {
		t.Fatalf("unexpected scope %+v", second.Scope)
	}

	if defs[2].Key != "system.projects_kpi_catalog" {
		t.Fatalf("expected legacy fallback last, got %q", defs[2].Key)
	}
}

func TestResolveSkipsInvalidTemplates(t *testing.T) {
	reg := NewStaticRegistry(
		Template{Title: "No Key"},
		Template{TemplateKey: "bad.definition", Definition: "not json and not an object"},
		Template{TemplateKey: "ok", Definition: `{"widgets":[{"kind":"kpi"}]}`},
	)
	r := NewResolver(reg)

	defs, err := r.StaticDashboards(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 dashboards, got %d", len(defs))
	}
	if defs[0].Key != "ok" {
		t.Fatalf("unexpected key %q", defs[0].Key)
	}
	widgets, ok := defs[0].Definition["widgets"].([]any)
	if !ok || len(widgets) != 1 {
		t.Fatalf("JSON-string definition not parsed: %#v", defs[0].Definition["widgets"])
	}
}

func TestResolveRegistryWinsOverLegacy(t *testing.T) {
	reg := NewStaticRegistry(Template{
		TemplateKey: "system.projects_kpi_catalog",
		Title:       "Replacement KPIs",
		Version:     "2",
	})
	r := NewResolver(reg)

	d, err := r.StaticDashboardByKey(context.Background(), "system.projects_kpi_catalog")
	if err != nil {
		t.Fatal(err)
	}
	if d == nil {
		t.Fatal("expected dashboard")
	}
	if d.Name != "Replacement KPIs" || d.Version != 2 {
		t.Fatalf("legacy fallback overrode registry entry: %q v%d", d.Name, d.Version)
	}

	defs, err := r.StaticDashboards(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]int{}
	for _, d := range defs {
		seen[d.Key]++
	}
	for key, n := range seen {
		if n != 1 {
			t.Fatalf("key %q appears %d times", key, n)
		}
	}
}

func TestStaticDashboardsForPack(t *testing.T) {
	reg := NewStaticRegistry(
		Template{TemplateKey: "global.one", Scope: map[string]any{"kind": "global"}},
		Template{TemplateKey: "projects.one", PackName: "projects"},
		Template{TemplateKey: "sales.one", PackName: "sales"},
	)
	r := NewResolver(reg)
	ctx := context.Background()

	withGlobal, err := r.StaticDashboardsForPack(ctx, "projects", true)
	if err != nil {
		t.Fatal(err)
	}
	// projects.one, the legacy projects fallback, and global.one.
	if len(withGlobal) != 3 {
		t.Fatalf("expected 3, got %d", len(withGlobal))
	}

	packOnly, err := r.StaticDashboardsForPack(ctx, "projects", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(packOnly) != 2 {
		t.Fatalf("expected 2, got %d", len(packOnly))
	}
	for _, d := range packOnly {
		if d.Scope.Kind != dashboard.ScopePack || d.Scope.Pack != "projects" {
			t.Fatalf("non-projects entry leaked: %+v", d.Scope)
		}
	}

	all, err := r.StaticDashboardsForPack(ctx, "  ", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("empty pack should return full set, got %d", len(all))
	}
}

func TestIsStaticKey(t *testing.T) {
	r := NewResolver(NewStaticRegistry())
	ctx := context.Background()

	ok, err := r.IsStaticKey(ctx, "system.projects_kpi_catalog")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("legacy fallback key should be static")
	}

	ok, err = r.IsStaticKey(ctx, "user.custom")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("unknown key reported static")
	}
}

func TestFileRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard-templates.json")

	// Missing file: empty, not an error.
	templates, err := NewFileRegistry(path).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 0 {
		t.Fatalf("expected empty, got %d", len(templates))
	}

	payload := `{"templates":[{"templateKey":"system.company_overview","title":"Company Overview","version":1}]}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}
	templates, err = NewFileRegistry(path).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 1 || templates[0].TemplateKey != "system.company_overview" {
		t.Fatalf("unexpected templates: %+v", templates)
	}

	// Corrupt file: empty, not an error.
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	templates, err = NewFileRegistry(path).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 0 {
		t.Fatalf("expected empty on parse failure, got %d", len(templates))
	}
}

func TestResolverCacheTTL(t *testing.T) {
	reg := &countingRegistry{}
	r := NewResolver(reg, WithTTL(time.Hour))
	ctx := context.Background()

	if _, err := r.StaticDashboards(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := r.StaticDashboards(ctx); err != nil {
		t.Fatal(err)
	}
	if reg.loads != 1 {
		t.Fatalf("expected 1 registry load, got %d", reg.loads)
	}

	uncached := NewResolver(reg, WithTTL(0))
	if _, err := uncached.StaticDashboards(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := uncached.StaticDashboards(ctx); err != nil {
		t.Fatal(err)
	}
	if reg.loads != 3 {
		t.Fatalf("expected reload per call with TTL 0, got %d total loads", reg.loads)
	}
}

type countingRegistry struct {
	loads int
}

func (r *countingRegistry) Load(context.Context) ([]Template, error) {
	r.loads++
	return nil, nil
}
