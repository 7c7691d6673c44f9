package dashcore

import (
	"errors"
	"testing"

	"github.com/xraph/dashcore/catalog"
	"github.com/xraph/dashcore/dashboard"
)

func testCatalog(templates ...catalog.Template) *catalog.Resolver {
	return catalog.NewResolver(catalog.NewStaticRegistry(templates...))
}

func TestCreateDashboard(t *testing.T) {
	eng, _, p, _ := newTestEngine(t)
	p.Grant("dashboard-core.dashboards.write.scope.own")
	ctx := identCtx("user_1")

	d, err := eng.CreateDashboard(ctx, CreateDashboardInput{
		Key:        "sales.pipeline",
		Name:       "Pipeline",
		Visibility: "public",
		Pack:       "sales",
		Definition: map[string]any{"widgets": []any{map[string]any{"kind": "kpi"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.OwnerUserID != "user_1" {
		t.Fatalf("owner = %q", d.OwnerUserID)
	}
	if d.Version != 1 || d.IsSystem {
		t.Fatalf("unexpected dashboard: %+v", d)
	}
	if d.Scope.Kind != dashboard.ScopePack || d.Scope.Pack != "sales" {
		t.Fatalf("unexpected scope: %+v", d.Scope)
	}
	if _, ok := d.Definition["layout"]; !ok {
		t.Fatal("definition not normalized")
	}

	// Duplicate key is rejected.
	_, err = eng.CreateDashboard(ctx, CreateDashboardInput{Key: "sales.pipeline"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestCreateDashboardRejectsStaticKey(t *testing.T) {
	eng, _, p, _ := newTestEngine(t, WithCatalog(testCatalog(catalog.Template{
		TemplateKey: "system.company_overview",
		Title:       "Company Overview",
	})))
	p.Grant("dashboard-core.dashboards.write.scope.own")

	_, err := eng.CreateDashboard(identCtx("user_1"), CreateDashboardInput{
		Key: "system.company_overview",
	})
	if !errors.Is(err, ErrStaticKeyConflict) {
		t.Fatalf("expected ErrStaticKeyConflict, got %v", err)
	}
}

func TestCreateDashboardDeniedUnderModeNone(t *testing.T) {
	eng, _, p, _ := newTestEngine(t)
	p.Grant("dashboard-core.dashboards.write.scope.none")

	_, err := eng.CreateDashboard(identCtx("user_1"), CreateDashboardInput{Key: "x"})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestCreateDashboardInvalidDefinition(t *testing.T) {
	eng, _, p, _ := newTestEngine(t)
	p.Grant("dashboard-core.dashboards.write.scope.own")

	_, err := eng.CreateDashboard(identCtx("user_1"), CreateDashboardInput{
		Key:        "bad",
		Definition: 42,
	})
	if !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestGetDashboardByKeyVisibility(t *testing.T) {
	eng, s, p, _ := newTestEngine(t)
	p.Grant("dashboard-core.dashboards.read.scope.own")
	seedDashboard(t, s, "private.one", "owner_1")

	// Owner reads their private dashboard.
	if _, err := eng.GetDashboardByKey(identCtx("owner_1"), "private.one"); err != nil {
		t.Fatal(err)
	}

	// A stranger cannot.
	_, err := eng.GetDashboardByKey(identCtx("stranger"), "private.one")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	// A user-principal share opens it up.
	p.Grant("dashboard-core.dashboards.write.scope.own", "dashboard-core.dashboards.share.user", "dashboard-core.dashboards.scope.share_outside")
	if _, err := eng.AddShare(identCtx("owner_1"), "private.one", AddShareInput{
		PrincipalType: "user", PrincipalID: "stranger",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.GetDashboardByKey(identCtx("stranger"), "private.one"); err != nil {
		t.Fatal(err)
	}
}

func TestGetDashboardByKeyStatic(t *testing.T) {
	eng, _, p, _ := newTestEngine(t, WithCatalog(testCatalog()))
	p.Grant("dashboard-core.dashboards.read.scope.own")

	d, err := eng.GetDashboardByKey(identCtx("user_1"), "system.projects_kpi_catalog")
	if err != nil {
		t.Fatal(err)
	}
	if !d.IsSystem || d.OwnerUserID != dashboard.SystemOwner {
		t.Fatalf("expected system dashboard, got %+v", d)
	}
}

func TestUpdateDashboardBumpsVersion(t *testing.T) {
	eng, s, p, _ := newTestEngine(t)
	p.Grant("dashboard-core.dashboards.write.scope.own")
	seedDashboard(t, s, "sales.pipeline", "owner_1")
	ctx := identCtx("owner_1")

	name := "Renamed"
	d, err := eng.UpdateDashboard(ctx, "sales.pipeline", UpdateDashboardInput{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "Renamed" {
		t.Fatalf("name = %q", d.Name)
	}
	if d.Version != 1 {
		t.Fatalf("metadata-only update must not bump version, got %d", d.Version)
	}

	d, err = eng.UpdateDashboard(ctx, "sales.pipeline", UpdateDashboardInput{
		Definition: map[string]any{"widgets": []any{map[string]any{"kind": "pie_v0"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Version != 2 {
		t.Fatalf("definition update must bump version, got %d", d.Version)
	}
}

func TestUpdateDashboardOwnershipUnderOwnMode(t *testing.T) {
	eng, s, p, _ := newTestEngine(t)
	p.Grant("dashboard-core.dashboards.write.scope.own")
	seedDashboard(t, s, "sales.pipeline", "owner_1")

	name := "Hijacked"
	_, err := eng.UpdateDashboard(identCtx("stranger"), "sales.pipeline", UpdateDashboardInput{Name: &name})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestUpdateDashboardAllModeAllowsNonOwner(t *testing.T) {
	eng, s, p, _ := newTestEngine(t)
	p.Grant("dashboard-core.dashboards.write.scope.all")
	seedDashboard(t, s, "sales.pipeline", "owner_1")

	name := "Admin Edit"
	if _, err := eng.UpdateDashboard(identCtx("operator"), "sales.pipeline", UpdateDashboardInput{Name: &name}); err != nil {
		t.Fatal(err)
	}
}

func TestSystemDashboardsImmutable(t *testing.T) {
	eng, _, p, _ := newTestEngine(t, WithCatalog(testCatalog()))
	p.Grant(
		"dashboard-core.dashboards.write.scope.all",
		"dashboard-core.dashboards.delete.scope.all",
	)
	ctx := identCtx("user_1")

	name := "nope"
	_, err := eng.UpdateDashboard(ctx, "system.projects_kpi_catalog", UpdateDashboardInput{Name: &name})
	if !errors.Is(err, ErrSystemImmutable) {
		t.Fatalf("expected ErrSystemImmutable, got %v", err)
	}
	if err := eng.DeleteDashboard(ctx, "system.projects_kpi_catalog"); !errors.Is(err, ErrSystemImmutable) {
		t.Fatalf("expected ErrSystemImmutable, got %v", err)
	}
}

func TestDeleteDashboardCascades(t *testing.T) {
	eng, s, p, org := newTestEngine(t)
	p.Grant(
		"dashboard-core.dashboards.write.scope.own",
		"dashboard-core.dashboards.delete.scope.own",
		"dashboard-core.dashboards.share.user",
	)
	org.AddUserInScope("user_2")
	d := seedDashboard(t, s, "sales.pipeline", "owner_1")
	ctx := identCtx("owner_1")

	if _, err := eng.AddShare(ctx, "sales.pipeline", AddShareInput{
		PrincipalType: "user", PrincipalID: "user_2",
	}); err != nil {
		t.Fatal(err)
	}

	if err := eng.DeleteDashboard(ctx, "sales.pipeline"); err != nil {
		t.Fatal(err)
	}

	if _, err := eng.GetDashboardByKey(ctx, "sales.pipeline"); !errors.Is(err, ErrDashboardNotFound) {
		t.Fatalf("expected ErrDashboardNotFound, got %v", err)
	}
	shares, _ := s.ListShares(ctx, d.ID)
	if len(shares) != 0 {
		t.Fatalf("expected cascade, %d shares remain", len(shares))
	}
}

func TestListDashboardsRestrictedUnderOwnMode(t *testing.T) {
	eng, s, p, _ := newTestEngine(t)
	p.Grant("dashboard-core.dashboards.read.scope.own")
	seedDashboard(t, s, "mine", "user_1")
	seedDashboard(t, s, "theirs.private", "user_2")
	pub := seedDashboard(t, s, "theirs.public", "user_2")
	pub.Visibility = dashboard.VisibilityPublic
	if err := s.UpdateDashboard(identCtx("user_2"), pub); err != nil {
		t.Fatal(err)
	}

	defs, err := eng.ListDashboards(identCtx("user_1"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected own + public = 2, got %d", len(defs))
	}
	for _, d := range defs {
		if d.Key == "theirs.private" {
			t.Fatal("private dashboard of another owner leaked")
		}
	}
}

func TestListDashboardsForPackMergesCatalogFirst(t *testing.T) {
	eng, s, p, _ := newTestEngine(t, WithCatalog(testCatalog(
		catalog.Template{TemplateKey: "projects.static", PackName: "projects"},
		catalog.Template{TemplateKey: "global.static", Scope: map[string]any{"kind": "global"}},
	)))
	p.Grant("dashboard-core.dashboards.read.scope.all")

	dyn := seedDashboard(t, s, "projects.custom", "user_1")
	dyn.Scope = dashboard.PackScope("projects")
	if err := s.UpdateDashboard(identCtx("user_1"), dyn); err != nil {
		t.Fatal(err)
	}
	// A dynamic row sharing a static key must not override the static
	// entry.
	shadow := seedDashboard(t, s, "projects.static", "user_1")
	shadow.Scope = dashboard.PackScope("projects")
	if err := s.UpdateDashboard(identCtx("user_1"), shadow); err != nil {
		t.Fatal(err)
	}

	defs, err := eng.ListDashboardsForPack(identCtx("user_1"), "projects", true)
	if err != nil {
		t.Fatal(err)
	}
	// projects.static, the legacy projects fallback, global.static,
	// projects.custom.
	if len(defs) != 4 {
		t.Fatalf("expected 4 dashboards, got %d", len(defs))
	}
	if !defs[0].IsSystem {
		t.Fatal("static entries must come first")
	}
	for _, d := range defs {
		if d.Key == "projects.static" && !d.IsSystem {
			t.Fatal("dynamic row overrode a static key")
		}
	}

	packOnly, err := eng.ListDashboardsForPack(identCtx("user_1"), "projects", false)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range packOnly {
		if d.Scope.Kind == dashboard.ScopeGlobal {
			t.Fatalf("global entry leaked with includeGlobal=false: %s", d.Key)
		}
	}
}
