package plugin

import (
	"context"
	"log/slog"
	"testing"

	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/share"
)

// testPlugin implements Plugin + DashboardCreated + AfterResolve.
type testPlugin struct {
	dashboardCreatedCalled bool
	afterResolveCalled     bool
}

func (t *testPlugin) Name() string { return "test-plugin" }

func (t *testPlugin) OnDashboardCreated(_ context.Context, _ *dashboard.Definition) error {
	t.dashboardCreatedCalled = true
	return nil
}

func (t *testPlugin) OnAfterResolve(_ context.Context, _, _, _, _ string) error {
	t.afterResolveCalled = true
	return nil
}

// minimalPlugin only implements Plugin (no hooks).
type minimalPlugin struct{}

func (m *minimalPlugin) Name() string { return "minimal" }

func TestRegistryDispatch(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())

	tp := &testPlugin{}
	reg.Register(tp)
	reg.Register(&minimalPlugin{})

	if len(reg.Plugins()) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(reg.Plugins()))
	}

	// Should dispatch DashboardCreated to testPlugin only.
	reg.EmitDashboardCreated(ctx, &dashboard.Definition{ID: id.NewDashboardID(), Key: "sales"})
	if !tp.dashboardCreatedCalled {
		t.Fatal("OnDashboardCreated was not called")
	}

	// Should dispatch AfterResolve.
	reg.EmitAfterResolve(ctx, "u1", "read", "dashboards", "own")
	if !tp.afterResolveCalled {
		t.Fatal("OnAfterResolve was not called")
	}

	// Should not panic on hooks with no listeners.
	reg.EmitBeforeResolve(ctx, "u1", "read", "dashboards")
	reg.EmitShareDeleted(ctx, id.NewDashboardID(), share.PrincipalUser, "u2")
	reg.EmitShutdown(ctx)
}
