package memory

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/dashcore/auditlog"
	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/share"
	"github.com/xraph/dashcore/store"
)

// Compile-time check that *Store implements store.Store.
var _ store.Store = (*Store)(nil)

func TestDashboardCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	d := &dashboard.Definition{
		ID:          id.NewDashboardID(),
		Key:         "sales.pipeline",
		OwnerUserID: "user_1",
		Name:        "Pipeline",
		Visibility:  dashboard.VisibilityPrivate,
		Scope:       dashboard.PackScope("sales"),
		Version:     1,
		Definition:  map[string]any{"widgets": []any{}},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	// Create
	if err := s.CreateDashboard(ctx, d); err != nil {
		t.Fatal(err)
	}

	// Get by ID
	got, err := s.GetDashboard(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Key != "sales.pipeline" {
		t.Fatalf("unexpected dashboard: %+v", got)
	}

	// Get by key
	got, err = s.GetDashboardByKey(ctx, "sales.pipeline")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != d.ID {
		t.Fatal("key lookup mismatch")
	}

	// Missing key is nil, not an error.
	got, err = s.GetDashboardByKey(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected nil for missing key")
	}

	// Update
	d.Name = "Sales Pipeline"
	d.Version = 2
	if err := s.UpdateDashboard(ctx, d); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetDashboard(ctx, d.ID)
	if got.Name != "Sales Pipeline" || got.Version != 2 {
		t.Fatal("update failed")
	}

	// List
	list, _ := s.ListDashboards(ctx, &dashboard.ListFilter{Pack: "sales"})
	if len(list) != 1 {
		t.Fatalf("expected 1 dashboard, got %d", len(list))
	}
	list, _ = s.ListDashboards(ctx, &dashboard.ListFilter{OwnerUserID: "someone_else"})
	if len(list) != 0 {
		t.Fatalf("expected 0 dashboards, got %d", len(list))
	}

	// Count ignores pagination.
	count, _ := s.CountDashboards(ctx, &dashboard.ListFilter{Limit: 0})
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	// Delete
	if err := s.DeleteDashboard(ctx, d.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetDashboard(ctx, d.ID)
	if got != nil {
		t.Fatal("expected nil after delete")
	}
}

func TestShareUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	dashID := id.NewDashboardID()

	first := &share.Share{
		ID:            id.NewShareID(),
		DashboardID:   dashID,
		PrincipalType: share.PrincipalUser,
		PrincipalID:   "user_2",
		Permission:    share.PermissionView,
		SharedBy:      "user_1",
		SharedByName:  "User One",
		CreatedAt:     time.Now().UTC(),
	}
	created, err := s.UpsertShare(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != first.ID {
		t.Fatal("fresh upsert should keep the new id")
	}

	// Repeat grant on the same tuple updates permission and audit
	// fields, preserving id and createdAt.
	repeat := &share.Share{
		ID:            id.NewShareID(),
		DashboardID:   dashID,
		PrincipalType: share.PrincipalUser,
		PrincipalID:   "user_2",
		Permission:    share.PermissionFull,
		SharedBy:      "user_3",
		SharedByName:  "User Three",
		CreatedAt:     time.Now().UTC().Add(time.Hour),
	}
	updated, err := s.UpsertShare(ctx, repeat)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != first.ID {
		t.Fatal("upsert must preserve the original id")
	}
	if !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("upsert must preserve createdAt")
	}
	if updated.Permission != share.PermissionFull || updated.SharedBy != "user_3" {
		t.Fatalf("grant fields not updated: %+v", updated)
	}

	list, _ := s.ListShares(ctx, dashID)
	if len(list) != 1 {
		t.Fatalf("expected exactly 1 share, got %d", len(list))
	}

	// Exact-tuple delete.
	n, err := s.DeleteShare(ctx, dashID, share.PrincipalUser, "user_2")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deleted, got %d", n)
	}
	n, _ = s.DeleteShare(ctx, dashID, share.PrincipalUser, "user_2")
	if n != 0 {
		t.Fatalf("expected 0 deleted for missing tuple, got %d", n)
	}
}

func TestDeleteDashboardCascadesShares(t *testing.T) {
	ctx := context.Background()
	s := New()

	d := &dashboard.Definition{
		ID:          id.NewDashboardID(),
		Key:         "ops.oncall",
		OwnerUserID: "user_1",
		Name:        "Oncall",
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.CreateDashboard(ctx, d); err != nil {
		t.Fatal(err)
	}
	for _, pid := range []string{"user_2", "user_3"} {
		_, err := s.UpsertShare(ctx, &share.Share{
			ID:            id.NewShareID(),
			DashboardID:   d.ID,
			PrincipalType: share.PrincipalUser,
			PrincipalID:   pid,
			Permission:    share.PermissionView,
			SharedBy:      "user_1",
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DeleteDashboard(ctx, d.ID); err != nil {
		t.Fatal(err)
	}
	list, _ := s.ListShares(ctx, d.ID)
	if len(list) != 0 {
		t.Fatalf("expected cascade delete, %d shares remain", len(list))
	}
}

func TestAuditLogQueryAndPurge(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now().UTC()

	entries := []*auditlog.Entry{
		{ID: id.NewAuditLogID(), SubjectID: "user_1", Verb: "write", Entity: "dashboards", Decision: "allow", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: id.NewAuditLogID(), SubjectID: "user_1", Verb: "write", Entity: "dashboards", Decision: "deny_not_owner", CreatedAt: now.Add(-time.Hour)},
		{ID: id.NewAuditLogID(), SubjectID: "user_2", Verb: "delete", Entity: "dashboards", Decision: "allow", CreatedAt: now},
	}
	for _, e := range entries {
		if err := s.CreateAuditLog(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListAuditLogs(ctx, &auditlog.QueryFilter{SubjectID: "user_1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	// Newest first.
	if list[0].Decision != "deny_not_owner" {
		t.Fatalf("expected newest entry first, got %s", list[0].Decision)
	}

	count, _ := s.CountAuditLogs(ctx, &auditlog.QueryFilter{Decision: "allow"})
	if count != 2 {
		t.Fatalf("expected 2 allow entries, got %d", count)
	}

	purged, err := s.PurgeAuditLogs(ctx, now.Add(-30*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 2 {
		t.Fatalf("expected 2 purged, got %d", purged)
	}
	remaining, _ := s.CountAuditLogs(ctx, nil)
	if remaining != 1 {
		t.Fatalf("expected 1 remaining, got %d", remaining)
	}
}
