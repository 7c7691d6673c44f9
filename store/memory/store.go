// Package memory provides an in-memory implementation of the dashcore
// composite store. It is intended for testing and development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xraph/dashcore/auditlog"
	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/share"
)

// Compile-time interface checks.
var (
	_ dashboard.Store = (*Store)(nil)
	_ share.Store     = (*Store)(nil)
	_ auditlog.Store  = (*Store)(nil)
)

// Store is a thread-safe in-memory store for all dashcore entities.
type Store struct {
	mu sync.RWMutex

	dashboards map[string]*dashboard.Definition // dashboardID -> definition
	shares     map[string]*share.Share          // shareID -> share
	auditLogs  map[string]*auditlog.Entry       // logID -> entry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		dashboards: make(map[string]*dashboard.Definition),
		shares:     make(map[string]*share.Share),
		auditLogs:  make(map[string]*auditlog.Entry),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Dashboard Store
// ──────────────────────────────────────────────────

func (s *Store) CreateDashboard(_ context.Context, d *dashboard.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboards[d.ID.String()] = copyDashboard(d)
	return nil
}

func (s *Store) GetDashboard(_ context.Context, dashboardID id.DashboardID) (*dashboard.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dashboards[dashboardID.String()]
	if !ok {
		return nil, nil
	}
	return copyDashboard(d), nil
}

func (s *Store) GetDashboardByKey(_ context.Context, key string) (*dashboard.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.dashboards {
		if d.Key == key {
			return copyDashboard(d), nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateDashboard(_ context.Context, d *dashboard.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dashboards[d.ID.String()]; !ok {
		return nil
	}
	s.dashboards[d.ID.String()] = copyDashboard(d)
	return nil
}

func (s *Store) DeleteDashboard(_ context.Context, dashboardID id.DashboardID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dashboards, dashboardID.String())
	// Cascade shares.
	for sid, sh := range s.shares {
		if sh.DashboardID.String() == dashboardID.String() {
			delete(s.shares, sid)
		}
	}
	return nil
}

func (s *Store) ListDashboards(_ context.Context, filter *dashboard.ListFilter) ([]*dashboard.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*dashboard.Definition, 0, len(s.dashboards))
	for _, d := range s.dashboards {
		if filter != nil {
			if filter.OwnerUserID != "" && d.OwnerUserID != filter.OwnerUserID {
				continue
			}
			if filter.IsSystem != nil && d.IsSystem != *filter.IsSystem {
				continue
			}
			if filter.Visibility != nil && d.Visibility != *filter.Visibility {
				continue
			}
			if filter.Pack != "" && (d.Scope.Kind != dashboard.ScopePack || d.Scope.Pack != filter.Pack) {
				continue
			}
			if filter.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Search)) {
				continue
			}
		}
		result = append(result, copyDashboard(d))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Key < result[j].Key
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return applyPagination(result, paginationOpts(filter)), nil
}

func (s *Store) CountDashboards(ctx context.Context, filter *dashboard.ListFilter) (int64, error) {
	var f dashboard.ListFilter
	if filter != nil {
		f = *filter
	}
	f.Limit, f.Offset = 0, 0
	list, err := s.ListDashboards(ctx, &f)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// ──────────────────────────────────────────────────
// Share Store
// ──────────────────────────────────────────────────

func (s *Store) ListShares(_ context.Context, dashboardID id.DashboardID) ([]*share.Share, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*share.Share, 0)
	for _, sh := range s.shares {
		if sh.DashboardID.String() == dashboardID.String() {
			result = append(result, copyShare(sh))
		}
	}
	sortShares(result)
	return result, nil
}

func (s *Store) GetShare(_ context.Context, dashboardID id.DashboardID, principalType share.PrincipalType, principalID string) (*share.Share, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh := s.findShare(dashboardID, principalType, principalID)
	if sh == nil {
		return nil, nil
	}
	return copyShare(sh), nil
}

func (s *Store) UpsertShare(_ context.Context, in *share.Share) (*share.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.findShare(in.DashboardID, in.PrincipalType, in.PrincipalID); existing != nil {
		// Tuple identity: keep id and createdAt, update the grant.
		existing.Permission = in.Permission
		existing.SharedBy = in.SharedBy
		existing.SharedByName = in.SharedByName
		return copyShare(existing), nil
	}
	s.shares[in.ID.String()] = copyShare(in)
	return copyShare(in), nil
}

func (s *Store) DeleteShare(_ context.Context, dashboardID id.DashboardID, principalType share.PrincipalType, principalID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.findShare(dashboardID, principalType, principalID)
	if sh == nil {
		return 0, nil
	}
	delete(s.shares, sh.ID.String())
	return 1, nil
}

func (s *Store) DeleteSharesByDashboard(_ context.Context, dashboardID id.DashboardID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, sh := range s.shares {
		if sh.DashboardID.String() == dashboardID.String() {
			delete(s.shares, sid)
		}
	}
	return nil
}

func (s *Store) ListSharesForPrincipal(_ context.Context, principalType share.PrincipalType, principalID string) ([]*share.Share, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*share.Share, 0)
	for _, sh := range s.shares {
		if sh.PrincipalType == principalType && sh.PrincipalID == principalID {
			result = append(result, copyShare(sh))
		}
	}
	sortShares(result)
	return result, nil
}

func (s *Store) findShare(dashboardID id.DashboardID, principalType share.PrincipalType, principalID string) *share.Share {
	for _, sh := range s.shares {
		if sh.DashboardID.String() == dashboardID.String() &&
			sh.PrincipalType == principalType &&
			sh.PrincipalID == principalID {
			return sh
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Audit Log Store
// ──────────────────────────────────────────────────

func (s *Store) CreateAuditLog(_ context.Context, e *auditlog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs[e.ID.String()] = copyAuditLog(e)
	return nil
}

func (s *Store) GetAuditLog(_ context.Context, logID id.AuditLogID) (*auditlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.auditLogs[logID.String()]
	if !ok {
		return nil, nil
	}
	return copyAuditLog(e), nil
}

func (s *Store) ListAuditLogs(_ context.Context, filter *auditlog.QueryFilter) ([]*auditlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*auditlog.Entry, 0, len(s.auditLogs))
	for _, e := range s.auditLogs {
		if filter != nil {
			if filter.SubjectID != "" && e.SubjectID != filter.SubjectID {
				continue
			}
			if filter.Verb != "" && e.Verb != filter.Verb {
				continue
			}
			if filter.Entity != "" && e.Entity != filter.Entity {
				continue
			}
			if filter.DashboardKey != "" && e.DashboardKey != filter.DashboardKey {
				continue
			}
			if filter.Decision != "" && e.Decision != filter.Decision {
				continue
			}
			if filter.After != nil && !e.CreatedAt.After(*filter.After) {
				continue
			}
			if filter.Before != nil && !e.CreatedAt.Before(*filter.Before) {
				continue
			}
		}
		result = append(result, copyAuditLog(e))
	}
	// Newest first.
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return applyPagination(result, auditPaginationOpts(filter)), nil
}

func (s *Store) CountAuditLogs(ctx context.Context, filter *auditlog.QueryFilter) (int64, error) {
	var f auditlog.QueryFilter
	if filter != nil {
		f = *filter
	}
	f.Limit, f.Offset = 0, 0
	list, err := s.ListAuditLogs(ctx, &f)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) PurgeAuditLogs(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for lid, e := range s.auditLogs {
		if e.CreatedAt.Before(before) {
			delete(s.auditLogs, lid)
			purged++
		}
	}
	return purged, nil
}

func (s *Store) DeleteAuditLogsBySubject(_ context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for lid, e := range s.auditLogs {
		if e.SubjectID == subjectID {
			delete(s.auditLogs, lid)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func copyDashboard(d *dashboard.Definition) *dashboard.Definition {
	c := *d
	if d.Definition != nil {
		c.Definition = make(map[string]any, len(d.Definition))
		for k, v := range d.Definition {
			c.Definition[k] = v
		}
	}
	return &c
}

func copyShare(sh *share.Share) *share.Share {
	c := *sh
	return &c
}

func copyAuditLog(e *auditlog.Entry) *auditlog.Entry {
	c := *e
	if e.Metadata != nil {
		c.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func sortShares(shares []*share.Share) {
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].CreatedAt.Equal(shares[j].CreatedAt) {
			return shares[i].PrincipalID < shares[j].PrincipalID
		}
		return shares[i].CreatedAt.Before(shares[j].CreatedAt)
	})
}

type pagOpts struct{ limit, offset int }

func paginationOpts(f *dashboard.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func auditPaginationOpts(f *auditlog.QueryFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func applyPagination[T any](items []*T, p pagOpts) []*T {
	if p.offset >= len(items) && p.offset > 0 {
		return nil
	}
	if p.offset > 0 {
		items = items[p.offset:]
	}
	if p.limit > 0 && p.limit < len(items) {
		items = items[:p.limit]
	}
	return items
}
