// Package postgres provides a PostgreSQL implementation of the dashcore
// composite store using grove ORM with Go-based migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/dashcore/auditlog"
	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/share"
	"github.com/xraph/dashcore/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a PostgreSQL implementation of the composite dashcore store.
type Store struct {
	db   *grove.DB
	pgdb *pgdriver.PgDB
}

// New creates a new PostgreSQL store.
func New(db *grove.DB) *Store {
	return &Store{
		db:   db,
		pgdb: pgdriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pgdb)
	if err != nil {
		return fmt.Errorf("dashcore: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("dashcore: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ──────────────────────────────────────────────────
// Dashboard operations
// ──────────────────────────────────────────────────

func (s *Store) CreateDashboard(ctx context.Context, d *dashboard.Definition) error {
	m := dashboardToModel(d)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: create dashboard: %w", err)
	}
	return nil
}

func (s *Store) GetDashboard(ctx context.Context, dashboardID id.DashboardID) (*dashboard.Definition, error) {
	m := new(dashboardModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", dashboardID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("dashcore: get dashboard: %w", err)
	}
	return dashboardFromModel(m), nil
}

func (s *Store) GetDashboardByKey(ctx context.Context, key string) (*dashboard.Definition, error) {
	m := new(dashboardModel)
	err := s.pgdb.NewSelect(m).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("dashcore: get dashboard by key: %w", err)
	}
	return dashboardFromModel(m), nil
}

func (s *Store) UpdateDashboard(ctx context.Context, d *dashboard.Definition) error {
	m := dashboardToModel(d)
	_, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: update dashboard: %w", err)
	}
	return nil
}

func (s *Store) DeleteDashboard(ctx context.Context, dashboardID id.DashboardID) error {
	tx, err := s.pgdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("dashcore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	_, err = tx.NewDelete((*shareModel)(nil)).
		Where("dashboard_id = ?", dashboardID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: delete dashboard shares: %w", err)
	}
	_, err = tx.NewDelete((*dashboardModel)(nil)).
		Where("id = ?", dashboardID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: delete dashboard: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dashcore: commit tx: %w", err)
	}
	return nil
}

func (s *Store) ListDashboards(ctx context.Context, filter *dashboard.ListFilter) ([]*dashboard.Definition, error) {
	var models []dashboardModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC, key ASC")
	if filter != nil {
		if filter.OwnerUserID != "" {
			q = q.Where("owner_user_id = ?", filter.OwnerUserID)
		}
		if filter.IsSystem != nil {
			q = q.Where("is_system = ?", *filter.IsSystem)
		}
		if filter.Visibility != nil {
			q = q.Where("visibility = ?", string(*filter.Visibility))
		}
		if filter.Pack != "" {
			q = q.Where("scope_kind = ?", string(dashboard.ScopePack)).
				Where("scope_pack = ?", filter.Pack)
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(key) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("dashcore: list dashboards: %w", err)
	}
	result := make([]*dashboard.Definition, len(models))
	for i := range models {
		result[i] = dashboardFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountDashboards(ctx context.Context, filter *dashboard.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*dashboardModel)(nil))
	if filter != nil {
		if filter.OwnerUserID != "" {
			q = q.Where("owner_user_id = ?", filter.OwnerUserID)
		}
		if filter.IsSystem != nil {
			q = q.Where("is_system = ?", *filter.IsSystem)
		}
		if filter.Visibility != nil {
			q = q.Where("visibility = ?", string(*filter.Visibility))
		}
		if filter.Pack != "" {
			q = q.Where("scope_kind = ?", string(dashboard.ScopePack)).
				Where("scope_pack = ?", filter.Pack)
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(key) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("dashcore: count dashboards: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Share operations
// ──────────────────────────────────────────────────

func (s *Store) ListShares(ctx context.Context, dashboardID id.DashboardID) ([]*share.Share, error) {
	var models []shareModel
	err := s.pgdb.NewSelect(&models).
		Where("dashboard_id = ?", dashboardID.String()).
		OrderExpr("created_at ASC, principal_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashcore: list shares: %w", err)
	}
	result := make([]*share.Share, len(models))
	for i := range models {
		result[i] = shareFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) GetShare(ctx context.Context, dashboardID id.DashboardID, principalType share.PrincipalType, principalID string) (*share.Share, error) {
	m := new(shareModel)
	err := s.pgdb.NewSelect(m).
		Where("dashboard_id = ?", dashboardID.String()).
		Where("principal_type = ?", string(principalType)).
		Where("principal_id = ?", principalID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("dashcore: get share: %w", err)
	}
	return shareFromModel(m), nil
}

func (s *Store) UpsertShare(ctx context.Context, in *share.Share) (*share.Share, error) {
	m := shareToModel(in)
	_, err := s.pgdb.NewInsert(m).
		OnConflict("(dashboard_id, principal_type, principal_id) DO UPDATE SET " +
			"permission = EXCLUDED.permission, " +
			"shared_by = EXCLUDED.shared_by, " +
			"shared_by_name = EXCLUDED.shared_by_name").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashcore: upsert share: %w", err)
	}
	// Re-read so the caller sees the surviving row's id and created_at.
	out, err := s.GetShare(ctx, in.DashboardID, in.PrincipalType, in.PrincipalID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("dashcore: upsert share: row not found after upsert")
	}
	return out, nil
}

func (s *Store) DeleteShare(ctx context.Context, dashboardID id.DashboardID, principalType share.PrincipalType, principalID string) (int64, error) {
	res, err := s.pgdb.NewDelete((*shareModel)(nil)).
		Where("dashboard_id = ?", dashboardID.String()).
		Where("principal_type = ?", string(principalType)).
		Where("principal_id = ?", principalID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("dashcore: delete share: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("dashcore: delete share rows: %w", err)
	}
	return n, nil
}

func (s *Store) DeleteSharesByDashboard(ctx context.Context, dashboardID id.DashboardID) error {
	_, err := s.pgdb.NewDelete((*shareModel)(nil)).
		Where("dashboard_id = ?", dashboardID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: delete shares by dashboard: %w", err)
	}
	return nil
}

func (s *Store) ListSharesForPrincipal(ctx context.Context, principalType share.PrincipalType, principalID string) ([]*share.Share, error) {
	var models []shareModel
	err := s.pgdb.NewSelect(&models).
		Where("principal_type = ?", string(principalType)).
		Where("principal_id = ?", principalID).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashcore: list shares for principal: %w", err)
	}
	result := make([]*share.Share, len(models))
	for i := range models {
		result[i] = shareFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Audit log operations
// ──────────────────────────────────────────────────

func (s *Store) CreateAuditLog(ctx context.Context, e *auditlog.Entry) error {
	m := auditLogToModel(e)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: create audit log: %w", err)
	}
	return nil
}

func (s *Store) GetAuditLog(ctx context.Context, logID id.AuditLogID) (*auditlog.Entry, error) {
	m := new(auditLogModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", logID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("dashcore: get audit log: %w", err)
	}
	return auditLogFromModel(m), nil
}

func (s *Store) ListAuditLogs(ctx context.Context, filter *auditlog.QueryFilter) ([]*auditlog.Entry, error) {
	var models []auditLogModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at DESC")
	if filter != nil {
		if filter.SubjectID != "" {
			q = q.Where("subject_id = ?", filter.SubjectID)
		}
		if filter.Verb != "" {
			q = q.Where("verb = ?", filter.Verb)
		}
		if filter.Entity != "" {
			q = q.Where("entity = ?", filter.Entity)
		}
		if filter.DashboardKey != "" {
			q = q.Where("dashboard_key = ?", filter.DashboardKey)
		}
		if filter.Decision != "" {
			q = q.Where("decision = ?", filter.Decision)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("dashcore: list audit logs: %w", err)
	}
	result := make([]*auditlog.Entry, len(models))
	for i := range models {
		result[i] = auditLogFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountAuditLogs(ctx context.Context, filter *auditlog.QueryFilter) (int64, error) {
	q := s.pgdb.NewSelect((*auditLogModel)(nil))
	if filter != nil {
		if filter.SubjectID != "" {
			q = q.Where("subject_id = ?", filter.SubjectID)
		}
		if filter.Verb != "" {
			q = q.Where("verb = ?", filter.Verb)
		}
		if filter.Entity != "" {
			q = q.Where("entity = ?", filter.Entity)
		}
		if filter.DashboardKey != "" {
			q = q.Where("dashboard_key = ?", filter.DashboardKey)
		}
		if filter.Decision != "" {
			q = q.Where("decision = ?", filter.Decision)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("dashcore: count audit logs: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.pgdb.NewDelete((*auditLogModel)(nil)).
		Where("created_at < ?", before).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("dashcore: purge audit logs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("dashcore: purge audit logs rows: %w", err)
	}
	return n, nil
}

func (s *Store) DeleteAuditLogsBySubject(ctx context.Context, subjectID string) error {
	_, err := s.pgdb.NewDelete((*auditLogModel)(nil)).
		Where("subject_id = ?", subjectID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: delete audit logs by subject: %w", err)
	}
	return nil
}
