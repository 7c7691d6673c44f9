// Package mongo provides a MongoDB implementation of the dashcore
// composite store backed by Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/dashcore/auditlog"
	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/share"
	"github.com/xraph/dashcore/store"
)

// Collection name constants.
const (
	colDashboards = "dashcore_dashboards"
	colShares     = "dashcore_shares"
	colAuditLogs  = "dashcore_audit_logs"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of the composite dashcore store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates indexes for all dashcore collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()
	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("dashcore/mongo: migrate %s indexes: %w", col, err)
		}
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

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all dashcore
// collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colDashboards: {
			{
				Keys:    bson.D{{Key: "key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "owner_user_id", Value: 1}}},
			{Keys: bson.D{{Key: "scope_kind", Value: 1}, {Key: "scope_pack", Value: 1}}},
			{Keys: bson.D{{Key: "visibility", Value: 1}}},
		},
		colShares: {
			{
				Keys: bson.D{
					{Key: "dashboard_id", Value: 1},
					{Key: "principal_type", Value: 1},
					{Key: "principal_id", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "dashboard_id", Value: 1}}},
			{Keys: bson.D{{Key: "principal_type", Value: 1}, {Key: "principal_id", Value: 1}}},
		},
		colAuditLogs: {
			{Keys: bson.D{{Key: "subject_id", Value: 1}}},
			{Keys: bson.D{{Key: "decision", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
}

// ──────────────────────────────────────────────────
// Dashboard operations
// ──────────────────────────────────────────────────

func (s *Store) CreateDashboard(ctx context.Context, d *dashboard.Definition) error {
	m := dashboardToModel(d)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("dashcore: create dashboard: %w", err)
	}
	return nil
}

func (s *Store) GetDashboard(ctx context.Context, dashboardID id.DashboardID) (*dashboard.Definition, error) {
	var m dashboardModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": dashboardID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("dashcore: get dashboard: %w", err)
	}
	return dashboardFromModel(&m), nil
}

func (s *Store) GetDashboardByKey(ctx context.Context, key string) (*dashboard.Definition, error) {
	var m dashboardModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"key": key}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("dashcore: get dashboard by key: %w", err)
	}
	return dashboardFromModel(&m), nil
}

func (s *Store) UpdateDashboard(ctx context.Context, d *dashboard.Definition) error {
	m := dashboardToModel(d)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: update dashboard: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("dashcore: update dashboard %s: no such row", d.ID)
	}
	return nil
}

func (s *Store) DeleteDashboard(ctx context.Context, dashboardID id.DashboardID) error {
	_, err := s.mdb.NewDelete((*shareModel)(nil)).
		Many().
		Filter(bson.M{"dashboard_id": dashboardID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: delete dashboard shares: %w", err)
	}
	_, err = s.mdb.NewDelete((*dashboardModel)(nil)).
		Filter(bson.M{"_id": dashboardID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: delete dashboard: %w", err)
	}
	return nil
}

func (s *Store) ListDashboards(ctx context.Context, filter *dashboard.ListFilter) ([]*dashboard.Definition, error) {
	var models []dashboardModel
	f := dashboardFilter(filter)
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "key", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
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
	count, err := s.mdb.NewFind((*dashboardModel)(nil)).
		Filter(dashboardFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("dashcore: count dashboards: %w", err)
	}
	return count, nil
}

func dashboardFilter(filter *dashboard.ListFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.OwnerUserID != "" {
		f["owner_user_id"] = filter.OwnerUserID
	}
	if filter.IsSystem != nil {
		f["is_system"] = *filter.IsSystem
	}
	if filter.Visibility != nil {
		f["visibility"] = string(*filter.Visibility)
	}
	if filter.Pack != "" {
		f["scope_kind"] = string(dashboard.ScopePack)
		f["scope_pack"] = filter.Pack
	}
	if filter.Search != "" {
		f["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"key": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}
	return f
}

// ──────────────────────────────────────────────────
// Share operations
// ──────────────────────────────────────────────────

func (s *Store) ListShares(ctx context.Context, dashboardID id.DashboardID) ([]*share.Share, error) {
	var models []shareModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"dashboard_id": dashboardID.String()}).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "principal_id", Value: 1}}).
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
	var m shareModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{
			"dashboard_id":   dashboardID.String(),
			"principal_type": string(principalType),
			"principal_id":   principalID,
		}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("dashcore: get share: %w", err)
	}
	return shareFromModel(&m), nil
}

func (s *Store) UpsertShare(ctx context.Context, in *share.Share) (*share.Share, error) {
	existing, err := s.GetShare(ctx, in.DashboardID, in.PrincipalType, in.PrincipalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Permission = in.Permission
		existing.SharedBy = in.SharedBy
		existing.SharedByName = in.SharedByName
		m := shareToModel(existing)
		if _, err := s.mdb.NewUpdate(m).Filter(bson.M{"_id": m.ID}).Exec(ctx); err != nil {
			return nil, fmt.Errorf("dashcore: upsert share: %w", err)
		}
		return existing, nil
	}

	m := shareToModel(in)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		if mongod.IsDuplicateKeyError(err) {
			// Lost a race on the unique tuple index; apply as an update.
			return s.UpsertShare(ctx, in)
		}
		return nil, fmt.Errorf("dashcore: upsert share: %w", err)
	}
	return in, nil
}

func (s *Store) DeleteShare(ctx context.Context, dashboardID id.DashboardID, principalType share.PrincipalType, principalID string) (int64, error) {
	res, err := s.mdb.NewDelete((*shareModel)(nil)).
		Filter(bson.M{
			"dashboard_id":   dashboardID.String(),
			"principal_type": string(principalType),
			"principal_id":   principalID,
		}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("dashcore: delete share: %w", err)
	}
	return res.DeletedCount(), nil
}

func (s *Store) DeleteSharesByDashboard(ctx context.Context, dashboardID id.DashboardID) error {
	_, err := s.mdb.NewDelete((*shareModel)(nil)).
		Many().
		Filter(bson.M{"dashboard_id": dashboardID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: delete shares by dashboard: %w", err)
	}
	return nil
}

func (s *Store) ListSharesForPrincipal(ctx context.Context, principalType share.PrincipalType, principalID string) ([]*share.Share, error) {
	var models []shareModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{
			"principal_type": string(principalType),
			"principal_id":   principalID,
		}).
		Sort(bson.D{{Key: "created_at", Value: 1}}).
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
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("dashcore: create audit log: %w", err)
	}
	return nil
}

func (s *Store) GetAuditLog(ctx context.Context, logID id.AuditLogID) (*auditlog.Entry, error) {
	var m auditLogModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": logID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("dashcore: get audit log: %w", err)
	}
	return auditLogFromModel(&m), nil
}

func (s *Store) ListAuditLogs(ctx context.Context, filter *auditlog.QueryFilter) ([]*auditlog.Entry, error) {
	var models []auditLogModel
	q := s.mdb.NewFind(&models).
		Filter(auditLogFilter(filter)).
		Sort(bson.D{{Key: "created_at", Value: -1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
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
	count, err := s.mdb.NewFind((*auditLogModel)(nil)).
		Filter(auditLogFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("dashcore: count audit logs: %w", err)
	}
	return count, nil
}

func auditLogFilter(filter *auditlog.QueryFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.SubjectID != "" {
		f["subject_id"] = filter.SubjectID
	}
	if filter.Verb != "" {
		f["verb"] = filter.Verb
	}
	if filter.Entity != "" {
		f["entity"] = filter.Entity
	}
	if filter.DashboardKey != "" {
		f["dashboard_key"] = filter.DashboardKey
	}
	if filter.Decision != "" {
		f["decision"] = filter.Decision
	}
	created := bson.M{}
	if filter.After != nil {
		created["$gte"] = *filter.After
	}
	if filter.Before != nil {
		created["$lte"] = *filter.Before
	}
	if len(created) > 0 {
		f["created_at"] = created
	}
	return f
}

func (s *Store) PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*auditLogModel)(nil)).
		Many().
		Filter(bson.M{"created_at": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("dashcore: purge audit logs: %w", err)
	}
	return res.DeletedCount(), nil
}

func (s *Store) DeleteAuditLogsBySubject(ctx context.Context, subjectID string) error {
	_, err := s.mdb.NewDelete((*auditLogModel)(nil)).
		Many().
		Filter(bson.M{"subject_id": subjectID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("dashcore: delete audit logs by subject: %w", err)
	}
	return nil
}
