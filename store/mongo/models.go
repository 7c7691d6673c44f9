package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/dashcore/auditlog"
	"github.com/xraph/dashcore/dashboard"
	"github.com/xraph/dashcore/id"
	"github.com/xraph/dashcore/share"
)

// ──────────────────────────────────────────────────
// Dashboard model
// ──────────────────────────────────────────────────

type dashboardModel struct {
	grove.BaseModel `grove:"table:dashcore_dashboards"`
	ID              string         `grove:"id,pk"          bson:"_id"`
	Key             string         `grove:"key"            bson:"key"`
	OwnerUserID     string         `grove:"owner_user_id"  bson:"owner_user_id"`
	IsSystem        bool           `grove:"is_system"      bson:"is_system"`
	Name            string         `grove:"name"           bson:"name"`
	Description     string         `grove:"description"    bson:"description"`
	Visibility      string         `grove:"visibility"     bson:"visibility"`
	ScopeKind       string         `grove:"scope_kind"     bson:"scope_kind"`
	ScopePack       string         `grove:"scope_pack"     bson:"scope_pack"`
	Version         int            `grove:"version"        bson:"version"`
	Definition      map[string]any `grove:"definition"     bson:"definition,omitempty"`
	CreatedAt       time.Time      `grove:"created_at"     bson:"created_at"`
	UpdatedAt       time.Time      `grove:"updated_at"     bson:"updated_at"`
}

func dashboardToModel(d *dashboard.Definition) *dashboardModel {
	return &dashboardModel{
		ID:          d.ID.String(),
		Key:         d.Key,
		OwnerUserID: d.OwnerUserID,
		IsSystem:    d.IsSystem,
		Name:        d.Name,
		Description: d.Description,
		Visibility:  string(d.Visibility),
		ScopeKind:   string(d.Scope.Kind),
		ScopePack:   d.Scope.Pack,
		Version:     d.Version,
		Definition:  d.Definition,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func dashboardFromModel(m *dashboardModel) *dashboard.Definition {
	did, _ := id.ParseDashboardID(m.ID) //nolint:errcheck // stored IDs are always valid
	scope := dashboard.GlobalScope()
	if dashboard.ScopeKind(m.ScopeKind) == dashboard.ScopePack {
		scope = dashboard.PackScope(m.ScopePack)
	}
	return &dashboard.Definition{
		ID:          did,
		Key:         m.Key,
		OwnerUserID: m.OwnerUserID,
		IsSystem:    m.IsSystem,
		Name:        m.Name,
		Description: m.Description,
		Visibility:  dashboard.Visibility(m.Visibility),
		Scope:       scope,
		Version:     m.Version,
		Definition:  m.Definition,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Share model
// ──────────────────────────────────────────────────

type shareModel struct {
	grove.BaseModel `grove:"table:dashcore_shares"`
	ID              string    `grove:"id,pk"           bson:"_id"`
	DashboardID     string    `grove:"dashboard_id"    bson:"dashboard_id"`
	PrincipalType   string    `grove:"principal_type"  bson:"principal_type"`
	PrincipalID     string    `grove:"principal_id"    bson:"principal_id"`
	Permission      string    `grove:"permission"      bson:"permission"`
	SharedBy        string    `grove:"shared_by"       bson:"shared_by"`
	SharedByName    string    `grove:"shared_by_name"  bson:"shared_by_name"`
	CreatedAt       time.Time `grove:"created_at"      bson:"created_at"`
}

func shareToModel(s *share.Share) *shareModel {
	return &shareModel{
		ID:            s.ID.String(),
		DashboardID:   s.DashboardID.String(),
		PrincipalType: string(s.PrincipalType),
		PrincipalID:   s.PrincipalID,
		Permission:    string(s.Permission),
		SharedBy:      s.SharedBy,
		SharedByName:  s.SharedByName,
		CreatedAt:     s.CreatedAt,
	}
}

func shareFromModel(m *shareModel) *share.Share {
	sid, _ := id.ParseShareID(m.ID)          //nolint:errcheck // stored IDs are always valid
	did, _ := id.ParseDashboardID(m.DashboardID) //nolint:errcheck // stored IDs are always valid
	return &share.Share{
		ID:            sid,
		DashboardID:   did,
		PrincipalType: share.PrincipalType(m.PrincipalType),
		PrincipalID:   m.PrincipalID,
		Permission:    share.Permission(m.Permission),
		SharedBy:      m.SharedBy,
		SharedByName:  m.SharedByName,
		CreatedAt:     m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// Audit log model
// ──────────────────────────────────────────────────

type auditLogModel struct {
	grove.BaseModel `grove:"table:dashcore_audit_logs"`
	ID              string         `grove:"id,pk"          bson:"_id"`
	SubjectID       string         `grove:"subject_id"     bson:"subject_id"`
	Verb            string         `grove:"verb"           bson:"verb"`
	Entity          string         `grove:"entity"         bson:"entity"`
	DashboardKey    string         `grove:"dashboard_key"  bson:"dashboard_key"`
	Decision        string         `grove:"decision"       bson:"decision"`
	Reason          string         `grove:"reason"         bson:"reason"`
	EvalTimeNs      int64          `grove:"eval_time_ns"   bson:"eval_time_ns"`
	RequestIP       string         `grove:"request_ip"     bson:"request_ip"`
	Metadata        map[string]any `grove:"metadata"       bson:"metadata,omitempty"`
	CreatedAt       time.Time      `grove:"created_at"     bson:"created_at"`
}

func auditLogToModel(e *auditlog.Entry) *auditLogModel {
	return &auditLogModel{
		ID:           e.ID.String(),
		SubjectID:    e.SubjectID,
		Verb:         e.Verb,
		Entity:       e.Entity,
		DashboardKey: e.DashboardKey,
		Decision:     e.Decision,
		Reason:       e.Reason,
		EvalTimeNs:   e.EvalTimeNs,
		RequestIP:    e.RequestIP,
		Metadata:     e.Metadata,
		CreatedAt:    e.CreatedAt,
	}
}

func auditLogFromModel(m *auditLogModel) *auditlog.Entry {
	lid, _ := id.ParseAuditLogID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &auditlog.Entry{
		ID:           lid,
		SubjectID:    m.SubjectID,
		Verb:         m.Verb,
		Entity:       m.Entity,
		DashboardKey: m.DashboardKey,
		Decision:     m.Decision,
		Reason:       m.Reason,
		EvalTimeNs:   m.EvalTimeNs,
		RequestIP:    m.RequestIP,
		Metadata:     m.Metadata,
		CreatedAt:    m.CreatedAt,
	}
}
