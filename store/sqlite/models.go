package sqlite

import (
	"encoding/json"
	"fmt"
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
	ID              string    `grove:"id,pk"`
	Key             string    `grove:"key,notnull"`
	OwnerUserID     string    `grove:"owner_user_id,notnull"`
	IsSystem        bool      `grove:"is_system,notnull"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	Visibility      string    `grove:"visibility,notnull"`
	ScopeKind       string    `grove:"scope_kind,notnull"`
	ScopePack       string    `grove:"scope_pack"`
	Version         int       `grove:"version,notnull"`
	Definition      string    `grove:"definition"` // JSON text
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func dashboardToModel(d *dashboard.Definition) (*dashboardModel, error) {
	definition, err := json.Marshal(d.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal dashboard definition: %w", err)
	}
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
		Definition:  string(definition),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func dashboardFromModel(m *dashboardModel) (*dashboard.Definition, error) {
	did, _ := id.ParseDashboardID(m.ID) //nolint:errcheck // stored IDs are always valid
	var definition map[string]any
	if m.Definition != "" {
		if err := json.Unmarshal([]byte(m.Definition), &definition); err != nil {
			return nil, fmt.Errorf("unmarshal dashboard definition: %w", err)
		}
	}
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
		Definition:  definition,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// ──────────────────────────────────────────────────
// Share model
// ──────────────────────────────────────────────────

type shareModel struct {
	grove.BaseModel `grove:"table:dashcore_shares"`
	ID              string    `grove:"id,pk"`
	DashboardID     string    `grove:"dashboard_id,notnull"`
	PrincipalType   string    `grove:"principal_type,notnull"`
	PrincipalID     string    `grove:"principal_id,notnull"`
	Permission      string    `grove:"permission,notnull"`
	SharedBy        string    `grove:"shared_by,notnull"`
	SharedByName    string    `grove:"shared_by_name"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
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
	ID              string    `grove:"id,pk"`
	SubjectID       string    `grove:"subject_id,notnull"`
	Verb            string    `grove:"verb,notnull"`
	Entity          string    `grove:"entity,notnull"`
	DashboardKey    string    `grove:"dashboard_key"`
	Decision        string    `grove:"decision,notnull"`
	Reason          string    `grove:"reason"`
	EvalTimeNs      int64     `grove:"eval_time_ns,notnull"`
	RequestIP       string    `grove:"request_ip"`
	Metadata        string    `grove:"metadata"` // JSON text
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func auditLogToModel(e *auditlog.Entry) (*auditLogModel, error) {
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal audit log metadata: %w", err)
	}
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
		Metadata:     string(metadata),
		CreatedAt:    e.CreatedAt,
	}, nil
}

func auditLogFromModel(m *auditLogModel) (*auditlog.Entry, error) {
	lid, _ := id.ParseAuditLogID(m.ID) //nolint:errcheck // stored IDs are always valid
	var metadata map[string]any
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal audit log metadata: %w", err)
		}
	}
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
		Metadata:     metadata,
		CreatedAt:    m.CreatedAt,
	}, nil
}
