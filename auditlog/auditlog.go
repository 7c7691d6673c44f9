// Package auditlog defines the access-decision audit log Entry entity.
package auditlog

import (
	"time"

	"github.com/xraph/dashcore/id"
)

// Entry is a single access-decision audit record.
type Entry struct {
	ID           id.AuditLogID  `json:"id" db:"id"`
	SubjectID    string         `json:"subject_id" db:"subject_id"`
	Verb         string         `json:"verb" db:"verb"`
	Entity       string         `json:"entity" db:"entity"`
	DashboardKey string         `json:"dashboard_key,omitempty" db:"dashboard_key"`
	Decision     string         `json:"decision" db:"decision"`
	Reason       string         `json:"reason,omitempty" db:"reason"`
	EvalTimeNs   int64          `json:"eval_time_ns" db:"eval_time_ns"`
	RequestIP    string         `json:"request_ip,omitempty" db:"request_ip"`
	Metadata     map[string]any `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// QueryFilter contains filters for querying audit logs.
type QueryFilter struct {
	SubjectID    string     `json:"subject_id,omitempty"`
	Verb         string     `json:"verb,omitempty"`
	Entity       string     `json:"entity,omitempty"`
	DashboardKey string     `json:"dashboard_key,omitempty"`
	Decision     string     `json:"decision,omitempty"`
	After        *time.Time `json:"after,omitempty"`
	Before       *time.Time `json:"before,omitempty"`
	Limit        int        `json:"limit,omitempty"`
	Offset       int        `json:"offset,omitempty"`
}
