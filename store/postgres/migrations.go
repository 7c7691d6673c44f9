package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the dashcore store
// (PostgreSQL).
var Migrations = migrate.NewGroup("dashcore")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_dashboards",
			Version: "20240601000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS dashcore_dashboards (
    id              TEXT PRIMARY KEY,
    key             TEXT NOT NULL,
    owner_user_id   TEXT NOT NULL,
    is_system       BOOLEAN NOT NULL DEFAULT FALSE,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    visibility      TEXT NOT NULL DEFAULT 'private',
    scope_kind      TEXT NOT NULL DEFAULT 'global',
    scope_pack      TEXT NOT NULL DEFAULT '',
    version         INTEGER NOT NULL DEFAULT 1,
    definition      JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(key)
);

CREATE INDEX IF NOT EXISTS idx_dashcore_dash_owner ON dashcore_dashboards (owner_user_id);
CREATE INDEX IF NOT EXISTS idx_dashcore_dash_pack ON dashcore_dashboards (scope_kind, scope_pack);
CREATE INDEX IF NOT EXISTS idx_dashcore_dash_visibility ON dashcore_dashboards (visibility);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS dashcore_dashboards`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_shares",
			Version: "20240601000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS dashcore_shares (
    id              TEXT PRIMARY KEY,
    dashboard_id    TEXT NOT NULL REFERENCES dashcore_dashboards(id) ON DELETE CASCADE,
    principal_type  TEXT NOT NULL,
    principal_id    TEXT NOT NULL,
    permission      TEXT NOT NULL DEFAULT 'view',
    shared_by       TEXT NOT NULL,
    shared_by_name  TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(dashboard_id, principal_type, principal_id)
);

CREATE INDEX IF NOT EXISTS idx_dashcore_shares_dash ON dashcore_shares (dashboard_id);
CREATE INDEX IF NOT EXISTS idx_dashcore_shares_principal ON dashcore_shares (principal_type, principal_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS dashcore_shares`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_audit_logs",
			Version: "20240601000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS dashcore_audit_logs (
    id              TEXT PRIMARY KEY,
    subject_id      TEXT NOT NULL,
    verb            TEXT NOT NULL,
    entity          TEXT NOT NULL,
    dashboard_key   TEXT NOT NULL DEFAULT '',
    decision        TEXT NOT NULL,
    reason          TEXT NOT NULL DEFAULT '',
    eval_time_ns    BIGINT NOT NULL DEFAULT 0,
    request_ip      TEXT NOT NULL DEFAULT '',
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_dashcore_alogs_subject ON dashcore_audit_logs (subject_id);
CREATE INDEX IF NOT EXISTS idx_dashcore_alogs_decision ON dashcore_audit_logs (decision);
CREATE INDEX IF NOT EXISTS idx_dashcore_alogs_created ON dashcore_audit_logs (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS dashcore_audit_logs`)
				return err
			},
		},
	)
}
