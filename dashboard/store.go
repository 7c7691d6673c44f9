package dashboard

import (
	"context"

	"github.com/xraph/dashcore/id"
)

// Store defines persistence operations for dashboard definitions.
// Backends enforce the unique constraint on Key.
type Store interface {
	// CreateDashboard persists a new dashboard definition.
	CreateDashboard(ctx context.Context, d *Definition) error

	// GetDashboard retrieves a dashboard by ID.
	// Returns nil with no error when no such dashboard exists.
	GetDashboard(ctx context.Context, dashboardID id.DashboardID) (*Definition, error)

	// GetDashboardByKey retrieves a dashboard by its unique key.
	// Returns nil with no error when no such dashboard exists.
	GetDashboardByKey(ctx context.Context, key string) (*Definition, error)

	// UpdateDashboard persists changes to a dashboard.
	UpdateDashboard(ctx context.Context, d *Definition) error

	// DeleteDashboard removes a dashboard and cascades its shares.
	DeleteDashboard(ctx context.Context, dashboardID id.DashboardID) error

	// ListDashboards returns dashboards matching the filter.
	ListDashboards(ctx context.Context, filter *ListFilter) ([]*Definition, error)

	// CountDashboards returns the number of dashboards matching the filter.
	CountDashboards(ctx context.Context, filter *ListFilter) (int64, error)
}
