package share

import (
	"context"

	"github.com/xraph/dashcore/id"
)

// Store persists dashboard shares.
type Store interface {
	// ListShares returns all shares attached to a dashboard.
	ListShares(ctx context.Context, dashboardID id.DashboardID) ([]*Share, error)

	// GetShare looks up a share by its (dashboard, principal) identity.
	// Returns nil with no error when no such share exists.
	GetShare(ctx context.Context, dashboardID id.DashboardID, principalType PrincipalType, principalID string) (*Share, error)

	// UpsertShare creates the share, or updates permission, shared-by
	// fields on the existing row with the same (dashboard, principal)
	// identity. ID and CreatedAt of an existing row are preserved.
	UpsertShare(ctx context.Context, s *Share) (*Share, error)

	// DeleteShare removes a share by identity and reports how many rows
	// were removed (0 or 1).
	DeleteShare(ctx context.Context, dashboardID id.DashboardID, principalType PrincipalType, principalID string) (int64, error)

	// DeleteSharesByDashboard removes every share of a dashboard.
	DeleteSharesByDashboard(ctx context.Context, dashboardID id.DashboardID) error

	// ListSharesForPrincipal returns all shares targeting one principal.
	ListSharesForPrincipal(ctx context.Context, principalType PrincipalType, principalID string) ([]*Share, error)
}
