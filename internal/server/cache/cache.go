// Package cache provides an optional read cache for the category listing,
// which is the hottest query of the service (every page render asks for the
// per-category bookmark counts).
package cache

import (
	"context"

	"github.com/vblinov/linkhub/internal/server/models"
)

// Store caches category listings per user. Implementations are best-effort:
// a miss or a backend failure just means the caller recomputes.
type Store interface {
	// GetCategoryList returns the cached listing and whether it was present.
	GetCategoryList(ctx context.Context, userID int64) ([]*models.CategoryWithCount, bool)

	// SetCategoryList stores a listing for the user.
	SetCategoryList(ctx context.Context, userID int64, list []*models.CategoryWithCount)

	// InvalidateUser drops the cached listing after any mutation that can
	// change categories or their counts.
	InvalidateUser(ctx context.Context, userID int64)
}

// Noop is the Store used when no Redis backend is configured.
type Noop struct{}

func (Noop) GetCategoryList(context.Context, int64) ([]*models.CategoryWithCount, bool) {
	return nil, false
}
func (Noop) SetCategoryList(context.Context, int64, []*models.CategoryWithCount) {}
func (Noop) InvalidateUser(context.Context, int64)                               {}
