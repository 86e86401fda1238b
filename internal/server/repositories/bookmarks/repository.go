package bookmarks

import (
	"context"

	"github.com/vblinov/linkhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, bookmark *models.Bookmark) (*models.Bookmark, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Bookmark, error)
	List(ctx context.Context, userID int64, filter models.BookmarkFilter, sortBy, order string, offset, limit int) ([]*models.Bookmark, error)
	Count(ctx context.Context, userID int64, filter models.BookmarkFilter) (int64, error)
	ListByIDs(ctx context.Context, userID int64, ids []int64) ([]*models.Bookmark, error)
	Update(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, userID, id int64) error
	RecordVisit(ctx context.Context, userID, id int64) (*models.Bookmark, error)
	Pin(ctx context.Context, userID, id int64) (*models.Bookmark, error)
	Unpin(ctx context.Context, userID, id int64) (*models.Bookmark, error)
	MaxDisplayOrder(ctx context.Context, userID int64) (int, error)
	UpdateDisplayOrder(ctx context.Context, userID, id int64, order int) error
	ReassignCategory(ctx context.Context, userID, fromCategoryID int64, toCategoryID *int64) error
	CountAll(ctx context.Context, userID int64) (int64, error)
	CountFavorites(ctx context.Context, userID int64) (int64, error)
	CountInCategory(ctx context.Context, userID, categoryID int64) (int64, error)
}
