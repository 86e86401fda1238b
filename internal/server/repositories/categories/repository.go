package categories

import (
	"context"

	"github.com/vblinov/linkhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Category, error)
	List(ctx context.Context, userID int64) ([]*models.Category, error)
	ListByIDs(ctx context.Context, userID int64, ids []int64) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, userID, id int64) error
	MaxDisplayOrder(ctx context.Context, userID int64) (int, error)
	ReservedOrderBase(ctx context.Context, userID int64) (int, error)
	UpdateDisplayOrder(ctx context.Context, userID, id int64, order int) error
}
