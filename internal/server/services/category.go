package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vblinov/linkhub/internal/common"
	"github.com/vblinov/linkhub/internal/dbx"
	"github.com/vblinov/linkhub/internal/server/cache"
	"github.com/vblinov/linkhub/internal/server/models"
	"github.com/vblinov/linkhub/internal/server/repositories/repomanager"
)

// CategoryService implements category CRUD and the display-order engine.
type CategoryService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	cache cache.Store
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(db *sql.DB, repos repomanager.RepositoryManager, cacheStore cache.Store) *CategoryService {
	return &CategoryService{db: db, repos: repos, cache: cacheStore}
}

// List returns the user's categories in display order, each with the number
// of bookmarks it matches: every bookmark for the AllView role, favorites for
// the FavoritesView role, and the category_id partition otherwise. The counts
// live on a DTO; the stored entity is never annotated.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]*models.CategoryWithCount, error) {
	if cached, ok := s.cache.GetCategoryList(ctx, userID); ok {
		return cached, nil
	}

	var result []*models.CategoryWithCount
	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		categories, err := s.repos.Categories(tx).List(ctx, userID)
		if err != nil {
			return err
		}

		bookmarkRepo := s.repos.Bookmarks(tx)
		for _, c := range categories {
			var count int64
			switch c.Role {
			case models.RoleAllView:
				count, err = bookmarkRepo.CountAll(ctx, userID)
			case models.RoleFavorites:
				count, err = bookmarkRepo.CountFavorites(ctx, userID)
			default:
				count, err = bookmarkRepo.CountInCategory(ctx, userID, c.ID)
			}
			if err != nil {
				return err
			}
			result = append(result, &models.CategoryWithCount{Category: *c, BookmarkCount: count})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}

	s.cache.SetCategoryList(ctx, userID, result)
	return result, nil
}

// Create adds a user-defined category after all existing ones.
func (s *CategoryService) Create(ctx context.Context, userID int64, name, icon, color string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name required", common.ErrInvalidArgument)
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Icon:   icon,
		Color:  color,
		Role:   models.RoleNone,
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Categories(tx)
		max, err := repo.MaxDisplayOrder(ctx, userID)
		if err != nil {
			return err
		}
		category.DisplayOrder = max + 1
		_, err = repo.Create(ctx, category)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}

	s.cache.InvalidateUser(ctx, userID)
	return category, nil
}

// Update renames/restyles a user-defined category. System categories cannot
// be updated and report common.ErrNotFound.
func (s *CategoryService) Update(ctx context.Context, userID, id int64, name, icon, color string) (*models.Category, error) {
	var updated *models.Category
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Categories(tx)
		if err := repo.Update(ctx, &models.Category{
			ID: id, UserID: userID, Name: name, Icon: icon, Color: color,
		}); err != nil {
			return err
		}
		var err error
		updated, err = repo.GetByID(ctx, userID, id)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error updating category: %w", err)
	}

	s.cache.InvalidateUser(ctx, userID)
	return updated, nil
}

// Delete removes a user-defined category, first reassigning its bookmarks to
// transferTo, which must resolve to a category owned by the same user. Both
// the missing-category and the missing-target case report common.ErrNotFound,
// and nothing is deleted.
func (s *CategoryService) Delete(ctx context.Context, userID, id, transferTo int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Categories(tx)

		category, err := repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if category.IsSystem {
			return common.ErrNotFound
		}
		if _, err := repo.GetByID(ctx, userID, transferTo); err != nil {
			return err
		}

		target := transferTo
		if err := s.repos.Bookmarks(tx).ReassignCategory(ctx, userID, id, &target); err != nil {
			return err
		}
		return repo.Delete(ctx, userID, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error deleting category: %w", err)
	}

	s.cache.InvalidateUser(ctx, userID)
	return nil
}

// Reorder assigns new display orders to the user's categories following the
// input sequence. Reserved categories keep their order untouched and the
// order base starts past the highest reserved order, so "All" and "Favorites"
// stay in front no matter what the input asks for. Unknown, foreign, and
// reserved ids are skipped; the index keeps advancing so the remaining
// categories land in input order. Returns whether anything was written.
func (s *CategoryService) Reorder(ctx context.Context, userID int64, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	changed := false
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Categories(tx)

		resolved, err := repo.ListByIDs(ctx, userID, ids)
		if err != nil {
			return err
		}
		byID := make(map[int64]*models.Category, len(resolved))
		for _, c := range resolved {
			byID[c.ID] = c
		}

		orderBase, err := repo.ReservedOrderBase(ctx, userID)
		if err != nil {
			return err
		}

		for index, id := range ids {
			category, ok := byID[id]
			if !ok || category.Role.Reserved() {
				continue
			}
			if err := repo.UpdateDisplayOrder(ctx, userID, id, orderBase+index); err != nil {
				return err
			}
			changed = true
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("error reordering categories: %w", err)
	}

	if changed {
		s.cache.InvalidateUser(ctx, userID)
	}
	return changed, nil
}
