package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vblinov/linkhub/internal/common"
	"github.com/vblinov/linkhub/internal/dbx"
	"github.com/vblinov/linkhub/internal/server/cache"
	"github.com/vblinov/linkhub/internal/server/models"
	"github.com/vblinov/linkhub/internal/server/repositories/repomanager"
)

const (
	// DefaultPageSize applies when the caller does not ask for one.
	DefaultPageSize = 12
	// MaxPageSize bounds a single listing window.
	MaxPageSize = 100
)

// BookmarkService implements the bookmark query engine, the ordering engine,
// the pin toggle, and plain CRUD.
type BookmarkService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	cache cache.Store
}

// NewBookmarkService constructs a BookmarkService.
func NewBookmarkService(db *sql.DB, repos repomanager.RepositoryManager, cacheStore cache.Store) *BookmarkService {
	return &BookmarkService{db: db, repos: repos, cache: cacheStore}
}

// List composes filter, search, sort, and pagination into one page.
//
// The category filter resolves through the category's role: AllView means no
// constraint, FavoritesView constrains to favorites, a user category
// constrains to its id, and an id that does not resolve to an owned category
// applies no constraint at all. The count and the page window run inside one
// read-only transaction so both passes see the same snapshot.
func (s *BookmarkService) List(ctx context.Context, userID int64, params models.BookmarkListParams) (*models.BookmarkPage, error) {
	if params.Page == 0 {
		params.Page = 1
	}
	if params.PageSize == 0 {
		params.PageSize = DefaultPageSize
	}
	if params.Page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", common.ErrInvalidArgument)
	}
	if params.PageSize < 1 || params.PageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: page_size must be in [1,%d]", common.ErrInvalidArgument, MaxPageSize)
	}

	filter := models.BookmarkFilter{Search: strings.TrimSpace(params.Search)}

	page := &models.BookmarkPage{Page: params.Page, PageSize: params.PageSize}
	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if params.CategoryID != nil {
			category, err := s.repos.Categories(tx).GetByID(ctx, userID, *params.CategoryID)
			switch {
			case err == nil:
				switch category.Role {
				case models.RoleAllView:
					// no constraint
				case models.RoleFavorites:
					filter.FavoritesOnly = true
				default:
					filter.CategoryID = params.CategoryID
				}
			case errors.Is(err, common.ErrNotFound):
				// unknown filter, no constraint
			default:
				return err
			}
		}

		repo := s.repos.Bookmarks(tx)
		total, err := repo.Count(ctx, userID, filter)
		if err != nil {
			return err
		}
		offset := (params.Page - 1) * params.PageSize
		items, err := repo.List(ctx, userID, filter, params.SortBy, params.Order, offset, params.PageSize)
		if err != nil {
			return err
		}

		page.Total = total
		page.Items = items
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing bookmarks: %w", err)
	}

	if page.Total > 0 {
		page.TotalPages = int((page.Total + int64(params.PageSize) - 1) / int64(params.PageSize))
	}
	return page, nil
}

// Create stores a bookmark at the end of the user's display order.
func (s *BookmarkService) Create(ctx context.Context, userID int64, bookmark *models.Bookmark) (*models.Bookmark, error) {
	if bookmark.Title == "" || bookmark.URL == "" {
		return nil, fmt.Errorf("%w: title and url required", common.ErrInvalidArgument)
	}

	bookmark.UserID = userID
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Bookmarks(tx)
		max, err := repo.MaxDisplayOrder(ctx, userID)
		if err != nil {
			return err
		}
		bookmark.DisplayOrder = max + 1
		_, err = repo.Create(ctx, bookmark)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating bookmark: %w", err)
	}

	s.cache.InvalidateUser(ctx, userID)
	return bookmark, nil
}

// Get returns a single bookmark owned by userID.
func (s *BookmarkService) Get(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	return s.repos.Bookmarks(s.db).GetByID(ctx, userID, id)
}

// Update applies a partial update; nil fields keep their stored values.
func (s *BookmarkService) Update(ctx context.Context, userID, id int64, upd models.BookmarkUpdate) (*models.Bookmark, error) {
	var bookmark *models.Bookmark
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Bookmarks(tx)

		var err error
		bookmark, err = repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			bookmark.Title = *upd.Title
		}
		if upd.URL != nil {
			bookmark.URL = *upd.URL
		}
		if upd.Description != nil {
			bookmark.Description = *upd.Description
		}
		if upd.Icon != nil {
			bookmark.Icon = *upd.Icon
		}
		if upd.Tags != nil {
			bookmark.Tags = *upd.Tags
		}
		if upd.CategoryID != nil {
			bookmark.CategoryID = upd.CategoryID
		}
		return repo.Update(ctx, bookmark)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error updating bookmark: %w", err)
	}

	s.cache.InvalidateUser(ctx, userID)
	return bookmark, nil
}

// Delete removes a bookmark owned by userID.
func (s *BookmarkService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repos.Bookmarks(s.db).Delete(ctx, userID, id); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

// Visit bumps the visit counter and returns the updated bookmark.
func (s *BookmarkService) Visit(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	return s.repos.Bookmarks(s.db).RecordVisit(ctx, userID, id)
}

// TogglePin flips a bookmark between pinned and unpinned in one transaction.
// Pinning assigns the next position past the owner's current maximum, so a
// re-pin lands at the back of the pinned tier rather than its old slot.
func (s *BookmarkService) TogglePin(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	var bookmark *models.Bookmark
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Bookmarks(tx)

		current, err := repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if current.IsFavorite {
			bookmark, err = repo.Unpin(ctx, userID, id)
		} else {
			bookmark, err = repo.Pin(ctx, userID, id)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error toggling pin: %w", err)
	}

	s.cache.InvalidateUser(ctx, userID)
	return bookmark, nil
}

// Reorder renumbers the given bookmarks contiguously starting at the lowest
// display order found among them (floored at 1), leaving bookmarks outside
// the set untouched. Duplicates keep their first occurrence; unknown and
// foreign ids are skipped. Only a bookmark whose order actually changes is
// written, so repeating the same sequence reports changed=false.
func (s *BookmarkService) Reorder(ctx context.Context, userID int64, ids []int64) (bool, error) {
	unique := dedupIDs(ids)
	if len(unique) == 0 {
		return false, nil
	}

	changed := false
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Bookmarks(tx)

		resolved, err := repo.ListByIDs(ctx, userID, unique)
		if err != nil {
			return err
		}
		if len(resolved) == 0 {
			return nil
		}

		byID := make(map[int64]*models.Bookmark, len(resolved))
		baseOrder := resolved[0].DisplayOrder
		for _, b := range resolved {
			byID[b.ID] = b
			if b.DisplayOrder < baseOrder {
				baseOrder = b.DisplayOrder
			}
		}
		if baseOrder < 1 {
			baseOrder = 1
		}

		for index, id := range unique {
			bookmark, ok := byID[id]
			if !ok {
				continue
			}
			target := baseOrder + index
			if bookmark.DisplayOrder == target {
				continue
			}
			if err := repo.UpdateDisplayOrder(ctx, userID, id, target); err != nil {
				return err
			}
			changed = true
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("error reordering bookmarks: %w", err)
	}
	return changed, nil
}

func dedupIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
