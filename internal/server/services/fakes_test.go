package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/vblinov/linkhub/internal/common"
	"github.com/vblinov/linkhub/internal/dbx"
	"github.com/vblinov/linkhub/internal/server/models"
	"github.com/vblinov/linkhub/internal/server/repositories/bookmarks"
	"github.com/vblinov/linkhub/internal/server/repositories/categories"
	"github.com/vblinov/linkhub/internal/server/repositories/repomanager"
	"github.com/vblinov/linkhub/internal/server/repositories/users"
)

// -------- test fakes --------

type fakeUsersRepo struct {
	users.Repository

	createErr error
	created   []*models.User

	byUsername map[string]*models.User
	byID       map[int64]*models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	user.ID = int64(len(f.created) + 1)
	f.created = append(f.created, user)
	return user, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type orderWrite struct {
	id    int64
	order int
}

type fakeCategoriesRepo struct {
	categories.Repository

	categories []*models.Category
	maxOrder   int
	orderBase  int

	created      []*models.Category
	updated      []*models.Category
	deleted      []int64
	orderWrites  []orderWrite
	updateErr    error
	deleteCalled bool
}

func (f *fakeCategoriesRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.ID = int64(len(f.created) + 100)
	f.created = append(f.created, category)
	return category, nil
}

func (f *fakeCategoriesRepo) GetByID(ctx context.Context, userID, id int64) (*models.Category, error) {
	for _, c := range f.categories {
		if c.ID == id && c.UserID == userID {
			return c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeCategoriesRepo) List(ctx context.Context, userID int64) ([]*models.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoriesRepo) ListByIDs(ctx context.Context, userID int64, ids []int64) ([]*models.Category, error) {
	var result []*models.Category
	for _, id := range ids {
		for _, c := range f.categories {
			if c.ID == id && c.UserID == userID {
				result = append(result, c)
			}
		}
	}
	return result, nil
}

func (f *fakeCategoriesRepo) Update(ctx context.Context, category *models.Category) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, category)
	return nil
}

func (f *fakeCategoriesRepo) Delete(ctx context.Context, userID, id int64) error {
	f.deleteCalled = true
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCategoriesRepo) MaxDisplayOrder(ctx context.Context, userID int64) (int, error) {
	return f.maxOrder, nil
}

func (f *fakeCategoriesRepo) ReservedOrderBase(ctx context.Context, userID int64) (int, error) {
	return f.orderBase, nil
}

func (f *fakeCategoriesRepo) UpdateDisplayOrder(ctx context.Context, userID, id int64, order int) error {
	f.orderWrites = append(f.orderWrites, orderWrite{id: id, order: order})
	return nil
}

type fakeBookmarksRepo struct {
	bookmarks.Repository

	bookmarks []*models.Bookmark
	maxOrder  int

	listResult []*models.Bookmark
	total      int64
	lastFilter models.BookmarkFilter
	lastOffset int
	lastLimit  int

	created     []*models.Bookmark
	updated     []*models.Bookmark
	orderWrites []orderWrite
	pinned      []int64
	unpinned    []int64
	reassigned  []int64

	countAll       int64
	countFavorites int64
	countByCat     map[int64]int64
}

func (f *fakeBookmarksRepo) Create(ctx context.Context, bookmark *models.Bookmark) (*models.Bookmark, error) {
	bookmark.ID = int64(len(f.created) + 1000)
	f.created = append(f.created, bookmark)
	return bookmark, nil
}

func (f *fakeBookmarksRepo) GetByID(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	for _, b := range f.bookmarks {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeBookmarksRepo) List(ctx context.Context, userID int64, filter models.BookmarkFilter, sortBy, order string, offset, limit int) ([]*models.Bookmark, error) {
	f.lastFilter = filter
	f.lastOffset = offset
	f.lastLimit = limit
	return f.listResult, nil
}

func (f *fakeBookmarksRepo) Count(ctx context.Context, userID int64, filter models.BookmarkFilter) (int64, error) {
	f.lastFilter = filter
	return f.total, nil
}

func (f *fakeBookmarksRepo) ListByIDs(ctx context.Context, userID int64, ids []int64) ([]*models.Bookmark, error) {
	var result []*models.Bookmark
	for _, id := range ids {
		for _, b := range f.bookmarks {
			if b.ID == id && b.UserID == userID {
				result = append(result, b)
			}
		}
	}
	return result, nil
}

func (f *fakeBookmarksRepo) Update(ctx context.Context, bookmark *models.Bookmark) error {
	f.updated = append(f.updated, bookmark)
	return nil
}

func (f *fakeBookmarksRepo) Delete(ctx context.Context, userID, id int64) error {
	return nil
}

func (f *fakeBookmarksRepo) Pin(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	f.pinned = append(f.pinned, id)
	b, err := f.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	pos := len(f.pinned)
	b.IsFavorite = true
	b.PinnedPosition = &pos
	return b, nil
}

func (f *fakeBookmarksRepo) Unpin(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	f.unpinned = append(f.unpinned, id)
	b, err := f.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	b.IsFavorite = false
	b.PinnedPosition = nil
	return b, nil
}

func (f *fakeBookmarksRepo) MaxDisplayOrder(ctx context.Context, userID int64) (int, error) {
	return f.maxOrder, nil
}

func (f *fakeBookmarksRepo) UpdateDisplayOrder(ctx context.Context, userID, id int64, order int) error {
	f.orderWrites = append(f.orderWrites, orderWrite{id: id, order: order})
	return nil
}

func (f *fakeBookmarksRepo) ReassignCategory(ctx context.Context, userID, fromCategoryID int64, toCategoryID *int64) error {
	f.reassigned = append(f.reassigned, fromCategoryID)
	return nil
}

func (f *fakeBookmarksRepo) CountAll(ctx context.Context, userID int64) (int64, error) {
	return f.countAll, nil
}

func (f *fakeBookmarksRepo) CountFavorites(ctx context.Context, userID int64) (int64, error) {
	return f.countFavorites, nil
}

func (f *fakeBookmarksRepo) CountInCategory(ctx context.Context, userID, categoryID int64) (int64, error) {
	return f.countByCat[categoryID], nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	u *fakeUsersRepo
	c *fakeCategoriesRepo
	b *fakeBookmarksRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Categories(db dbx.DBTX) categories.Repository { return m.c }
func (m *fakeRepoManager) Bookmarks(db dbx.DBTX) bookmarks.Repository   { return m.b }

type fakeCache struct {
	list         []*models.CategoryWithCount
	hit          bool
	setCalls     int
	invalidated  []int64
	lastSetValue []*models.CategoryWithCount
}

func (f *fakeCache) GetCategoryList(ctx context.Context, userID int64) ([]*models.CategoryWithCount, bool) {
	return f.list, f.hit
}

func (f *fakeCache) SetCategoryList(ctx context.Context, userID int64, list []*models.CategoryWithCount) {
	f.setCalls++
	f.lastSetValue = list
}

func (f *fakeCache) InvalidateUser(ctx context.Context, userID int64) {
	f.invalidated = append(f.invalidated, userID)
}

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}
