// Package httpapi exposes the bookmark service over a chi-routed REST API.
package httpapi

import (
	"context"

	"github.com/vblinov/linkhub/internal/logging"
	"github.com/vblinov/linkhub/internal/server/config"
	"github.com/vblinov/linkhub/internal/server/models"
)

// UserService is the account surface the handlers need.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// CategoryService is the category surface the handlers need.
type CategoryService interface {
	List(ctx context.Context, userID int64) ([]*models.CategoryWithCount, error)
	Create(ctx context.Context, userID int64, name, icon, color string) (*models.Category, error)
	Update(ctx context.Context, userID, id int64, name, icon, color string) (*models.Category, error)
	Delete(ctx context.Context, userID, id, transferTo int64) error
	Reorder(ctx context.Context, userID int64, ids []int64) (bool, error)
}

// BookmarkService is the bookmark surface the handlers need.
type BookmarkService interface {
	List(ctx context.Context, userID int64, params models.BookmarkListParams) (*models.BookmarkPage, error)
	Create(ctx context.Context, userID int64, bookmark *models.Bookmark) (*models.Bookmark, error)
	Get(ctx context.Context, userID, id int64) (*models.Bookmark, error)
	Update(ctx context.Context, userID, id int64, upd models.BookmarkUpdate) (*models.Bookmark, error)
	Delete(ctx context.Context, userID, id int64) error
	Visit(ctx context.Context, userID, id int64) (*models.Bookmark, error)
	TogglePin(ctx context.Context, userID, id int64) (*models.Bookmark, error)
	Reorder(ctx context.Context, userID int64, ids []int64) (bool, error)
}

// IconService is the icon-storage surface the handlers need.
type IconService interface {
	GetUploadURL(ctx context.Context) (string, string, error)
	GetDownloadURL(ctx context.Context, key string) (string, error)
}

// API bundles the services behind the HTTP handlers.
type API struct {
	log        logging.Logger
	users      UserService
	categories CategoryService
	bookmarks  BookmarkService
	icons      IconService

	jwtSecret    []byte
	demoUsername string
}

// NewAPI constructs the handler set.
func NewAPI(cfg *config.Config, log logging.Logger, users UserService,
	categories CategoryService, bookmarks BookmarkService, icons IconService) *API {
	return &API{
		log:          log,
		users:        users,
		categories:   categories,
		bookmarks:    bookmarks,
		icons:        icons,
		jwtSecret:    []byte(cfg.SecretKey),
		demoUsername: cfg.DemoUsername,
	}
}
