// Package services contains the server-side business logic. This file
// implements UserService: registration, login, and account lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vblinov/linkhub/internal/common"
	"github.com/vblinov/linkhub/internal/dbx"
	"github.com/vblinov/linkhub/internal/server/auth"
	"github.com/vblinov/linkhub/internal/server/config"
	"github.com/vblinov/linkhub/internal/server/models"
	"github.com/vblinov/linkhub/internal/server/repositories/repomanager"
)

// Display names and icons for the reserved categories every account gets at
// signup. Reserved handling keys off the role column, so renames here are
// cosmetic.
const (
	allCategoryName       = "All"
	allCategoryIcon       = "🔖"
	favoritesCategoryName = "Favorites"
	favoritesCategoryIcon = "⭐"
	defaultCategoryColor  = "#667eea"
)

// UserService handles account lifecycle and credential verification.
type UserService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repos:         repos,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.AccessTokenValidity,
	}
}

// Register creates a user plus their reserved "All"/"Favorites" categories in
// one transaction and returns the user with a fresh access token. A taken
// username yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	if len(username) < 3 || len(username) > 50 {
		return nil, "", fmt.Errorf("%w: username must be 3-50 characters", common.ErrInvalidArgument)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", common.ErrInvalidArgument)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Users(tx).Create(ctx, user); err != nil {
			return err
		}

		categoryRepo := s.repos.Categories(tx)
		reserved := []*models.Category{
			{UserID: user.ID, Name: allCategoryName, Icon: allCategoryIcon,
				Color: defaultCategoryColor, Role: models.RoleAllView, IsSystem: true, DisplayOrder: 0},
			{UserID: user.ID, Name: favoritesCategoryName, Icon: favoritesCategoryIcon,
				Color: defaultCategoryColor, Role: models.RoleFavorites, IsSystem: true, DisplayOrder: 1},
		}
		for _, c := range reserved {
			if _, err := categoryRepo.Create(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, "", common.ErrAlreadyExists
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user with a new access token.
// Unknown users, wrong passwords, and deactivated accounts are all reported
// as common.ErrUnauthorized so login failures stay indistinguishable.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", common.ErrInternal
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}
	return user, token, nil
}

// GetByID returns the user with the given id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repos.Users(s.db).GetByID(ctx, id)
}

// GetByUsername returns the user with the given username. The HTTP layer uses
// it to resolve anonymous callers to the demo account.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repos.Users(s.db).GetByUsername(ctx, username)
}
