package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vblinov/linkhub/internal/common"
	"github.com/vblinov/linkhub/internal/server/auth"
	"github.com/vblinov/linkhub/internal/server/config"
	"github.com/vblinov/linkhub/internal/server/models"
)

func testUserConfig() *config.Config {
	return &config.Config{SecretKey: "test-secret", AccessTokenValidity: time.Hour}
}

func TestRegister_CreatesUserAndReservedCategories(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	u := &fakeUsersRepo{}
	c := &fakeCategoriesRepo{}
	m := &fakeRepoManager{u: u, c: c}
	s := NewUserService(db, m, testUserConfig())

	user, token, err := s.Register(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user id to be assigned")
	}
	if token == "" {
		t.Fatalf("expected a non-empty token")
	}

	if len(c.created) != 2 {
		t.Fatalf("expected 2 reserved categories, got %d", len(c.created))
	}
	if c.created[0].Role != models.RoleAllView || !c.created[0].IsSystem || c.created[0].DisplayOrder != 0 {
		t.Fatalf("unexpected first reserved category: %+v", c.created[0])
	}
	if c.created[1].Role != models.RoleFavorites || !c.created[1].IsSystem || c.created[1].DisplayOrder != 1 {
		t.Fatalf("unexpected second reserved category: %+v", c.created[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewUserService(db, &fakeRepoManager{}, testUserConfig())

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "password123"},
		{"short password", "alice", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.Register(context.Background(), tc.username, tc.password)
			if !errors.Is(err, common.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	u := &fakeUsersRepo{createErr: common.ErrAlreadyExists}
	m := &fakeRepoManager{u: u, c: &fakeCategoriesRepo{}}
	s := NewUserService(db, m, testUserConfig())

	_, _, err := s.Register(context.Background(), "alice", "password123")
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	u := &fakeUsersRepo{byUsername: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", PasswordHash: hash, IsActive: true},
	}}
	s := NewUserService(db, &fakeRepoManager{u: u}, testUserConfig())

	user, token, err := s.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.ID != 1 || token == "" {
		t.Fatalf("unexpected login result: user=%+v token=%q", user, token)
	}

	claims, err := auth.ParseToken(token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != 1 || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_Failures(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	u := &fakeUsersRepo{byUsername: map[string]*models.User{
		"alice":    {ID: 1, Username: "alice", PasswordHash: hash, IsActive: true},
		"inactive": {ID: 2, Username: "inactive", PasswordHash: hash, IsActive: false},
	}}
	s := NewUserService(db, &fakeRepoManager{u: u}, testUserConfig())

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "password123"},
		{"wrong password", "alice", "wrong-password"},
		{"inactive account", "inactive", "password123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.Login(context.Background(), tc.username, tc.password)
			if !errors.Is(err, common.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}
