package repomanager

import (
	"context"
	"database/sql"

	"github.com/vblinov/linkhub/internal/dbx"
	"github.com/vblinov/linkhub/internal/server/repositories/bookmarks"
	"github.com/vblinov/linkhub/internal/server/repositories/categories"
	"github.com/vblinov/linkhub/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same constructors inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) categories.Repository
	Bookmarks(db dbx.DBTX) bookmarks.Repository
}
