// Package bookmarks provides the PostgreSQL-backed repository for bookmarks,
// including the filtered, pinned-first listing queries.
package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vblinov/linkhub/internal/common"
	"github.com/vblinov/linkhub/internal/dbx"
	"github.com/vblinov/linkhub/internal/server/models"
)

const bookmarkColumns = `id, user_id, category_id, title, url, description, icon, tags,
		is_favorite, pinned_position, visit_count, last_visit_at, display_order,
		created_at, updated_at`

// sortColumns whitelists the caller-facing sort keys. Anything else falls
// back to created_at rather than erroring.
var sortColumns = map[string]string{
	"created_at":    "created_at",
	"last_visit_at": "last_visit_at",
	"visit_count":   "visit_count",
	"title":         "title",
	"display_order": "display_order",
}

// PostgresRepository implements bookmark storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	query := `
		INSERT INTO bookmarks (user_id, category_id, title, url, description, icon, tags, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_favorite, visit_count, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		b.UserID, b.CategoryID, b.Title, b.URL, b.Description, b.Icon, b.Tags, b.DisplayOrder).
		Scan(&b.ID, &b.IsFavorite, &b.VisitCount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = $1 AND user_id = $2`
	return r.scanBookmark(r.db.QueryRowContext(ctx, query, id, userID))
}

// buildFilter renders the shared WHERE predicate for Count and List. Both
// passes of a listing must use the identical predicate so the total matches
// the concatenated pages.
func buildFilter(userID int64, f models.BookmarkFilter) (string, []any) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if f.FavoritesOnly {
		where = append(where, "is_favorite = TRUE")
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR tags ILIKE $%d)", n, n, n))
	}

	return strings.Join(where, " AND "), args
}

// Count returns the size of the filtered set before pagination.
func (r *PostgresRepository) Count(ctx context.Context, userID int64, f models.BookmarkFilter) (int64, error) {
	where, args := buildFilter(userID, f)

	var total int64
	query := `SELECT COUNT(*) FROM bookmarks WHERE ` + where
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

// List returns one page of the filtered set. Pinned bookmarks always sort
// first, in ascending pinned_position, regardless of the requested order;
// the requested sort only arranges the unpinned remainder. The id tiebreak
// keeps pagination deterministic when the sort column has duplicates.
func (r *PostgresRepository) List(ctx context.Context, userID int64, f models.BookmarkFilter, sortBy, order string, offset, limit int) ([]*models.Bookmark, error) {
	where, args := buildFilter(userID, f)

	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(order, "asc") {
		direction = "ASC"
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+bookmarkColumns+` FROM bookmarks
		WHERE %s
		ORDER BY pinned_position IS NULL, pinned_position ASC, %s %s, id %s
		LIMIT $%d OFFSET $%d`,
		where, column, direction, direction, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookmarks: %w", err)
	}
	defer rows.Close()

	return collectBookmarks(rows)
}

// ListByIDs resolves ids to bookmarks owned by userID; unknown and foreign
// ids are absent from the result.
func (r *PostgresRepository) ListByIDs(ctx context.Context, userID int64, ids []int64) ([]*models.Bookmark, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := `
		SELECT ` + bookmarkColumns + ` FROM bookmarks
		WHERE user_id = $1 AND id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookmarks: %w", err)
	}
	defer rows.Close()

	return collectBookmarks(rows)
}

func (r *PostgresRepository) Update(ctx context.Context, b *models.Bookmark) error {
	query := `
		UPDATE bookmarks
		SET category_id = $1, title = $2, url = $3, description = $4, icon = $5,
			tags = $6, updated_at = now()
		WHERE id = $7 AND user_id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		b.CategoryID, b.Title, b.URL, b.Description, b.Icon, b.Tags, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

// RecordVisit bumps the visit counter and stamps last_visit_at in a single
// statement.
func (r *PostgresRepository) RecordVisit(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	query := `
		UPDATE bookmarks
		SET visit_count = visit_count + 1, last_visit_at = now(), updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + bookmarkColumns
	return r.scanBookmark(r.db.QueryRowContext(ctx, query, id, userID))
}

// Pin marks a bookmark favorite and assigns the next pinned position. The
// position is computed inside the statement, so the read-max-then-write gap
// of a two-step implementation never opens.
func (r *PostgresRepository) Pin(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	query := `
		UPDATE bookmarks
		SET is_favorite = TRUE,
			pinned_position = (
				SELECT COALESCE(MAX(pinned_position), 0) + 1 FROM bookmarks
				WHERE user_id = $2 AND is_favorite = TRUE
			),
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + bookmarkColumns
	return r.scanBookmark(r.db.QueryRowContext(ctx, query, id, userID))
}

// Unpin clears the favorite flag and the pinned position together.
func (r *PostgresRepository) Unpin(ctx context.Context, userID, id int64) (*models.Bookmark, error) {
	query := `
		UPDATE bookmarks
		SET is_favorite = FALSE, pinned_position = NULL, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + bookmarkColumns
	return r.scanBookmark(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) MaxDisplayOrder(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COALESCE(MAX(display_order), 0) FROM bookmarks WHERE user_id = $1`

	var max int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&max); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return max, nil
}

func (r *PostgresRepository) UpdateDisplayOrder(ctx context.Context, userID, id int64, order int) error {
	query := `
		UPDATE bookmarks SET display_order = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3
	`
	res, err := r.db.ExecContext(ctx, query, order, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

// ReassignCategory moves every bookmark of fromCategoryID to toCategoryID
// (nil detaches them). Used when a category is deleted with a transfer target.
func (r *PostgresRepository) ReassignCategory(ctx context.Context, userID, fromCategoryID int64, toCategoryID *int64) error {
	query := `
		UPDATE bookmarks SET category_id = $1, updated_at = now()
		WHERE user_id = $2 AND category_id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, toCategoryID, userID, fromCategoryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CountAll(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookmarks WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) CountFavorites(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookmarks WHERE user_id = $1 AND is_favorite = TRUE`, userID)
}

func (r *PostgresRepository) CountInCategory(ctx context.Context, userID, categoryID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookmarks WHERE user_id = $1 AND category_id = $2`, userID, categoryID)
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) scanBookmark(row *sql.Row) (*models.Bookmark, error) {
	b := &models.Bookmark{}
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Title, &b.URL, &b.Description,
		&b.Icon, &b.Tags, &b.IsFavorite, &b.PinnedPosition, &b.VisitCount,
		&b.LastVisitAt, &b.DisplayOrder, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func collectBookmarks(rows *sql.Rows) ([]*models.Bookmark, error) {
	var result []*models.Bookmark
	for rows.Next() {
		b := &models.Bookmark{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Title, &b.URL, &b.Description,
			&b.Icon, &b.Tags, &b.IsFavorite, &b.PinnedPosition, &b.VisitCount,
			&b.LastVisitAt, &b.DisplayOrder, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
