// Package categories provides the PostgreSQL-backed repository for per-user
// bookmark categories and their display ordering.
package categories

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

const categoryColumns = `id, user_id, name, icon, color, role, is_system, display_order, created_at, updated_at`

// PostgresRepository implements category storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, icon, color, role, is_system, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		category.UserID, category.Name, category.Icon, category.Color,
		category.Role, category.IsSystem, category.DisplayOrder).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`

	category := &models.Category{}
	err := scanCategory(r.db.QueryRowContext(ctx, query, id, userID), category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

// List returns all categories of a user. Reserved categories come first
// because their display_order is always below the order base used for
// reorderable ones; ties are broken by id for a stable result.
func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]*models.Category, error) {
	query := `
		SELECT ` + categoryColumns + ` FROM categories
		WHERE user_id = $1
		ORDER BY display_order, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	return collectCategories(rows)
}

// ListByIDs resolves the given ids to categories owned by userID. Unknown and
// foreign ids are simply absent from the result.
func (r *PostgresRepository) ListByIDs(ctx context.Context, userID int64, ids []int64) ([]*models.Category, error) {
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
		SELECT ` + categoryColumns + ` FROM categories
		WHERE user_id = $1 AND id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	return collectCategories(rows)
}

// Update rewrites name, icon and color of a non-system category. System
// categories are never updatable; a matching row that is system-owned is
// reported as common.ErrNotFound, same as a missing one.
func (r *PostgresRepository) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, icon = $2, color = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5 AND is_system = FALSE
	`
	res, err := r.db.ExecContext(ctx, query,
		category.Name, category.Icon, category.Color, category.ID, category.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

// Delete removes a non-system category owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2 AND is_system = FALSE`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) MaxDisplayOrder(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COALESCE(MAX(display_order), 0) FROM categories WHERE user_id = $1`

	var max int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&max); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return max, nil
}

// ReservedOrderBase returns the first display_order value strictly greater
// than every reserved category's order, or 0 when the user has none.
func (r *PostgresRepository) ReservedOrderBase(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COALESCE(MAX(display_order) + 1, 0) FROM categories
		WHERE user_id = $1 AND role <> 'none'
	`
	var base int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&base); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return base, nil
}

func (r *PostgresRepository) UpdateDisplayOrder(ctx context.Context, userID, id int64, order int) error {
	query := `
		UPDATE categories SET display_order = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3
	`
	res, err := r.db.ExecContext(ctx, query, order, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func scanCategory(row *sql.Row, c *models.Category) error {
	return row.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Color, &c.Role,
		&c.IsSystem, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt)
}

func collectCategories(rows *sql.Rows) ([]*models.Category, error) {
	var result []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Color, &c.Role,
			&c.IsSystem, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
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
