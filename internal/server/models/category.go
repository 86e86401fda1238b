package models

import "time"

// CategoryRole marks the two reserved per-user categories. Roles are set at
// creation time and never user-editable, so reserved handling does not depend
// on display names.
type CategoryRole string

const (
	RoleNone      CategoryRole = "none"
	RoleAllView   CategoryRole = "all"
	RoleFavorites CategoryRole = "favorites"
)

// Reserved reports whether the role belongs to a reserved category.
func (r CategoryRole) Reserved() bool { return r == RoleAllView || r == RoleFavorites }

type Category struct {
	ID           int64
	UserID       int64
	Name         string
	Icon         string
	Color        string
	Role         CategoryRole
	IsSystem     bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CategoryWithCount pairs a category with the number of bookmarks it matches.
// Counts are computed per request, never stored on the entity.
type CategoryWithCount struct {
	Category
	BookmarkCount int64
}
