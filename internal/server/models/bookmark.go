package models

import "time"

type Bookmark struct {
	ID          int64
	UserID      int64
	CategoryID  *int64
	Title       string
	URL         string
	Description string
	Icon        string
	Tags        string

	IsFavorite bool
	// PinnedPosition is non-nil iff IsFavorite is true. Lower positions sort
	// earlier; values only grow within an owner.
	PinnedPosition *int

	VisitCount   int
	LastVisitAt  *time.Time
	DisplayOrder int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookmarkFilter is the predicate shared by the count and page passes of a
// listing. The service resolves category roles into it; repositories only see
// concrete constraints.
type BookmarkFilter struct {
	FavoritesOnly bool
	CategoryID    *int64
	Search        string
}

// BookmarkListParams carries the caller-facing listing arguments.
type BookmarkListParams struct {
	CategoryID *int64
	Search     string
	SortBy     string
	Order      string
	Page       int
	PageSize   int
}

// BookmarkPage is one page of a listing plus the pre-pagination total.
type BookmarkPage struct {
	Items      []*Bookmark
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// BookmarkUpdate holds a partial update; nil fields are left untouched.
type BookmarkUpdate struct {
	Title       *string
	URL         *string
	Description *string
	Icon        *string
	CategoryID  *int64
	Tags        *string
}
