package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vblinov/linkhub/internal/server/models"
)

const defaultBookmarkIcon = "🔗"

type bookmarkCreateRequest struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	CategoryID  *int64 `json:"category_id"`
	Tags        string `json:"tags"`
}

type bookmarkUpdateRequest struct {
	Name        *string `json:"name"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	CategoryID  *int64  `json:"category_id"`
	Tags        *string `json:"tags"`
}

type bookmarkReorderRequest struct {
	BookmarkIDs []int64 `json:"bookmark_ids"`
}

// bookmarkResponse mirrors the public shape of a bookmark. The title travels
// as "name" on the wire.
type bookmarkResponse struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	Description    string     `json:"description"`
	Icon           string     `json:"icon"`
	CategoryID     *int64     `json:"category_id"`
	Tags           string     `json:"tags"`
	IsFavorite     bool       `json:"is_favorite"`
	PinnedPosition *int       `json:"pinned_position"`
	VisitCount     int        `json:"visit_count"`
	LastVisitAt    *time.Time `json:"last_visit_at"`
	DisplayOrder   int        `json:"display_order"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type bookmarkPageResponse struct {
	Items      []bookmarkResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

func toBookmarkResponse(b *models.Bookmark) bookmarkResponse {
	icon := b.Icon
	if icon == "" {
		icon = defaultBookmarkIcon
	}
	return bookmarkResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		Name:           b.Title,
		URL:            b.URL,
		Description:    b.Description,
		Icon:           icon,
		CategoryID:     b.CategoryID,
		Tags:           b.Tags,
		IsFavorite:     b.IsFavorite,
		PinnedPosition: b.PinnedPosition,
		VisitCount:     b.VisitCount,
		LastVisitAt:    b.LastVisitAt,
		DisplayOrder:   b.DisplayOrder,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBookmarkPageResponse(page *models.BookmarkPage) bookmarkPageResponse {
	resp := bookmarkPageResponse{
		Items:      []bookmarkResponse{},
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
	for _, b := range page.Items {
		resp.Items = append(resp.Items, toBookmarkResponse(b))
	}
	return resp
}

func parseListParams(r *http.Request) (models.BookmarkListParams, string) {
	q := r.URL.Query()
	params := models.BookmarkListParams{
		Search: q.Get("search"),
		SortBy: q.Get("sort_by"),
		Order:  q.Get("order"),
	}

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return params, "invalid category_id"
		}
		params.CategoryID = &id
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return params, "invalid page"
		}
		params.Page = page
	}
	if raw := q.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return params, "invalid page_size"
		}
		params.PageSize = size
	}
	if params.Order != "" && params.Order != "asc" && params.Order != "desc" {
		return params, "order must be asc or desc"
	}
	return params, ""
}

func (a *API) listBookmarks(w http.ResponseWriter, r *http.Request) {
	params, msg := parseListParams(r)
	if msg != "" {
		a.badRequest(w, msg)
		return
	}

	ownerID, ok, err := a.resolveOwner(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if !ok {
		size := params.PageSize
		if size <= 0 {
			size = 12
		}
		page := params.Page
		if page <= 0 {
			page = 1
		}
		a.writeJSON(w, http.StatusOK, bookmarkPageResponse{
			Items: []bookmarkResponse{}, Page: page, PageSize: size,
		})
		return
	}

	page, err := a.bookmarks.List(r.Context(), ownerID, params)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toBookmarkPageResponse(page))
}

func (a *API) createBookmark(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req bookmarkCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}

	bookmark, err := a.bookmarks.Create(r.Context(), userID, &models.Bookmark{
		CategoryID:  req.CategoryID,
		Title:       req.Name,
		URL:         req.URL,
		Description: req.Description,
		Icon:        req.Icon,
		Tags:        req.Tags,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toBookmarkResponse(bookmark))
}

func (a *API) getBookmark(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		a.badRequest(w, "invalid bookmark id")
		return
	}
	bookmark, err := a.bookmarks.Get(r.Context(), userID, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toBookmarkResponse(bookmark))
}

func (a *API) updateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		a.badRequest(w, "invalid bookmark id")
		return
	}
	var req bookmarkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}

	bookmark, err := a.bookmarks.Update(r.Context(), userID, id, models.BookmarkUpdate{
		Title:       req.Name,
		URL:         req.URL,
		Description: req.Description,
		Icon:        req.Icon,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toBookmarkResponse(bookmark))
}

func (a *API) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		a.badRequest(w, "invalid bookmark id")
		return
	}
	if err := a.bookmarks.Delete(r.Context(), userID, id); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"message": "bookmark deleted"})
}

func (a *API) visitBookmark(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		a.badRequest(w, "invalid bookmark id")
		return
	}
	bookmark, err := a.bookmarks.Visit(r.Context(), userID, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toBookmarkResponse(bookmark))
}

func (a *API) togglePinBookmark(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		a.badRequest(w, "invalid bookmark id")
		return
	}
	bookmark, err := a.bookmarks.TogglePin(r.Context(), userID, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toBookmarkResponse(bookmark))
}

func (a *API) reorderBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req bookmarkReorderRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}

	changed, err := a.bookmarks.Reorder(r.Context(), userID, req.BookmarkIDs)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, reorderResponse{Changed: changed})
}
