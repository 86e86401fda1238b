package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vblinov/linkhub/internal/common"
	"github.com/vblinov/linkhub/internal/server/models"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type categoryResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Name          string    `json:"name"`
	Icon          string    `json:"icon"`
	Color         string    `json:"color"`
	IsSystem      bool      `json:"is_system"`
	DisplayOrder  int       `json:"display_order"`
	BookmarkCount int64     `json:"bookmark_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type categoryReorderRequest struct {
	CategoryIDs []int64 `json:"category_ids"`
}

type reorderResponse struct {
	Changed bool `json:"changed"`
}

func toCategoryResponse(c *models.Category, count int64) categoryResponse {
	return categoryResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		Name:          c.Name,
		Icon:          c.Icon,
		Color:         c.Color,
		IsSystem:      c.IsSystem,
		DisplayOrder:  c.DisplayOrder,
		BookmarkCount: count,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// resolveOwner returns the effective owner: the authenticated user, or the
// demo account for anonymous callers. ok=false means there is nothing to
// show (no demo account provisioned).
func (a *API) resolveOwner(r *http.Request) (int64, bool, error) {
	if id, ok := userIDFrom(r.Context()); ok {
		return id, true, nil
	}
	user, err := a.users.GetByUsername(r.Context(), a.demoUsername)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return user.ID, true, nil
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	ownerID, ok, err := a.resolveOwner(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	result := []categoryResponse{}
	if ok {
		list, err := a.categories.List(r.Context(), ownerID)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		for _, c := range list {
			result = append(result, toCategoryResponse(&c.Category, c.BookmarkCount))
		}
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}

	category, err := a.categories.Create(r.Context(), userID, req.Name, req.Icon, req.Color)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toCategoryResponse(category, 0))
}

func (a *API) updateCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		a.badRequest(w, "invalid category id")
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}

	category, err := a.categories.Update(r.Context(), userID, id, req.Name, req.Icon, req.Color)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toCategoryResponse(category, 0))
}

func (a *API) deleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		a.badRequest(w, "invalid category id")
		return
	}
	transferTo, err := strconv.ParseInt(r.URL.Query().Get("transfer_to_id"), 10, 64)
	if err != nil {
		a.badRequest(w, "transfer_to_id required")
		return
	}

	if err := a.categories.Delete(r.Context(), userID, id, transferTo); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

func (a *API) reorderCategories(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req categoryReorderRequest
	if err := decodeJSON(r, &req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}

	changed, err := a.categories.Reorder(r.Context(), userID, req.CategoryIDs)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	// Supplying ids that move nothing is a caller error, not a quiet no-op.
	if !changed && len(req.CategoryIDs) > 0 {
		a.badRequest(w, "reorder failed")
		return
	}
	a.writeJSON(w, http.StatusOK, reorderResponse{Changed: changed})
}
