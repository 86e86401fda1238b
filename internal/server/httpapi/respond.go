package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vblinov/linkhub/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error(context.Background(), "failed to encode response", "error", err)
	}
}

// writeError maps sentinel errors onto HTTP statuses. Anything unrecognized
// is a 500 with an opaque message; the underlying failure only goes to logs.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		a.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		a.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrAlreadyExists):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "already exists"})
	case errors.Is(err, common.ErrInvalidArgument):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		a.log.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		a.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (a *API) badRequest(w http.ResponseWriter, msg string) {
	a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
