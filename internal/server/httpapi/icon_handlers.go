package httpapi

import "net/http"

type uploadURLResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type downloadURLResponse struct {
	URL string `json:"url"`
}

func (a *API) iconUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := a.icons.GetUploadURL(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, uploadURLResponse{URL: url, Key: key})
}

func (a *API) iconDownloadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		a.badRequest(w, "key required")
		return
	}
	url, err := a.icons.GetDownloadURL(r.Context(), key)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, downloadURLResponse{URL: url})
}
