package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vblinov/linkhub/internal/logging"
	"github.com/vblinov/linkhub/internal/server/config"
)

// Server wraps the HTTP server and its router.
type Server struct {
	http *http.Server
	log  logging.Logger
}

// New builds the HTTP server with all routes and middleware registered.
func New(cfg *config.Config, log logging.Logger, api *API) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(accessLog(log))

	r.Get("/healthz", api.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", api.signup)
		r.Post("/auth/login", api.login)

		// Anonymous callers may browse; handlers fall back to the demo account.
		r.Group(func(r chi.Router) {
			r.Use(api.optionalAuth)
			r.Get("/categories", api.listCategories)
			r.Get("/bookmarks", api.listBookmarks)
		})

		r.Group(func(r chi.Router) {
			r.Use(api.requireAuth)

			r.Get("/auth/me", api.me)

			r.Post("/categories", api.createCategory)
			r.Put("/categories/{id}", api.updateCategory)
			r.Delete("/categories/{id}", api.deleteCategory)
			r.Post("/categories/reorder", api.reorderCategories)

			r.Post("/bookmarks", api.createBookmark)
			r.Post("/bookmarks/reorder", api.reorderBookmarks)
			r.Get("/bookmarks/{id}", api.getBookmark)
			r.Put("/bookmarks/{id}", api.updateBookmark)
			r.Delete("/bookmarks/{id}", api.deleteBookmark)
			r.Post("/bookmarks/{id}/visit", api.visitBookmark)
			r.Put("/bookmarks/{id}/pin", api.togglePinBookmark)

			r.Post("/icons/upload-url", api.iconUploadURL)
			r.Get("/icons/download-url", api.iconDownloadURL)
		})
	})

	s := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{http: s, log: log}
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info(context.Background(), "http server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down gracefully within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info(ctx, "http server shutting down")
	return s.http.Shutdown(ctx)
}
