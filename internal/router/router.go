package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"go-notes-api/internal/config"
	"go-notes-api/internal/handler"
	"go-notes-api/internal/middleware"
)

type HealthChecker interface {
	Health(ctx context.Context) error
}

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	noteHandler *handler.NoteHandler,
	health HealthChecker,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		if health != nil {
			if err := health.Health(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("degraded"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/users", func(users chi.Router) {
			users.Post("/register", authHandler.Register)
			users.Post("/login", authHandler.Login)
			users.Post("/refresh-token", authHandler.Refresh)
			users.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
			users.With(authMiddleware.RequireAuth).Post("/change-password", authHandler.ChangePassword)
			users.With(authMiddleware.RequireAuth).Get("/current-user", authHandler.CurrentUser)
			users.With(authMiddleware.RequireAuth).Patch("/update-account", authHandler.UpdateAccount)
		})

		api.Route("/notes", func(notes chi.Router) {
			notes.Use(authMiddleware.RequireAuth)
			notes.Get("/get-all-notes", noteHandler.List)
			notes.Post("/add-note", noteHandler.Create)
			notes.Patch("/edit-note/{noteID}", noteHandler.Edit)
			notes.Patch("/update-pin/{noteID}", noteHandler.UpdatePin)
			notes.Get("/search-notes", noteHandler.Search)
			notes.Delete("/delete-note/{noteID}", noteHandler.Delete)
		})
	})

	return r
}
