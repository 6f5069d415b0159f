// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// ProjectRoutes returns the project-scoped task endpoints, mounted
// under "/projects/{projectID}/tasks".
func ProjectRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)

	return r
}

// Routes returns the task-level endpoints, mounted under "/tasks".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/{id}", h.ServeView)
	r.Put("/{id}", h.HandleUpdate)

	return r
}
