// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user endpoints (typically under "/users").
// Provisioning is admin-only; the directory is open to any signed-in
// user so assignee pickers can resolve names.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)

	r.Group(func(ar chi.Router) {
		ar.Use(auth.RequireAnyRole(models.RoleAdmin))
		ar.Post("/", h.HandleCreate)
	})

	return r
}
