// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the project endpoints (typically under "/projects").
// The project-scoped task router nests under "/{projectID}/tasks" so
// the whole project surface hangs off one mount. Listing and viewing
// require a session; create and archive are checked against the
// actor's roles inside the service layer.
func Routes(h *Handler, taskRoutes chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{projectID}", h.ServeView)
	r.Post("/{projectID}/archive", h.HandleArchive)
	r.Post("/{projectID}/unarchive", h.HandleUnarchive)

	r.Mount("/{projectID}/tasks", taskRoutes)

	return r
}
