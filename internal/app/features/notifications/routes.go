// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the notification endpoints (typically under
// "/notifications"). Everything here is scoped to the session user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/unread_count", h.ServeUnreadCount)
	r.Get("/stream", h.ServeStream)
	r.Post("/{id}/read", h.HandleMarkRead)

	return r
}
