// internal/app/features/notifications/handler.go

// Package notifications serves a user's notification feed and the
// realtime event stream behind it.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/notify"
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NotificationStore is the slice of the notification store the feed
// needs. *notificationstore.Store satisfies it; tests substitute a fake.
type NotificationStore interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// Handler holds notification endpoint dependencies.
type Handler struct {
	Store NotificationStore
	Hub   *notify.Hub
	Log   *zap.Logger
}

func NewHandler(store NotificationStore, hub *notify.Hub, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Hub: hub, Log: logger}
}

const feedLimit = 100

func userID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Write(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpjson.Write(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ServeList handles GET /notifications, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "notification list")
	defer cancel()

	list, err := h.Store.ListByUser(ctx, uid, feedLimit)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	httpjson.Write(w, http.StatusOK, list)
}

// ServeUnreadCount handles GET /notifications/unread_count.
func (h *Handler) ServeUnreadCount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "notification unread count")
	defer cancel()

	count, err := h.Store.UnreadCount(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]int64{"unread": count})
}

// HandleMarkRead handles POST /notifications/{id}/read. The store
// filters on the session user, so one user cannot mark another's
// notification.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	nid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed id"})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "notification mark read")
	defer cancel()

	if err := h.Store.MarkRead(ctx, nid, uid); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "read"})
}

// ServeStream handles GET /notifications/stream as server-sent events.
// Each event carries one notification as JSON. Delivery is best-effort;
// a client that missed events reconciles through ServeList, where every
// notification is persisted before it is ever published here.
func (h *Handler) ServeStream(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpjson.Write(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	events, cancel := h.Hub.Subscribe(uid)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.Log.Debug("notification stream opened", zap.String("user_id", uid.Hex()))

	for {
		select {
		case <-r.Context().Done():
			h.Log.Debug("notification stream closed", zap.String("user_id", uid.Hex()))
			return
		case ev := <-events:
			payload, err := json.Marshal(ev.Notification)
			if err != nil {
				h.Log.Error("failed to encode notification event", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", ev.EventID, payload)
			flusher.Flush()
		}
	}
}
