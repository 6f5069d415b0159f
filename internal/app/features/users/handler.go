// internal/app/features/users/handler.go

// Package users serves admin account provisioning and the member
// directory used when picking assignees.
package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the slice of the user store these endpoints need.
// *userstore.Store satisfies it; tests substitute a fake.
type UserStore interface {
	Create(ctx context.Context, u models.User, plainPassword string) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	List(ctx context.Context, department string) ([]models.User, error)
}

// Handler holds user endpoint dependencies.
type Handler struct {
	Users UserStore
	Log   *zap.Logger
}

func NewHandler(users UserStore, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type createRequest struct {
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Roles      []string `json:"roles"`
	Department string   `json:"department"`
}

// HandleCreate handles POST /users (admin only, enforced by the route).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user create")
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		FullName:   req.FullName,
		Email:      req.Email,
		Roles:      req.Roles,
		Department: req.Department,
	}, req.Password)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("user provisioned", zap.String("user_id", user.ID.Hex()))
	httpjson.Write(w, http.StatusCreated, user)
}

// ServeList handles GET /users with an optional ?department= filter.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user list")
	defer cancel()

	list, err := h.Users.List(ctx, r.URL.Query().Get("department"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.User{}
	}
	httpjson.Write(w, http.StatusOK, list)
}

// ServeView handles GET /users/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed id"})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user view")
	defer cancel()

	user, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}
