// internal/app/features/login/handler.go

// Package login serves email/password sign-in and sign-out.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/ratelimit"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

// UserAuthenticator is the slice of the user store login needs.
// *userstore.Store satisfies it; tests substitute a fake.
type UserAuthenticator interface {
	GetByEmail(ctx context.Context, email string) (models.User, error)
	VerifyPassword(u models.User, plain string) bool
}

// Handler holds login dependencies.
type Handler struct {
	Users   UserAuthenticator
	Limiter *ratelimit.LoginLimiter
	Log     *zap.Logger
}

func NewHandler(users UserAuthenticator, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Limiter: ratelimit.NewLoginLimiter(), Log: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID         string   `json:"id"`
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
	Department string   `json:"department"`
}

// HandleLogin verifies credentials and writes the session cookie. An
// unknown email and a wrong password produce the same 401 so the
// endpoint cannot be used to probe for accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	if ok, msg := h.Limiter.Check(r, req.Email); !ok {
		h.Log.Warn("login attempt rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		httpjson.Write(w, http.StatusTooManyRequests, map[string]string{"error": msg})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login lookup")
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			httpjson.Write(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	if user.Status != models.UserActive || !h.Users.VerifyPassword(user, req.Password) {
		httpjson.Write(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		return
	}

	if err := auth.SignIn(w, r, user); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.Limiter.ResetEmail(req.Email)

	h.Log.Info("user signed in", zap.String("user_id", user.ID.Hex()))
	httpjson.Write(w, http.StatusOK, loginResponse{
		ID:         user.ID.Hex(),
		FullName:   user.FullName,
		Email:      user.Email,
		Roles:      user.Roles,
		Department: user.Department,
	})
}

// HandleLogout clears the session cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "signed out"})
}
