// internal/app/system/httpjson/httpjson.go

// Package httpjson writes JSON responses and maps domain errors onto
// HTTP status codes. Every handler funnels its errors through Error so
// the status mapping lives in exactly one place.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"go.uber.org/zap"
)

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err onto a status code and writes {"error": ...}. Domain
// errors keep their message; anything unrecognized is a 500 with a
// generic body so internals never leak to clients.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		Write(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, apperr.ErrAuthorization):
		Write(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		Write(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		Write(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		Write(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
