// internal/app/features/projects/handler.go

// Package projects serves the project CRUD and archive endpoints.
package projects

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/services/projectsvc"
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds project endpoint dependencies.
type Handler struct {
	Projects *projectsvc.Service
	Log      *zap.Logger
}

func NewHandler(projects *projectsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Projects: projects, Log: logger}
}

// actor resolves the signed-in user; the auth middleware guarantees one
// is present on these routes.
func actor(w http.ResponseWriter, r *http.Request, log *zap.Logger) (models.User, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Write(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return models.User{}, false
	}
	u, err := su.Actor()
	if err != nil {
		httpjson.Error(w, log, err)
		return models.User{}, false
	}
	return u, true
}

// pathID parses the {projectID} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed id"})
		return primitive.NilObjectID, false
	}
	return oid, true
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// HandleCreate handles POST /projects.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r, h.Log)
	if !ok {
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "project create")
	defer cancel()

	project, err := h.Projects.Create(ctx, u, req.Name, req.Description, req.Status)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, project)
}

type listResponse struct {
	Projects  []models.Project `json:"projects"`
	HasNext   bool             `json:"has_next"`
	NextAfter string           `json:"next_after,omitempty"`
}

// ServeList handles GET /projects. Pages are requested with
// ?after=<id of last project on the previous page>.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "project list")
	defer cancel()

	list, hasNext, err := h.Projects.List(ctx, paging.ParseAfter(r))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Project{}
	}
	resp := listResponse{Projects: list, HasNext: hasNext}
	if hasNext {
		resp.NextAfter = list[len(list)-1].ID.Hex()
	}
	httpjson.Write(w, http.StatusOK, resp)
}

// ServeView handles GET /projects/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	oid, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "project view")
	defer cancel()

	project, err := h.Projects.Get(ctx, oid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, project)
}

// HandleArchive handles POST /projects/{id}/archive.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// HandleUnarchive handles POST /projects/{id}/unarchive.
func (h *Handler) HandleUnarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	u, ok := actor(w, r, h.Log)
	if !ok {
		return
	}
	oid, ok := pathID(w, r)
	if !ok {
		return
	}

	// The cascade touches every task in the project.
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "project archive cascade")
	defer cancel()

	project, err := h.Projects.SetArchived(ctx, u, oid, archived)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, project)
}
