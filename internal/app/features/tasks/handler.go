// internal/app/features/tasks/handler.go

// Package tasks serves the task endpoints: creation and listing scoped
// to a project, plus task-level view and update.
package tasks

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/services/tasksvc"
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds task endpoint dependencies.
type Handler struct {
	Tasks *tasksvc.Service
	Log   *zap.Logger
}

func NewHandler(tasks *tasksvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Tasks: tasks, Log: logger}
}

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

func param(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed " + name})
		return primitive.NilObjectID, false
	}
	return oid, true
}

type taskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    int      `json:"priority"`
	AssigneeIDs []string `json:"assignee_ids"`
}

func (req taskRequest) input(w http.ResponseWriter) (tasksvc.Input, bool) {
	in := tasksvc.Input{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	for _, hex := range req.AssigneeIDs {
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed assignee id " + hex})
			return tasksvc.Input{}, false
		}
		in.AssigneeIDs = append(in.AssigneeIDs, oid)
	}
	return in, true
}

// HandleCreate handles POST /projects/{projectID}/tasks.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r, h.Log)
	if !ok {
		return
	}
	projectID, ok := param(w, r, "projectID")
	if !ok {
		return
	}
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	in, ok := req.input(w)
	if !ok {
		return
	}

	// Creation validates assignees, inserts, and updates membership.
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "task create")
	defer cancel()

	task, err := h.Tasks.Create(ctx, u, projectID, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, task)
}

// ServeList handles GET /projects/{projectID}/tasks.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r, h.Log)
	if !ok {
		return
	}
	projectID, ok := param(w, r, "projectID")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "task list")
	defer cancel()

	list, err := h.Tasks.List(ctx, u, projectID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Task{}
	}
	httpjson.Write(w, http.StatusOK, list)
}

// ServeView handles GET /tasks/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r, h.Log)
	if !ok {
		return
	}
	taskID, ok := param(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "task view")
	defer cancel()

	task, err := h.Tasks.Get(ctx, u, taskID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, task)
}

// HandleUpdate handles PUT /tasks/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r, h.Log)
	if !ok {
		return
	}
	taskID, ok := param(w, r, "id")
	if !ok {
		return
	}
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Write(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	in, ok := req.input(w)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "task update")
	defer cancel()

	task, err := h.Tasks.Update(ctx, u, taskID, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, task)
}
