// internal/app/services/tasksvc/tasksvc.go

// Package tasksvc runs the task pipeline: validate, write, synchronize
// project membership, dispatch notifications. Validation and
// authorization failures abort before any write; dispatch failures are
// invisible to the caller.
package tasksvc

import (
	"context"
	"strings"

	"github.com/dalemusser/collabhub/internal/app/notify"
	"github.com/dalemusser/collabhub/internal/app/policy/taskpolicy"
	"github.com/dalemusser/collabhub/internal/app/system/assign"
	"github.com/dalemusser/collabhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/collabhub/internal/app/system/projlock"
	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProjectStore is the slice of the project store the pipeline needs.
type ProjectStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error)
	AddMembers(ctx context.Context, projectID primitive.ObjectID, userIDs []primitive.ObjectID) error
}

// TaskStore is the slice of the task store the pipeline needs.
type TaskStore interface {
	Create(ctx context.Context, t models.Task) (models.Task, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, title, description, status string, priority int, assigneeIDs []primitive.ObjectID) (models.Task, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
}

// UserStore resolves user records for policy evaluation.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Service wires the task pipeline together.
type Service struct {
	projects   ProjectStore
	tasks      TaskStore
	users      UserStore
	validator  *assign.Validator
	dispatcher *notify.Dispatcher
	locks      *projlock.Registry
	logger     *zap.Logger
}

// New constructs the task service.
func New(projects ProjectStore, tasks TaskStore, users UserStore, validator *assign.Validator, dispatcher *notify.Dispatcher, locks *projlock.Registry, logger *zap.Logger) *Service {
	return &Service{
		projects:   projects,
		tasks:      tasks,
		users:      users,
		validator:  validator,
		dispatcher: dispatcher,
		locks:      locks,
		logger:     logger,
	}
}

// Input carries the caller-controlled task fields for create and update.
type Input struct {
	Title       string
	Description string
	Status      string
	Priority    int
	AssigneeIDs []primitive.ObjectID
}

// normalize trims, sanitizes, and defaults the input in place after the
// assignment rules have passed.
func (in *Input) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = htmlsanitize.Sanitize(in.Description)

	if in.Status == "" {
		in.Status = models.TaskPending
	} else if !models.IsValidTaskStatus(in.Status) {
		return apperr.Validation("status", "unknown status "+in.Status)
	}

	if in.Priority == 0 {
		in.Priority = 5
	}
	if in.Priority < models.MinTaskPriority || in.Priority > models.MaxTaskPriority {
		return apperr.Validation("priority", "must be between 1 and 10")
	}
	return nil
}

// Create runs the full pipeline for a new task on the given project:
// validate, insert (holding the project's creation lock so the archived
// flag cannot race an in-flight cascade), synchronize membership, then
// dispatch notifications for every assignee.
func (s *Service) Create(ctx context.Context, actor models.User, projectID primitive.ObjectID, in Input) (models.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return models.Task{}, err
	}

	if err := s.validator.Validate(ctx, in.Title, in.AssigneeIDs); err != nil {
		return models.Task{}, err
	}
	if err := in.normalize(); err != nil {
		return models.Task{}, err
	}

	// Re-read the project under the creation lock: the archived flag
	// decided here must be consistent with any cascade that finishes
	// before or after this insert.
	s.locks.RLock(projectID)
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		s.locks.RUnlock(projectID)
		return models.Task{}, err
	}
	task, err := s.tasks.Create(ctx, models.Task{
		ProjectID:   projectID,
		OwnerID:     actor.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Archived:    project.Archived,
		AssigneeIDs: in.AssigneeIDs,
	})
	s.locks.RUnlock(projectID)
	if err != nil {
		return models.Task{}, err
	}

	// Membership must hold before the caller sees success. If the set
	// union fails, take the freshly inserted task back out so no
	// mutation is visible.
	if err := s.projects.AddMembers(ctx, projectID, task.AssigneeIDs); err != nil {
		if derr := s.tasks.Delete(ctx, task.ID); derr != nil {
			s.logger.Error("failed to undo task after membership failure",
				zap.String("task_id", task.ID.Hex()), zap.Error(derr))
		}
		return models.Task{}, err
	}

	s.dispatcher.Dispatch(ctx, task, notify.NewlyAssigned(nil, task.AssigneeIDs), true)

	s.logger.Info("task created",
		zap.String("task_id", task.ID.Hex()),
		zap.String("project_id", projectID.Hex()),
		zap.Int("assignees", len(task.AssigneeIDs)))
	return task, nil
}

// Update re-runs the pipeline for an existing task. Only assignees that
// are new relative to the prior list are notified; membership stays a
// superset because removal never propagates.
func (s *Service) Update(ctx context.Context, actor models.User, taskID primitive.ObjectID, in Input) (models.Task, error) {
	prev, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if err := s.validator.Validate(ctx, in.Title, in.AssigneeIDs); err != nil {
		return models.Task{}, err
	}
	if err := in.normalize(); err != nil {
		return models.Task{}, err
	}

	added := notify.NewlyAssigned(prev.AssigneeIDs, in.AssigneeIDs)

	// Membership first. Adding members is monotone, so members joined
	// for an update that then fails still leave a valid superset; the
	// reverse order could commit new assignees without membership.
	if err := s.projects.AddMembers(ctx, prev.ProjectID, in.AssigneeIDs); err != nil {
		return models.Task{}, err
	}

	task, err := s.tasks.UpdateFields(ctx, taskID, in.Title, in.Description, in.Status, in.Priority, in.AssigneeIDs)
	if err != nil {
		return models.Task{}, err
	}

	s.dispatcher.Dispatch(ctx, task, added, false)

	s.logger.Info("task updated",
		zap.String("task_id", task.ID.Hex()),
		zap.Int("new_assignees", len(added)))
	return task, nil
}

// List returns a project's tasks after the access-control check.
// Denial is an explicit authorization failure; callers never receive an
// empty list as a disguise.
func (s *Service) List(ctx context.Context, actor models.User, projectID primitive.ObjectID) ([]models.Task, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, project.OwnerID)
	if err != nil {
		return nil, err
	}

	if !taskpolicy.CanListTasks(actor, project, owner) {
		return nil, apperr.Authorization("task listing requires project membership")
	}

	return s.tasks.ListByProject(ctx, projectID)
}

// Get returns a single task, gated by the same policy as listing.
func (s *Service) Get(ctx context.Context, actor models.User, taskID primitive.ObjectID) (models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return models.Task{}, err
	}
	owner, err := s.users.GetByID(ctx, project.OwnerID)
	if err != nil {
		return models.Task{}, err
	}
	if !taskpolicy.CanListTasks(actor, project, owner) {
		return models.Task{}, apperr.Authorization("task access requires project membership")
	}
	return task, nil
}
