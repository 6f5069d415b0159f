// internal/app/services/projectsvc/projectsvc.go

// Package projectsvc owns project-level operations, most importantly
// the archive cascade: flipping a project's archived flag together with
// the archived flag of every task in it, atomically from a reader's
// point of view.
package projectsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/collabhub/internal/app/policy/taskpolicy"
	"github.com/dalemusser/collabhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/projlock"
	"github.com/dalemusser/collabhub/internal/app/system/txn"
	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ProjectStore is the slice of the project store this service needs.
type ProjectStore interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error)
	List(ctx context.Context, after *models.Project, limit int64) ([]models.Project, error)
	SetArchived(ctx context.Context, projectID primitive.ObjectID, archived bool) error
}

// TaskStore flips task archived flags in bulk for the cascade.
type TaskStore interface {
	SetArchivedByProject(ctx context.Context, projectID primitive.ObjectID, archived bool) (int64, error)
}

// Service wires project operations to their stores. The mongo client is
// optional: when present, the archive cascade runs inside a multi-
// document transaction; when nil (or the deployment is a standalone
// without transaction support) it falls back to a lock-protected
// compensation scheme.
type Service struct {
	client   *mongo.Client
	projects ProjectStore
	tasks    TaskStore
	locks    *projlock.Registry
	logger   *zap.Logger
}

// New constructs the project service.
func New(client *mongo.Client, projects ProjectStore, tasks TaskStore, locks *projlock.Registry, logger *zap.Logger) *Service {
	return &Service{client: client, projects: projects, tasks: tasks, locks: locks, logger: logger}
}

// Create inserts a new project owned by the actor. Only admins and
// managers may create projects.
func (s *Service) Create(ctx context.Context, actor models.User, name, description, status string) (models.Project, error) {
	if !taskpolicy.CanCreateProject(actor) {
		return models.Project{}, apperr.Authorization("only managers and admins can create projects")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, apperr.Validation("name", "must not be empty")
	}
	if status != "" && !models.IsValidProjectStatus(status) {
		return models.Project{}, apperr.Validation("status", "unknown status "+status)
	}
	return s.projects.Create(ctx, models.Project{
		Name:        name,
		Description: htmlsanitize.Sanitize(description),
		OwnerID:     actor.ID,
		Status:      status,
		MemberIDs:   []primitive.ObjectID{actor.ID},
	})
}

// Get returns one project.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// List returns one page of projects, newest first. after is the hex id
// of the last project of the previous page, or empty for the first
// page. The second return reports whether a further page exists.
func (s *Service) List(ctx context.Context, after string) ([]models.Project, bool, error) {
	var anchor *models.Project
	if after != "" {
		oid, err := primitive.ObjectIDFromHex(after)
		if err != nil {
			return nil, false, apperr.Validation("after", "malformed cursor")
		}
		p, err := s.projects.GetByID(ctx, oid)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, false, apperr.Validation("after", "unknown cursor")
			}
			return nil, false, err
		}
		anchor = &p
	}

	projects, err := s.projects.List(ctx, anchor, paging.LimitPlusOne())
	if err != nil {
		return nil, false, err
	}
	hasNext := paging.Trim(&projects)
	return projects, hasNext, nil
}

// SetArchived flips a project's archived flag and cascades the same
// flag to every task in the project. Authorization comes first, then an
// already-satisfied request returns the project unchanged. The cascade
// itself runs under the project's write lock so task creation observes
// either the full pre-state or the full post-state, never a mix.
func (s *Service) SetArchived(ctx context.Context, actor models.User, projectID primitive.ObjectID, archived bool) (models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !taskpolicy.CanArchive(actor, project) {
		return models.Project{}, apperr.Authorization("only admins and the owning manager can archive a project")
	}
	if project.Archived == archived {
		return project, nil
	}

	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	if err := s.applyCascade(ctx, projectID, archived); err != nil {
		return models.Project{}, err
	}

	s.logger.Info("project archive state changed",
		zap.String("project_id", projectID.Hex()),
		zap.Bool("archived", archived),
		zap.String("actor_id", actor.ID.Hex()))

	return s.projects.GetByID(ctx, projectID)
}

func (s *Service) applyCascade(ctx context.Context, projectID primitive.ObjectID, archived bool) error {
	if s.client != nil {
		err := txn.WithTransaction(ctx, s.client, func(sessCtx mongo.SessionContext) error {
			if err := s.projects.SetArchived(sessCtx, projectID, archived); err != nil {
				return err
			}
			_, err := s.tasks.SetArchivedByProject(sessCtx, projectID, archived)
			return err
		})
		if err == nil {
			return nil
		}
		if !txn.IsNotSupported(err) {
			s.logger.Error("archive cascade transaction failed",
				zap.String("project_id", projectID.Hex()), zap.Error(err))
			return apperr.Conflict("archive cascade failed, retry the request", err)
		}
		s.logger.Warn("transactions unavailable, archiving with compensation",
			zap.String("project_id", projectID.Hex()))
	}
	return s.cascadeWithCompensation(ctx, projectID, archived)
}

// cascadeWithCompensation is the non-transactional path. Tasks flip
// first; if the project flip then fails, the task flip is undone. The
// undo is valid because every task's flag matched the project's flag
// before the cascade started, and the write lock keeps it that way.
func (s *Service) cascadeWithCompensation(ctx context.Context, projectID primitive.ObjectID, archived bool) error {
	if _, err := s.tasks.SetArchivedByProject(ctx, projectID, archived); err != nil {
		s.logger.Error("archive cascade task update failed",
			zap.String("project_id", projectID.Hex()), zap.Error(err))
		return apperr.Conflict("archive cascade failed, retry the request", err)
	}
	if err := s.projects.SetArchived(ctx, projectID, archived); err != nil {
		if _, uerr := s.tasks.SetArchivedByProject(ctx, projectID, !archived); uerr != nil {
			s.logger.Error("archive cascade undo failed, tasks out of sync with project",
				zap.String("project_id", projectID.Hex()), zap.Error(uerr))
		}
		s.logger.Error("archive cascade project update failed",
			zap.String("project_id", projectID.Hex()), zap.Error(err))
		return apperr.Conflict("archive cascade failed, retry the request", err)
	}
	return nil
}
