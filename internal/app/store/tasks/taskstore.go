// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// Create inserts a task. The caller has already validated the input and
// decided the archived flag (it must match the parent project's state,
// which the caller guarantees by holding the project's creation lock).
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	if t.AssigneeIDs == nil {
		t.AssigneeIDs = []primitive.ObjectID{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, apperr.NotFound("task")
		}
		return models.Task{}, err
	}
	return t, nil
}

// UpdateFields rewrites a task's mutable fields. The archived flag is
// deliberately untouchable here; only the archive cascade flips it.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, title, description, status string, priority int, assigneeIDs []primitive.ObjectID) (models.Task, error) {
	if assigneeIDs == nil {
		assigneeIDs = []primitive.ObjectID{}
	}
	update := bson.M{
		"$set": bson.M{
			"title":        title,
			"description":  description,
			"status":       status,
			"priority":     priority,
			"assignee_ids": assigneeIDs,
			"updated_at":   time.Now().UTC(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Task
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, apperr.NotFound("task")
		}
		return models.Task{}, err
	}
	return t, nil
}

// Delete removes a task. Used only to compensate a failed create
// pipeline; there is no task-deletion API.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListByProject returns a project's tasks, newest first. Authorization
// happens in the service layer before this runs.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SetArchivedByProject flips the archived flag on every task in the
// project. Part of the archive cascade; runs inside the cascade's
// transaction (or under the project lock on the fallback path).
// Returns the number of tasks modified so the fallback can compensate.
func (s *Store) SetArchivedByProject(ctx context.Context, projectID primitive.ObjectID, archived bool) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"project_id": projectID},
		bson.M{"$set": bson.M{
			"archived":   archived,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountByProject returns the number of tasks in a project.
func (s *Store) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"project_id": projectID})
}
