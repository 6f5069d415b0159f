// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicateProjectName unwraps to apperr.ErrConflict so handlers can
// map it without importing this package's internals.
var ErrDuplicateProjectName = apperr.Conflict("a project with this name already exists", nil)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	if p.MemberIDs == nil {
		p.MemberIDs = []primitive.ObjectID{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Project{}, ErrDuplicateProjectName
		}
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Project{}, apperr.NotFound("project")
		}
		return models.Project{}, err
	}
	return p, nil
}

// List returns projects newest first, using keyset pagination on
// (created_at, _id). Pass a nil after for the first page; limit <= 0
// means no limit. Project existence is never gated: every signed-in
// user may see that a project exists; only its task contents are
// protected.
func (s *Store) List(ctx context.Context, after *models.Project, limit int64) ([]models.Project, error) {
	filter := bson.M{}
	if after != nil {
		filter["$or"] = []bson.M{
			{"created_at": bson.M{"$lt": after.CreatedAt}},
			{"created_at": after.CreatedAt, "_id": bson.M{"$lt": after.ID}},
		}
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// AddMembers adds each user to the project's member set. $addToSet with
// $each makes this a true set union on the server: idempotent,
// commutative, and safe under concurrent invocation from different
// tasks, so concurrent assignments can never produce duplicates or lose
// an addition. There is deliberately no removal counterpart.
func (s *Store) AddMembers(ctx context.Context, projectID primitive.ObjectID, userIDs []primitive.ObjectID) error {
	if len(userIDs) == 0 {
		return nil
	}
	res, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$addToSet": bson.M{"member_ids": bson.M{"$each": userIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("project")
	}
	return nil
}

// SetArchived writes the project's archived flag. The caller owns
// atomicity with the task-side flip: run both inside one transaction
// (ctx must then be a session context) or under the project lock.
func (s *Store) SetArchived(ctx context.Context, projectID primitive.ObjectID, archived bool) error {
	res, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$set": bson.M{
			"archived":   archived,
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("project")
	}
	return nil
}
