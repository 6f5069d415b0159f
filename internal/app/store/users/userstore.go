// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicateEmail unwraps to apperr.ErrConflict so handlers can map it
// without importing this package's internals.
var ErrDuplicateEmail = apperr.Conflict("a user with this email already exists", nil)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user. The email is normalized and must be unique;
// roles and department are validated here so no unchecked value ever
// reaches the collection.
func (s *Store) Create(ctx context.Context, u models.User, plainPassword string) (models.User, error) {
	u.Email = normalize.Email(u.Email)
	u.FullName = normalize.Name(u.FullName)
	if u.Email == "" {
		return models.User{}, apperr.Validation("email", "must not be empty")
	}
	if u.FullName == "" {
		return models.User{}, apperr.Validation("full_name", "must not be empty")
	}
	if len(u.Roles) == 0 {
		return models.User{}, apperr.Validation("roles", "at least one role is required")
	}
	for _, role := range u.Roles {
		if !models.IsValidRole(role) {
			return models.User{}, apperr.Validation("roles", "unknown role "+role)
		}
	}
	if !models.IsValidDepartment(u.Department) {
		return models.User{}, apperr.Validation("department", "unknown department "+u.Department)
	}

	if plainPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		u.Password = string(hash)
	}

	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullNameCI = text.Fold(u.FullName)
	if u.Status == "" {
		u.Status = models.UserActive
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.NotFound("user")
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks a user up by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.NotFound("user")
		}
		return models.User{}, err
	}
	return u, nil
}

// VerifyPassword checks a plain password against the stored bcrypt hash.
func (s *Store) VerifyPassword(u models.User, plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// MissingIDs returns the subset of ids that do not correspond to an
// existing user, preserving input order. Duplicate input IDs are checked
// once. Used by the assignment validator.
func (s *Store) MissingIDs(ctx context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	found := make(map[primitive.ObjectID]bool, len(ids))
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		found[doc.ID] = true
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	var missing []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// List returns users sorted by folded name, optionally filtered to one
// department.
func (s *Store) List(ctx context.Context, department string) ([]models.User, error) {
	filter := bson.M{}
	if department != "" {
		filter["department"] = department
	}
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByIDs returns the users for the given ids; missing ids are simply
// absent from the result.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
