// internal/app/system/assign/assign.go

// Package assign validates a task's title and assignee list before any
// mutation happens. The same check runs on create and on update.
package assign

import (
	"context"
	"strings"

	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserChecker resolves which of the given user IDs do not exist.
// *userstore.Store satisfies it; tests substitute a fake.
type UserChecker interface {
	MissingIDs(ctx context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Validator checks task input against the assignment rules.
type Validator struct {
	users UserChecker
}

// New returns a Validator backed by the given user lookup.
func New(users UserChecker) *Validator {
	return &Validator{users: users}
}

// Validate returns nil when the title and assignee list are acceptable:
// the title is non-empty after trimming, the list has at most
// models.MaxAssignees entries, and every entry resolves to an existing
// user. On failure it returns an apperr.ValidationError and the caller
// must not mutate anything.
func (v *Validator) Validate(ctx context.Context, title string, assigneeIDs []primitive.ObjectID) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title", "must not be empty")
	}
	if len(assigneeIDs) > models.MaxAssignees {
		return apperr.Validation("assignees", "at most 5 assignees are allowed")
	}
	if len(assigneeIDs) == 0 {
		return nil
	}

	missing, err := v.users.MissingIDs(ctx, assigneeIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperr.Validation("assignees", "unknown user "+missing[0].Hex())
	}
	return nil
}
