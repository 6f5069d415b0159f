package assign

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeChecker treats a fixed set of IDs as existing users.
type fakeChecker struct {
	known map[primitive.ObjectID]bool
	err   error
}

func (f *fakeChecker) MissingIDs(_ context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if f.err != nil {
		return nil, f.err
	}
	var missing []primitive.ObjectID
	for _, id := range ids {
		if !f.known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func newFake(ids ...primitive.ObjectID) *fakeChecker {
	known := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &fakeChecker{known: known}
}

func ids(n int) []primitive.ObjectID {
	out := make([]primitive.ObjectID, n)
	for i := range out {
		out[i] = primitive.NewObjectID()
	}
	return out
}

func TestValidate_EmptyTitle(t *testing.T) {
	v := New(newFake())

	for _, title := range []string{"", "   ", "\t\n"} {
		err := v.Validate(context.Background(), title, nil)
		var verr *apperr.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("title %q: expected ValidationError, got %v", title, err)
		}
		if verr.Field != "title" {
			t.Errorf("title %q: field: got %q, want title", title, verr.Field)
		}
	}
}

func TestValidate_TooManyAssignees(t *testing.T) {
	six := ids(6)
	v := New(newFake(six...))

	err := v.Validate(context.Background(), "Plan sprint", six)
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "assignees" {
		t.Errorf("field: got %q, want assignees", verr.Field)
	}
}

func TestValidate_FiveAssigneesAllowed(t *testing.T) {
	five := ids(5)
	v := New(newFake(five...))

	if err := v.Validate(context.Background(), "Plan sprint", five); err != nil {
		t.Errorf("expected five assignees to pass, got %v", err)
	}
}

func TestValidate_UnknownAssignee(t *testing.T) {
	known := ids(2)
	unknown := primitive.NewObjectID()
	v := New(newFake(known...))

	err := v.Validate(context.Background(), "Plan sprint", append(known, unknown))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidate_NoAssignees(t *testing.T) {
	// Zero assignees is valid and must not hit the user lookup at all.
	v := New(&fakeChecker{err: errors.New("lookup must not run")})

	if err := v.Validate(context.Background(), "Plan sprint", nil); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestValidate_LookupErrorPropagates(t *testing.T) {
	dbErr := errors.New("server selection timeout")
	v := New(&fakeChecker{err: dbErr})

	err := v.Validate(context.Background(), "Plan sprint", ids(1))
	if !errors.Is(err, dbErr) {
		t.Errorf("expected lookup error propagated, got %v", err)
	}
	if errors.Is(err, apperr.ErrValidation) {
		t.Error("infrastructure errors must not masquerade as validation failures")
	}
}
