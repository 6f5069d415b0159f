// internal/testutil/http.go
package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID         string
	Name       string
	Email      string
	Roles      []string
	Department string
}

// AdminUser returns a TestUser with the admin role.
func AdminUser() TestUser {
	return TestUser{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Test Admin",
		Email:      "admin@test.com",
		Roles:      []string{models.RoleAdmin},
		Department: "operations",
	}
}

// ManagerUser returns a TestUser with the manager role in the given
// department.
func ManagerUser(department string) TestUser {
	return TestUser{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Test Manager",
		Email:      "manager@test.com",
		Roles:      []string{models.RoleManager},
		Department: department,
	}
}

// StaffUser returns a TestUser with the staff role in the given
// department.
func StaffUser(department string) TestUser {
	return TestUser{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Test Staff",
		Email:      "staff@test.com",
		Roles:      []string{models.RoleStaff},
		Department: department,
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Roles:      user.Roles,
		Department: user.Department,
	}
	return r.WithContext(auth.ContextWithUser(r.Context(), sessionUser))
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}
