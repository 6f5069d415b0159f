// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User status values.
const (
	UserActive   = "active"
	UserDisabled = "disabled"
)

// User represents anyone who can sign in: admins, managers, and staff.
//
// NOTE:
//   - Roles are non-exclusive; a user may be both "manager" and "staff".
//   - Project membership is not embedded on User. Use Project.MemberIDs
//     to discover which projects a user can see tasks for.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`               // unique, lowercased
	Roles      []string           `bson:"roles" json:"roles"`               // admin | manager | staff
	Department string             `bson:"department" json:"department"`
	Password   string             `bson:"password,omitempty" json:"-"` // bcrypt hash
	Status     string             `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

// IsManager reports whether the user holds the manager role.
func (u User) IsManager() bool { return u.HasRole(RoleManager) }
