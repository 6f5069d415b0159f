// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project status values.
const (
	ProjectActive = "active"
	ProjectOnHold = "on_hold"
	ProjectDone   = "done"
)

// AllProjectStatuses lists every recognized project status.
var AllProjectStatuses = []string{ProjectActive, ProjectOnHold, ProjectDone}

// IsValidProjectStatus reports whether s is a recognized project status.
func IsValidProjectStatus(s string) bool {
	for _, v := range AllProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Project groups tasks and carries the membership set that gates task
// visibility.
//
// NOTE:
//   - MemberIDs is a set, maintained exclusively with $addToSet so that
//     concurrent additions can never produce duplicates or lose writes.
//   - Membership is additive in this system: unassigning a user from a
//     task never removes them from MemberIDs.
//   - Archived is flipped only by the archive cascade, together with the
//     archived flag of every task in the project.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	NameCI      string               `bson:"name_ci" json:"name_ci"`
	Description string               `bson:"description,omitempty" json:"description"`
	OwnerID     primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	Status      string               `bson:"status" json:"status"`
	Archived    bool                 `bson:"archived" json:"archived"`
	MemberIDs   []primitive.ObjectID `bson:"member_ids" json:"member_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID is in the project's member set.
func (p Project) HasMember(userID primitive.ObjectID) bool {
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
