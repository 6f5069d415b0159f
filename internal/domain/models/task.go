// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task status values.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// AllTaskStatuses lists every recognized task status.
var AllTaskStatuses = []string{TaskPending, TaskInProgress, TaskCompleted}

// IsValidTaskStatus reports whether s is a recognized task status.
func IsValidTaskStatus(s string) bool {
	for _, v := range AllTaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Task priority bounds.
const (
	MinTaskPriority = 1
	MaxTaskPriority = 10
)

// MaxAssignees is the hard cap on a task's assignee list.
const MaxAssignees = 5

// Task is a unit of work inside a project.
//
// NOTE:
//   - AssigneeIDs is an ordered list, at most MaxAssignees long. Every
//     assignee is added to the parent project's member set when the task
//     is created or its assignees change.
//   - Archived mirrors the parent project's archived flag and is set only
//     by the archive cascade, never by a task-level operation.
type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID   `bson:"project_id" json:"project_id"`
	OwnerID     primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"` // sanitized HTML
	Status      string               `bson:"status" json:"status"`
	Priority    int                  `bson:"priority" json:"priority"` // 1..10
	Archived    bool                 `bson:"archived" json:"archived"`
	AssigneeIDs []primitive.ObjectID `bson:"assignee_ids" json:"assignee_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
