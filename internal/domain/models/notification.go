// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a persisted assignment alert for a single user.
// The message always contains the task title verbatim. Notifications are
// created only by the assignment dispatcher; the read flag is flipped by
// the read-receipt endpoint, and old read records are removed by the
// cleanup job.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	TaskID    primitive.ObjectID `bson:"task_id" json:"task_id"`
	Message   string             `bson:"message" json:"message"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
