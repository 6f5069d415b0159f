// internal/app/notify/dispatcher.go

// Package notify persists assignment notifications and pushes them to
// live per-user channels. The persisted write is synchronous with the
// enclosing task operation; the push is best-effort and can never fail
// that operation.
package notify

import (
	"context"
	"fmt"

	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NotificationWriter persists notification records.
// *notificationstore.Store satisfies it; tests substitute a fake.
type NotificationWriter interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
}

// Dispatcher creates one notification per newly added assignee and
// publishes each onto the assignee's realtime channel.
type Dispatcher struct {
	store  NotificationWriter
	hub    *Hub
	logger *zap.Logger
}

// NewDispatcher wires a dispatcher to its store and hub.
func NewDispatcher(store NotificationWriter, hub *Hub, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, hub: hub, logger: logger}
}

// AssignmentMessage builds the notification text. The task title appears
// verbatim; the verb is "assigned" (with "newly created" added for tasks
// that did not exist before this operation).
func AssignmentMessage(title string, brandNew bool) string {
	if brandNew {
		return fmt.Sprintf(`You were assigned the newly created task "%s".`, title)
	}
	return fmt.Sprintf(`You were assigned the task "%s".`, title)
}

// Dispatch notifies each user in newAssignees about the task. Callers
// pass only assignees that were not on the task before this operation,
// so re-saving a task with an unchanged assignee list notifies nobody.
//
// Failures here are dispatch failures by definition: the task and
// membership changes have already committed, so nothing is rolled back
// and the caller still reports success. Errors are logged and swallowed.
func (d *Dispatcher) Dispatch(ctx context.Context, task models.Task, newAssignees []primitive.ObjectID, brandNew bool) {
	if len(newAssignees) == 0 {
		return
	}

	msg := AssignmentMessage(task.Title, brandNew)
	for _, userID := range newAssignees {
		n, err := d.store.Create(ctx, models.Notification{
			UserID:  userID,
			TaskID:  task.ID,
			Message: msg,
		})
		if err != nil {
			d.logger.Error("failed to persist assignment notification",
				zap.String("task_id", task.ID.Hex()),
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
			continue
		}

		// Best-effort live push; a disconnected user picks the record
		// up from the store on their next poll or reconnect.
		d.hub.Publish(userID, n)
	}
}

// NewlyAssigned returns the IDs present in next but not in prev,
// preserving next's order and skipping duplicates. This diff is what
// makes notification dispatch idempotent across re-saves.
func NewlyAssigned(prev, next []primitive.ObjectID) []primitive.ObjectID {
	old := make(map[primitive.ObjectID]bool, len(prev))
	for _, id := range prev {
		old[id] = true
	}

	var added []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool, len(next))
	for _, id := range next {
		if old[id] || seen[id] {
			continue
		}
		seen[id] = true
		added = append(added, id)
	}
	return added
}
