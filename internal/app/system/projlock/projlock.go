// internal/app/system/projlock/projlock.go

// Package projlock serializes archive cascades against task creation on
// a per-project basis. Task creation holds the read side so creations on
// the same project proceed concurrently; an archive cascade holds the
// write side and therefore excludes creations until it completes.
// Projects never contend with each other.
package projlock

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registry hands out one RWMutex per project ID. Locks are created
// lazily and kept for the life of the process; the set of projects a
// single instance serves is small enough that reaping is unnecessary.
type Registry struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*sync.RWMutex
}

// NewRegistry returns an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{locks: make(map[primitive.ObjectID]*sync.RWMutex)}
}

func (r *Registry) get(id primitive.ObjectID) *sync.RWMutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.RWMutex{}
		r.locks[id] = l
	}
	return l
}

// RLock takes the shared (task-creation) side of the project's lock.
func (r *Registry) RLock(id primitive.ObjectID) { r.get(id).RLock() }

// RUnlock releases the shared side.
func (r *Registry) RUnlock(id primitive.ObjectID) { r.get(id).RUnlock() }

// Lock takes the exclusive (cascade) side of the project's lock.
func (r *Registry) Lock(id primitive.ObjectID) { r.get(id).Lock() }

// Unlock releases the exclusive side.
func (r *Registry) Unlock(id primitive.ObjectID) { r.get(id).Unlock() }
