// Package taskpolicy decides who may see and manage a project's tasks.
//
// Authorization rules for listing tasks, evaluated in order, first match
// wins:
//  1. Admins can always see task contents.
//  2. The project owner can see their own project's tasks.
//  3. Managers can see tasks of projects whose owner shares their
//     department, or of projects they are a member of.
//  4. Project members (including members added automatically through
//     task assignment) can see the tasks.
//  5. Everyone else is denied.
//
// Denial always surfaces as an explicit authorization failure, never as
// a silently empty task list. Project existence itself is not gated:
// all signed-in users may see that a project exists (the shallow summary
// tier); only its task contents are protected.
package taskpolicy

import (
	"github.com/dalemusser/collabhub/internal/domain/models"
)

// CanListTasks reports whether user may see project's tasks. owner is
// the project's owner record (needed for the manager department rule).
func CanListTasks(user models.User, project models.Project, owner models.User) bool {
	if user.IsAdmin() {
		return true
	}
	if user.ID == project.OwnerID {
		return true
	}
	if user.IsManager() && (user.Department == owner.Department || project.HasMember(user.ID)) {
		return true
	}
	return project.HasMember(user.ID)
}

// CanArchive reports whether user may flip the project's archived state:
// admins always, managers only for projects they own.
func CanArchive(user models.User, project models.Project) bool {
	if user.IsAdmin() {
		return true
	}
	return user.IsManager() && user.ID == project.OwnerID
}

// CanCreateProject reports whether user may create projects. Admins and
// managers can; plain staff cannot.
func CanCreateProject(user models.User) bool {
	return user.IsAdmin() || user.IsManager()
}
