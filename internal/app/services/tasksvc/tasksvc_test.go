// internal/app/services/tasksvc/tasksvc_test.go
package tasksvc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/collabhub/internal/app/notify"
	"github.com/dalemusser/collabhub/internal/app/system/assign"
	"github.com/dalemusser/collabhub/internal/app/system/projlock"
	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeProjects struct {
	byID        map[primitive.ObjectID]models.Project
	failMembers bool
	memberCalls int
}

func (f *fakeProjects) GetByID(_ context.Context, id primitive.ObjectID) (models.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return models.Project{}, apperr.NotFound("project")
	}
	return p, nil
}

func (f *fakeProjects) AddMembers(_ context.Context, projectID primitive.ObjectID, userIDs []primitive.ObjectID) error {
	f.memberCalls++
	if f.failMembers {
		return errors.New("write concern error")
	}
	p, ok := f.byID[projectID]
	if !ok {
		return apperr.NotFound("project")
	}
	for _, id := range userIDs {
		if !p.HasMember(id) {
			p.MemberIDs = append(p.MemberIDs, id)
		}
	}
	f.byID[projectID] = p
	return nil
}

type fakeTasks struct {
	byID    map[primitive.ObjectID]models.Task
	deleted []primitive.ObjectID
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{byID: map[primitive.ObjectID]models.Task{}}
}

func (f *fakeTasks) Create(_ context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	f.byID[t.ID] = t
	return t, nil
}

func (f *fakeTasks) GetByID(_ context.Context, id primitive.ObjectID) (models.Task, error) {
	t, ok := f.byID[id]
	if !ok {
		return models.Task{}, apperr.NotFound("task")
	}
	return t, nil
}

func (f *fakeTasks) UpdateFields(_ context.Context, id primitive.ObjectID, title, description, status string, priority int, assigneeIDs []primitive.ObjectID) (models.Task, error) {
	t, ok := f.byID[id]
	if !ok {
		return models.Task{}, apperr.NotFound("task")
	}
	t.Title = title
	t.Description = description
	t.Status = status
	t.Priority = priority
	t.AssigneeIDs = assigneeIDs
	f.byID[id] = t
	return t, nil
}

func (f *fakeTasks) Delete(_ context.Context, id primitive.ObjectID) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeTasks) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.byID {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeUsers struct {
	byID map[primitive.ObjectID]models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, apperr.NotFound("user")
	}
	return u, nil
}

func (f *fakeUsers) MissingIDs(_ context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	var missing []primitive.ObjectID
	for _, id := range ids {
		if _, ok := f.byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type memWriter struct {
	created []models.Notification
}

func (m *memWriter) Create(_ context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	m.created = append(m.created, n)
	return n, nil
}

type fixture struct {
	svc      *Service
	projects *fakeProjects
	tasks    *fakeTasks
	users    *fakeUsers
	notes    *memWriter
}

func newFixture() *fixture {
	projects := &fakeProjects{byID: map[primitive.ObjectID]models.Project{}}
	tasks := newFakeTasks()
	users := &fakeUsers{byID: map[primitive.ObjectID]models.User{}}
	notes := &memWriter{}

	dispatcher := notify.NewDispatcher(notes, notify.NewHub(8), zap.NewNop())
	svc := New(projects, tasks, users, assign.New(users), dispatcher, projlock.NewRegistry(), zap.NewNop())

	return &fixture{svc: svc, projects: projects, tasks: tasks, users: users, notes: notes}
}

func (f *fixture) addUser(roles []string, dept string) models.User {
	u := models.User{ID: primitive.NewObjectID(), Roles: roles, Department: dept}
	f.users.byID[u.ID] = u
	return u
}

func (f *fixture) addProject(owner models.User, archived bool) models.Project {
	p := models.Project{
		ID:        primitive.NewObjectID(),
		OwnerID:   owner.ID,
		Name:      "launch",
		Status:    models.ProjectActive,
		Archived:  archived,
		MemberIDs: []primitive.ObjectID{owner.ID},
	}
	f.projects.byID[p.ID] = p
	return p
}

func TestCreateAddsAssigneesToProject(t *testing.T) {
	f := newFixture()
	manager := f.addUser([]string{models.RoleManager}, "engineering")
	a := f.addUser([]string{models.RoleStaff}, "engineering")
	b := f.addUser([]string{models.RoleStaff}, "design")
	project := f.addProject(manager, false)

	task, err := f.svc.Create(context.Background(), manager, project.ID, Input{
		Title:       "write launch checklist",
		AssigneeIDs: []primitive.ObjectID{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Archived {
		t.Error("task on a live project must not start archived")
	}
	if task.Status != models.TaskPending {
		t.Errorf("default status = %q, want %q", task.Status, models.TaskPending)
	}

	got := f.projects.byID[project.ID]
	for _, id := range []primitive.ObjectID{a.ID, b.ID} {
		if !got.HasMember(id) {
			t.Errorf("assignee %s missing from project members", id.Hex())
		}
	}

	if len(f.notes.created) != 2 {
		t.Fatalf("notifications = %d, want 2", len(f.notes.created))
	}
	for _, n := range f.notes.created {
		if !strings.Contains(n.Message, "write launch checklist") {
			t.Errorf("notification %q does not contain the task title", n.Message)
		}
	}
}

func TestCreateMirrorsArchivedProject(t *testing.T) {
	f := newFixture()
	manager := f.addUser([]string{models.RoleManager}, "engineering")
	project := f.addProject(manager, true)

	task, err := f.svc.Create(context.Background(), manager, project.ID, Input{Title: "postmortem"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !task.Archived {
		t.Error("task on an archived project must start archived")
	}
}

func TestCreateRejectsUnknownAssignee(t *testing.T) {
	f := newFixture()
	manager := f.addUser([]string{models.RoleManager}, "engineering")
	project := f.addProject(manager, false)
	ghost := primitive.NewObjectID()

	_, err := f.svc.Create(context.Background(), manager, project.ID, Input{
		Title:       "haunted",
		AssigneeIDs: []primitive.ObjectID{ghost},
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(f.tasks.byID) != 0 {
		t.Error("no task may be written when validation fails")
	}
	if f.projects.memberCalls != 0 {
		t.Error("membership must not change when validation fails")
	}
	if len(f.notes.created) != 0 {
		t.Error("no notifications may be sent when validation fails")
	}
}

func TestCreateValidationTable(t *testing.T) {
	f := newFixture()
	manager := f.addUser([]string{models.RoleManager}, "engineering")
	project := f.addProject(manager, false)

	six := make([]primitive.ObjectID, 0, 6)
	for i := 0; i < 6; i++ {
		six = append(six, f.addUser([]string{models.RoleStaff}, "engineering").ID)
	}

	cases := []struct {
		name string
		in   Input
	}{
		{"blank title", Input{Title: "   "}},
		{"too many assignees", Input{Title: "crowded", AssigneeIDs: six}},
		{"bad status", Input{Title: "ok", Status: "paused"}},
		{"priority too high", Input{Title: "ok", Priority: 11}},
		{"priority too low", Input{Title: "ok", Priority: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), manager, project.ID, tc.in)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreateCompensatesFailedMembership(t *testing.T) {
	f := newFixture()
	manager := f.addUser([]string{models.RoleManager}, "engineering")
	a := f.addUser([]string{models.RoleStaff}, "engineering")
	project := f.addProject(manager, false)
	f.projects.failMembers = true

	_, err := f.svc.Create(context.Background(), manager, project.ID, Input{
		Title:       "doomed",
		AssigneeIDs: []primitive.ObjectID{a.ID},
	})
	if err == nil {
		t.Fatal("Create must fail when membership cannot be synchronized")
	}
	if len(f.tasks.byID) != 0 {
		t.Error("task must be removed when membership synchronization fails")
	}
	if len(f.tasks.deleted) != 1 {
		t.Errorf("deletes = %d, want 1", len(f.tasks.deleted))
	}
	if len(f.notes.created) != 0 {
		t.Error("no notifications may be sent for a failed create")
	}
}

func TestUpdateLeavesTaskUntouchedOnFailedMembership(t *testing.T) {
	f := newFixture()
	manager := f.addUser([]string{models.RoleManager}, "engineering")
	a := f.addUser([]string{models.RoleStaff}, "engineering")
	project := f.addProject(manager, false)

	task, err := f.svc.Create(context.Background(), manager, project.ID, Input{
		Title: "rollout",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.notes.created = nil
	f.projects.failMembers = true

	_, err = f.svc.Update(context.Background(), manager, task.ID, Input{
		Title:       "rollout",
		AssigneeIDs: []primitive.ObjectID{a.ID},
	})
	if err == nil {
		t.Fatal("Update must fail when membership cannot be synchronized")
	}
	got := f.tasks.byID[task.ID]
	if len(got.AssigneeIDs) != 0 {
		t.Errorf("task kept new assignees %v after a failed update", got.AssigneeIDs)
	}
	if len(f.notes.created) != 0 {
		t.Error("no notifications may be sent for a failed update")
	}

	// A retry after the fault clears must still treat the assignee as
	// new and notify them.
	f.projects.failMembers = false
	_, err = f.svc.Update(context.Background(), manager, task.ID, Input{
		Title:       "rollout",
		AssigneeIDs: []primitive.ObjectID{a.ID},
	})
	if err != nil {
		t.Fatalf("retried Update: %v", err)
	}
	if !f.projects.byID[project.ID].HasMember(a.ID) {
		t.Error("retried update must add the assignee to the project")
	}
	if len(f.notes.created) != 1 || f.notes.created[0].UserID != a.ID {
		t.Errorf("retried update must notify the new assignee, got %d notifications", len(f.notes.created))
	}
}

func TestUpdateNotifiesOnlyNewAssignees(t *testing.T) {
	f := newFixture()
	manager := f.addUser([]string{models.RoleManager}, "engineering")
	a := f.addUser([]string{models.RoleStaff}, "engineering")
	b := f.addUser([]string{models.RoleStaff}, "design")
	project := f.addProject(manager, false)

	task, err := f.svc.Create(context.Background(), manager, project.ID, Input{
		Title:       "rollout",
		AssigneeIDs: []primitive.ObjectID{a.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.notes.created = nil

	_, err = f.svc.Update(context.Background(), manager, task.ID, Input{
		Title:       "rollout",
		AssigneeIDs: []primitive.ObjectID{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(f.notes.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.notes.created))
	}
	if f.notes.created[0].UserID != b.ID {
		t.Error("only the newly added assignee may be notified")
	}
}

func TestUpdateUnchangedAssigneesNotifiesNobody(t *testing.T) {
	f := newFixture()
	manager := f.addUser([]string{models.RoleManager}, "engineering")
	a := f.addUser([]string{models.RoleStaff}, "engineering")
	project := f.addProject(manager, false)

	task, err := f.svc.Create(context.Background(), manager, project.ID, Input{
		Title:       "steady",
		AssigneeIDs: []primitive.ObjectID{a.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.notes.created = nil

	if _, err := f.svc.Update(context.Background(), manager, task.ID, Input{
		Title:       "steady but retitled slightly",
		AssigneeIDs: []primitive.ObjectID{a.ID},
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(f.notes.created) != 0 {
		t.Errorf("notifications = %d, want 0 for an unchanged assignee list", len(f.notes.created))
	}
}

func TestUpdateRemovalKeepsMembership(t *testing.T) {
	f := newFixture()
	manager := f.addUser([]string{models.RoleManager}, "engineering")
	a := f.addUser([]string{models.RoleStaff}, "engineering")
	project := f.addProject(manager, false)

	task, err := f.svc.Create(context.Background(), manager, project.ID, Input{
		Title:       "keep me",
		AssigneeIDs: []primitive.ObjectID{a.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.svc.Update(context.Background(), manager, task.ID, Input{
		Title: "keep me",
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if !f.projects.byID[project.ID].HasMember(a.ID) {
		t.Error("unassigning a user must not remove them from the project")
	}
}

func TestListEnforcesAccessPolicy(t *testing.T) {
	f := newFixture()
	owner := f.addUser([]string{models.RoleManager}, "engineering")
	member := f.addUser([]string{models.RoleStaff}, "design")
	admin := f.addUser([]string{models.RoleAdmin}, "operations")
	sameDeptMgr := f.addUser([]string{models.RoleManager}, "engineering")
	otherDeptMgr := f.addUser([]string{models.RoleManager}, "sales")
	outsider := f.addUser([]string{models.RoleStaff}, "engineering")
	project := f.addProject(owner, false)

	if _, err := f.svc.Create(context.Background(), owner, project.ID, Input{
		Title:       "visible",
		AssigneeIDs: []primitive.ObjectID{member.ID},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	allowed := []models.User{owner, member, admin, sameDeptMgr}
	for _, u := range allowed {
		if _, err := f.svc.List(context.Background(), u, project.ID); err != nil {
			t.Errorf("List as %s: %v", u.ID.Hex(), err)
		}
	}

	denied := []models.User{otherDeptMgr, outsider}
	for _, u := range denied {
		_, err := f.svc.List(context.Background(), u, project.ID)
		if !errors.Is(err, apperr.ErrAuthorization) {
			t.Errorf("List as %s: err = %v, want authorization error", u.ID.Hex(), err)
		}
	}
}

func TestListUnknownProject(t *testing.T) {
	f := newFixture()
	admin := f.addUser([]string{models.RoleAdmin}, "operations")

	_, err := f.svc.List(context.Background(), admin, primitive.NewObjectID())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want not-found error", err)
	}
}
