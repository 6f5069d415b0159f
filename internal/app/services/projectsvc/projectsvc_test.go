// internal/app/services/projectsvc/projectsvc_test.go
package projectsvc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/projlock"
	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeProjects struct {
	byID        map[primitive.ObjectID]models.Project
	order       []primitive.ObjectID // insertion order, oldest first
	failSet     bool
	setCalls    int
	createCalls int
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{byID: map[primitive.ObjectID]models.Project{}}
}

func (f *fakeProjects) Create(_ context.Context, p models.Project) (models.Project, error) {
	f.createCalls++
	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	f.byID[p.ID] = p
	f.order = append(f.order, p.ID)
	return p, nil
}

func (f *fakeProjects) GetByID(_ context.Context, id primitive.ObjectID) (models.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return models.Project{}, apperr.NotFound("project")
	}
	return p, nil
}

// List walks insertion order backwards, which matches the store's
// newest-first sort.
func (f *fakeProjects) List(_ context.Context, after *models.Project, limit int64) ([]models.Project, error) {
	var out []models.Project
	emitting := after == nil
	for i := len(f.order) - 1; i >= 0; i-- {
		id := f.order[i]
		if !emitting {
			if id == after.ID {
				emitting = true
			}
			continue
		}
		out = append(out, f.byID[id])
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProjects) SetArchived(_ context.Context, projectID primitive.ObjectID, archived bool) error {
	f.setCalls++
	if f.failSet {
		return errors.New("write concern error")
	}
	p, ok := f.byID[projectID]
	if !ok {
		return apperr.NotFound("project")
	}
	p.Archived = archived
	f.byID[projectID] = p
	return nil
}

type fakeTasks struct {
	archivedByProject map[primitive.ObjectID]bool
	calls             int
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{archivedByProject: map[primitive.ObjectID]bool{}}
}

func (f *fakeTasks) SetArchivedByProject(_ context.Context, projectID primitive.ObjectID, archived bool) (int64, error) {
	f.calls++
	f.archivedByProject[projectID] = archived
	return 1, nil
}

type fixture struct {
	svc      *Service
	projects *fakeProjects
	tasks    *fakeTasks
}

// newFixture builds the service with a nil client so the cascade takes
// the compensation path, which is the one the fakes can observe.
func newFixture() *fixture {
	projects := newFakeProjects()
	tasks := newFakeTasks()
	svc := New(nil, projects, tasks, projlock.NewRegistry(), zap.NewNop())
	return &fixture{svc: svc, projects: projects, tasks: tasks}
}

func manager() models.User {
	return models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleManager}, Department: "engineering"}
}

func staff() models.User {
	return models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleStaff}, Department: "engineering"}
}

func admin() models.User {
	return models.User{ID: primitive.NewObjectID(), Roles: []string{models.RoleAdmin}, Department: "operations"}
}

func TestCreateRequiresManagerOrAdmin(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), staff(), "skunkworks", "", "")
	if !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("err = %v, want authorization error", err)
	}
	if f.projects.createCalls != 0 {
		t.Error("no project may be written for an unauthorized actor")
	}

	for _, actor := range []models.User{manager(), admin()} {
		p, err := f.svc.Create(context.Background(), actor, "skunkworks", "", "")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if !p.HasMember(actor.ID) {
			t.Error("the creator must start as a project member")
		}
		if p.OwnerID != actor.ID {
			t.Error("the creator must own the project")
		}
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	m := manager()

	if _, err := f.svc.Create(context.Background(), m, "   ", "", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("blank name: err = %v, want validation error", err)
	}
	if _, err := f.svc.Create(context.Background(), m, "ok", "", "paused"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad status: err = %v, want validation error", err)
	}
}

func TestCreateSanitizesDescription(t *testing.T) {
	f := newFixture()

	p, err := f.svc.Create(context.Background(), manager(), "launch",
		`<p>roadmap</p><script>alert(1)</script>`, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Description != "<p>roadmap</p>" {
		t.Errorf("description = %q, script content must be stripped", p.Description)
	}
}

func TestSetArchivedCascades(t *testing.T) {
	f := newFixture()
	m := manager()
	p, _ := f.svc.Create(context.Background(), m, "launch", "", "")

	got, err := f.svc.SetArchived(context.Background(), m, p.ID, true)
	if err != nil {
		t.Fatalf("SetArchived: %v", err)
	}
	if !got.Archived {
		t.Error("project must be archived")
	}
	if !f.tasks.archivedByProject[p.ID] {
		t.Error("tasks must be archived together with the project")
	}

	// And back again.
	got, err = f.svc.SetArchived(context.Background(), m, p.ID, false)
	if err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	if got.Archived {
		t.Error("project must be unarchived")
	}
	if f.tasks.archivedByProject[p.ID] {
		t.Error("tasks must be unarchived together with the project")
	}
}

func TestSetArchivedAuthorization(t *testing.T) {
	f := newFixture()
	owner := manager()
	p, _ := f.svc.Create(context.Background(), owner, "launch", "", "")

	cases := []struct {
		name  string
		actor models.User
		want  bool
	}{
		{"admin", admin(), true},
		{"owning manager", owner, true},
		{"other manager", manager(), false},
		{"staff", staff(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SetArchived(context.Background(), tc.actor, p.ID, true)
			if tc.want && err != nil {
				t.Fatalf("SetArchived: %v", err)
			}
			if !tc.want && !errors.Is(err, apperr.ErrAuthorization) {
				t.Fatalf("err = %v, want authorization error", err)
			}
			// Reset for the next case.
			proj := f.projects.byID[p.ID]
			proj.Archived = false
			f.projects.byID[p.ID] = proj
		})
	}
}

func TestSetArchivedNoOp(t *testing.T) {
	f := newFixture()
	m := manager()
	p, _ := f.svc.Create(context.Background(), m, "launch", "", "")

	if _, err := f.svc.SetArchived(context.Background(), m, p.ID, false); err != nil {
		t.Fatalf("SetArchived: %v", err)
	}
	if f.tasks.calls != 0 || f.projects.setCalls != 0 {
		t.Error("an already-satisfied request must not touch the stores")
	}
}

func TestSetArchivedRevertsTasksOnProjectFailure(t *testing.T) {
	f := newFixture()
	m := manager()
	p, _ := f.svc.Create(context.Background(), m, "launch", "", "")
	f.projects.failSet = true

	_, err := f.svc.SetArchived(context.Background(), m, p.ID, true)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want conflict error", err)
	}
	if f.tasks.archivedByProject[p.ID] {
		t.Error("tasks must be reverted when the project flip fails")
	}
	if f.projects.byID[p.ID].Archived {
		t.Error("project must remain unarchived after a failed cascade")
	}
}

func TestListPagesNewestFirst(t *testing.T) {
	f := newFixture()
	m := manager()
	var newest models.Project
	for i := 0; i < paging.PageSize+3; i++ {
		newest, _ = f.svc.Create(context.Background(), m, fmt.Sprintf("project %d", i), "", "")
	}

	first, hasNext, err := f.svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first) != paging.PageSize {
		t.Fatalf("first page has %d projects, want %d", len(first), paging.PageSize)
	}
	if !hasNext {
		t.Fatal("expected a second page")
	}
	if first[0].ID != newest.ID {
		t.Error("the newest project must come first")
	}

	rest, hasNext, err := f.svc.List(context.Background(), first[len(first)-1].ID.Hex())
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(rest) != 3 {
		t.Fatalf("second page has %d projects, want 3", len(rest))
	}
	if hasNext {
		t.Error("the last page must not report a further page")
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	f := newFixture()

	if _, _, err := f.svc.List(context.Background(), "not-hex"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("malformed cursor: err = %v, want validation error", err)
	}
	if _, _, err := f.svc.List(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unknown cursor: err = %v, want validation error", err)
	}
}

func TestSetArchivedUnknownProject(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SetArchived(context.Background(), admin(), primitive.NewObjectID(), true)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want not-found error", err)
	}
}
