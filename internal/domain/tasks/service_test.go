package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	familydomain "family-hub-go/internal/domain/family"
)

type fakeResolver struct {
	families map[string]familydomain.Family
	userFam  map[string]string
}

func newFakeResolver() *fakeResolver {
	families := map[string]familydomain.Family{
		"fam-1": {ID: "fam-1", Name: "Nowak", OwnerID: "owner"},
		"fam-2": {ID: "fam-2", Name: "Kowalski", OwnerID: "stranger"},
	}
	return &fakeResolver{
		families: families,
		userFam: map[string]string{
			"owner":    "fam-1",
			"member":   "fam-1",
			"child":    "fam-1",
			"stranger": "fam-2",
		},
	}
}

func (r *fakeResolver) ResolveMembership(ctx context.Context, userID string) (*familydomain.Membership, error) {
	familyID, ok := r.userFam[userID]
	if !ok {
		return nil, familydomain.ErrNoFamily
	}
	membership := familydomain.NewMembership(userID, r.families[familyID])
	return &membership, nil
}

func (r *fakeResolver) IsMember(ctx context.Context, familyID, userID string) (bool, error) {
	return r.userFam[userID] == familyID, nil
}

type fakeTaskRepo struct {
	tasks    map[string]*Task
	comments []Comment
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*Task)}
}

func (r *fakeTaskRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeTaskRepo) ListTasks(ctx context.Context, familyID string) ([]Task, error) {
	result := make([]Task, 0)
	for _, task := range r.tasks {
		if task.FamilyID == familyID {
			result = append(result, *task)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if (a.Deadline == nil) != (b.Deadline == nil) {
			return b.Deadline == nil
		}
		if a.Deadline != nil && !a.Deadline.Equal(*b.Deadline) {
			return a.Deadline.Before(*b.Deadline)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return result, nil
}

func (r *fakeTaskRepo) GetTask(ctx context.Context, familyID, taskID string) (*Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.FamilyID != familyID {
		return nil, ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) CreateTask(ctx context.Context, task *Task) error {
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) SaveTask(ctx context.Context, task *Task) error {
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) DeleteTask(ctx context.Context, taskID string) error {
	delete(r.tasks, taskID)
	return nil
}

func (r *fakeTaskRepo) DeleteComments(ctx context.Context, taskID string) error {
	kept := r.comments[:0]
	for _, comment := range r.comments {
		if comment.TaskID != taskID {
			kept = append(kept, comment)
		}
	}
	r.comments = kept
	return nil
}

func (r *fakeTaskRepo) CreateComment(ctx context.Context, comment *Comment) error {
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeTaskRepo) ListComments(ctx context.Context, taskID string) ([]Comment, error) {
	result := make([]Comment, 0)
	for _, comment := range r.comments {
		if comment.TaskID == taskID {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (r *fakeTaskRepo) ListUpcoming(ctx context.Context, familyID, assigneeID string, from, to time.Time) ([]Task, error) {
	all, _ := r.ListTasks(ctx, familyID)
	result := make([]Task, 0)
	for _, task := range all {
		if !task.IsAssignedTo(assigneeID) || task.IsDone() || task.Deadline == nil {
			continue
		}
		if task.Deadline.Before(from) || task.Deadline.After(to) {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

var baseTime = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeTaskRepo) *Service {
	svc := NewService(repo, newFakeResolver())
	tick := 0
	svc.now = func() time.Time {
		tick++
		return baseTime.Add(time.Duration(tick) * time.Second)
	}
	return svc
}

func strPtr(value string) *string {
	return &value
}

func timePtr(value time.Time) *time.Time {
	return &value
}

func TestCreateTaskRequiresFamilyAndTitle(t *testing.T) {
	svc := newTestService(newFakeTaskRepo())

	if _, err := svc.CreateTask(context.Background(), "loner", CreateTaskInput{Title: "Dishes"}); !errors.Is(err, familydomain.ErrNoFamily) {
		t.Fatalf("expected ErrNoFamily, got %v", err)
	}
	if _, err := svc.CreateTask(context.Background(), "member", CreateTaskInput{Title: "   "}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.CreateTask(context.Background(), "member", CreateTaskInput{Title: "Dishes", AssignedToID: strPtr("stranger")}); !errors.Is(err, ErrAssigneeNotMember) {
		t.Fatalf("expected ErrAssigneeNotMember, got %v", err)
	}

	task, err := svc.CreateTask(context.Background(), "member", CreateTaskInput{
		Title:        " Dishes ",
		Description:  strPtr(""),
		AssignedToID: strPtr("child"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if task.Title != "Dishes" || task.Status != StatusTodo || task.Description != nil || task.Rating != nil {
		t.Fatalf("unexpected task %+v", task)
	}
	if !task.IsAssignedTo("child") || task.CreatedByID != "member" || task.FamilyID != "fam-1" {
		t.Fatalf("unexpected ownership %+v", task)
	}
}

func TestListTasksOrdering(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	undated, _ := svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "undated"})
	late, _ := svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "late", Deadline: timePtr(baseTime.Add(48 * time.Hour))})
	early, _ := svc.CreateTask(ctx, "member", CreateTaskInput{Title: "early", Deadline: timePtr(baseTime.Add(2 * time.Hour))})
	if _, err := svc.CreateTask(ctx, "stranger", CreateTaskInput{Title: "other family"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	list, err := svc.ListTasks(ctx, "member")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{early.ID, late.ID, undated.ID}
	if len(list) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(list))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, list[i].Title)
		}
	}

	empty, err := svc.ListTasks(ctx, "loner")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list for loner, got %v %v", empty, err)
	}
}

func TestCompleteTaskIdempotent(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestService(repo)
	task, _ := svc.CreateTask(context.Background(), "member", CreateTaskInput{Title: "Laundry"})

	for i := 0; i < 2; i++ {
		done, err := svc.CompleteTask(context.Background(), "child", task.ID)
		if err != nil {
			t.Fatalf("attempt %d: expected no error, got %v", i, err)
		}
		if done.Status != StatusDone {
			t.Fatalf("expected DONE, got %s", done.Status)
		}
	}

	if _, err := svc.CompleteTask(context.Background(), "stranger", task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound across families, got %v", err)
	}
}

func TestRateTaskRules(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	task, _ := svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "Vacuum", AssignedToID: strPtr("child")})

	if _, err := svc.RateTask(ctx, "child", task.ID, 9); !errors.Is(err, ErrSelfRating) {
		t.Fatalf("expected ErrSelfRating before range check, got %v", err)
	}
	if _, err := svc.RateTask(ctx, "owner", task.ID, 0); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if _, err := svc.RateTask(ctx, "stranger", task.ID, 3); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	rated, err := svc.RateTask(ctx, "owner", task.ID, 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rated.Rating == nil || *rated.Rating != 4 {
		t.Fatalf("expected rating 4, got %v", rated.Rating)
	}

	rated, err = svc.RateTask(ctx, "member", task.ID, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if *rated.Rating != 5 || *repo.tasks[task.ID].Rating != 5 {
		t.Fatalf("expected rating overwritten to 5")
	}
}

func TestUpdateTaskDeadlineTriState(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	deadline := baseTime.Add(24 * time.Hour)
	task, _ := svc.CreateTask(ctx, "member", CreateTaskInput{Title: "Groceries", Deadline: &deadline})

	if _, err := svc.UpdateTask(ctx, "member", task.ID, UpdateTaskInput{Title: "x"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for member, got %v", err)
	}

	updated, err := svc.UpdateTask(ctx, "owner", task.ID, UpdateTaskInput{Title: "Groceries and bread"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Deadline == nil || !updated.Deadline.Equal(deadline) {
		t.Fatalf("expected deadline unchanged, got %v", updated.Deadline)
	}

	moved := deadline.Add(time.Hour)
	updated, err = svc.UpdateTask(ctx, "owner", task.ID, UpdateTaskInput{
		Title:        "Groceries",
		Deadline:     OptionalNullableTime{Set: true, Value: &moved},
		AssignedToID: strPtr("child"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !updated.Deadline.Equal(moved) || !updated.IsAssignedTo("child") {
		t.Fatalf("expected deadline and assignee replaced, got %+v", updated)
	}

	updated, err = svc.UpdateTask(ctx, "owner", task.ID, UpdateTaskInput{
		Title:    "Groceries",
		Deadline: OptionalNullableTime{Set: true},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Deadline != nil {
		t.Fatalf("expected deadline cleared, got %v", updated.Deadline)
	}
	if updated.AssignedToID != nil {
		t.Fatalf("expected assignee replaced by nil")
	}
}

func TestOptionalNullableTimeJSON(t *testing.T) {
	var payload struct {
		Deadline OptionalNullableTime `json:"deadline"`
	}

	if err := json.Unmarshal([]byte(`{}`), &payload); err != nil || payload.Deadline.Set {
		t.Fatalf("absent field must be unset, got %+v %v", payload.Deadline, err)
	}

	payload.Deadline = OptionalNullableTime{}
	if err := json.Unmarshal([]byte(`{"deadline":""}`), &payload); err != nil || payload.Deadline.Set {
		t.Fatalf("empty string must be unset, got %+v %v", payload.Deadline, err)
	}

	payload.Deadline = OptionalNullableTime{}
	if err := json.Unmarshal([]byte(`{"deadline":null}`), &payload); err != nil || !payload.Deadline.Set || payload.Deadline.Value != nil {
		t.Fatalf("null must clear, got %+v %v", payload.Deadline, err)
	}

	payload.Deadline = OptionalNullableTime{}
	if err := json.Unmarshal([]byte(`{"deadline":"2026-10-20T18:00:00"}`), &payload); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := time.Date(2026, time.October, 20, 18, 0, 0, 0, time.UTC)
	if !payload.Deadline.Set || !payload.Deadline.Value.Equal(want) {
		t.Fatalf("expected %s, got %+v", want, payload.Deadline)
	}

	if err := json.Unmarshal([]byte(`{"deadline":"tomorrow"}`), &payload); !errors.Is(err, ErrInvalidDeadline) {
		t.Fatalf("expected ErrInvalidDeadline, got %v", err)
	}
}

func TestDeleteTaskRemovesComments(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	task, _ := svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "Windows"})
	other, _ := svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "Garden"})
	if _, err := svc.AddComment(ctx, "member", task.ID, "on it"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.AddComment(ctx, "member", other.ID, "later"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.DeleteTask(ctx, "member", task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteTask(ctx, "owner", task.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.tasks[task.ID]; ok {
		t.Fatalf("expected task removed")
	}
	if len(repo.comments) != 1 || repo.comments[0].TaskID != other.ID {
		t.Fatalf("expected only the other task's comment to remain, got %+v", repo.comments)
	}
	if err := svc.DeleteTask(ctx, "owner", task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}
}

func TestComments(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	task, _ := svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "Trash", AssignedToID: strPtr("child")})

	if _, err := svc.AddComment(ctx, "child", task.ID, "done soon"); !errors.Is(err, ErrSelfComment) {
		t.Fatalf("expected ErrSelfComment, got %v", err)
	}
	if _, err := svc.AddComment(ctx, "owner", task.ID, "  "); !errors.Is(err, ErrContentRequired) {
		t.Fatalf("expected ErrContentRequired, got %v", err)
	}
	if _, err := svc.AddComment(ctx, "stranger", task.ID, "hi"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	first, err := svc.AddComment(ctx, "owner", task.ID, "please")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := svc.AddComment(ctx, "member", task.ID, "seconded")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	comments, err := svc.ListComments(ctx, "child", task.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(comments) != 2 || comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Fatalf("expected comments oldest first, got %+v", comments)
	}

	if _, err := svc.ListComments(ctx, "loner", task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for loner, got %v", err)
	}
}

func TestListUpcomingWindow(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	soon, _ := svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "soon", AssignedToID: strPtr("child"), Deadline: timePtr(baseTime.Add(24 * time.Hour))})
	svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "far", AssignedToID: strPtr("child"), Deadline: timePtr(baseTime.Add(96 * time.Hour))})
	svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "past", AssignedToID: strPtr("child"), Deadline: timePtr(baseTime.Add(-time.Hour))})
	svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "someone else", AssignedToID: strPtr("member"), Deadline: timePtr(baseTime.Add(time.Hour))})
	finished, _ := svc.CreateTask(ctx, "owner", CreateTaskInput{Title: "finished", AssignedToID: strPtr("child"), Deadline: timePtr(baseTime.Add(time.Hour))})
	if _, err := svc.CompleteTask(ctx, "owner", finished.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	membership, _ := newFakeResolver().ResolveMembership(ctx, "child")
	upcoming, err := svc.ListUpcoming(ctx, membership, 72*time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != soon.ID {
		t.Fatalf("expected only the soon task, got %+v", upcoming)
	}
}
