package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	familydomain "family-hub-go/internal/domain/family"
	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	members MembershipResolver
	now     func() time.Time
}

func NewService(repo Repository, members MembershipResolver) *Service {
	return &Service{
		repo:    repo,
		members: members,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *Service) ListTasks(ctx context.Context, userID string) ([]Task, error) {
	membership, err := s.members.ResolveMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, familydomain.ErrNoFamily) {
			return []Task{}, nil
		}
		return nil, err
	}

	return s.repo.ListTasks(ctx, membership.FamilyID())
}

func (s *Service) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*Task, error) {
	membership, err := s.members.ResolveMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !membership.Can(familydomain.CapabilityCreateTasks) {
		return nil, ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	assignee, err := s.checkAssignee(ctx, membership.FamilyID(), input.AssignedToID)
	if err != nil {
		return nil, err
	}

	task := Task{
		ID:           uuid.NewString(),
		FamilyID:     membership.FamilyID(),
		CreatedByID:  userID,
		AssignedToID: assignee,
		Title:        title,
		Description:  normalizeOptional(input.Description),
		Status:       StatusTodo,
		Deadline:     utcPtr(input.Deadline),
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateTask(ctx, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

// CompleteTask is idempotent: completing a DONE task succeeds unchanged.
func (s *Service) CompleteTask(ctx context.Context, userID, taskID string) (*Task, error) {
	var result Task
	err := s.withTask(ctx, userID, taskID, func(tx Repository, _ *familydomain.Membership, task *Task) error {
		if task.IsDone() {
			result = *task
			return nil
		}
		task.Status = StatusDone
		if err := tx.SaveTask(ctx, task); err != nil {
			return err
		}
		result = *task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RateTask overwrites any previous rating. The assignee check runs before
// the range check.
func (s *Service) RateTask(ctx context.Context, userID, taskID string, rating int) (*Task, error) {
	var result Task
	err := s.withTask(ctx, userID, taskID, func(tx Repository, _ *familydomain.Membership, task *Task) error {
		if task.IsAssignedTo(userID) {
			return ErrSelfRating
		}
		if rating < MinRating || rating > MaxRating {
			return ErrInvalidRating
		}
		task.Rating = &rating
		if err := tx.SaveTask(ctx, task); err != nil {
			return err
		}
		result = *task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateTask checks the assignee outside the task transaction; the
// membership store does not run on it.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID string, input UpdateTaskInput) (*Task, error) {
	membership, err := s.scope(ctx, userID)
	if err != nil {
		return nil, err
	}
	assignee, assigneeErr := s.checkAssignee(ctx, membership.FamilyID(), input.AssignedToID)
	if assigneeErr != nil && !errors.Is(assigneeErr, ErrAssigneeNotMember) {
		return nil, assigneeErr
	}

	var result Task
	err = s.inTask(ctx, membership, taskID, func(tx Repository, task *Task) error {
		if !membership.Can(familydomain.CapabilityManageTasks) {
			return ErrForbidden
		}

		title := strings.TrimSpace(input.Title)
		if title == "" {
			return ErrTitleRequired
		}
		if assigneeErr != nil {
			return assigneeErr
		}

		task.Title = title
		task.AssignedToID = assignee
		if input.Deadline.Set {
			task.Deadline = utcPtr(input.Deadline.Value)
		}
		if err := tx.SaveTask(ctx, task); err != nil {
			return err
		}
		result = *task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) DeleteTask(ctx context.Context, userID, taskID string) error {
	return s.withTask(ctx, userID, taskID, func(tx Repository, membership *familydomain.Membership, task *Task) error {
		if !membership.Can(familydomain.CapabilityManageTasks) {
			return ErrForbidden
		}
		if err := tx.DeleteComments(ctx, task.ID); err != nil {
			return err
		}
		return tx.DeleteTask(ctx, task.ID)
	})
}

func (s *Service) AddComment(ctx context.Context, userID, taskID, content string) (*Comment, error) {
	var result Comment
	err := s.withTask(ctx, userID, taskID, func(tx Repository, _ *familydomain.Membership, task *Task) error {
		if task.IsAssignedTo(userID) {
			return ErrSelfComment
		}
		content = strings.TrimSpace(content)
		if content == "" {
			return ErrContentRequired
		}

		comment := Comment{
			ID:        uuid.NewString(),
			TaskID:    task.ID,
			UserID:    userID,
			Content:   content,
			CreatedAt: s.now(),
		}
		if err := tx.CreateComment(ctx, &comment); err != nil {
			return err
		}
		result = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListComments(ctx context.Context, userID, taskID string) ([]Comment, error) {
	membership, err := s.scope(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetTask(ctx, membership.FamilyID(), taskID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, taskID)
}

// ListUpcoming returns the user's open tasks due within the window starting
// now, soonest first.
func (s *Service) ListUpcoming(ctx context.Context, membership *familydomain.Membership, window time.Duration) ([]Task, error) {
	now := s.now()
	tasks, err := s.repo.ListUpcoming(ctx, membership.FamilyID(), membership.UserID, now, now.Add(window))
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

func (s *Service) withTask(ctx context.Context, userID, taskID string, fn func(Repository, *familydomain.Membership, *Task) error) error {
	membership, err := s.scope(ctx, userID)
	if err != nil {
		return err
	}
	return s.inTask(ctx, membership, taskID, func(tx Repository, task *Task) error {
		return fn(tx, membership, task)
	})
}

func (s *Service) inTask(ctx context.Context, membership *familydomain.Membership, taskID string, fn func(Repository, *Task) error) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		task, err := tx.GetTask(ctx, membership.FamilyID(), taskID)
		if err != nil {
			return err
		}
		return fn(tx, task)
	})
}

// scope hides every task from users without a family.
func (s *Service) scope(ctx context.Context, userID string) (*familydomain.Membership, error) {
	membership, err := s.members.ResolveMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, familydomain.ErrNoFamily) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return membership, nil
}

func (s *Service) checkAssignee(ctx context.Context, familyID string, assigneeID *string) (*string, error) {
	assignee := normalizeOptional(assigneeID)
	if assignee == nil {
		return nil, nil
	}
	ok, err := s.members.IsMember(ctx, familyID, *assignee)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAssigneeNotMember
	}
	return assignee, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func utcPtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}
