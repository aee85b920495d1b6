package tasks

import (
	"context"
	"time"

	familydomain "family-hub-go/internal/domain/family"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// ListTasks orders by deadline ascending with undated tasks last, then by
	// creation time.
	ListTasks(ctx context.Context, familyID string) ([]Task, error)
	GetTask(ctx context.Context, familyID, taskID string) (*Task, error)
	CreateTask(ctx context.Context, task *Task) error
	SaveTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, taskID string) error
	DeleteComments(ctx context.Context, taskID string) error
	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, taskID string) ([]Comment, error)
	ListUpcoming(ctx context.Context, familyID, assigneeID string, from, to time.Time) ([]Task, error)
}

type MembershipResolver interface {
	ResolveMembership(ctx context.Context, userID string) (*familydomain.Membership, error)
	IsMember(ctx context.Context, familyID, userID string) (bool, error)
}
