package tasks

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrContentRequired   = errors.New("content is required")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrSelfRating        = errors.New("cannot rate a task assigned to yourself")
	ErrSelfComment       = errors.New("cannot comment on a task assigned to yourself")
	ErrAssigneeNotMember = errors.New("assignee is not a member of the family")
	ErrInvalidDeadline   = errors.New("invalid deadline")
	ErrForbidden         = errors.New("forbidden")
)
