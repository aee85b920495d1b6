package finance

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrAlreadyPaid      = errors.New("monthly contribution already paid")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrGoalCompleted    = errors.New("goal already completed")
	ErrGoalNameRequired = errors.New("goal name is required")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrForbidden        = errors.New("forbidden")
)
