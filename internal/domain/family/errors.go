package family

import "errors"

var (
	ErrFamilyNotFound       = errors.New("family not found")
	ErrInviteCodeNotFound   = errors.New("invite code not found")
	ErrNoFamily             = errors.New("user has no family")
	ErrAlreadyInFamily      = errors.New("already in family")
	ErrUserNotFound         = errors.New("user not found")
	ErrNameRequired         = errors.New("name is required")
	ErrCodeRequired         = errors.New("code is required")
	ErrInvalidAmount        = errors.New("monthly amount must not be negative")
	ErrCodeGenerationFailed = errors.New("invite code generation failed")
)
