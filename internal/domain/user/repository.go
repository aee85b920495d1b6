package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// PasswordHasher hides the hashing primitive from the identity rules.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
