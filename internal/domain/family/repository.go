package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetFamilyByID(ctx context.Context, familyID string) (*Family, error)
	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	GetUserFamilyID(ctx context.Context, userID string) (*string, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
	CreateFamily(ctx context.Context, family *Family) error
	// LinkUser sets the user's family only if they have none and reports
	// whether a row changed.
	LinkUser(ctx context.Context, userID, familyID string) (bool, error)
	ListMembers(ctx context.Context, familyID string) ([]Member, error)
	IsMember(ctx context.Context, familyID, userID string) (bool, error)
}
