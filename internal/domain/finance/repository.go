package finance

import (
	"context"
	"time"

	familydomain "family-hub-go/internal/domain/family"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetPaymentSince(ctx context.Context, userID string, since time.Time) (*SavingsPayment, error)
	SumFamilyPayments(ctx context.Context, familyID string) (decimal.Decimal, error)
	// CreatePayment returns ErrAlreadyPaid when the (user, period) slot is taken.
	CreatePayment(ctx context.Context, payment *SavingsPayment) error
	ListGoals(ctx context.Context, familyID string) ([]Goal, error)
	GetGoal(ctx context.Context, familyID, goalID string) (*Goal, error)
	GetGoalForUpdate(ctx context.Context, familyID, goalID string) (*Goal, error)
	CreateGoal(ctx context.Context, goal *Goal) error
	UpdateGoalProgress(ctx context.Context, goal *Goal) error
	CreateContribution(ctx context.Context, contribution *GoalContribution) error
	ListContributions(ctx context.Context, goalID string) ([]GoalContribution, error)
}

type MembershipResolver interface {
	ResolveMembership(ctx context.Context, userID string) (*familydomain.Membership, error)
}
