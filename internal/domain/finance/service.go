package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	familydomain "family-hub-go/internal/domain/family"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

// PaymentThisMonth returns the user's payment for the current UTC month, or
// nil when there is none.
func (s *Service) PaymentThisMonth(ctx context.Context, userID string) (*SavingsPayment, error) {
	payment, err := s.repo.GetPaymentSince(ctx, userID, MonthStart(s.now()))
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

func (s *Service) GetStatus(ctx context.Context, userID string) (*SavingsStatus, error) {
	membership, err := s.members.ResolveMembership(ctx, userID)
	if err != nil {
		return nil, err
	}

	payment, err := s.PaymentThisMonth(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.SumFamilyPayments(ctx, membership.FamilyID())
	if err != nil {
		return nil, err
	}

	status := SavingsStatus{
		TotalFamilySavings: total,
		PaymentAmount:      decimal.Zero,
	}
	if payment != nil {
		status.PaidThisMonth = true
		status.PaymentAmount = payment.Amount
	}
	return &status, nil
}

func (s *Service) PayMonthlyContribution(ctx context.Context, userID string) (*SavingsPayment, error) {
	membership, err := s.members.ResolveMembership(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	payment := SavingsPayment{
		ID:       uuid.NewString(),
		UserID:   userID,
		Period:   PeriodOf(now),
		FamilyID: membership.FamilyID(),
		Amount:   membership.Family.MonthlyContribution,
		PaidAt:   now,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetPaymentSince(ctx, userID, MonthStart(now))
		switch {
		case err == nil:
			return ErrAlreadyPaid
		case !errors.Is(err, ErrPaymentNotFound):
			return err
		}

		return tx.CreatePayment(ctx, &payment)
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// ListGoals returns an empty list for unaffiliated users.
func (s *Service) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	membership, err := s.members.ResolveMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, familydomain.ErrNoFamily) {
			return []Goal{}, nil
		}
		return nil, err
	}

	return s.repo.ListGoals(ctx, membership.FamilyID())
}

func (s *Service) CreateGoal(ctx context.Context, userID string, input CreateGoalInput) (*Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGoalNameRequired
	}
	target := input.TargetAmount.Round(2)
	if !target.IsPositive() {
		return nil, ErrInvalidAmount
	}

	membership, err := s.members.ResolveMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !membership.Can(familydomain.CapabilityCreateGoals) {
		return nil, ErrForbidden
	}

	goal := Goal{
		ID:            uuid.NewString(),
		FamilyID:      membership.FamilyID(),
		CreatedByID:   userID,
		Name:          name,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
	}
	if err := s.repo.CreateGoal(ctx, &goal); err != nil {
		return nil, err
	}

	return &goal, nil
}

// Contribute appends a contribution and advances the goal under a row lock.
// Completion is sticky: once set it is never cleared.
func (s *Service) Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*ContributionResult, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	familyID, err := s.goalScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	var result ContributionResult
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := tx.GetGoalForUpdate(ctx, familyID, goalID)
		if err != nil {
			return err
		}
		if goal.IsCompleted {
			return ErrGoalCompleted
		}

		contribution := GoalContribution{
			ID:            uuid.NewString(),
			GoalID:        goal.ID,
			UserID:        userID,
			Amount:        amount,
			ContributedAt: s.now(),
		}
		if err := tx.CreateContribution(ctx, &contribution); err != nil {
			return err
		}

		goal.CurrentAmount = goal.CurrentAmount.Add(contribution.Amount)
		if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			goal.IsCompleted = true
		}
		if err := tx.UpdateGoalProgress(ctx, goal); err != nil {
			return err
		}

		result = ContributionResult{Goal: *goal, Contribution: contribution}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) ListContributions(ctx context.Context, userID, goalID string) ([]GoalContribution, error) {
	familyID, err := s.goalScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetGoal(ctx, familyID, goalID); err != nil {
		return nil, err
	}

	return s.repo.ListContributions(ctx, goalID)
}

// goalScope resolves the family whose goals the user may touch. Users
// without a family see every goal as missing.
func (s *Service) goalScope(ctx context.Context, userID string) (string, error) {
	membership, err := s.members.ResolveMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, familydomain.ErrNoFamily) {
			return "", ErrGoalNotFound
		}
		return "", err
	}
	return membership.FamilyID(), nil
}
