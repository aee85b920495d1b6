package dashboard

import (
	"context"
	"errors"
	"time"

	familydomain "family-hub-go/internal/domain/family"
	"family-hub-go/internal/domain/finance"
	"family-hub-go/internal/domain/tasks"
	"github.com/shopspring/decimal"
)

const UpcomingWindow = 72 * time.Hour

const (
	reminderPaid   = "Monthly contribution paid. Nice work!"
	reminderUnpaid = "Reminder: your monthly contribution has not been paid yet."
)

type MembershipResolver interface {
	ResolveMembership(ctx context.Context, userID string) (*familydomain.Membership, error)
}

type PaymentLookup interface {
	PaymentThisMonth(ctx context.Context, userID string) (*finance.SavingsPayment, error)
}

type UpcomingTasks interface {
	ListUpcoming(ctx context.Context, membership *familydomain.Membership, window time.Duration) ([]tasks.Task, error)
}

// Alerts is the dashboard summary. Only HasFamily is meaningful when the user
// has no family.
type Alerts struct {
	HasFamily           bool
	PaidThisMonth       bool
	MonthlyContribution decimal.Decimal
	UpcomingTasks       []tasks.Task
	Reminder            string
}

type Service struct {
	members  MembershipResolver
	payments PaymentLookup
	tasks    UpcomingTasks
}

func NewService(members MembershipResolver, payments PaymentLookup, upcoming UpcomingTasks) *Service {
	return &Service{members: members, payments: payments, tasks: upcoming}
}

func (s *Service) Alerts(ctx context.Context, userID string) (*Alerts, error) {
	membership, err := s.members.ResolveMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, familydomain.ErrNoFamily) {
			return &Alerts{HasFamily: false}, nil
		}
		return nil, err
	}

	payment, err := s.payments.PaymentThisMonth(ctx, userID)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.tasks.ListUpcoming(ctx, membership, UpcomingWindow)
	if err != nil {
		return nil, err
	}

	alerts := Alerts{
		HasFamily:           true,
		PaidThisMonth:       payment != nil,
		MonthlyContribution: membership.Family.MonthlyContribution,
		UpcomingTasks:       upcoming,
		Reminder:            reminderUnpaid,
	}
	if alerts.PaidThisMonth {
		alerts.Reminder = reminderPaid
	}
	return &alerts, nil
}
