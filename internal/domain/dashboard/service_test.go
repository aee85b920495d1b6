package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	familydomain "family-hub-go/internal/domain/family"
	"family-hub-go/internal/domain/finance"
	"family-hub-go/internal/domain/tasks"
	"github.com/shopspring/decimal"
)

type stubMembers struct {
	membership *familydomain.Membership
	err        error
}

func (s stubMembers) ResolveMembership(ctx context.Context, userID string) (*familydomain.Membership, error) {
	return s.membership, s.err
}

type stubPayments struct {
	payment *finance.SavingsPayment
	err     error
}

func (s stubPayments) PaymentThisMonth(ctx context.Context, userID string) (*finance.SavingsPayment, error) {
	return s.payment, s.err
}

type stubUpcoming struct {
	tasks  []tasks.Task
	window time.Duration
}

func (s *stubUpcoming) ListUpcoming(ctx context.Context, membership *familydomain.Membership, window time.Duration) ([]tasks.Task, error) {
	s.window = window
	return s.tasks, nil
}

func TestAlertsWithoutFamily(t *testing.T) {
	svc := NewService(stubMembers{err: familydomain.ErrNoFamily}, stubPayments{}, &stubUpcoming{})

	alerts, err := svc.Alerts(context.Background(), "loner")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if alerts.HasFamily || alerts.Reminder != "" || alerts.UpcomingTasks != nil {
		t.Fatalf("expected bare alerts, got %+v", alerts)
	}
}

func TestAlertsUnpaidWithUpcoming(t *testing.T) {
	membership := familydomain.NewMembership("child", familydomain.Family{
		ID: "fam-1", OwnerID: "owner", MonthlyContribution: decimal.NewFromInt(100),
	})
	upcoming := &stubUpcoming{tasks: []tasks.Task{{ID: "t1", Title: "Trash"}}}
	svc := NewService(stubMembers{membership: &membership}, stubPayments{}, upcoming)

	alerts, err := svc.Alerts(context.Background(), "child")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !alerts.HasFamily || alerts.PaidThisMonth {
		t.Fatalf("unexpected flags %+v", alerts)
	}
	if !alerts.MonthlyContribution.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected monthly contribution 100, got %s", alerts.MonthlyContribution)
	}
	if len(alerts.UpcomingTasks) != 1 || alerts.Reminder != reminderUnpaid {
		t.Fatalf("unexpected alerts %+v", alerts)
	}
	if upcoming.window != UpcomingWindow {
		t.Fatalf("expected %s window, got %s", UpcomingWindow, upcoming.window)
	}
}

func TestAlertsPaid(t *testing.T) {
	membership := familydomain.NewMembership("owner", familydomain.Family{ID: "fam-1", OwnerID: "owner"})
	svc := NewService(stubMembers{membership: &membership}, stubPayments{payment: &finance.SavingsPayment{ID: "p1"}}, &stubUpcoming{tasks: []tasks.Task{}})

	alerts, err := svc.Alerts(context.Background(), "owner")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !alerts.PaidThisMonth || alerts.Reminder != reminderPaid {
		t.Fatalf("expected paid reminder, got %+v", alerts)
	}
}

func TestAlertsPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	membership := familydomain.NewMembership("owner", familydomain.Family{ID: "fam-1", OwnerID: "owner"})
	svc := NewService(stubMembers{membership: &membership}, stubPayments{err: boom}, &stubUpcoming{})

	if _, err := svc.Alerts(context.Background(), "owner"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
