package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsPayment is the mandatory monthly contribution of one user. Period
// holds the UTC month ("2006-01") and is unique per user.
type SavingsPayment struct {
	ID       string          `gorm:"type:uuid;primaryKey"`
	UserID   string          `gorm:"type:uuid;not null;uniqueIndex:idx_savings_payments_user_period"`
	Period   string          `gorm:"size:7;not null;uniqueIndex:idx_savings_payments_user_period"`
	FamilyID string          `gorm:"type:uuid;not null;index"`
	Amount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaidAt   time.Time       `gorm:"not null;index"`
}

type Goal struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	FamilyID      string          `gorm:"type:uuid;not null;index"`
	CreatedByID   string          `gorm:"type:uuid;not null"`
	Name          string          `gorm:"not null"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	IsCompleted   bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
}

type GoalContribution struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	GoalID        string          `gorm:"type:uuid;not null;index"`
	UserID        string          `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ContributedAt time.Time       `gorm:"not null"`
}

type SavingsStatus struct {
	PaidThisMonth      bool
	TotalFamilySavings decimal.Decimal
	PaymentAmount      decimal.Decimal
}

type CreateGoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
}

type ContributionResult struct {
	Goal         Goal
	Contribution GoalContribution
}

func (r ContributionResult) IsCompleted() bool {
	return r.Goal.IsCompleted
}

// MonthStart truncates t to the first instant of its UTC calendar month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func PeriodOf(t time.Time) string {
	return MonthStart(t).Format("2006-01")
}
