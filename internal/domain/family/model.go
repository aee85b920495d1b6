package family

import (
	"time"

	"github.com/shopspring/decimal"
)

type Family struct {
	ID                  string          `gorm:"type:uuid;primaryKey"`
	Name                string          `gorm:"not null"`
	InviteCode          string          `gorm:"size:16;not null;uniqueIndex"`
	OwnerID             string          `gorm:"type:uuid;not null;index"`
	MonthlyContribution decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt           time.Time       `gorm:"autoCreateTime"`
}

// Member is the public projection of a user that belongs to a family.
type Member struct {
	UserID   string
	Email    string
	FullName string
	Role     Role
}

type CreateFamilyInput struct {
	Name                string
	MonthlyContribution decimal.Decimal
}
