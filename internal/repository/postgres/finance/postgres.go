package finance

import (
	"context"
	"errors"
	"time"

	financedomain "family-hub-go/internal/domain/finance"
	"family-hub-go/internal/repository/postgres"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(financedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetPaymentSince(ctx context.Context, userID string, since time.Time) (*financedomain.SavingsPayment, error) {
	var payment financedomain.SavingsPayment
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND paid_at >= ?", userID, since.UTC()).
		Order("paid_at desc").
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, financedomain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PostgresRepository) SumFamilyPayments(ctx context.Context, familyID string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	row := r.db.WithContext(ctx).
		Model(&financedomain.SavingsPayment{}).
		Select("SUM(amount)").
		Where("family_id = ?", familyID).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *PostgresRepository) CreatePayment(ctx context.Context, payment *financedomain.SavingsPayment) error {
	err := r.db.WithContext(ctx).Create(payment).Error
	if err != nil && postgres.IsUniqueViolation(err) {
		return financedomain.ErrAlreadyPaid
	}
	return err
}

func (r *PostgresRepository) ListGoals(ctx context.Context, familyID string) ([]financedomain.Goal, error) {
	goals := make([]financedomain.Goal, 0)
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at asc").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *PostgresRepository) GetGoal(ctx context.Context, familyID, goalID string) (*financedomain.Goal, error) {
	return r.getGoal(r.db.WithContext(ctx), familyID, goalID)
}

// GetGoalForUpdate takes a row lock on PostgreSQL. SQLite ignores the clause
// and relies on its single writer.
func (r *PostgresRepository) GetGoalForUpdate(ctx context.Context, familyID, goalID string) (*financedomain.Goal, error) {
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.getGoal(query, familyID, goalID)
}

func (r *PostgresRepository) getGoal(query *gorm.DB, familyID, goalID string) (*financedomain.Goal, error) {
	var goal financedomain.Goal
	if err := query.Where("family_id = ? AND id = ?", familyID, goalID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, financedomain.ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (r *PostgresRepository) CreateGoal(ctx context.Context, goal *financedomain.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *PostgresRepository) UpdateGoalProgress(ctx context.Context, goal *financedomain.Goal) error {
	return r.db.WithContext(ctx).
		Model(&financedomain.Goal{}).
		Where("id = ?", goal.ID).
		Updates(map[string]interface{}{
			"current_amount": goal.CurrentAmount,
			"is_completed":   goal.IsCompleted,
		}).Error
}

func (r *PostgresRepository) CreateContribution(ctx context.Context, contribution *financedomain.GoalContribution) error {
	return r.db.WithContext(ctx).Create(contribution).Error
}

func (r *PostgresRepository) ListContributions(ctx context.Context, goalID string) ([]financedomain.GoalContribution, error) {
	contributions := make([]financedomain.GoalContribution, 0)
	if err := r.db.WithContext(ctx).
		Where("goal_id = ?", goalID).
		Order("contributed_at asc").
		Find(&contributions).Error; err != nil {
		return nil, err
	}
	return contributions, nil
}
