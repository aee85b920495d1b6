package family

import (
	"context"
	"errors"

	familydomain "family-hub-go/internal/domain/family"
	userdomain "family-hub-go/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamilyByID(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrInviteCodeNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetUserFamilyID(ctx context.Context, userID string) (*string, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).
		Select("id", "family_id").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrUserNotFound
		}
		return nil, err
	}
	return user.FamilyID, nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) LinkUser(ctx context.Context, userID, familyID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ? AND family_id IS NULL", userID).
		Update("family_id", familyID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID string) ([]familydomain.Member, error) {
	type memberRow struct {
		ID       string `gorm:"column:id"`
		Email    string `gorm:"column:email"`
		FullName string `gorm:"column:full_name"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Select("id, email, full_name").
		Where("family_id = ?", familyID).
		Order("created_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]familydomain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, familydomain.Member{
			UserID:   row.ID,
			Email:    row.Email,
			FullName: row.FullName,
		})
	}
	return members, nil
}

func (r *PostgresRepository) IsMember(ctx context.Context, familyID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ? AND family_id = ?", userID, familyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
