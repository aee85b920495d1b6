package tasks

import (
	"context"
	"errors"
	"time"

	tasksdomain "family-hub-go/internal/domain/tasks"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(tasksdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListTasks(ctx context.Context, familyID string) ([]tasksdomain.Task, error) {
	tasks := make([]tasksdomain.Task, 0)
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("deadline IS NULL, deadline asc, created_at asc").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PostgresRepository) GetTask(ctx context.Context, familyID, taskID string) (*tasksdomain.Task, error) {
	var task tasksdomain.Task
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND id = ?", familyID, taskID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tasksdomain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *PostgresRepository) CreateTask(ctx context.Context, task *tasksdomain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *PostgresRepository) SaveTask(ctx context.Context, task *tasksdomain.Task) error {
	return r.db.WithContext(ctx).
		Model(&tasksdomain.Task{}).
		Where("id = ? AND family_id = ?", task.ID, task.FamilyID).
		Updates(map[string]interface{}{
			"title":          task.Title,
			"description":    task.Description,
			"status":         task.Status,
			"rating":         task.Rating,
			"deadline":       task.Deadline,
			"assigned_to_id": task.AssignedToID,
		}).Error
}

func (r *PostgresRepository) DeleteTask(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).Delete(&tasksdomain.Task{}, "id = ?", taskID).Error
}

func (r *PostgresRepository) DeleteComments(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&tasksdomain.Comment{}).Error
}

func (r *PostgresRepository) CreateComment(ctx context.Context, comment *tasksdomain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *PostgresRepository) ListComments(ctx context.Context, taskID string) ([]tasksdomain.Comment, error) {
	comments := make([]tasksdomain.Comment, 0)
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PostgresRepository) ListUpcoming(ctx context.Context, familyID, assigneeID string, from, to time.Time) ([]tasksdomain.Task, error) {
	tasks := make([]tasksdomain.Task, 0)
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND assigned_to_id = ? AND status <> ?", familyID, assigneeID, tasksdomain.StatusDone).
		Where("deadline IS NOT NULL AND deadline >= ? AND deadline <= ?", from.UTC(), to.UTC()).
		Order("deadline asc, created_at asc").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
