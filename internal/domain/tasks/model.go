package tasks

import (
	"bytes"
	"encoding/json"
	"time"
)

type Status string

const (
	StatusTodo Status = "TODO"
	StatusDone Status = "DONE"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Task struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	FamilyID     string     `gorm:"type:uuid;not null;index"`
	CreatedByID  string     `gorm:"type:uuid;not null"`
	AssignedToID *string    `gorm:"type:uuid;index"`
	Title        string     `gorm:"not null"`
	Description  *string
	Status       Status     `gorm:"size:8;not null;default:TODO"`
	Rating       *int
	Deadline     *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
}

func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

func (t Task) IsAssignedTo(userID string) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}

type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	TaskID    string    `gorm:"type:uuid;not null;index"`
	UserID    string    `gorm:"type:uuid;not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Comment) TableName() string {
	return "task_comments"
}

// OptionalNullableTime distinguishes an absent field from an explicit null.
// Set is false when the field was missing or an empty string.
type OptionalNullableTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalNullableTime) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		o.Set = true
		o.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return ErrInvalidDeadline
	}
	if raw == "" {
		o.Set = false
		o.Value = nil
		return nil
	}

	parsed, err := ParseDeadline(raw)
	if err != nil {
		return err
	}
	o.Set = true
	o.Value = &parsed
	return nil
}

// ParseDeadline accepts RFC 3339 timestamps and naive "2006-01-02T15:04:05"
// values, which are read as UTC.
func ParseDeadline(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDeadline
}

type CreateTaskInput struct {
	Title        string
	Description  *string
	Deadline     *time.Time
	AssignedToID *string
}

type UpdateTaskInput struct {
	Title        string
	Deadline     OptionalNullableTime
	AssignedToID *string
}
