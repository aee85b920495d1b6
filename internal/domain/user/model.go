package user

import "time"

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"size:320;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	FullName     string    `gorm:"not null"`
	FamilyID     *string   `gorm:"type:uuid;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (u *User) HasFamily() bool {
	return u.FamilyID != nil && *u.FamilyID != ""
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}
