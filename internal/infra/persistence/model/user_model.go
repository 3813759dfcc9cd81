// Package model holds the GORM persistence models mirroring the database schema.
package model

import (
	"time"
)

// UserModel mirrors the 'users' table. The store assigns IDs from a sequence.
// reset_token and reset_token_expires_at are nullable as a pair: both null
// when no reset is pending, both set while one is.
type UserModel struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement"`
	FirstName           string     `gorm:"type:varchar(255);not null"`
	LastName            string     `gorm:"type:varchar(255);not null"`
	Email               string     `gorm:"type:varchar(255);unique;not null"`
	PasswordHash        string     `gorm:"type:varchar(255);not null"`
	ResetToken          *string    `gorm:"type:varchar(255);index"`
	ResetTokenExpiresAt *time.Time `gorm:"type:timestamptz"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
