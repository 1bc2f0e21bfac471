package model

import (
	"time"
)

type User struct {
	ID        uint64    `gorm:"primaryKey"`
	Email     string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_users_email" validate:"required,max=120"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-" validate:"required,max=255"`
	IsActive  bool      `gorm:"not null"`
	Username  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_username" validate:"required,max=50"`
	FullName  *string   `gorm:"type:varchar(120)" validate:"omitempty,max=120"`
	Bio       *string   `gorm:"type:varchar(160)" validate:"omitempty,max=160"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
