package model

import (
	"time"
)

type Comment struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"not null;index:idx_comments_post_id" validate:"required"`
	UserID    uint64    `gorm:"not null;index:idx_comments_user_id" validate:"required"`
	Text      string    `gorm:"type:text;not null" validate:"required"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`

	Post   *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Author *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
