package model

import (
	"time"
)

// Like 同一用户对同一帖子最多一条 (uq_like_post_user)
type Like struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"not null;uniqueIndex:uq_like_post_user,priority:1" validate:"required"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uq_like_post_user,priority:2;index:idx_likes_user_id" validate:"required"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`

	Post *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Like) TableName() string {
	return "likes"
}
