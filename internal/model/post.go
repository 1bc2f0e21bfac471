package model

import (
	"time"
)

type Post struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index:idx_posts_user_id" validate:"required"`
	Caption   *string   `gorm:"type:text"`
	Location  *string   `gorm:"type:varchar(120)" validate:"omitempty,max=120"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`

	// 仅用于声明外键，仓储层从不加载
	Author *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Post) TableName() string {
	return "posts"
}
