package model

import "time"

// Follow 有向关注边 follower -> following，不允许自己关注自己
type Follow struct {
	ID          uint64    `gorm:"primaryKey"`
	FollowerID  uint64    `gorm:"not null;uniqueIndex:uq_follow_pair,priority:1;check:ck_no_self_follow,follower_id <> following_id" validate:"required"`
	FollowingID uint64    `gorm:"not null;uniqueIndex:uq_follow_pair,priority:2;index:idx_follows_following_id" validate:"required"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"`

	Follower  *User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Following *User `gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
