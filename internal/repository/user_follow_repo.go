package repository

import (
	"Snapshare/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// UserFollowRepo 关注关系按两个独立索引查询：follower_id 查关注列表，following_id 查粉丝列表
type UserFollowRepo interface {
	GetUserFollowers(ctx context.Context, userID uint64) ([]*model.Follow, error)
	GetUserFollowing(ctx context.Context, userID uint64) ([]*model.Follow, error)
	GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollow(ctx context.Context, userID uint64, followingID uint64) (*model.Follow, error)
	CreateUserFollow(ctx context.Context, follow *model.Follow) error
	DeleteUserFollow(ctx context.Context, userID uint64, followingID uint64) (int64, error)
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

// GetUserFollowers 获取用户的粉丝列表
func (s *UserFollowRepoImpl) GetUserFollowers(ctx context.Context, userID uint64) ([]*model.Follow, error) {
	userFollows := make([]*model.Follow, 0)
	result := s.db.WithContext(ctx).
		Where("following_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&userFollows)

	if result.Error != nil {
		return nil, result.Error
	}
	return userFollows, nil
}

// GetUserFollowing 获取用户的关注列表
func (s *UserFollowRepoImpl) GetUserFollowing(ctx context.Context, userID uint64) ([]*model.Follow, error) {
	userFollows := make([]*model.Follow, 0)
	result := s.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&userFollows)

	if result.Error != nil {
		return nil, result.Error
	}
	return userFollows, nil
}

// GetUserFollowerCount 获取用户的粉丝数量
func (s *UserFollowRepoImpl) GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("following_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetUserFollowingCount 获取用户的关注数量
func (s *UserFollowRepoImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetUserFollow 获取用户的关注关系
func (s *UserFollowRepoImpl) GetUserFollow(ctx context.Context, userID uint64, followingID uint64) (*model.Follow, error) {
	var userFollow model.Follow
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", userID, followingID).
		First(&userFollow)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &userFollow, nil
}

// CreateUserFollow 创建关注关系，重复关注与自我关注由数据库约束拒绝
func (s *UserFollowRepoImpl) CreateUserFollow(ctx context.Context, follow *model.Follow) error {
	return s.db.WithContext(ctx).Create(follow).Error
}

// DeleteUserFollow 删除用户的关注关系
func (s *UserFollowRepoImpl) DeleteUserFollow(ctx context.Context, userID uint64, followingID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", userID, followingID).
		Delete(&model.Follow{})
	return result.RowsAffected, result.Error
}
