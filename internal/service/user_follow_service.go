package service

import (
	"Snapshare/internal/api/dto"
	"Snapshare/internal/model"
	"Snapshare/internal/pkg/database"
	"Snapshare/internal/repository"
	"context"
	log "log/slog"
)

type UserFollowService interface {
	GetUserFollowers(ctx context.Context, userId uint64) ([]*dto.FollowDTO, error)
	GetUserFollowing(ctx context.Context, userId uint64) ([]*dto.FollowDTO, error)
	GetUserFollowerCount(ctx context.Context, userId uint64) (int64, error)
	GetUserFollowingCount(ctx context.Context, userId uint64) (int64, error)
	GetSomeoneIsFollowing(ctx context.Context, userId, followingId uint64) (bool, error)
	CreateUserFollow(ctx context.Context, followerId, followingId uint64) (*dto.FollowDTO, error)
	DeleteUserFollow(ctx context.Context, followerId, followingId uint64) error
}

type UserFollowServiceImpl struct {
	userFollowRepo repository.UserFollowRepo
}

func NewUserFollowService(userFollowRepo repository.UserFollowRepo) UserFollowService {
	return &UserFollowServiceImpl{userFollowRepo: userFollowRepo}
}

type fetchListFunc func(ctx context.Context, userId uint64) ([]*model.Follow, error)

func (s *UserFollowServiceImpl) GetUserFollowers(ctx context.Context, userId uint64) ([]*dto.FollowDTO, error) {
	return s.getFollowListCommon(ctx, userId, s.userFollowRepo.GetUserFollowers)
}

func (s *UserFollowServiceImpl) GetUserFollowing(ctx context.Context, userId uint64) ([]*dto.FollowDTO, error) {
	return s.getFollowListCommon(ctx, userId, s.userFollowRepo.GetUserFollowing)
}

func (s *UserFollowServiceImpl) GetUserFollowerCount(ctx context.Context, userId uint64) (int64, error) {
	return s.userFollowRepo.GetUserFollowerCount(ctx, userId)
}

func (s *UserFollowServiceImpl) GetUserFollowingCount(ctx context.Context, userId uint64) (int64, error) {
	return s.userFollowRepo.GetUserFollowingCount(ctx, userId)
}

func (s *UserFollowServiceImpl) GetSomeoneIsFollowing(ctx context.Context, userId, followingId uint64) (bool, error) {
	userFollow, err := s.userFollowRepo.GetUserFollow(ctx, userId, followingId)
	if err != nil {
		return false, err
	}
	return userFollow != nil, nil
}

// CreateUserFollow 自关注与重复关注都交给数据库约束拒绝，并发下同样成立
func (s *UserFollowServiceImpl) CreateUserFollow(ctx context.Context, followerId, followingId uint64) (*dto.FollowDTO, error) {
	userFollow := &model.Follow{FollowerID: followerId, FollowingID: followingId}

	err := s.userFollowRepo.CreateUserFollow(ctx, userFollow)
	if err = translateWriteErr(ctx, err, constraintErrors{
		database.ErrUniqueViolation:     ErrUserFollowExist,
		database.ErrCheckViolation:      ErrUserFollowSelf,
		database.ErrForeignKeyViolation: ErrUserNotFound,
	}); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "user followed", "follower_id", followerId, "following_id", followingId)
	return dto.SerializeFollow(userFollow), nil
}

func (s *UserFollowServiceImpl) DeleteUserFollow(ctx context.Context, followerId, followingId uint64) error {
	affected, err := s.userFollowRepo.DeleteUserFollow(ctx, followerId, followingId)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserFollowNotFound
	}
	return nil
}

func (s *UserFollowServiceImpl) getFollowListCommon(ctx context.Context, userId uint64, fetchDB fetchListFunc) ([]*dto.FollowDTO, error) {
	follows, err := fetchDB(ctx, userId)
	if err != nil {
		return nil, err
	}
	return dto.SerializeAll(follows, dto.SerializeFollow), nil
}
