package service

import (
	"Snapshare/internal/api/dto"
	"Snapshare/internal/model"
	"Snapshare/internal/pkg/database"
	"Snapshare/internal/pkg/security"
	"Snapshare/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"

	"github.com/jinzhu/copier"
)

type UserService interface {
	CreateUser(ctx context.Context, in *dto.CreateUserDTO) (*dto.UserDTO, error)
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserInfoByUsername(ctx context.Context, username string) (*dto.UserDTO, error)
	GetUserInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, in *dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id uint64) error
}

// errUserConflict email 或 username 冲突，需要再查一次区分
var errUserConflict = errors.New("user conflict")

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, in *dto.CreateUserDTO) (*dto.UserDTO, error) {
	if err := validateParam(in); err != nil {
		return nil, err
	}

	user := &model.User{}
	if err := copier.Copy(user, in); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(in.Password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %s", ErrParamInvalid, err.Error())
	}
	if err != nil {
		return nil, err
	}
	user.Password = passwordHash

	err = s.userRepo.CreateUser(ctx, user)
	err = translateWriteErr(ctx, err, constraintErrors{
		database.ErrUniqueViolation: errUserConflict,
	})
	if errors.Is(err, errUserConflict) {
		return nil, s.whichUserConflict(ctx, in.Email)
	}
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "user created", "user_id", user.ID)
	return dto.SerializeUser(user), nil
}

// whichUserConflict email 与 username 都是唯一键，冲突后查询确认是哪一个
func (s *UserServiceImpl) whichUserConflict(ctx context.Context, email string) error {
	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserEmailExist
	}
	return ErrUserUsernameExist
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return dto.SerializeUser(user), nil
}

func (s *UserServiceImpl) GetUserInfoByUsername(ctx context.Context, username string) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return dto.SerializeUser(user), nil
}

func (s *UserServiceImpl) GetUserInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	return dto.SerializeAll(users, dto.SerializeUser), nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, in *dto.UpdateUserDTO) (*dto.UserDTO, error) {
	if err := validateParam(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.FullName != nil {
		user.FullName = in.FullName
	}
	if in.Bio != nil {
		user.Bio = in.Bio
	}

	err = s.userRepo.UpdateUser(ctx, user)
	if err = translateWriteErr(ctx, err, constraintErrors{
		database.ErrUniqueViolation: ErrUserUsernameExist,
	}); err != nil {
		return nil, err
	}
	return dto.SerializeUser(user), nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uint64) error {
	affected, err := s.userRepo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	log.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}
