package service

import (
	"Snapshare/internal/pkg/database"
	"Snapshare/internal/pkg/metrics"
	"Snapshare/internal/pkg/util"
	"context"
	"errors"
	"fmt"
	log "log/slog"
)

const (
	BadRequest          = 400
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUserEmailExist      = errors.New("邮箱已注册")
	ErrUserUsernameExist   = errors.New("用户名已存在")
	ErrUserFollowExist     = errors.New("用户已关注")
	ErrUserFollowSelf      = errors.New("用户不能关注自己")
	ErrUserFollowNotFound  = errors.New("未关注该用户")
	ErrPostNotFound        = errors.New("帖子不存在")
	ErrMediaNotFound       = errors.New("媒体不存在")
	ErrPostCommentNotFound = errors.New("评论不存在")
	ErrLikeNotFound        = errors.New("未点赞")
	ErrActionDuplicate     = errors.New("重复操作")
	ErrReferenceNotFound   = errors.New("关联记录不存在")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrUserNotFound:        NotFound,
	ErrUserEmailExist:      Conflict,
	ErrUserUsernameExist:   Conflict,
	ErrUserFollowExist:     Conflict,
	ErrUserFollowSelf:      BadRequest,
	ErrUserFollowNotFound:  NotFound,
	ErrPostNotFound:        NotFound,
	ErrMediaNotFound:       NotFound,
	ErrPostCommentNotFound: NotFound,
	ErrLikeNotFound:        NotFound,
	ErrActionDuplicate:     Conflict,
	ErrReferenceNotFound:   NotFound,
	UnExpectedError:        InternalServerError,
}

// Code 返回错误对应的状态码，支持被包装的错误
func Code(err error) int {
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code
		}
	}
	return InternalServerError
}

// constraintErrors 约束违例到业务错误的映射，未列出的类型使用默认值
type constraintErrors map[error]error

var defaultConstraintErrors = constraintErrors{
	database.ErrUniqueViolation:     ErrActionDuplicate,
	database.ErrForeignKeyViolation: ErrReferenceNotFound,
	database.ErrCheckViolation:      ErrParamInvalid,
	database.ErrNotNullViolation:    ErrParamInvalid,
}

// translateWriteErr 将写入时的数据库错误转换为业务错误，其余错误记录日志后原样返回
func translateWriteErr(ctx context.Context, err error, overrides constraintErrors) error {
	if err == nil {
		return nil
	}
	if kind := database.ClassifyError(err); kind != nil {
		metrics.ConstraintRejections.WithLabelValues(database.ConstraintLabel(kind)).Inc()
		if mapped, ok := overrides[kind]; ok {
			return mapped
		}
		return defaultConstraintErrors[kind]
	}
	log.ErrorContext(ctx, "storage write failed", "err", err)
	return err
}

func validateParam(v any) error {
	if err := util.ValidateStruct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrParamInvalid, err.Error())
	}
	return nil
}
