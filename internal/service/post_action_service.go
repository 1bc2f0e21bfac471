package service

import (
	"Snapshare/internal/api/dto"
	"Snapshare/internal/model"
	"Snapshare/internal/pkg/database"
	"Snapshare/internal/repository"
	"context"

	"golang.org/x/sync/errgroup"
)

type PostActionService interface {
	// Like
	LikePost(ctx context.Context, userID, postID uint64) (*dto.LikeDTO, error)
	CancelLikePost(ctx context.Context, userID, postID uint64) error
	GetPostLikes(ctx context.Context, postID uint64) ([]*dto.LikeDTO, error)
	GetPostLikeCount(ctx context.Context, postID uint64) (int64, error)
	IsLiked(ctx context.Context, userID, postID uint64) (bool, error)

	// Comment
	CreateComment(ctx context.Context, userID, postID uint64, text string) (*dto.CommentDTO, error)
	GetComment(ctx context.Context, commentID uint64) (*dto.CommentDTO, error)
	GetPostComments(ctx context.Context, postID uint64) ([]*dto.CommentDTO, error)
	GetPostCommentCount(ctx context.Context, postID uint64) (int64, error)
	DeleteComment(ctx context.Context, commentID uint64) error

	GetPostActionState(ctx context.Context, userID, postID uint64) (*dto.PostActionStateDTO, error)
}

type postActionServiceImpl struct {
	actionRepo repository.PostActionRepo
	postRepo   repository.PostRepo
}

func NewPostActionService(
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
) PostActionService {
	return &postActionServiceImpl{
		actionRepo: actionRepo,
		postRepo:   postRepo,
	}
}

func (s *postActionServiceImpl) LikePost(ctx context.Context, userID, postID uint64) (*dto.LikeDTO, error) {
	like := &model.Like{UserID: userID, PostID: postID}
	err := s.performAction(ctx, s.getPostCheck(ctx, postID), func() error {
		return s.actionRepo.CreateLike(ctx, like)
	})
	if err != nil {
		return nil, err
	}
	return dto.SerializeLike(like), nil
}

func (s *postActionServiceImpl) CancelLikePost(ctx context.Context, userID, postID uint64) error {
	return s.revokeAction(s.getPostCheck(ctx, postID), func() (int64, error) {
		return s.actionRepo.DeleteLike(ctx, userID, postID)
	}, ErrLikeNotFound)
}

func (s *postActionServiceImpl) GetPostLikes(ctx context.Context, postID uint64) ([]*dto.LikeDTO, error) {
	if err := s.getPostCheck(ctx, postID)(); err != nil {
		return nil, err
	}
	likes, err := s.actionRepo.GetLikesByPostId(ctx, postID)
	if err != nil {
		return nil, err
	}
	return dto.SerializeAll(likes, dto.SerializeLike), nil
}

func (s *postActionServiceImpl) GetPostLikeCount(ctx context.Context, postID uint64) (int64, error) {
	return s.actionRepo.GetLikeCountByPostID(ctx, postID)
}

func (s *postActionServiceImpl) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	return s.actionRepo.CheckLikeExists(ctx, userID, postID)
}

// CreateComment 允许评论自己的帖子
func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID, postID uint64, text string) (*dto.CommentDTO, error) {
	comment := &model.Comment{UserID: userID, PostID: postID, Text: text}
	if err := validateParam(comment); err != nil {
		return nil, err
	}
	err := s.performAction(ctx, s.getPostCheck(ctx, postID), func() error {
		return s.actionRepo.CreateComment(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return dto.SerializeComment(comment), nil
}

func (s *postActionServiceImpl) GetComment(ctx context.Context, commentID uint64) (*dto.CommentDTO, error) {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrPostCommentNotFound
	}
	return dto.SerializeComment(comment), nil
}

func (s *postActionServiceImpl) GetPostComments(ctx context.Context, postID uint64) ([]*dto.CommentDTO, error) {
	if err := s.getPostCheck(ctx, postID)(); err != nil {
		return nil, err
	}
	comments, err := s.actionRepo.GetCommentsByPostId(ctx, postID)
	if err != nil {
		return nil, err
	}
	return dto.SerializeAll(comments, dto.SerializeComment), nil
}

func (s *postActionServiceImpl) GetPostCommentCount(ctx context.Context, postID uint64) (int64, error) {
	return s.actionRepo.GetCommentCountByPostID(ctx, postID)
}

func (s *postActionServiceImpl) DeleteComment(ctx context.Context, commentID uint64) error {
	return s.revokeAction(func() error { return nil }, func() (int64, error) {
		return s.actionRepo.DeleteComment(ctx, commentID)
	}, ErrPostCommentNotFound)
}

// GetPostActionState 并发读取点赞数、评论数与点赞状态，userID 为 0 时不查询点赞状态
func (s *postActionServiceImpl) GetPostActionState(ctx context.Context, userID, postID uint64) (*dto.PostActionStateDTO, error) {
	if err := s.getPostCheck(ctx, postID)(); err != nil {
		return nil, err
	}

	state := &dto.PostActionStateDTO{PostID: postID}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		state.LikeCount, err = s.actionRepo.GetLikeCountByPostID(gCtx, postID)
		return err
	})
	g.Go(func() error {
		var err error
		state.CommentCount, err = s.actionRepo.GetCommentCountByPostID(gCtx, postID)
		return err
	})
	g.Go(func() error {
		if userID == 0 {
			return nil
		}
		var err error
		state.IsLiked, err = s.actionRepo.CheckLikeExists(gCtx, userID, postID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *postActionServiceImpl) performAction(ctx context.Context, checkFunc func() error, repoFunc func() error) error {
	if err := checkFunc(); err != nil {
		return err
	}
	// 检查与写入之间帖子可能被删除，外键兜底
	return translateWriteErr(ctx, repoFunc(), constraintErrors{
		database.ErrUniqueViolation:     ErrActionDuplicate,
		database.ErrForeignKeyViolation: ErrReferenceNotFound,
	})
}

func (s *postActionServiceImpl) revokeAction(checkFunc func() error, repoFunc func() (int64, error), notFound error) error {
	if err := checkFunc(); err != nil {
		return err
	}
	affected, err := repoFunc()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

func (s *postActionServiceImpl) getPostCheck(ctx context.Context, postID uint64) func() error {
	return func() error {
		post, err := s.postRepo.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		return nil
	}
}
