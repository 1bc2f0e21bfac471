package service

import (
	"Snapshare/internal/api/dto"
	"Snapshare/internal/model"
	"Snapshare/internal/pkg/database"
	"Snapshare/internal/repository"
	"context"
	log "log/slog"
)

type PostService interface {
	CreatePost(ctx context.Context, in *dto.CreatePostDTO) (*dto.PostDTO, []*dto.MediaDTO, error)
	GetPost(ctx context.Context, postID uint64) (*dto.PostDTO, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*dto.PostDTO, error)
	GetUserPosts(ctx context.Context, userID uint64) ([]*dto.PostDTO, error)
	UpdatePost(ctx context.Context, postID uint64, in *dto.UpdatePostDTO) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, postID uint64) error

	AddMedia(ctx context.Context, postID uint64, in *dto.CreateMediaDTO) (*dto.MediaDTO, error)
	GetPostMedia(ctx context.Context, postID uint64) ([]*dto.MediaDTO, error)
	DeleteMedia(ctx context.Context, mediaID uint64) error
}

type postServiceImpl struct {
	postRepo repository.PostRepo
}

func NewPostService(postRepo repository.PostRepo) PostService {
	return &postServiceImpl{
		postRepo: postRepo,
	}
}

// CreatePost 帖子和媒体一起写入，作者不存在时返回 ErrUserNotFound
func (s *postServiceImpl) CreatePost(ctx context.Context, in *dto.CreatePostDTO) (*dto.PostDTO, []*dto.MediaDTO, error) {
	if err := validateParam(in); err != nil {
		return nil, nil, err
	}

	post := &model.Post{
		UserID:   in.UserID,
		Caption:  in.Caption,
		Location: in.Location,
	}
	media := make([]*model.Media, 0, len(in.Media))
	for _, m := range in.Media {
		media = append(media, toMediaModel(0, m))
	}

	err := s.postRepo.CreatePost(ctx, post, media)
	if err = translateWriteErr(ctx, err, constraintErrors{
		database.ErrForeignKeyViolation: ErrUserNotFound,
	}); err != nil {
		return nil, nil, err
	}

	log.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", post.UserID, "media", len(media))
	return dto.SerializePost(post), dto.SerializeAll(media, dto.SerializeMedia), nil
}

func (s *postServiceImpl) GetPost(ctx context.Context, postID uint64) (*dto.PostDTO, error) {
	post, err := s.getPostCheck(ctx, postID)
	if err != nil {
		return nil, err
	}
	return dto.SerializePost(post), nil
}

func (s *postServiceImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.GetPostByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	return dto.SerializeAll(posts, dto.SerializePost), nil
}

func (s *postServiceImpl) GetUserPosts(ctx context.Context, userID uint64) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.GetPostsByUserId(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.SerializeAll(posts, dto.SerializePost), nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, postID uint64, in *dto.UpdatePostDTO) (*dto.PostDTO, error) {
	if err := validateParam(in); err != nil {
		return nil, err
	}
	post, err := s.getPostCheck(ctx, postID)
	if err != nil {
		return nil, err
	}
	if in.Caption != nil {
		post.Caption = in.Caption
	}
	if in.Location != nil {
		post.Location = in.Location
	}
	if err = s.postRepo.UpdatePost(ctx, post); err != nil {
		return nil, translateWriteErr(ctx, err, nil)
	}
	return dto.SerializePost(post), nil
}

// DeletePost 媒体、评论、点赞随帖子删除，作者保留
func (s *postServiceImpl) DeletePost(ctx context.Context, postID uint64) error {
	affected, err := s.postRepo.DeletePost(ctx, postID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	log.InfoContext(ctx, "post deleted", "post_id", postID)
	return nil
}

func (s *postServiceImpl) AddMedia(ctx context.Context, postID uint64, in *dto.CreateMediaDTO) (*dto.MediaDTO, error) {
	if err := validateParam(in); err != nil {
		return nil, err
	}
	media := toMediaModel(postID, in)
	err := s.postRepo.CreateMedia(ctx, media)
	if err = translateWriteErr(ctx, err, constraintErrors{
		database.ErrForeignKeyViolation: ErrPostNotFound,
	}); err != nil {
		return nil, err
	}
	return dto.SerializeMedia(media), nil
}

func (s *postServiceImpl) GetPostMedia(ctx context.Context, postID uint64) ([]*dto.MediaDTO, error) {
	if _, err := s.getPostCheck(ctx, postID); err != nil {
		return nil, err
	}
	media, err := s.postRepo.GetMediaByPostId(ctx, postID)
	if err != nil {
		return nil, err
	}
	return dto.SerializeAll(media, dto.SerializeMedia), nil
}

func (s *postServiceImpl) DeleteMedia(ctx context.Context, mediaID uint64) error {
	affected, err := s.postRepo.DeleteMedia(ctx, mediaID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMediaNotFound
	}
	return nil
}

func (s *postServiceImpl) getPostCheck(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func toMediaModel(postID uint64, in *dto.CreateMediaDTO) *model.Media {
	return &model.Media{
		PostID:    postID,
		URL:       in.URL,
		MediaType: model.MediaType(in.MediaType),
		Width:     in.Width,
		Height:    in.Height,
	}
}
