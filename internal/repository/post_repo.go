package repository

import (
	"Snapshare/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post, media []*model.Media) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	GetPostsByUserId(ctx context.Context, userID uint64) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id uint64) (int64, error)

	CreateMedia(ctx context.Context, media *model.Media) error
	GetMediaByPostId(ctx context.Context, postID uint64) ([]*model.Media, error)
	DeleteMedia(ctx context.Context, id uint64) (int64, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// CreatePost 帖子与媒体在同一事务中写入
func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post, media []*model.Media) error {
	if len(media) == 0 {
		return s.db.WithContext(ctx).Create(post).Error
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, m := range media {
			m.PostID = post.ID
		}
		if err := tx.Create(media).Error; err != nil {
			return err
		}
		return nil
	})
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	if len(ids) == 0 {
		return posts, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostRepoImpl) GetPostsByUserId(ctx context.Context, userID uint64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).
		Model(&model.Post{ID: post.ID}).
		Select("caption", "location").
		Updates(post).Error
}

// DeletePost 删除帖子及其媒体、评论、点赞，作者不受影响
func (s *PostRepoImpl) DeletePost(ctx context.Context, id uint64) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thisPost := func() *gorm.DB {
			return tx.Model(&model.Post{}).Select("id").Where("id = ?", id)
		}
		if err := deletePostDependents(tx, thisPost); err != nil {
			return err
		}

		result := tx.Delete(&model.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}

func (s *PostRepoImpl) CreateMedia(ctx context.Context, media *model.Media) error {
	return s.db.WithContext(ctx).Create(media).Error
}

func (s *PostRepoImpl) GetMediaByPostId(ctx context.Context, postID uint64) ([]*model.Media, error) {
	media := make([]*model.Media, 0)
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("id").Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (s *PostRepoImpl) DeleteMedia(ctx context.Context, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&model.Media{}, id)
	return result.RowsAffected, result.Error
}

// deletePostDependents 删除 posts 子查询命中帖子下的媒体、评论与点赞
func deletePostDependents(tx *gorm.DB, posts func() *gorm.DB) error {
	for _, dependent := range []any{&model.Media{}, &model.Comment{}, &model.Like{}} {
		if err := tx.Where("post_id IN (?)", posts()).Delete(dependent).Error; err != nil {
			return err
		}
	}
	return nil
}
