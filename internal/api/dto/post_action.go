package dto

import "Snapshare/internal/model"

type CommentDTO struct {
	ID        uint64  `json:"id"`
	PostID    uint64  `json:"post_id"`
	UserID    uint64  `json:"user_id"`
	Text      string  `json:"text"`
	CreatedAt *string `json:"created_at"`
}

func SerializeComment(comment *model.Comment) *CommentDTO {
	if comment == nil {
		return nil
	}
	out := &CommentDTO{}
	mustCopy(out, comment)
	return out
}

type LikeDTO struct {
	ID        uint64  `json:"id"`
	PostID    uint64  `json:"post_id"`
	UserID    uint64  `json:"user_id"`
	CreatedAt *string `json:"created_at"`
}

func SerializeLike(like *model.Like) *LikeDTO {
	if like == nil {
		return nil
	}
	out := &LikeDTO{}
	mustCopy(out, like)
	return out
}

// PostActionStateDTO 帖子互动汇总
type PostActionStateDTO struct {
	PostID       uint64 `json:"post_id"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	IsLiked      bool   `json:"is_liked"`
}
