package dto

import "Snapshare/internal/model"

type PostDTO struct {
	ID        uint64  `json:"id"`
	UserID    uint64  `json:"user_id"`
	Caption   *string `json:"caption"`
	Location  *string `json:"location"`
	CreatedAt *string `json:"created_at"`
}

func SerializePost(post *model.Post) *PostDTO {
	if post == nil {
		return nil
	}
	out := &PostDTO{}
	mustCopy(out, post)
	return out
}

type MediaDTO struct {
	ID        uint64 `json:"id"`
	PostID    uint64 `json:"post_id"`
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
	Width     *int   `json:"width"`
	Height    *int   `json:"height"`
}

func SerializeMedia(media *model.Media) *MediaDTO {
	if media == nil {
		return nil
	}
	out := &MediaDTO{}
	mustCopy(out, media)
	return out
}
