package dto

import "Snapshare/internal/model"

type FollowDTO struct {
	ID          uint64  `json:"id"`
	FollowerID  uint64  `json:"follower_id"`
	FollowingID uint64  `json:"following_id"`
	CreatedAt   *string `json:"created_at"`
}

func SerializeFollow(follow *model.Follow) *FollowDTO {
	if follow == nil {
		return nil
	}
	out := &FollowDTO{}
	mustCopy(out, follow)
	return out
}
