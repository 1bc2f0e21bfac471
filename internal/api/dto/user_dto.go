package dto

import "Snapshare/internal/model"

// UserDTO 用户对外视图，结构上不包含密码字段
type UserDTO struct {
	ID        uint64  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	IsActive  bool    `json:"is_active"`
	CreatedAt *string `json:"created_at"`
}

func SerializeUser(user *model.User) *UserDTO {
	if user == nil {
		return nil
	}
	out := &UserDTO{}
	mustCopy(out, user)
	return out
}
