package dto

// CreateUserDTO 创建用户入参，Password 为明文，入库前做哈希
type CreateUserDTO struct {
	Email    string  `json:"email" validate:"required,max=120"`
	Password string  `json:"password" validate:"required,max=72"`
	Username string  `json:"username" validate:"required,max=50"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=120"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=160"`
	IsActive bool    `json:"is_active"`
}

// UpdateUserDTO 资料修改，只覆盖非空字段
type UpdateUserDTO struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=50"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=120"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=160"`
}
