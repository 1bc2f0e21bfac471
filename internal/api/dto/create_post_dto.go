package dto

type CreatePostDTO struct {
	UserID   uint64            `json:"user_id" validate:"required"`
	Caption  *string           `json:"caption,omitempty"`
	Location *string           `json:"location,omitempty" validate:"omitempty,max=120"`
	Media    []*CreateMediaDTO `json:"media,omitempty" validate:"omitempty,dive"`
}

type CreateMediaDTO struct {
	URL       string `json:"url" validate:"required,max=255"`
	MediaType string `json:"media_type" validate:"required,oneof=image video carousel"`
	Width     *int   `json:"width,omitempty" validate:"omitempty,min=0"`
	Height    *int   `json:"height,omitempty" validate:"omitempty,min=0"`
}

// UpdatePostDTO 只覆盖非空字段
type UpdatePostDTO struct {
	Caption  *string `json:"caption,omitempty"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=120"`
}
