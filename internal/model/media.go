package model

type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeCarousel MediaType = "carousel"
)

type Media struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"not null;index:idx_media_post_id" validate:"required"`
	URL       string    `gorm:"column:url;type:varchar(255);not null" validate:"required,max=255"`
	MediaType MediaType `gorm:"type:varchar(20);not null" validate:"required,oneof=image video carousel"`
	Width     *int      `validate:"omitempty,min=0"`
	Height    *int      `validate:"omitempty,min=0"`

	Post *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Media) TableName() string {
	return "media"
}
