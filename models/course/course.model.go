package course

import "time"

// Course is the root of the content hierarchy
type Course struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	ImageSrc  string    `json:"image_src" gorm:"not null"`
	Units     []Unit    `json:"units,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
