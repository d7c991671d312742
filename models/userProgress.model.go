package models

import (
	"time"

	courseModels "lingo/models/course"
)

const (
	MaxHearts           = 10
	PointsPerChallenge  = 10
	HeartRefillCost     = 50
	DefaultUserName     = "User"
	DefaultUserImageSrc = "mascot.svg"
)

// UserProgress is the mutable per-user state: active course plus the hearts and points currency.
// Hearts are clamped to [0, MaxHearts] by the application and by a check constraint.
type UserProgress struct {
	UserID         string               `json:"user_id" gorm:"primaryKey;type:varchar(64)"`
	UserName       string               `json:"user_name" gorm:"not null"`
	UserImageSrc   string               `json:"user_image_src" gorm:"not null"`
	ActiveCourseID *uint                `json:"active_course_id" gorm:"index"`
	ActiveCourse   *courseModels.Course `json:"active_course,omitempty" gorm:"foreignKey:ActiveCourseID;constraint:OnDelete:SET NULL"`
	Hearts         int                  `json:"hearts" gorm:"not null;check:chk_user_progress_hearts,hearts >= 0 AND hearts <= 10"`
	Points         int                  `json:"points" gorm:"not null;check:chk_user_progress_points,points >= 0"`
	CreatedAt      time.Time            `json:"-"`
	UpdatedAt      time.Time            `json:"-"`
}

// NewUserProgress returns a first-enrollment row with full hearts and no points.
func NewUserProgress(userID string, courseID uint, userName, imageSrc string) *UserProgress {
	if userName == "" {
		userName = DefaultUserName
	}
	if imageSrc == "" {
		imageSrc = DefaultUserImageSrc
	}
	return &UserProgress{
		UserID:         userID,
		UserName:       userName,
		UserImageSrc:   imageSrc,
		ActiveCourseID: &courseID,
		Hearts:         MaxHearts,
		Points:         0,
	}
}
