package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a locally registered account. PublicID is the opaque id handed to the learning core.
type User struct {
	gorm.Model
	PublicID            string     `json:"public_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	ProfileImage        string     `json:"profile_image" gorm:"default:''"`
	Name                string     `json:"name" gorm:"default:''"`
	Email               string     `json:"email" gorm:"unique;not null"`
	Password            string     `json:"-" gorm:"not null"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `json:"-" gorm:"default:false"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `json:"-" gorm:"default:false"`
}
