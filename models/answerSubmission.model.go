package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerSubmission records the decided outcome of one client submission so that
// retries carrying the same submission id are answered without mutating state again.
type AnswerSubmission struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SubmissionID string         `json:"submission_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	UserID       string         `json:"user_id" gorm:"type:varchar(64);index;not null"`
	ChallengeID  uint           `json:"challenge_id" gorm:"index;not null"`
	OptionID     uint           `json:"option_id" gorm:"not null"`
	Outcome      string         `json:"outcome" gorm:"type:varchar(32);not null"`
	Payload      datatypes.JSON `json:"payload"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
}
