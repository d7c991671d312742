package course

import "time"

type ChallengeType string

const (
	ChallengeSelect ChallengeType = "SELECT"
	ChallengeAssist ChallengeType = "ASSIST"
)

// Valid reports whether t is one of the known challenge layouts
func (t ChallengeType) Valid() bool {
	return t == ChallengeSelect || t == ChallengeAssist
}

// Challenge is a single multiple choice question within a lesson
type Challenge struct {
	ID         uint                `json:"id" gorm:"primaryKey"`
	LessonID   uint                `json:"lesson_id" gorm:"index;not null"`
	Type       ChallengeType       `json:"type" gorm:"type:varchar(16);not null"`
	Question   string              `json:"question" gorm:"not null"`
	OrderIndex int                 `json:"order" gorm:"not null;default:0"`
	Options    []ChallengeOption   `json:"options,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Progress   []ChallengeProgress `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Completed  bool                `json:"completed" gorm:"-"`
}

// ChallengeOption is one selectable answer. Exactly one option per challenge is expected to be correct.
type ChallengeOption struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	ChallengeID uint    `json:"challenge_id" gorm:"index;not null"`
	Text        string  `json:"text" gorm:"not null"`
	Correct     bool    `json:"correct" gorm:"not null;default:false"`
	ImageSrc    *string `json:"image_src"`
	AudioSrc    *string `json:"audio_src"`
}

// ChallengeProgress is the per-user completion ledger. A row exists once the user has answered the challenge
// correctly at least once; it is updated, never deleted, afterwards.
type ChallengeProgress struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_challenge_progress_user_challenge"`
	ChallengeID uint      `json:"challenge_id" gorm:"not null;index;uniqueIndex:idx_challenge_progress_user_challenge"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
