package learning

import (
	"lingo/models"
	courseModels "lingo/models/course"
)

type OutcomeKind string

const (
	OutcomeCorrect                 OutcomeKind = "correct"
	OutcomeWrong                   OutcomeKind = "wrong"
	OutcomeBlockedNoHearts         OutcomeKind = "blocked_no_hearts"
	OutcomeBlockedPracticeNoHearts OutcomeKind = "blocked_practice_no_hearts"
	OutcomeError                   OutcomeKind = "error"
)

// Outcome is the result of one answer submission. Blocked kinds are business-rule rejections, not errors.
type Outcome struct {
	Kind          OutcomeKind `json:"kind"`
	Practice      bool        `json:"practice"`
	UpdatedHearts int         `json:"updated_hearts"`
	UpdatedPoints int         `json:"updated_points"`
	Reason        string      `json:"reason,omitempty"`
	Replayed      bool        `json:"replayed"`
}

// Blocked reports whether the submission was rejected without mutating anything.
func (o *Outcome) Blocked() bool {
	return o.Kind == OutcomeBlockedNoHearts || o.Kind == OutcomeBlockedPracticeNoHearts
}

// ErrorOutcome is what the presentation layer renders when the evaluator failed on a content defect.
func ErrorOutcome(reason string) *Outcome {
	return &Outcome{Kind: OutcomeError, Reason: reason}
}

type RefillKind string

const (
	RefillDone                      RefillKind = "refilled"
	RefillBlockedHeartsFull         RefillKind = "blocked_hearts_full"
	RefillBlockedInsufficientPoints RefillKind = "blocked_insufficient_points"
)

type RefillResult struct {
	Kind   RefillKind `json:"kind"`
	Hearts int        `json:"hearts"`
	Points int        `json:"points"`
}

// Selection is the result of selectCourse.
type Selection struct {
	Redirect      string               `json:"redirect"`
	AlreadyActive bool                 `json:"already_active"`
	Created       bool                 `json:"created"`
	Progress      *models.UserProgress `json:"progress"`
}

type ProgressStatus string

const (
	StatusNoProgress      ProgressStatus = "no_progress"
	StatusInProgress      ProgressStatus = "in_progress"
	StatusCourseCompleted ProgressStatus = "course_completed"
)

// CourseProgress is the user's current position within the active course.
type CourseProgress struct {
	Status         ProgressStatus       `json:"status"`
	ActiveLesson   *courseModels.Lesson `json:"active_lesson,omitempty"`
	ActiveLessonID *uint                `json:"active_lesson_id,omitempty"`
}

type LessonState string

const (
	LessonStateCompleted LessonState = "completed"
	LessonStateCurrent   LessonState = "current"
	LessonStateLocked    LessonState = "locked"
)

// LearnView is everything the learn page renders for one user.
type LearnView struct {
	Progress         *models.UserProgress `json:"progress"`
	Units            []*courseModels.Unit `json:"units"`
	CourseProgress   *CourseProgress      `json:"course_progress"`
	LessonPercentage int                  `json:"lesson_percentage"`
	LessonStates     map[uint]LessonState `json:"lesson_states"`
}

// LessonView is a lesson with per-challenge completion and the percentage done.
type LessonView struct {
	Lesson     *courseModels.Lesson `json:"lesson"`
	Percentage int                  `json:"percentage"`
}
