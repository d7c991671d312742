package learning

import (
	"math"

	courseModels "lingo/models/course"
)

// ChallengeCompleted is true iff the user has ledger rows for the challenge and all of them are completed.
func ChallengeCompleted(ch *courseModels.Challenge) bool {
	if len(ch.Progress) == 0 {
		return false
	}
	for _, p := range ch.Progress {
		if !p.Completed {
			return false
		}
	}
	return true
}

// LessonCompleted is true iff the lesson has at least one challenge and every challenge is completed.
// Empty lessons stay incomplete so they are never skipped.
func LessonCompleted(l *courseModels.Lesson) bool {
	if len(l.Challenges) == 0 {
		return false
	}
	for i := range l.Challenges {
		if !ChallengeCompleted(&l.Challenges[i]) {
			return false
		}
	}
	return true
}

// annotateLesson derives the Completed flags from the attached ledger rows.
func annotateLesson(l *courseModels.Lesson) {
	for i := range l.Challenges {
		l.Challenges[i].Completed = ChallengeCompleted(&l.Challenges[i])
	}
	l.Completed = LessonCompleted(l)
}

func annotateUnits(units []*courseModels.Unit) {
	for _, u := range units {
		for i := range u.Lessons {
			annotateLesson(&u.Lessons[i])
		}
	}
}

// ActiveLesson returns the first incomplete lesson in unit order then lesson order, or nil when
// every lesson is completed. Units and lessons must already be sorted.
func ActiveLesson(units []*courseModels.Unit) *courseModels.Lesson {
	for _, u := range units {
		for i := range u.Lessons {
			if !LessonCompleted(&u.Lessons[i]) {
				return &u.Lessons[i]
			}
		}
	}
	return nil
}

// Percentage is round(100 * completed / total) over the lesson's challenges; 0 for a nil or empty lesson.
func Percentage(l *courseModels.Lesson) int {
	if l == nil || len(l.Challenges) == 0 {
		return 0
	}
	done := 0
	for i := range l.Challenges {
		if ChallengeCompleted(&l.Challenges[i]) {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(l.Challenges))))
}

// Progress derives the course-level position of a user from an ordered, ledger-annotated unit list.
func Progress(units []*courseModels.Unit) *CourseProgress {
	total := 0
	for _, u := range units {
		total += len(u.Lessons)
	}
	if total == 0 {
		return &CourseProgress{Status: StatusNoProgress}
	}
	active := ActiveLesson(units)
	if active == nil {
		return &CourseProgress{Status: StatusCourseCompleted}
	}
	id := active.ID
	return &CourseProgress{Status: StatusInProgress, ActiveLesson: active, ActiveLessonID: &id}
}

// LessonStates labels every lesson for rendering: the active lesson is current, lessons after it
// are locked and lessons before it are completed.
func LessonStates(units []*courseModels.Unit, activeLessonID *uint) map[uint]LessonState {
	out := map[uint]LessonState{}
	passed := false
	for _, u := range units {
		for i := range u.Lessons {
			l := &u.Lessons[i]
			switch {
			case activeLessonID != nil && l.ID == *activeLessonID:
				out[l.ID] = LessonStateCurrent
				passed = true
			case passed:
				out[l.ID] = LessonStateLocked
			default:
				out[l.ID] = LessonStateCompleted
			}
		}
	}
	return out
}
