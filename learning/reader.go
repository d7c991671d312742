package learning

import (
	"context"
	"errors"

	"lingo/apierr"
	"lingo/dbctx"
	"lingo/models"
	courseModels "lingo/models/course"
	"lingo/repositories"
	"lingo/viewcache"
)

const DefaultLeaderboardSize = 10

func (s *Service) ListCourses(ctx context.Context) ([]*courseModels.Course, error) {
	return memo(ctx, "courses", nil, func() ([]*courseModels.Course, error) {
		return s.repos.Courses.List(dbctx.Context{Ctx: ctx})
	})
}

func (s *Service) GetCourseByID(ctx context.Context, courseID uint) (*courseModels.Course, error) {
	return memo(ctx, "course", []any{courseID}, func() (*courseModels.Course, error) {
		return s.repos.Courses.GetByID(dbctx.Context{Ctx: ctx}, courseID)
	})
}

// GetUserProgress returns nil without error when the user never enrolled.
func (s *Service) GetUserProgress(ctx context.Context, userID string) (*models.UserProgress, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	return memo(ctx, "user_progress", []any{userID}, func() (*models.UserProgress, error) {
		up, err := s.repos.UserProgress.Get(dbctx.Context{Ctx: ctx}, userID)
		if errors.Is(err, apierr.ErrNotFound) {
			return nil, nil
		}
		return up, err
	})
}

// GetUnitsForCourse returns the ordered units of a course with lessons and challenges annotated for userID.
func (s *Service) GetUnitsForCourse(ctx context.Context, courseID uint, userID string) ([]*courseModels.Unit, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	return memo(ctx, "units", []any{courseID, userID}, func() ([]*courseModels.Unit, error) {
		units, err := s.repos.Courses.ListUnitsWithProgress(dbctx.Context{Ctx: ctx}, courseID, userID)
		if err != nil {
			return nil, err
		}
		annotateUnits(units)
		return units, nil
	})
}

// GetUnits returns the units of the user's active course, or nil when there is none.
func (s *Service) GetUnits(ctx context.Context, userID string) ([]*courseModels.Unit, error) {
	up, err := s.GetUserProgress(ctx, userID)
	if err != nil || up == nil || up.ActiveCourseID == nil {
		return nil, err
	}
	return s.GetUnitsForCourse(ctx, *up.ActiveCourseID, userID)
}

// GetCourseProgress reports no_progress when the user has no active course or the course is empty.
func (s *Service) GetCourseProgress(ctx context.Context, userID string) (*CourseProgress, error) {
	units, err := s.GetUnits(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Progress(units), nil
}

// GetLesson loads a lesson with per-challenge completion. A nil lessonID resolves to the active lesson.
func (s *Service) GetLesson(ctx context.Context, userID string, lessonID *uint) (*courseModels.Lesson, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	id := lessonID
	if id == nil {
		cp, err := s.GetCourseProgress(ctx, userID)
		if err != nil {
			return nil, err
		}
		if cp.ActiveLessonID == nil {
			return nil, apierr.NotFound("lesson", "active")
		}
		id = cp.ActiveLessonID
	}
	return memo(ctx, "lesson", []any{*id, userID}, func() (*courseModels.Lesson, error) {
		l, err := s.repos.Courses.GetLessonWithProgress(dbctx.Context{Ctx: ctx}, *id, userID)
		if err != nil {
			return nil, err
		}
		annotateLesson(l)
		return l, nil
	})
}

func (s *Service) GetLessonView(ctx context.Context, userID string, lessonID *uint) (*LessonView, error) {
	l, err := s.GetLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	return &LessonView{Lesson: l, Percentage: Percentage(l)}, nil
}

// GetLessonPercentage is the completion percentage of the active lesson, 0 when there is none.
func (s *Service) GetLessonPercentage(ctx context.Context, userID string) (int, error) {
	cp, err := s.GetCourseProgress(ctx, userID)
	if err != nil {
		return 0, err
	}
	return Percentage(cp.ActiveLesson), nil
}

// GetTopUsers returns the leaderboard ordered by points, ties broken by user id.
// limit defaults to DefaultLeaderboardSize and is capped at repositories.MaxTopUsers.
func (s *Service) GetTopUsers(ctx context.Context, limit int) ([]*models.UserProgress, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	limit = min(limit, repositories.MaxTopUsers)
	key := viewcache.LeaderboardKey(limit)
	var cached []*models.UserProgress
	if ok, err := s.views.Get(ctx, key, &cached); err != nil {
		s.log.Warn("leaderboard cache read failed", "error", err)
	} else if ok {
		return cached, nil
	}

	gen, genErr := s.views.Generation(ctx, "")
	top, err := memo(ctx, "top_users", []any{limit}, func() ([]*models.UserProgress, error) {
		return s.repos.UserProgress.TopByPoints(dbctx.Context{Ctx: ctx}, limit)
	})
	if err != nil {
		return nil, err
	}
	s.cacheView(ctx, key, top, "", gen, genErr)
	return top, nil
}

// cacheView writes a freshly loaded view. gen must have been read before the load.
func (s *Service) cacheView(ctx context.Context, key string, view any, owner string, gen int64, genErr error) {
	if genErr != nil {
		s.log.Warn("view cache generation read failed", "key", key, "error", genErr)
		return
	}
	if err := s.views.Set(ctx, key, view, owner, gen); err != nil {
		s.log.Warn("view cache write failed", "key", key, "error", err)
	}
}

// GetLearnView assembles the learn page. Status no_progress tells the caller to send the user to course selection.
func (s *Service) GetLearnView(ctx context.Context, userID string) (*LearnView, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	key := viewcache.UserKey(userID, "learn")
	var cached LearnView
	if ok, err := s.views.Get(ctx, key, &cached); err != nil {
		s.log.Warn("learn view cache read failed", "user_id", userID, "error", err)
	} else if ok {
		return &cached, nil
	}

	gen, genErr := s.views.Generation(ctx, userID)
	up, err := s.GetUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &LearnView{Progress: up, CourseProgress: &CourseProgress{Status: StatusNoProgress}}
	if up == nil || up.ActiveCourseID == nil {
		return view, nil
	}
	units, err := s.GetUnits(ctx, userID)
	if err != nil {
		return nil, err
	}
	view.Units = units
	view.CourseProgress = Progress(units)
	view.LessonStates = LessonStates(units, view.CourseProgress.ActiveLessonID)
	view.LessonPercentage = Percentage(view.CourseProgress.ActiveLesson)

	s.cacheView(ctx, key, view, userID, gen, genErr)
	return view, nil
}
