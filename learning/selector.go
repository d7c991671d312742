package learning

import (
	"context"

	"lingo/dbctx"
	"lingo/identity"
	"lingo/models"
)

const LearnRedirect = "/learn"

func (s *Service) profileFor(ctx context.Context, userID string) *identity.Profile {
	p := &identity.Profile{UserID: userID, Name: models.DefaultUserName, ImageSrc: models.DefaultUserImageSrc}
	if s.profiles == nil {
		return p
	}
	got, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		s.log.Warn("profile lookup failed, using defaults", "user_id", userID, "error", err)
		return p
	}
	if got.Name != "" {
		p.Name = got.Name
	}
	if got.ImageSrc != "" {
		p.ImageSrc = got.ImageSrc
	}
	p.Email = got.Email
	return p
}

// SelectCourse makes courseID the user's active course, enrolling the user on first use.
// Hearts, points and ledger rows are never touched.
func (s *Service) SelectCourse(ctx context.Context, userID string, courseID uint) (*Selection, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	course, err := s.repos.Courses.GetByID(dbctx.Context{Ctx: ctx}, courseID)
	if err != nil {
		return nil, err
	}
	profile := s.profileFor(ctx, userID)

	sel := &Selection{Redirect: LearnRedirect}
	err = s.repos.Transaction(ctx, func(dbc dbctx.Context) error {
		created, err := s.repos.UserProgress.CreateIfAbsent(dbc,
			models.NewUserProgress(userID, course.ID, profile.Name, profile.ImageSrc))
		if err != nil {
			return err
		}
		up, err := s.repos.UserProgress.LockByUserID(dbc, userID)
		if err != nil {
			return err
		}
		sel.Created = created
		if created {
			sel.Progress = up
			return nil
		}
		if up.ActiveCourseID != nil && *up.ActiveCourseID == course.ID {
			sel.AlreadyActive = true
			sel.Progress = up
			return nil
		}
		if err := s.repos.UserProgress.UpdateFields(dbc, userID, map[string]interface{}{
			"active_course_id": course.ID,
			"user_name":        profile.Name,
			"user_image_src":   profile.ImageSrc,
		}); err != nil {
			return err
		}
		id := course.ID
		up.ActiveCourseID = &id
		up.UserName = profile.Name
		up.UserImageSrc = profile.ImageSrc
		sel.Progress = up
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !sel.AlreadyActive {
		s.afterMutation(ctx, userID, true)
	}
	s.log.Info("course selected", "user_id", userID, "course_id", course.ID, "created", sel.Created, "already_active", sel.AlreadyActive)

	if sel.Created && profile.Email != "" && s.notifier != nil {
		go func(email, name, title string) {
			if err := s.notifier.NotifyEnrollment(context.Background(), email, name, title); err != nil {
				s.log.Warn("enrollment email failed", "user_id", userID, "error", err)
			}
		}(profile.Email, profile.Name, course.Title)
	}
	return sel, nil
}
