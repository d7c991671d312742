package learnController

import (
	"lingo/identity"
	"lingo/learning"
	"lingo/middleware"
	courseModels "lingo/models/course"
	learnValidator "lingo/validators/learn"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	learning *learning.Service
}

func New(svc *learning.Service) *Controller {
	return &Controller{learning: svc}
}

type optionView struct {
	ID       uint    `json:"id"`
	Text     string  `json:"text"`
	ImageSrc *string `json:"image_src"`
	AudioSrc *string `json:"audio_src"`
}

type challengeView struct {
	ID        uint                       `json:"id"`
	Type      courseModels.ChallengeType `json:"type"`
	Question  string                     `json:"question"`
	Order     int                        `json:"order"`
	Completed bool                       `json:"completed"`
	Options   []optionView               `json:"options"`
}

type lessonView struct {
	ID         uint            `json:"id"`
	UnitID     uint            `json:"unit_id"`
	Title      string          `json:"title"`
	Completed  bool            `json:"completed"`
	Percentage int             `json:"percentage"`
	Challenges []challengeView `json:"challenges"`
}

// toLessonView drops option correctness so clients cannot read the answer key
func toLessonView(v *learning.LessonView) lessonView {
	out := lessonView{
		ID:         v.Lesson.ID,
		UnitID:     v.Lesson.UnitID,
		Title:      v.Lesson.Title,
		Completed:  v.Lesson.Completed,
		Percentage: v.Percentage,
		Challenges: make([]challengeView, 0, len(v.Lesson.Challenges)),
	}
	for _, ch := range v.Lesson.Challenges {
		cv := challengeView{
			ID:        ch.ID,
			Type:      ch.Type,
			Question:  ch.Question,
			Order:     ch.OrderIndex,
			Completed: ch.Completed,
			Options:   make([]optionView, 0, len(ch.Options)),
		}
		for _, o := range ch.Options {
			cv.Options = append(cv.Options, optionView{ID: o.ID, Text: o.Text, ImageSrc: o.ImageSrc, AudioSrc: o.AudioSrc})
		}
		out.Challenges = append(out.Challenges, cv)
	}
	return out
}

// Learn returns the learn page for the active course
func (lc *Controller) Learn(c *fiber.Ctx) error {
	userID, err := identity.CurrentUserID(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	view, err := lc.learning.GetLearnView(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if view.CourseProgress.Status == learning.StatusNoProgress {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Select a course to start learning.", fiber.Map{
			"redirect": middleware.CoursesRedirect,
			"status":   view.CourseProgress.Status,
		})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learn page fetched successfully!", view)
}

// Lesson returns a lesson by id, or the active lesson when no id is given
func (lc *Controller) Lesson(c *fiber.Ctx) error {
	userID, err := identity.CurrentUserID(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	lessonID, _ := c.Locals("lessonId").(*uint)
	ctx := c.UserContext()

	view, err := lc.learning.GetLessonView(ctx, userID, lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	up, err := lc.learning.GetUserProgress(ctx, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	data := fiber.Map{"lesson": toLessonView(view), "hearts": 0, "points": 0}
	if up != nil {
		data["hearts"] = up.Hearts
		data["points"] = up.Points
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", data)
}

// Leaderboard returns the top users by points
func (lc *Controller) Leaderboard(c *fiber.Ctx) error {
	limit := learning.DefaultLeaderboardSize
	if reqData, ok := c.Locals("validatedLeaderboard").(*learnValidator.LeaderboardRequest); ok && reqData.Limit > 0 {
		limit = reqData.Limit
	}

	top, err := lc.learning.GetTopUsers(c.UserContext(), limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", top)
}
