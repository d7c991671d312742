package learnValidator

import (
	"strings"

	"lingo/middleware"
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
)

type lessonParams struct {
	LessonID uint `params:"id" validate:"required,gt=0"`
}

type SubmitRequest struct {
	ChallengeID  uint   `params:"id" json:"-" validate:"required,gt=0"`
	OptionID     uint   `json:"option_id" validate:"required,gt=0"`
	SubmissionID string `json:"submission_id" validate:"omitempty,uuid"`
}

type LeaderboardRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Lesson validates the optional :id parameter. Without one the active lesson is served.
func Lesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Params("id") == "" {
			c.Locals("lessonId", (*uint)(nil))
			return c.Next()
		}
		reqData := new(lessonParams)
		if err := c.ParamsParser(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"id": "id must be a positive integer!"})
		}
		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonId", &reqData.LessonID)
		return c.Next()
	}
}

// Submit validates an answer to the challenge in :id
func Submit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := c.ParamsParser(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"id": "id must be a positive integer!"})
		}
		reqData.SubmissionID = strings.TrimSpace(reqData.SubmissionID)
		if reqData.SubmissionID == "" {
			reqData.SubmissionID = strings.TrimSpace(c.Get("Idempotency-Key"))
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// Leaderboard validates the optional ?limit query
func Leaderboard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LeaderboardRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"limit": "limit must be an integer!"})
		}
		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLeaderboard", reqData)
		return c.Next()
	}
}
