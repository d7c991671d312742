package learnController

import (
	"errors"

	"lingo/apierr"
	"lingo/identity"
	"lingo/learning"
	"lingo/middleware"
	learnValidator "lingo/validators/learn"

	"github.com/gofiber/fiber/v2"
)

// ShopRedirect is where a user without hearts is sent to refill.
const ShopRedirect = "/shop"

// SubmitAnswer applies one answer and returns the outcome
func (lc *Controller) SubmitAnswer(c *fiber.Ctx) error {
	userID, err := identity.CurrentUserID(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedSubmission").(*learnValidator.SubmitRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	out, err := lc.learning.SubmitAnswer(c.UserContext(), learning.SubmitRequest{
		UserID:       userID,
		ChallengeID:  reqData.ChallengeID,
		OptionID:     reqData.OptionID,
		SubmissionID: reqData.SubmissionID,
	})
	if err != nil {
		if errors.Is(err, apierr.ErrInvariantViolation) {
			status, code := apierr.Classify(err)
			return middleware.JsonResponse(c, status, false, "This challenge cannot be answered right now!", fiber.Map{
				"code":    code,
				"outcome": learning.ErrorOutcome(code),
			})
		}
		return middleware.ErrorResponse(c, err)
	}

	switch out.Kind {
	case learning.OutcomeBlockedNoHearts:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "You have no hearts left!", fiber.Map{
			"outcome":  out,
			"redirect": ShopRedirect,
		})
	case learning.OutcomeBlockedPracticeNoHearts:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Practice needs at least one heart for a wrong answer.", fiber.Map{
			"outcome": out,
		})
	case learning.OutcomeCorrect:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Correct!", fiber.Map{"outcome": out})
	default:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Wrong answer.", fiber.Map{"outcome": out})
	}
}
