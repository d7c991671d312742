package shopController

import (
	"lingo/identity"
	"lingo/learning"
	"lingo/middleware"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	learning *learning.Service
}

func New(svc *learning.Service) *Controller {
	return &Controller{learning: svc}
}

// RefillHearts spends points to restore a full set of hearts
func (sc *Controller) RefillHearts(c *fiber.Ctx) error {
	userID, err := identity.CurrentUserID(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	res, err := sc.learning.RefillHearts(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	switch res.Kind {
	case learning.RefillBlockedHeartsFull:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Hearts are already full.", res)
	case learning.RefillBlockedInsufficientPoints:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Not enough points to refill hearts.", res)
	default:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Hearts refilled!", res)
	}
}
