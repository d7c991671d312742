package shopRoutes

import (
	shopController "lingo/controllers/shop"
	"lingo/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupShopRoutes(app *fiber.App, ctrl *shopController.Controller) {
	shopGroup := app.Group("/shop")
	shopGroup.Post("/refill", middleware.JWTMiddleware, ctrl.RefillHearts)
}
