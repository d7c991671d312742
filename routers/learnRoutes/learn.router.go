package learnRoutes

import (
	learnController "lingo/controllers/learn"
	"lingo/middleware"
	learnValidator "lingo/validators/learn"

	"github.com/gofiber/fiber/v2"
)

// SetupLearnRoutes sets up the learn page, lessons, answers and the leaderboard
func SetupLearnRoutes(app *fiber.App, ctrl *learnController.Controller) {
	app.Get("/learn", middleware.JWTMiddleware, ctrl.Learn)

	// Without an id the active lesson is served
	app.Get("/lesson/:id?", middleware.JWTMiddleware, learnValidator.Lesson(), ctrl.Lesson)

	app.Post("/challenges/:id/submit", middleware.JWTMiddleware, learnValidator.Submit(), ctrl.SubmitAnswer)

	app.Get("/leaderboard", middleware.JWTMiddleware, learnValidator.Leaderboard(), ctrl.Leaderboard)
}
