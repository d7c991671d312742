package courseRoutes

import (
	courseController "lingo/controllers/course"
	"lingo/middleware"
	courseValidator "lingo/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course listing and selection
func SetupCourseRoutes(app *fiber.App, ctrl *courseController.Controller) {
	courseGroup := app.Group("/courses")

	courseGroup.Get("/", middleware.JWTMiddleware, ctrl.ListCourses)
	courseGroup.Post("/:id/select", middleware.JWTMiddleware, courseValidator.SelectCourse(), ctrl.SelectCourse)
}
