package courseValidator

import (
	"lingo/middleware"
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
)

type SelectRequest struct {
	CourseID uint `params:"id" validate:"required,gt=0"`
}

// SelectCourse validates the :id route parameter
func SelectCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SelectRequest)
		if err := c.ParamsParser(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"id": "id must be a positive integer!"})
		}
		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseId", reqData.CourseID)
		return c.Next()
	}
}
