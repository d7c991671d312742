package middleware

import (
	"lingo/apierr"

	"github.com/gofiber/fiber/v2"
)

// CoursesRedirect is where clients are sent when the thing they asked for does not exist.
const CoursesRedirect = "/courses"

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse renders err with the status and code apierr assigns to it.
func ErrorResponse(c *fiber.Ctx, err error) error {
	status, code := apierr.Classify(err)
	data := fiber.Map{"code": code}

	message := err.Error()
	switch {
	case status == fiber.StatusNotFound:
		data["redirect"] = CoursesRedirect
	case status == fiber.StatusServiceUnavailable:
		message = "Service temporarily unavailable, please retry!"
	case status >= fiber.StatusInternalServerError:
		message = "Failed to process your request!"
	}
	return JsonResponse(c, status, false, message, data)
}
