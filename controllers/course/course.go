package courseController

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

// ListCourses returns every course and the user's active course id, if any
func (cc *Controller) ListCourses(c *fiber.Ctx) error {
	userID, err := identity.CurrentUserID(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	ctx := c.UserContext()

	courses, err := cc.learning.ListCourses(ctx)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	up, err := cc.learning.GetUserProgress(ctx, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var activeCourseID *uint
	if up != nil {
		activeCourseID = up.ActiveCourseID
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses":          courses,
		"active_course_id": activeCourseID,
	})
}

// SelectCourse enrolls the user in a course or switches the active one
func (cc *Controller) SelectCourse(c *fiber.Ctx) error {
	userID, err := identity.CurrentUserID(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	courseID, ok := c.Locals("courseId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	sel, err := cc.learning.SelectCourse(c.UserContext(), userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Course selected successfully!"
	if sel.AlreadyActive {
		message = "Course is already active."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, sel)
}
