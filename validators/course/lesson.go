package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

type CreateLessonRequest struct {
	Title           string `json:"title" validate:"required,min=3"`
	ContentType     string `json:"content_type" validate:"required,oneof=video article quiz assignment"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
	Order           int    `json:"order" validate:"required,gte=1"`
	IsFree          bool   `json:"is_free"`
}

type UpdateLessonRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=3"`
	ContentType     *string `json:"content_type" validate:"omitempty,oneof=video article quiz assignment"`
	Content         *string `json:"content"`
	VideoURL        *string `json:"video_url" validate:"omitempty,url"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=0"`
	Order           *int    `json:"order" validate:"omitempty,gte=1"`
	IsFree          *bool   `json:"is_free"`
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateLessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateLessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}
