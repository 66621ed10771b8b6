package courseValidator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the json field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors converts validator failures into the field->message map the
// response envelope expects.
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = "Invalid request body!"
		return errors
	}
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errors[e.Field()] = fmt.Sprintf("%s is required!", e.Field())
		case "min":
			errors[e.Field()] = fmt.Sprintf("%s must be at least %s characters long!", e.Field(), e.Param())
		case "max":
			errors[e.Field()] = fmt.Sprintf("%s must be at most %s characters long!", e.Field(), e.Param())
		case "oneof":
			errors[e.Field()] = fmt.Sprintf("%s must be one of: %s!", e.Field(), e.Param())
		case "gte":
			errors[e.Field()] = fmt.Sprintf("%s must be at least %s!", e.Field(), e.Param())
		case "url":
			errors[e.Field()] = fmt.Sprintf("%s must be a valid URL!", e.Field())
		default:
			errors[e.Field()] = fmt.Sprintf("%s is invalid!", e.Field())
		}
	}
	return errors
}

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Slug        string  `json:"slug" validate:"omitempty,min=3"`
	Description string  `json:"description" validate:"required,min=5"`
	Level       string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type UpdateCourseRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3"`
	Description *string  `json:"description" validate:"omitempty,min=5"`
	Level       *string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

type CourseListRequest struct {
	Page     int      `query:"page" json:"page"`
	Limit    int      `query:"limit" json:"limit"`
	Level    string   `query:"level" json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	IsFree   *bool    `query:"is_free" json:"is_free"`
	MinPrice *float64 `query:"min_price" json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice *float64 `query:"max_price" json:"max_price" validate:"omitempty,gte=0"`
	Search   string   `query:"search" json:"search"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if reqData.Page < 1 {
			reqData.Page = 1
		}
		if reqData.Limit < 1 || reqData.Limit > 100 {
			reqData.Limit = 10
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}
		c.Locals("validatedList", reqData)
		return c.Next()
	}
}
