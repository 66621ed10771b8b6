package userRoutes

import (
	courseControllers "lms/controllers/course"
	userControllers "lms/controllers/user"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/me", userControllers.GetProfile)
	userGroup.Put("/me", userControllers.UpdateProfile)
	userGroup.Get("/dashboard", courseControllers.Dashboard)
	userGroup.Get("/enrollments", courseControllers.MyEnrollments)
	userGroup.Get("/certificates", courseControllers.MyCertificates)
}
