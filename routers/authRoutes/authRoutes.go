package authRoutes

import (
	authControllers "lms/controllers/auth"
	"lms/middleware"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/verify", middleware.JWTMiddleware, authControllers.VerifyToken)
	authGroup.Put("/change-password", middleware.JWTMiddleware, authValidators.ChangePassword(), authControllers.ChangePassword)
}
