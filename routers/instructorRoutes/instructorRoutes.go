package instructorRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupInstructorRoutes sets up course authoring routes, instructor role only
func SetupInstructorRoutes(app *fiber.App) {
	instructorGroup := app.Group("/instructor", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor))

	// Course CRUD
	courseGroup := instructorGroup.Group("/course")
	courseGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/list", controllers.MyCourses)
	courseGroup.Put("/:id", validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", controllers.DeleteCourse)
	courseGroup.Post("/:id/publish", controllers.PublishCourse)
	courseGroup.Post("/:id/archive", controllers.ArchiveCourse)
	courseGroup.Get("/:id/enrollments", controllers.CourseRoster)

	// Module management
	courseGroup.Post("/:id/module", validators.CreateModule(), controllers.CreateModule)

	moduleGroup := instructorGroup.Group("/module")
	moduleGroup.Put("/:id", validators.UpdateModule(), controllers.UpdateModule)
	moduleGroup.Delete("/:id", controllers.DeleteModule)
	moduleGroup.Post("/:id/lesson", validators.CreateLesson(), controllers.CreateLesson)

	lessonGroup := instructorGroup.Group("/lesson")
	lessonGroup.Put("/:id", validators.UpdateLesson(), controllers.UpdateLesson)
	lessonGroup.Delete("/:id", controllers.DeleteLesson)
}
