package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the public catalog and student-facing routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (published courses only)
	courseGroup.Get("/list", validators.CourseList(), controllers.CourseList)
	courseGroup.Get("/:slug", controllers.CourseDetail)

	// Enrollment
	courseGroup.Post("/:slug/enroll", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent), controllers.EnrollCourse)

	// Progress tracking
	enrollmentGroup := app.Group("/enrollment", middleware.JWTMiddleware)
	enrollmentGroup.Get("/:id/progress", controllers.EnrollmentProgress)
	enrollmentGroup.Get("/:id/next-lesson", controllers.NextLesson)
	enrollmentGroup.Post("/:id/lesson/:lessonId/complete", controllers.CompleteLesson)
	enrollmentGroup.Post("/:id/lesson/:lessonId/reset", controllers.ResetLesson)
	enrollmentGroup.Post("/:id/certificate", controllers.IssueCertificate)
	enrollmentGroup.Delete("/:id", controllers.DeactivateEnrollment)

	// Quizzes
	lessonGroup := app.Group("/lesson", middleware.JWTMiddleware)
	lessonGroup.Get("/:id/quiz", controllers.GetLessonQuiz)
	lessonGroup.Post("/:id/quiz/submit", middleware.RequireRole(models.RoleStudent), validators.SubmitQuiz(), controllers.SubmitQuiz)
}
