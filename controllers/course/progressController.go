package courseController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	course "lms/models/course"
	"lms/services/progress"
	"lms/utils"
)

// EnrollmentProgress lists every progress row under the enrollment with its
// lesson, plus the scalar summary.
func EnrollmentProgress(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentId, err := c.ParamsInt("id")
	if err != nil || enrollmentId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment id!", nil)
	}

	db := database.Database.Db
	progressService := progress.NewService(db)

	enrollment, err := progressService.GetOwnedEnrollment(uint(enrollmentId), userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var records []course.Progress
	if err := db.Where("enrollment_id = ?", enrollment.ID).
		Preload("Lesson").
		Find(&records).Error; err != nil {
		log.Printf("Error fetching progress records: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	percentage, err := progressService.Percentage(enrollment.ID)
	if err != nil {
		log.Printf("Error computing percentage: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}
	completed, err := progressService.CompletedLessonsCount(enrollment.ID)
	if err != nil {
		log.Printf("Error counting completed lessons: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", fiber.Map{
		"enrollment":          enrollment,
		"records":             records,
		"total_lessons":       len(records),
		"completed_lessons":   completed,
		"progress_percentage": percentage,
	})
}

// CompleteLesson marks a lesson complete for the enrollment. When this was the
// last outstanding lesson the enrollment flips to completed and the completion
// side effects (email, webhook) fire in the background.
func CompleteLesson(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentId, err := c.ParamsInt("id")
	if err != nil || enrollmentId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment id!", nil)
	}
	lessonId, err := c.ParamsInt("lessonId")
	if err != nil || lessonId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
	}

	db := database.Database.Db
	progressService := progress.NewService(db)

	enrollment, err := progressService.GetOwnedEnrollment(uint(enrollmentId), userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}
	wasCompleted := enrollment.IsCompleted()

	record, err := progressService.CompleteLesson(enrollment.ID, uint(lessonId))
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this enrollment!", nil)
		}
		log.Printf("Error completing lesson %d for enrollment %d: %v", lessonId, enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
	}

	percentage, err := progressService.Percentage(enrollment.ID)
	if err != nil {
		log.Printf("Error computing percentage: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
	}

	// Fire completion side effects exactly once, on the transition
	if !wasCompleted && percentage == 100.0 {
		var student models.User
		var enrolledCourse course.Course
		if db.First(&student, userId).Error == nil && db.First(&enrolledCourse, enrollment.CourseID).Error == nil {
			go utils.SendCourseCompletionEmail(student, enrolledCourse)
			go utils.NotifyCourseCompletion(student.ID, enrolledCourse.ID, enrollment.ID)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed.", fiber.Map{
		"record":              record,
		"progress_percentage": percentage,
	})
}

// ResetLesson clears a completed lesson, un-completing the course if needed.
func ResetLesson(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentId, err := c.ParamsInt("id")
	if err != nil || enrollmentId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment id!", nil)
	}
	lessonId, err := c.ParamsInt("lessonId")
	if err != nil || lessonId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
	}

	progressService := progress.NewService(database.Database.Db)

	enrollment, err := progressService.GetOwnedEnrollment(uint(enrollmentId), userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	record, err := progressService.ResetLesson(enrollment.ID, uint(lessonId))
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this enrollment!", nil)
		}
		log.Printf("Error resetting lesson %d for enrollment %d: %v", lessonId, enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset lesson!", nil)
	}

	percentage, err := progressService.Percentage(enrollment.ID)
	if err != nil {
		log.Printf("Error computing percentage: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson progress reset.", fiber.Map{
		"record":              record,
		"progress_percentage": percentage,
	})
}

// NextLesson returns the first incomplete lesson in course order, or null when
// the course is finished.
func NextLesson(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentId, err := c.ParamsInt("id")
	if err != nil || enrollmentId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment id!", nil)
	}

	progressService := progress.NewService(database.Database.Db)

	enrollment, err := progressService.GetOwnedEnrollment(uint(enrollmentId), userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	lesson, err := progressService.NextLesson(enrollment.ID)
	if err != nil {
		log.Printf("Error finding next lesson for enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to find next lesson!", nil)
	}
	if lesson == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "All lessons completed.", nil)
	}

	// Opening the next lesson counts as accessing it
	if err := progressService.TouchLesson(enrollment.ID, lesson.ID); err != nil {
		log.Printf("Error touching lesson %d: %v", lesson.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Next lesson fetched successfully.", lesson)
}
