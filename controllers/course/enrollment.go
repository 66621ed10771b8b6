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

// EnrollCourse enrolls the authenticated student into the course named by the
// slug. Progress rows are provisioned by the service in one transaction.
func EnrollCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	slug := c.Params("slug")

	db := database.Database.Db

	var found course.Course
	if err := db.Where("slug = ?", slug).First(&found).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	progressService := progress.NewService(db)
	enrollment, err := progressService.Enroll(userId, found.ID)
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrDuplicateEnrollment):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
		case errors.Is(err, progress.ErrPermissionDenied):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can enroll in courses!", nil)
		case errors.Is(err, progress.ErrNotPublished):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not open for enrollment!", nil)
		case errors.Is(err, progress.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		log.Printf("Error enrolling user %d in course %d: %v", userId, found.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	// Confirmation email goes out in the background
	var student models.User
	if err := db.First(&student, userId).Error; err == nil {
		go utils.SendEnrollmentEmail(student, found)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully.", enrollment)
}

// MyEnrollments lists the student's enrollments with percentages computed by
// the bulk aggregation path, one grouped query for the whole page.
func MyEnrollments(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrollments []course.Enrollment
	if err := db.Where("student_id = ?", userId).
		Preload("Course").
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		log.Printf("Error fetching enrollments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	ids := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		ids = append(ids, enrollment.ID)
	}

	progressService := progress.NewService(db)
	summaries, err := progressService.SummarizeEnrollments(ids)
	if err != nil {
		log.Printf("Error summarizing enrollments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type enrollmentView struct {
		course.Enrollment
		TotalLessons       int64   `json:"total_lessons"`
		CompletedLessons   int64   `json:"completed_lessons"`
		ProgressPercentage float64 `json:"progress_percentage"`
		IsCompleted        bool    `json:"is_completed"`
	}

	views := make([]enrollmentView, 0, len(enrollments))
	for _, enrollment := range enrollments {
		summary := summaries[enrollment.ID]
		views = append(views, enrollmentView{
			Enrollment:         enrollment,
			TotalLessons:       summary.TotalLessons,
			CompletedLessons:   summary.CompletedLessons,
			ProgressPercentage: summary.ProgressPercentage,
			IsCompleted:        enrollment.IsCompleted(),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", views)
}

// DeactivateEnrollment soft-disables an enrollment without touching history.
func DeactivateEnrollment(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentId, err := c.ParamsInt("id")
	if err != nil || enrollmentId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment id!", nil)
	}

	progressService := progress.NewService(database.Database.Db)
	if err := progressService.Deactivate(uint(enrollmentId), userId); err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		log.Printf("Error deactivating enrollment %d: %v", enrollmentId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deactivate enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment deactivated.", nil)
}
