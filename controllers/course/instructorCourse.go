package courseController

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	course "lms/models/course"
	"lms/services/progress"
	"lms/utils"
	courseValidator "lms/validators/course"
)

// getOwnedCourse loads a course by id and checks instructor ownership.
func getOwnedCourse(db *gorm.DB, courseID, instructorID uint) (*course.Course, error) {
	var found course.Course
	if err := db.First(&found, courseID).Error; err != nil {
		return nil, err
	}
	if found.InstructorID != instructorID {
		return nil, gorm.ErrRecordNotFound
	}
	return &found, nil
}

func CreateCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	slug := reqData.Slug
	if slug == "" {
		slug = utils.Slugify(reqData.Title)
	}

	// Disambiguate colliding slugs with a numeric suffix
	base := slug
	for i := 2; ; i++ {
		var count int64
		db.Model(&course.Course{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	level := reqData.Level
	if level == "" {
		level = course.LevelBeginner
	}

	newCourse := course.Course{
		Title:        reqData.Title,
		Slug:         slug,
		Description:  reqData.Description,
		InstructorID: userId,
		Level:        level,
		Status:       course.StatusDraft,
		Price:        reqData.Price,
	}
	if err := db.Create(&newCourse).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", newCourse)
}

func UpdateCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	courseId, err := c.ParamsInt("id")
	if err != nil || courseId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	found, err := getOwnedCourse(db, uint(courseId), userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Level != nil {
		updates["level"] = *reqData.Level
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}

	if len(updates) > 0 {
		if err := db.Model(found).Updates(updates).Error; err != nil {
			log.Printf("Error updating course %d: %v", found.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", found)
}

func PublishCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseId, err := c.ParamsInt("id")
	if err != nil || courseId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	found, err := getOwnedCourse(db, uint(courseId), userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// A course without lessons has nothing to enroll into
	progressService := progress.NewService(db)
	totals, err := progressService.Totals(found.ID)
	if err != nil {
		log.Printf("Error computing totals for course %d: %v", found.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}
	if totals.TotalLessons == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot publish a course without lessons!", nil)
	}

	if err := db.Model(found).Update("status", course.StatusPublished).Error; err != nil {
		log.Printf("Error publishing course %d: %v", found.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully.", found)
}

func ArchiveCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseId, err := c.ParamsInt("id")
	if err != nil || courseId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	found, err := getOwnedCourse(db, uint(courseId), userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := db.Model(found).Update("status", course.StatusArchived).Error; err != nil {
		log.Printf("Error archiving course %d: %v", found.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to archive course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course archived successfully.", found)
}

func DeleteCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseId, err := c.ParamsInt("id")
	if err != nil || courseId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	found, err := getOwnedCourse(db, uint(courseId), userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollmentCount int64
	db.Model(&course.Enrollment{}).Where("course_id = ?", found.ID).Count(&enrollmentCount)
	if enrollmentCount > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Cannot delete a course with enrollments! Archive it instead.", nil)
	}

	if err := db.Delete(found).Error; err != nil {
		log.Printf("Error deleting course %d: %v", found.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", nil)
}

// MyCourses lists the instructor's own courses in any status.
func MyCourses(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []course.Course
	if err := database.Database.Db.Where("instructor_id = ?", userId).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		log.Printf("Error fetching instructor courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", courses)
}

// CourseRoster lists enrollments in the instructor's course with percentages
// from the bulk aggregation path.
func CourseRoster(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseId, err := c.ParamsInt("id")
	if err != nil || courseId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	found, err := getOwnedCourse(db, uint(courseId), userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollments []course.Enrollment
	if err := db.Where("course_id = ?", found.ID).
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		log.Printf("Error fetching roster for course %d: %v", found.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch roster!", nil)
	}

	ids := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		ids = append(ids, enrollment.ID)
	}

	progressService := progress.NewService(db)
	summaries, err := progressService.SummarizeEnrollments(ids)
	if err != nil {
		log.Printf("Error summarizing roster for course %d: %v", found.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch roster!", nil)
	}

	type rosterRow struct {
		course.Enrollment
		TotalLessons       int64   `json:"total_lessons"`
		CompletedLessons   int64   `json:"completed_lessons"`
		ProgressPercentage float64 `json:"progress_percentage"`
		IsCompleted        bool    `json:"is_completed"`
	}

	rows := make([]rosterRow, 0, len(enrollments))
	for _, enrollment := range enrollments {
		summary := summaries[enrollment.ID]
		rows = append(rows, rosterRow{
			Enrollment:         enrollment,
			TotalLessons:       summary.TotalLessons,
			CompletedLessons:   summary.CompletedLessons,
			ProgressPercentage: summary.ProgressPercentage,
			IsCompleted:        enrollment.IsCompleted(),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Roster fetched successfully.", fiber.Map{
		"course":      found,
		"enrollments": rows,
	})
}
