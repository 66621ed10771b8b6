package courseController

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	course "lms/models/course"
	"lms/services/progress"
	courseValidator "lms/validators/course"
)

// CourseList returns published courses with catalog filters and pagination.
func CourseList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*courseValidator.CourseListRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}

	db := database.Database.Db

	query := db.Model(&course.Course{}).Where("status = ?", course.StatusPublished)

	if reqData.Level != "" {
		query = query.Where("level = ?", reqData.Level)
	}
	if reqData.MinPrice != nil {
		query = query.Where("price >= ?", *reqData.MinPrice)
	}
	if reqData.MaxPrice != nil {
		query = query.Where("price <= ?", *reqData.MaxPrice)
	}
	if reqData.IsFree != nil {
		if *reqData.IsFree {
			query = query.Where("price = 0")
		} else {
			query = query.Where("price > 0")
		}
	}
	if reqData.Search != "" {
		pattern := "%" + reqData.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []course.Course
	offset := (reqData.Page - 1) * reqData.Limit
	if err := query.Order("created_at desc").Limit(reqData.Limit).Offset(offset).
		Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"courses": courses,
		"page":    reqData.Page,
		"limit":   reqData.Limit,
		"total":   total,
	})
}

// CourseDetail returns one published course by slug with its ordered modules
// and lessons, recomputed totals, and the caller's enrollment state when
// authenticated.
func CourseDetail(c *fiber.Ctx) error {
	slug := c.Params("slug")

	db := database.Database.Db

	var found course.Course
	err := db.Where("slug = ? AND status = ?", slug, course.StatusPublished).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.order_index asc")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order_index asc")
		}).
		First(&found).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	progressService := progress.NewService(db)
	totals, err := progressService.Totals(found.ID)
	if err != nil {
		log.Printf("Error computing course totals: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	isEnrolled := false
	if userId, ok := c.Locals("userId").(uint); ok {
		var count int64
		db.Model(&course.Enrollment{}).
			Where("student_id = ? AND course_id = ?", userId, found.ID).
			Count(&count)
		isEnrolled = count > 0
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", fiber.Map{
		"course":      found,
		"totals":      totals,
		"is_enrolled": isEnrolled,
	})
}
