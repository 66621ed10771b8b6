package progress

import (
	"errors"
	"math"

	"github.com/jinzhu/now"
	"gorm.io/gorm"

	course "lms/models/course"
)

// EnrollmentSummary carries the aggregate counts for one enrollment, produced
// either by the scalar path (Percentage) or the bulk path (SummarizeEnrollments).
type EnrollmentSummary struct {
	EnrollmentID       uint    `json:"enrollment_id"`
	TotalLessons       int64   `json:"total_lessons"`
	CompletedLessons   int64   `json:"completed_lessons"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// CourseTotals are derived values recomputed on read; catalog size is small
// relative to request volume so nothing is cached.
type CourseTotals struct {
	TotalModules  int64 `json:"total_modules"`
	TotalLessons  int64 `json:"total_lessons"`
	TotalDuration int64 `json:"total_duration"` // minutes
}

// DashboardStats is the student dashboard aggregate.
type DashboardStats struct {
	TotalCourses          int64   `json:"total_courses"`
	ActiveCourses         int64   `json:"active_courses"`
	CompletedCourses      int64   `json:"completed_courses"`
	CompletedThisMonth    int64   `json:"completed_this_month"`
	TotalLessonsCompleted int64   `json:"total_lessons_completed"`
	TotalTimeSpentMinutes int64   `json:"total_time_spent_minutes"`
	TotalTimeSpentHours   float64 `json:"total_time_spent_hours"`
}

// Percentage computes the completion percentage for a single enrollment:
// 100 * completed / total, rounded to two decimals, 0.0 when no progress rows
// exist. This is the scalar path; SummarizeEnrollments is the bulk equivalent
// and the two must agree exactly.
func (s *Service) Percentage(enrollmentID uint) (float64, error) {
	var total, completed int64
	if err := s.db.Model(&course.Progress{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0.0, nil
	}
	if err := s.db.Model(&course.Progress{}).
		Where("enrollment_id = ? AND completed = ?", enrollmentID, true).
		Count(&completed).Error; err != nil {
		return 0, err
	}
	return round2(float64(completed) / float64(total) * 100), nil
}

// CompletedLessonsCount returns how many lessons are completed under the enrollment.
func (s *Service) CompletedLessonsCount(enrollmentID uint) (int64, error) {
	var completed int64
	err := s.db.Model(&course.Progress{}).
		Where("enrollment_id = ? AND completed = ?", enrollmentID, true).
		Count(&completed).Error
	return completed, err
}

// SummarizeEnrollments computes total and completed progress counts for many
// enrollments in one grouped query, avoiding a count query per list row.
// Enrollments without progress rows get a zero summary.
func (s *Service) SummarizeEnrollments(enrollmentIDs []uint) (map[uint]EnrollmentSummary, error) {
	summaries := make(map[uint]EnrollmentSummary, len(enrollmentIDs))
	for _, id := range enrollmentIDs {
		summaries[id] = EnrollmentSummary{EnrollmentID: id}
	}
	if len(enrollmentIDs) == 0 {
		return summaries, nil
	}

	var rows []EnrollmentSummary
	err := s.db.Model(&course.Progress{}).
		Select("enrollment_id, COUNT(*) AS total_lessons, SUM(CASE WHEN completed THEN 1 ELSE 0 END) AS completed_lessons").
		Where("enrollment_id IN ?", enrollmentIDs).
		Group("enrollment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row.TotalLessons > 0 {
			row.ProgressPercentage = round2(float64(row.CompletedLessons) / float64(row.TotalLessons) * 100)
		}
		summaries[row.EnrollmentID] = row
	}
	return summaries, nil
}

// NextLesson returns the first incomplete lesson in course order (module
// order ascending, then lesson order ascending), or nil when every lesson is
// completed.
func (s *Service) NextLesson(enrollmentID uint) (*course.Lesson, error) {
	var lesson course.Lesson
	err := s.db.Model(&course.Lesson{}).
		Select("lessons.*").
		Joins("JOIN progress_records ON progress_records.lesson_id = lessons.id AND progress_records.deleted_at IS NULL").
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("progress_records.enrollment_id = ? AND progress_records.completed = ?", enrollmentID, false).
		Order("modules.order_index asc, lessons.order_index asc").
		First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Totals recomputes module/lesson counts and total duration for a course.
func (s *Service) Totals(courseID uint) (*CourseTotals, error) {
	var totals CourseTotals
	if err := s.db.Model(&course.Module{}).
		Where("course_id = ?", courseID).
		Count(&totals.TotalModules).Error; err != nil {
		return nil, err
	}
	err := s.db.Model(&course.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("modules.course_id = ?", courseID).
		Select("COUNT(*) AS total_lessons, COALESCE(SUM(lessons.duration_minutes), 0) AS total_duration").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// Dashboard aggregates a student's learning activity across all enrollments.
func (s *Service) Dashboard(studentID uint) (*DashboardStats, error) {
	var stats DashboardStats

	base := func() *gorm.DB {
		return s.db.Model(&course.Enrollment{}).Where("student_id = ?", studentID)
	}

	if err := base().Count(&stats.TotalCourses).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_active = ? AND completed_at IS NULL", true).
		Count(&stats.ActiveCourses).Error; err != nil {
		return nil, err
	}
	if err := base().Where("completed_at IS NOT NULL").
		Count(&stats.CompletedCourses).Error; err != nil {
		return nil, err
	}
	if err := base().Where("completed_at >= ?", now.BeginningOfMonth()).
		Count(&stats.CompletedThisMonth).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&course.Progress{}).
		Joins("JOIN enrollments ON enrollments.id = progress_records.enrollment_id AND enrollments.deleted_at IS NULL").
		Where("enrollments.student_id = ? AND progress_records.completed = ?", studentID, true).
		Count(&stats.TotalLessonsCompleted).Error; err != nil {
		return nil, err
	}

	// Time spent approximated by the duration of completed lessons
	err := s.db.Model(&course.Progress{}).
		Joins("JOIN enrollments ON enrollments.id = progress_records.enrollment_id AND enrollments.deleted_at IS NULL").
		Joins("JOIN lessons ON lessons.id = progress_records.lesson_id AND lessons.deleted_at IS NULL").
		Where("enrollments.student_id = ? AND progress_records.completed = ?", studentID, true).
		Select("COALESCE(SUM(lessons.duration_minutes), 0)").
		Scan(&stats.TotalTimeSpentMinutes).Error
	if err != nil {
		return nil, err
	}
	stats.TotalTimeSpentHours = round2(float64(stats.TotalTimeSpentMinutes) / 60)

	return &stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
