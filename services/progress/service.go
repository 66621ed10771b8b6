// Package progress implements the enrollment and progress-tracking core:
// provisioning of per-lesson progress rows at enrollment time, the lesson
// completion/reset cascade that maintains the enrollment's completed_at flag,
// and the aggregation queries behind percentages, dashboards and rosters.
package progress

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"lms/models"
	course "lms/models/course"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Enroll creates an enrollment for the student in the course and provisions
// one progress row per lesson reachable through the course's modules at this
// moment. Enrollment and progress rows are created in a single transaction so
// an enrollment can never persist without its rows.
func (s *Service) Enroll(studentID, courseID uint) (*course.Enrollment, error) {
	var student models.User
	if err := s.db.First(&student, studentID).Error; err != nil {
		return nil, ErrNotFound
	}
	if !student.IsStudent() {
		return nil, ErrPermissionDenied
	}

	var c course.Course
	if err := s.db.First(&c, courseID).Error; err != nil {
		return nil, ErrNotFound
	}
	if c.Status != course.StatusPublished {
		return nil, ErrNotPublished
	}

	var existing int64
	s.db.Model(&course.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&existing)
	if existing > 0 {
		return nil, ErrDuplicateEnrollment
	}

	enrollment := course.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
		IsActive:   true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		var lessons []course.Lesson
		if err := tx.Model(&course.Lesson{}).
			Select("lessons.*").
			Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
			Where("modules.course_id = ?", courseID).
			Find(&lessons).Error; err != nil {
			return err
		}
		if len(lessons) == 0 {
			return nil
		}

		records := make([]course.Progress, 0, len(lessons))
		now := time.Now()
		for _, lesson := range lessons {
			records = append(records, course.Progress{
				EnrollmentID: enrollment.ID,
				LessonID:     lesson.ID,
				LastAccessed: now,
			})
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		// The unique (student_id, course_id) index closes the race the
		// pre-check above cannot: concurrent double-submission.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEnrollment
		}
		return nil, err
	}

	return &enrollment, nil
}

// GetOwnedEnrollment loads an enrollment by id, scoped to the owning student.
// A foreign enrollment id is indistinguishable from a missing one.
func (s *Service) GetOwnedEnrollment(enrollmentID, studentID uint) (*course.Enrollment, error) {
	var enrollment course.Enrollment
	err := s.db.Where("id = ? AND student_id = ?", enrollmentID, studentID).
		First(&enrollment).Error
	if err != nil {
		return nil, ErrNotFound
	}
	return &enrollment, nil
}

// CompleteLesson marks the (enrollment, lesson) progress row completed.
// Re-completing an already-completed lesson is a no-op apart from refreshing
// completed_at. When the last outstanding row completes, the enrollment's
// completed_at flips in the same transaction via a conditional update, so two
// concurrent completions cannot lose the flag.
func (s *Service) CompleteLesson(enrollmentID, lessonID uint) (*course.Progress, error) {
	var record course.Progress
	if err := s.db.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&record).Error; err != nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&record).Updates(map[string]interface{}{
			"completed":     true,
			"completed_at":  now,
			"last_accessed": now,
		}).Error; err != nil {
			return err
		}

		// Conditional update: only flips when no incomplete sibling remains.
		return tx.Model(&course.Enrollment{}).
			Where("id = ? AND completed_at IS NULL", enrollmentID).
			Where("NOT EXISTS (SELECT 1 FROM progress_records WHERE enrollment_id = ? AND completed = ? AND deleted_at IS NULL)",
				enrollmentID, false).
			Update("completed_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	record.Completed = true
	record.CompletedAt = &now
	record.LastAccessed = now
	return &record, nil
}

// ResetLesson clears the (enrollment, lesson) progress row. Resetting any
// single lesson un-completes the course, so the enrollment's completed_at is
// cleared in the same transaction.
func (s *Service) ResetLesson(enrollmentID, lessonID uint) (*course.Progress, error) {
	var record course.Progress
	if err := s.db.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&record).Error; err != nil {
		return nil, ErrNotFound
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&record).Updates(map[string]interface{}{
			"completed":    false,
			"completed_at": nil,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&course.Enrollment{}).
			Where("id = ? AND completed_at IS NOT NULL", enrollmentID).
			Update("completed_at", nil).Error
	})
	if err != nil {
		return nil, err
	}

	record.Completed = false
	record.CompletedAt = nil
	return &record, nil
}

// TouchLesson updates last_accessed on the (enrollment, lesson) progress row.
func (s *Service) TouchLesson(enrollmentID, lessonID uint) error {
	result := s.db.Model(&course.Progress{}).
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		Update("last_accessed", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-disables the enrollment while preserving its history.
func (s *Service) Deactivate(enrollmentID, studentID uint) error {
	result := s.db.Model(&course.Enrollment{}).
		Where("id = ? AND student_id = ?", enrollmentID, studentID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
