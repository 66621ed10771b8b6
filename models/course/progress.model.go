package course

import (
	"time"

	"gorm.io/gorm"
)

// Progress is the atomic completion unit: one row per (enrollment, lesson)
// pair, bulk-created when the enrollment is provisioned.
type Progress struct {
	gorm.Model
	EnrollmentID uint       `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson"`
	LessonID     uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson"`
	Completed    bool       `json:"completed" gorm:"default:false"`
	CompletedAt  *time.Time `json:"completed_at"`
	LastAccessed time.Time  `json:"last_accessed"`

	Lesson Lesson `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
}

func (Progress) TableName() string {
	return "progress_records"
}
