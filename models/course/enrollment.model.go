package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a student to a course and carries its completion state.
// The composite unique index closes the double-submission race on enroll.
type Enrollment struct {
	gorm.Model
	StudentID   uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	CourseID    uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`

	Course          Course     `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	ProgressRecords []Progress `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// IsCompleted reports the denormalized completion flag. It is maintained
// exclusively by the progress service's completion/reset cascade and is never
// recomputed from progress rows here.
func (e *Enrollment) IsCompleted() bool {
	return e.CompletedAt != nil
}
