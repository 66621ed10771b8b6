package course

import "gorm.io/gorm"

// Module represents a section/module within a course
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_module_course_order"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	OrderIndex  int    `json:"order" gorm:"column:order_index;default:0;uniqueIndex:idx_module_course_order"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}
