package course

import "gorm.io/gorm"

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"

	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Course represents a learning course authored by an instructor
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Slug         string  `json:"slug" gorm:"uniqueIndex;not null"`
	Description  string  `json:"description" gorm:"type:text"`
	InstructorID uint    `json:"instructor_id" gorm:"index;not null"`
	Level        string  `json:"level" gorm:"default:'beginner'"` // beginner, intermediate, advanced
	Status       string  `json:"status" gorm:"default:'draft'"`   // draft, published, archived
	Price        float64 `json:"price" gorm:"default:0"`

	Modules []Module `json:"modules,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}
