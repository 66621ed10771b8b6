package course

import "gorm.io/gorm"

const (
	ContentTypeVideo      = "video"
	ContentTypeArticle    = "article"
	ContentTypeQuiz       = "quiz"
	ContentTypeAssignment = "assignment"
)

// Lesson represents a single lesson within a module
type Lesson struct {
	gorm.Model
	ModuleID        uint   `json:"module_id" gorm:"not null;uniqueIndex:idx_lesson_module_order"`
	Title           string `json:"title"`
	ContentType     string `json:"content_type" gorm:"default:'video'"` // video, article, quiz, assignment
	Content         string `json:"content" gorm:"type:text"`
	VideoURL        string `json:"video_url"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	OrderIndex      int    `json:"order" gorm:"column:order_index;default:0;uniqueIndex:idx_lesson_module_order"`
	IsFree          bool   `json:"is_free" gorm:"default:false"` // free preview lesson
}
