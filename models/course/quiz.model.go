package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizQuestion belongs to a quiz-type lesson
type QuizQuestion struct {
	gorm.Model
	LessonID   uint   `json:"lesson_id" gorm:"index;not null"`
	Question   string `json:"question" gorm:"type:text"`
	OrderIndex int    `json:"order" gorm:"column:order_index;default:0"`
}

// QuizOption represents an answer option for a quiz question
type QuizOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order" gorm:"column:order_index;default:0"`
}

// QuizAttempt records a student's attempt at a quiz lesson.
// SelectedOptions holds a question_id -> option ids map as JSON.
type QuizAttempt struct {
	gorm.Model
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	LessonID        uint           `json:"lesson_id" gorm:"index;not null"`
	SelectedOptions datatypes.JSON `json:"selected_options"`
	Score           int            `json:"score"`
	MaxScore        int            `json:"max_score"`
	Passed          bool           `json:"passed" gorm:"default:false"`
	AttemptNumber   int            `json:"attempt_number" gorm:"default:1"`
}
