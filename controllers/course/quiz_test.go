package courseController

import (
	"testing"

	"github.com/stretchr/testify/assert"

	courseValidator "lms/validators/course"
)

func TestGradeQuiz(t *testing.T) {
	correct := map[uint]uint{
		1: 10,
		2: 20,
		3: 30,
	}

	tests := []struct {
		name      string
		answers   []courseValidator.QuizAnswer
		wantScore int
		wantPass  bool
	}{
		{
			name: "all correct",
			answers: []courseValidator.QuizAnswer{
				{QuestionID: 1, OptionID: 10},
				{QuestionID: 2, OptionID: 20},
				{QuestionID: 3, OptionID: 30},
			},
			wantScore: 3,
			wantPass:  true,
		},
		{
			name: "two of three fails the threshold",
			answers: []courseValidator.QuizAnswer{
				{QuestionID: 1, OptionID: 10},
				{QuestionID: 2, OptionID: 20},
				{QuestionID: 3, OptionID: 31},
			},
			wantScore: 2,
			wantPass:  false,
		},
		{
			name:      "no answers",
			answers:   nil,
			wantScore: 0,
			wantPass:  false,
		},
		{
			name: "duplicate answers keep the first",
			answers: []courseValidator.QuizAnswer{
				{QuestionID: 1, OptionID: 11},
				{QuestionID: 1, OptionID: 10},
			},
			wantScore: 0,
			wantPass:  false,
		},
		{
			name: "unknown question ignored",
			answers: []courseValidator.QuizAnswer{
				{QuestionID: 99, OptionID: 10},
			},
			wantScore: 0,
			wantPass:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, maxScore, passed := gradeQuiz(correct, tt.answers)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, 3, maxScore)
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestGradeQuizEmptyQuiz(t *testing.T) {
	score, maxScore, passed := gradeQuiz(map[uint]uint{}, []courseValidator.QuizAnswer{{QuestionID: 1, OptionID: 10}})
	assert.Equal(t, 0, score)
	assert.Equal(t, 0, maxScore)
	assert.False(t, passed)
}
