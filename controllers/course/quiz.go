package courseController

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"lms/database"
	"lms/middleware"
	course "lms/models/course"
	"lms/services/progress"
	courseValidator "lms/validators/course"
)

// passThreshold is the percentage of correct answers required to pass a quiz.
const passThreshold = 70

type quizOptionView struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
	Order      int    `json:"order"`
}

type quizQuestionView struct {
	ID       uint             `json:"id"`
	Question string           `json:"question"`
	Order    int              `json:"order"`
	Options  []quizOptionView `json:"options"`
}

// GetLessonQuiz returns the questions and options of a quiz lesson. Correct
// answers are never exposed here.
func GetLessonQuiz(c *fiber.Ctx) error {
	lessonId, err := c.ParamsInt("id")
	if err != nil || lessonId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
	}

	db := database.Database.Db

	var lesson course.Lesson
	if err := db.First(&lesson, lessonId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	if lesson.ContentType != course.ContentTypeQuiz {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson is not a quiz!", nil)
	}

	var questions []course.QuizQuestion
	if err := db.Where("lesson_id = ?", lesson.ID).
		Order("order_index asc").
		Find(&questions).Error; err != nil {
		log.Printf("Error fetching quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	views := make([]quizQuestionView, 0, len(questions))
	for _, question := range questions {
		var options []course.QuizOption
		if err := db.Where("question_id = ?", question.ID).
			Order("order_index asc").
			Find(&options).Error; err != nil {
			log.Printf("Error fetching quiz options: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
		}

		view := quizQuestionView{
			ID:       question.ID,
			Question: question.Question,
			Order:    question.OrderIndex,
		}
		for _, option := range options {
			view.Options = append(view.Options, quizOptionView{
				ID:         option.ID,
				OptionText: option.OptionText,
				Order:      option.OrderIndex,
			})
		}
		views = append(views, view)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", fiber.Map{
		"lesson_id": lesson.ID,
		"questions": views,
	})
}

// gradeQuiz scores a set of answers against the correct option per question.
// One point per question, no negative marking, duplicate answers to the same
// question keep the first.
func gradeQuiz(correctByQuestion map[uint]uint, answers []courseValidator.QuizAnswer) (score, maxScore int, passed bool) {
	maxScore = len(correctByQuestion)
	if maxScore == 0 {
		return 0, 0, false
	}

	seen := make(map[uint]bool, len(answers))
	for _, answer := range answers {
		if seen[answer.QuestionID] {
			continue
		}
		seen[answer.QuestionID] = true
		if correct, ok := correctByQuestion[answer.QuestionID]; ok && correct == answer.OptionID {
			score++
		}
	}

	passed = score*100 >= passThreshold*maxScore
	return score, maxScore, passed
}

// SubmitQuiz grades an attempt, stores it, and on a passing score marks the
// quiz lesson completed under the student's enrollment.
func SubmitQuiz(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*courseValidator.SubmitQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	lessonId, err := c.ParamsInt("id")
	if err != nil || lessonId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
	}

	db := database.Database.Db

	var lesson course.Lesson
	if err := db.First(&lesson, lessonId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	if lesson.ContentType != course.ContentTypeQuiz {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson is not a quiz!", nil)
	}

	var questions []course.QuizQuestion
	if err := db.Where("lesson_id = ?", lesson.ID).Find(&questions).Error; err != nil {
		log.Printf("Error fetching quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz has no questions!", nil)
	}

	correctByQuestion := make(map[uint]uint, len(questions))
	for _, question := range questions {
		var correct course.QuizOption
		if err := db.Where("question_id = ? AND is_correct = ?", question.ID, true).
			First(&correct).Error; err != nil {
			log.Printf("Quiz question %d has no correct option: %v", question.ID, err)
			continue
		}
		correctByQuestion[question.ID] = correct.ID
	}

	score, maxScore, passed := gradeQuiz(correctByQuestion, reqData.Answers)

	var attemptCount int64
	db.Model(&course.QuizAttempt{}).
		Where("user_id = ? AND lesson_id = ?", userId, lesson.ID).
		Count(&attemptCount)

	selected, err := json.Marshal(reqData.Answers)
	if err != nil {
		log.Printf("Error marshalling quiz answers: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	attempt := course.QuizAttempt{
		UserID:          userId,
		LessonID:        lesson.ID,
		SelectedOptions: datatypes.JSON(selected),
		Score:           score,
		MaxScore:        maxScore,
		Passed:          passed,
		AttemptNumber:   int(attemptCount) + 1,
	}
	if err := db.Create(&attempt).Error; err != nil {
		log.Printf("Error saving quiz attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	// A passing attempt completes the lesson under the student's enrollment
	if passed {
		var enrollment course.Enrollment
		err := db.Model(&course.Enrollment{}).
			Select("enrollments.*").
			Joins("JOIN modules ON modules.course_id = enrollments.course_id AND modules.deleted_at IS NULL").
			Joins("JOIN lessons ON lessons.module_id = modules.id AND lessons.deleted_at IS NULL").
			Where("enrollments.student_id = ? AND lessons.id = ?", userId, lesson.ID).
			First(&enrollment).Error
		if err == nil {
			progressService := progress.NewService(db)
			if _, err := progressService.CompleteLesson(enrollment.ID, lesson.ID); err != nil {
				log.Printf("Error completing quiz lesson %d: %v", lesson.ID, err)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully.", attempt)
}
