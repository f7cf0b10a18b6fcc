package controllers

import (
	"encoding/json"
	"log"

	"learnify/database"
	"learnify/middleware"
	quizModels "learnify/models/quiz"
	quizService "learnify/services/quiz"

	"github.com/gofiber/fiber/v2"
)

// QuestionInput is one question inside a quiz creation payload
type QuestionInput struct {
	Type          string   `json:"type"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Points        int      `json:"points"`
	OrderIndex    int      `json:"order_index"`
}

// QuizInput is the quiz creation payload (manual or AI-generated upstream)
type QuizInput struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	LessonID           uint            `json:"lesson_id"`
	DurationMinutes    int             `json:"duration_minutes"`
	PassingScore       int             `json:"passing_score"`
	MaxAttempts        *int            `json:"max_attempts"`
	RandomizeQuestions bool            `json:"randomize_questions"`
	ShowCorrectAnswers *bool           `json:"show_correct_answers"`
	Difficulty         string          `json:"difficulty"`
	Questions          []QuestionInput `json:"questions"`
}

// CreateQuiz stores a quiz together with its question set
func CreateQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*QuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	showAnswers := true
	if reqData.ShowCorrectAnswers != nil {
		showAnswers = *reqData.ShowCorrectAnswers
	}
	difficulty := reqData.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	newQuiz := quizModels.Quiz{
		UserID:             userID,
		LessonID:           reqData.LessonID,
		Title:              reqData.Title,
		Description:        reqData.Description,
		DurationMinutes:    reqData.DurationMinutes,
		PassingScore:       reqData.PassingScore,
		MaxAttempts:        reqData.MaxAttempts,
		RandomizeQuestions: reqData.RandomizeQuestions,
		ShowCorrectAnswers: showAnswers,
		Difficulty:         difficulty,
		IsActive:           true,
	}

	for i, q := range reqData.Questions {
		optionsJSON := ""
		if len(q.Options) > 0 {
			raw, err := json.Marshal(q.Options)
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question options!", nil)
			}
			optionsJSON = string(raw)
		}
		points := q.Points
		if points < 1 {
			points = 1
		}
		orderIndex := q.OrderIndex
		if orderIndex == 0 {
			orderIndex = i + 1
		}
		newQuiz.Questions = append(newQuiz.Questions, quizModels.Question{
			Type:          q.Type,
			Prompt:        q.Prompt,
			Options:       optionsJSON,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Points:        points,
			OrderIndex:    orderIndex,
		})
	}

	if err := database.Database.Db.Create(&newQuiz).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", fiber.Map{
		"quiz_id":         newQuiz.ID,
		"total_questions": len(newQuiz.Questions),
	})
}

// GetQuiz returns the student-safe view of a quiz: questions without
// answer keys (shuffled when the quiz randomizes) plus the caller's
// standing against the attempt limit
func GetQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(uint)

	var qz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&qz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	engine := quizService.NewEngine(database.Database.Db, quizService.SystemClock{})

	questions, err := engine.QuestionsForDisplay(qz)
	if err != nil {
		log.Printf("Error loading quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	standing, err := engine.Standing(userID, qz)
	if err != nil {
		log.Printf("Error loading quiz standing: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":      qz,
		"questions": questions,
		"standing":  standing,
	})
}

// DeleteQuiz soft-deletes a quiz; owner only
func DeleteQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(uint)

	var qz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&qz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if qz.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	if err := database.Database.Db.Model(&qz).Updates(map[string]interface{}{
		"is_deleted": true,
		"is_active":  false,
	}).Error; err != nil {
		log.Printf("Error deleting quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}
