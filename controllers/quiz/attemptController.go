package controllers

import (
	"errors"
	"log"

	"learnify/database"
	"learnify/middleware"
	"learnify/models"
	quizModels "learnify/models/quiz"
	quizService "learnify/services/quiz"
	"learnify/utils"

	"github.com/gofiber/fiber/v2"
)

// AnswerInput is the answer submission payload
type AnswerInput struct {
	QuestionID       uint   `json:"question_id"`
	Value            string `json:"value"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

func newEngine() *quizService.Engine {
	return quizService.NewEngine(database.Database.Db, quizService.SystemClock{})
}

// engineError maps engine errors onto HTTP responses. Every state
// machine violation keeps its own message so the client can show
// specific guidance.
func engineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, quizService.ErrQuizNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	case errors.Is(err, quizService.ErrQuestionNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	case errors.Is(err, quizService.ErrAttemptNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	case errors.Is(err, quizService.ErrQuizInactive):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This quiz is not active!", nil)
	case errors.Is(err, quizService.ErrAttemptsExhausted):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Maximum attempts reached for this quiz!", nil)
	case errors.Is(err, quizService.ErrOwnershipMismatch):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This attempt belongs to another user!", nil)
	case errors.Is(err, quizService.ErrAttemptExpired):
		return middleware.JsonResponse(c, fiber.StatusGone, false, "Your time is up! The attempt has been closed.", nil)
	case errors.Is(err, quizService.ErrAttemptNotInProgress):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt is not in progress!", nil)
	case errors.Is(err, quizService.ErrAlreadyCompleted):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt is already completed!", nil)
	case errors.Is(err, quizService.ErrQuestionNotInQuiz):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question does not belong to this quiz!", nil)
	case errors.Is(err, quizService.ErrNotCompleted):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt is not completed yet!", nil)
	default:
		log.Printf("Quiz engine error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

// StartAttempt starts a new attempt or resumes the unexpired one
func StartAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(uint)

	attempt, err := newEngine().StartAttempt(userID, quizID)
	if err != nil {
		return engineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt started!", attempt)
}

// SubmitAnswer records a single answer and returns immediate feedback
func SubmitAnswer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(uint)
	reqData := c.Locals("validatedAnswer").(*AnswerInput)

	result, err := newEngine().SubmitAnswer(userID, attemptID, reqData.QuestionID, reqData.Value, reqData.TimeSpentSeconds)
	if err != nil {
		return engineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted!", result)
}

// CompleteAttempt finalizes and scores an attempt
func CompleteAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(uint)

	result, err := newEngine().CompleteAttempt(userID, attemptID)
	if err != nil {
		return engineError(c, err)
	}

	// best-effort notifications; failures never fail the request
	go notifyCompletion(userID, result)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt completed!", result)
}

// GetResults returns the scored outcome of a completed attempt
func GetResults(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(uint)

	result, err := newEngine().GetResults(userID, attemptID)
	if err != nil {
		return engineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully!", result)
}

// ListAttempts returns the caller's attempt history for a quiz
func ListAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(uint)

	attempts, err := newEngine().ListUserAttempts(userID, quizID)
	if err != nil {
		return engineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}

func notifyCompletion(userID uint, result *quizService.ScoredResult) {
	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		log.Printf("Error loading user for notification: %v", err)
		return
	}

	var qz quizModels.Quiz
	if err := db.First(&qz, result.QuizID).Error; err != nil {
		log.Printf("Error loading quiz for notification: %v", err)
		return
	}

	if err := utils.NotifyQuizCompletion(user.ID, qz.Title, result.Score, result.Passed); err != nil {
		log.Printf("Error notifying bot gateway: %v", err)
	}

	if result.Passed && user.Email != "" {
		if err := utils.SendQuizResultEmail(user.Email, user.Name, qz.Title, result.Score, result.Grade); err != nil {
			log.Printf("Error sending result email: %v", err)
		}
	}
}
