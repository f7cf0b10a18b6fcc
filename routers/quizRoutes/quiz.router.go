package quizRoutes

import (
	controllers "learnify/controllers/quiz"
	"learnify/middleware"
	validators "learnify/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up quiz and attempt routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	// Quiz intake and fetch
	quizGroup.Post("/", middleware.JWTMiddleware, validators.CreateQuiz(), controllers.CreateQuiz)
	quizGroup.Get("/:id", middleware.JWTMiddleware, validators.QuizID(), controllers.GetQuiz)
	quizGroup.Delete("/:id", middleware.JWTMiddleware, validators.QuizID(), controllers.DeleteQuiz)

	// Attempt lifecycle
	quizGroup.Post("/:id/attempt/start", middleware.JWTMiddleware, validators.QuizID(), controllers.StartAttempt)
	quizGroup.Get("/:id/attempts", middleware.JWTMiddleware, validators.QuizID(), controllers.ListAttempts)

	attemptGroup := app.Group("/attempt")
	attemptGroup.Post("/:id/answer", middleware.JWTMiddleware, validators.SubmitAnswer(), controllers.SubmitAnswer)
	attemptGroup.Post("/:id/complete", middleware.JWTMiddleware, validators.AttemptID(), controllers.CompleteAttempt)
	attemptGroup.Get("/:id/results", middleware.JWTMiddleware, validators.AttemptID(), controllers.GetResults)
}
