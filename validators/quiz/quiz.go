package quizValidator

import (
	"strconv"
	"strings"

	controllers "learnify/controllers/quiz"
	"learnify/middleware"

	"github.com/gofiber/fiber/v2"
)

var questionTypes = map[string]bool{
	"multiple_choice": true,
	"true_false":      true,
	"fill_blank":      true,
	"short_answer":    true,
}

// parseIDParam validates a positive integer route parameter and stores
// it in locals under the given key
func parseIDParam(c *fiber.Ctx, param, localKey string) error {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing "+param+" parameter!", nil)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+" parameter!", nil)
	}
	c.Locals(localKey, uint(id))
	return c.Next()
}

// QuizID validates the :id route parameter
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return parseIDParam(c, "id", "quizID")
	}
}

// AttemptID validates the :id route parameter for attempt routes
func AttemptID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return parseIDParam(c, "id", "attemptID")
	}
}

// CreateQuiz validates the quiz creation payload
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.QuizInput)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.DurationMinutes <= 0 {
			errors["duration_minutes"] = "Duration must be a positive number of minutes!"
		}

		if reqData.PassingScore < 0 || reqData.PassingScore > 100 {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}

		if reqData.MaxAttempts != nil && *reqData.MaxAttempts <= 0 {
			errors["max_attempts"] = "Max attempts must be a positive number or omitted for unlimited!"
		}

		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}

		for i, q := range reqData.Questions {
			key := "questions[" + strconv.Itoa(i) + "]"

			if !questionTypes[q.Type] {
				errors[key+".type"] = "Type must be multiple_choice, true_false, fill_blank, or short_answer!"
				continue
			}
			if strings.TrimSpace(q.Prompt) == "" {
				errors[key+".prompt"] = "Prompt is required!"
			}
			if strings.TrimSpace(q.CorrectAnswer) == "" {
				errors[key+".correct_answer"] = "Correct answer is required!"
			}
			if q.Points < 0 {
				errors[key+".points"] = "Points cannot be negative!"
			}
			switch q.Type {
			case "multiple_choice":
				if len(q.Options) < 2 {
					errors[key+".options"] = "Multiple choice questions need at least 2 options!"
				}
			case "true_false":
				v := strings.ToLower(strings.TrimSpace(q.CorrectAnswer))
				if v != "true" && v != "false" {
					errors[key+".correct_answer"] = "True/false answer must be true or false!"
				}
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// SubmitAnswer validates a single answer submission
func SubmitAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("id"))
		attemptID, err := strconv.Atoi(raw)
		if err != nil || attemptID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id parameter!", nil)
		}

		reqData := new(controllers.AnswerInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.QuestionID == 0 {
			errors["question_id"] = "Question ID is required!"
		}
		if reqData.TimeSpentSeconds < 0 {
			errors["time_spent_seconds"] = "Time spent cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("attemptID", uint(attemptID))
		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}
