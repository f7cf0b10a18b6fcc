package quizService

import (
	"errors"

	quiz "learnify/models/quiz"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// AttemptSummary is the per-attempt row returned to attempt listings.
type AttemptSummary struct {
	AttemptID      uint   `json:"attempt_id"`
	AttemptNumber  int    `json:"attempt_number"`
	Status         string `json:"status"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
	Score          *int   `json:"score,omitempty"`
	Passed         *bool  `json:"passed,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
}

// QuizStanding aggregates a user's history against one quiz.
type QuizStanding struct {
	CompletedAttempts int64 `json:"completed_attempts"`
	// RemainingAttempts is nil when the quiz allows unlimited attempts.
	RemainingAttempts *int            `json:"remaining_attempts"`
	Unlimited         bool            `json:"unlimited"`
	HasPassed         bool            `json:"has_passed"`
	BestScore         *int            `json:"best_score,omitempty"`
	AttemptsThisMonth int64           `json:"attempts_this_month"`
	Latest            *AttemptSummary `json:"latest_attempt,omitempty"`
}

// CompletedCount counts completed attempts for (user, quiz). Abandoned
// attempts never count toward the limit.
func (e *Engine) CompletedCount(userID, quizID uint) (int64, error) {
	var n int64
	err := e.db.Model(&quiz.Attempt{}).
		Where("user_id = ? AND quiz_id = ? AND status = ?",
			userID, quizID, quiz.StatusCompleted).
		Count(&n).Error
	return n, err
}

// RemainingAttempts returns how many completed attempts the user still
// has, or nil for unlimited quizzes. Never negative.
func RemainingAttempts(qz quiz.Quiz, completed int64) *int {
	if qz.MaxAttempts == nil {
		return nil
	}
	left := *qz.MaxAttempts - int(completed)
	if left < 0 {
		left = 0
	}
	return &left
}

// BestAttempt returns the completed attempt with the highest score,
// earliest completion winning ties. Nil when none completed yet.
func (e *Engine) BestAttempt(userID, quizID uint) (*quiz.Attempt, error) {
	var a quiz.Attempt
	err := e.db.Where("user_id = ? AND quiz_id = ? AND status = ?",
		userID, quizID, quiz.StatusCompleted).
		Order("score desc, completed_at asc").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// LatestAttempt returns the most recently created attempt regardless of
// status. Nil when the user never started one.
func (e *Engine) LatestAttempt(userID, quizID uint) (*quiz.Attempt, error) {
	var a quiz.Attempt
	err := e.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number desc").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// HasPassed reports whether any completed attempt passed.
func (e *Engine) HasPassed(userID, quizID uint) (bool, error) {
	var n int64
	err := e.db.Model(&quiz.Attempt{}).
		Where("user_id = ? AND quiz_id = ? AND status = ? AND passed = ?",
			userID, quizID, quiz.StatusCompleted, true).
		Count(&n).Error
	return n > 0, err
}

// Standing assembles the eligibility and history snapshot shown next to
// a quiz. Counts can be transiently stale while an expired attempt waits
// for its next interaction to be reclassified.
func (e *Engine) Standing(userID uint, qz quiz.Quiz) (*QuizStanding, error) {
	completed, err := e.CompletedCount(userID, qz.ID)
	if err != nil {
		return nil, err
	}

	passed, err := e.HasPassed(userID, qz.ID)
	if err != nil {
		return nil, err
	}

	best, err := e.BestAttempt(userID, qz.ID)
	if err != nil {
		return nil, err
	}

	latest, err := e.LatestAttempt(userID, qz.ID)
	if err != nil {
		return nil, err
	}

	monthStart := now.New(e.clock.Now()).BeginningOfMonth()
	var thisMonth int64
	if err := e.db.Model(&quiz.Attempt{}).
		Where("user_id = ? AND quiz_id = ? AND started_at >= ?",
			userID, qz.ID, monthStart).
		Count(&thisMonth).Error; err != nil {
		return nil, err
	}

	standing := &QuizStanding{
		CompletedAttempts: completed,
		RemainingAttempts: RemainingAttempts(qz, completed),
		Unlimited:         qz.MaxAttempts == nil,
		HasPassed:         passed,
		AttemptsThisMonth: thisMonth,
	}
	if best != nil {
		standing.BestScore = best.Score
	}
	if latest != nil {
		s := summarize(*latest)
		standing.Latest = &s
	}
	return standing, nil
}

// ListUserAttempts returns the user's attempts at a quiz, newest first.
func (e *Engine) ListUserAttempts(userID, quizID uint) ([]AttemptSummary, error) {
	var attempts []quiz.Attempt
	if err := e.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number desc").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	out := make([]AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, summarize(a))
	}
	return out, nil
}

func summarize(a quiz.Attempt) AttemptSummary {
	s := AttemptSummary{
		AttemptID:      a.ID,
		AttemptNumber:  a.AttemptNumber,
		Status:         a.Status,
		StartedAt:      a.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Score:          a.Score,
		Passed:         a.Passed,
		ElapsedSeconds: a.ElapsedSeconds,
	}
	if a.CompletedAt != nil {
		s.CompletedAt = a.CompletedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return s
}
