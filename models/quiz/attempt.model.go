package quiz

import (
	"time"

	"gorm.io/gorm"
)

// Attempt statuses. in_progress is the only non-terminal state.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusAbandoned  = "abandoned"
)

// Attempt represents one user's single timed pass at a quiz.
// Attempt numbers are 1-based per (user, quiz) and never reused,
// abandoned attempts included.
type Attempt struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_attempts_user_quiz_number,priority:1"`
	QuizID         uint       `json:"quiz_id" gorm:"not null;uniqueIndex:idx_attempts_user_quiz_number,priority:2"`
	AttemptNumber  int        `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempts_user_quiz_number,priority:3"`
	Status         string     `json:"status" gorm:"type:varchar(16);not null;default:'in_progress';index"`
	StartedAt      time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Score          *int       `json:"score,omitempty"` // percentage 0-100, set once on completion
	TotalPoints    int        `json:"total_points"`
	EarnedPoints   int        `json:"earned_points"`
	Passed         *bool      `json:"passed,omitempty"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
}

// Answer belongs to exactly one attempt and one question; the unique
// index makes submissions upsert instead of duplicating rows.
type Answer struct {
	gorm.Model
	AttemptID        uint   `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question,priority:1"`
	QuestionID       uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question,priority:2"`
	Value            string `json:"value" gorm:"type:text"`
	IsCorrect        bool   `json:"is_correct" gorm:"default:false"`
	PointsEarned     int    `json:"points_earned" gorm:"default:0"`
	TimeSpentSeconds int    `json:"time_spent_seconds" gorm:"default:0"`
}
