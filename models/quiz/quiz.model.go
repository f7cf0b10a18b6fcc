package quiz

import "gorm.io/gorm"

// Question types supported by the engine
const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
	TypeFillBlank      = "fill_blank"
	TypeShortAnswer    = "short_answer"
)

// AnswerDelimiter separates alternate acceptable answers inside CorrectAnswer
const AnswerDelimiter = "|"

// Quiz represents a gradeable unit attached to a lesson
type Quiz struct {
	gorm.Model
	UserID             uint   `json:"user_id" gorm:"index;not null"` // quiz owner/author
	LessonID           uint   `json:"lesson_id" gorm:"index"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	DurationMinutes    int    `json:"duration_minutes" gorm:"default:10"`
	PassingScore       int    `json:"passing_score" gorm:"default:70"` // percentage 0-100
	MaxAttempts        *int   `json:"max_attempts"`                    // nil = unlimited
	RandomizeQuestions bool   `json:"randomize_questions" gorm:"default:false"`
	ShowCorrectAnswers bool   `json:"show_correct_answers" gorm:"default:true"`
	Difficulty         string `json:"difficulty" gorm:"default:'medium'"`
	IsActive           bool   `json:"is_active" gorm:"default:true"`
	IsDeleted          bool   `gorm:"default:false"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

// Question belongs to exactly one quiz
type Question struct {
	gorm.Model
	QuizID        uint   `json:"quiz_id" gorm:"index;not null"`
	Type          string `json:"type" gorm:"type:varchar(32);not null"`
	Prompt        string `json:"prompt" gorm:"type:text"`
	Options       string `json:"options" gorm:"type:text"` // JSON array, for choice types
	CorrectAnswer string `json:"-" gorm:"type:text"`       // never serialized to students
	Explanation   string `json:"explanation,omitempty" gorm:"type:text"`
	Points        int    `json:"points" gorm:"default:1"`
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
}
