package quizService

import (
	"errors"
	"math/rand"
	"time"

	quiz "learnify/models/quiz"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Engine runs the attempt state machine. Every transition executes as a
// single transaction with a compare-and-swap on the attempt status, so
// two concurrent requests can never both move the same attempt.
type Engine struct {
	db    *gorm.DB
	clock Clock
}

func NewEngine(db *gorm.DB, clock Clock) *Engine {
	return &Engine{db: db, clock: clock}
}

// SubmitResult is the immediate feedback for one answer submission.
type SubmitResult struct {
	IsCorrect    bool `json:"is_correct"`
	PointsEarned int  `json:"points_earned"`
}

// AnswerDetail is one question's outcome inside a scored result.
// Unanswered questions are included with an empty value.
type AnswerDetail struct {
	QuestionID       uint   `json:"question_id"`
	Prompt           string `json:"prompt"`
	Points           int    `json:"points"`
	Value            string `json:"value"`
	Answered         bool   `json:"answered"`
	IsCorrect        bool   `json:"is_correct"`
	PointsEarned     int    `json:"points_earned"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
	CorrectAnswer    string `json:"correct_answer,omitempty"` // only when the quiz reveals answers
	Explanation      string `json:"explanation,omitempty"`
}

// ScoredResult is the final outcome of a completed attempt.
type ScoredResult struct {
	AttemptID      uint           `json:"attempt_id"`
	QuizID         uint           `json:"quiz_id"`
	AttemptNumber  int            `json:"attempt_number"`
	Score          int            `json:"score"`
	Grade          string         `json:"grade"`
	Passed         bool           `json:"passed"`
	TotalPoints    int            `json:"total_points"`
	EarnedPoints   int            `json:"earned_points"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
	CompletedAt    time.Time      `json:"completed_at"`
	Answers        []AnswerDetail `json:"answers"`
}

// StartAttempt returns the user's current attempt at the quiz, creating
// one when needed. An unexpired in_progress attempt is resumed as-is, so
// calling twice never burns a second attempt. Attempt numbers count up
// from 1 and are never reused, abandoned attempts included.
func (e *Engine) StartAttempt(userID, quizID uint) (*quiz.Attempt, error) {
	qz, err := e.loadQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if !qz.IsActive {
		return nil, ErrQuizInactive
	}

	// The unique (user, quiz, attempt_number) index rejects the loser
	// of a concurrent double-start; the loser loops back and resumes
	// whatever the winner committed.
	for try := 0; try < 3; try++ {
		var current quiz.Attempt
		err = e.db.Where("user_id = ? AND quiz_id = ? AND status = ?",
			userID, quizID, quiz.StatusInProgress).First(&current).Error
		switch {
		case err == nil:
			if expired, err := e.reapExpired(qz, &current); err != nil {
				return nil, err
			} else if !expired {
				// idempotent resume: the caller is not charged a new attempt
				return &current, nil
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}

		var out quiz.Attempt
		err = e.db.Transaction(func(tx *gorm.DB) error {
			if qz.MaxAttempts != nil {
				var completed int64
				if err := tx.Model(&quiz.Attempt{}).
					Where("user_id = ? AND quiz_id = ? AND status = ?",
						userID, quizID, quiz.StatusCompleted).
					Count(&completed).Error; err != nil {
					return err
				}
				if completed >= int64(*qz.MaxAttempts) {
					return ErrAttemptsExhausted
				}
			}

			var lastNumber int
			if err := tx.Model(&quiz.Attempt{}).
				Where("user_id = ? AND quiz_id = ?", userID, quizID).
				Select("COALESCE(MAX(attempt_number), 0)").
				Scan(&lastNumber).Error; err != nil {
				return err
			}

			out = quiz.Attempt{
				UserID:        userID,
				QuizID:        quizID,
				AttemptNumber: lastNumber + 1,
				Status:        quiz.StatusInProgress,
				StartedAt:     e.clock.Now(),
			}
			return tx.Create(&out).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &out, nil
	}
	return nil, err
}

// SubmitAnswer records one answer for an in_progress attempt. A repeat
// submission for the same question overwrites the earlier row in place;
// correctness and points are recomputed on every write.
func (e *Engine) SubmitAnswer(userID, attemptID, questionID uint, value string, timeSpentSeconds int) (*SubmitResult, error) {
	a, qz, err := e.loadAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}
	if expired, err := e.reapExpired(qz, a); err != nil {
		return nil, err
	} else if expired {
		return nil, ErrAttemptExpired
	}
	if a.Status != quiz.StatusInProgress {
		return nil, ErrAttemptNotInProgress
	}

	var res SubmitResult
	err = e.db.Transaction(func(tx *gorm.DB) error {
		// re-assert in_progress inside the transaction; a completion
		// racing this submit serializes behind the row lock and one
		// of the two loses the status check
		if err := e.lockInProgress(tx, a.ID); err != nil {
			return err
		}

		var q quiz.Question
		if err := tx.First(&q, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}
		if q.QuizID != a.QuizID {
			return ErrQuestionNotInQuiz
		}

		correct, points := Evaluate(q, value)
		ans := quiz.Answer{
			AttemptID:        a.ID,
			QuestionID:       q.ID,
			Value:            value,
			IsCorrect:        correct,
			PointsEarned:     points,
			TimeSpentSeconds: timeSpentSeconds,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"value", "is_correct", "points_earned", "time_spent_seconds", "updated_at",
			}),
		}).Create(&ans).Error; err != nil {
			return err
		}

		res = SubmitResult{IsCorrect: correct, PointsEarned: points}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CompleteAttempt finalizes an in_progress attempt: scores it over the
// full question set and flips it to completed. Scores are written once;
// a second call fails with ErrAlreadyCompleted and changes nothing.
func (e *Engine) CompleteAttempt(userID, attemptID uint) (*ScoredResult, error) {
	a, qz, err := e.loadAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case quiz.StatusCompleted:
		return nil, ErrAlreadyCompleted
	case quiz.StatusAbandoned:
		return nil, ErrAttemptNotInProgress
	}

	var out *ScoredResult
	err = e.db.Transaction(func(tx *gorm.DB) error {
		// the guard write locks the attempt row until commit, so no
		// answer can land between the sum below and the status flip
		if err := e.lockInProgress(tx, a.ID); err != nil {
			if errors.Is(err, ErrAttemptNotInProgress) {
				var latest quiz.Attempt
				if readErr := tx.First(&latest, a.ID).Error; readErr != nil {
					return readErr
				}
				if latest.Status == quiz.StatusCompleted {
					return ErrAlreadyCompleted
				}
			}
			return err
		}

		totalPoints, err := quizTotalPoints(tx, a.QuizID)
		if err != nil {
			return err
		}

		var earnedPoints int
		if err := tx.Model(&quiz.Answer{}).
			Where("attempt_id = ?", a.ID).
			Select("COALESCE(SUM(points_earned), 0)").
			Scan(&earnedPoints).Error; err != nil {
			return err
		}

		score := ComputeScore(earnedPoints, totalPoints)
		passed := score >= qz.PassingScore
		completedAt := e.clock.Now()
		elapsed := int(completedAt.Sub(a.StartedAt).Seconds())

		if err := tx.Model(&quiz.Attempt{}).
			Where("id = ?", a.ID).
			Updates(map[string]interface{}{
				"status":          quiz.StatusCompleted,
				"completed_at":    completedAt,
				"score":           score,
				"total_points":    totalPoints,
				"earned_points":   earnedPoints,
				"passed":          passed,
				"elapsed_seconds": elapsed,
			}).Error; err != nil {
			return err
		}

		a.Status = quiz.StatusCompleted
		a.CompletedAt = &completedAt
		a.Score = &score
		a.TotalPoints = totalPoints
		a.EarnedPoints = earnedPoints
		a.Passed = &passed
		a.ElapsedSeconds = elapsed

		out, err = buildResult(tx, *qz, *a)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetResults returns the scored outcome of a completed attempt. An
// expired in_progress attempt is reclassified to abandoned on the way.
func (e *Engine) GetResults(userID, attemptID uint) (*ScoredResult, error) {
	a, qz, err := e.loadAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}
	if _, err := e.reapExpired(qz, a); err != nil {
		return nil, err
	}
	if a.Status != quiz.StatusCompleted {
		return nil, ErrNotCompleted
	}

	var out *ScoredResult
	err = e.db.Transaction(func(tx *gorm.DB) error {
		out, err = buildResult(tx, *qz, *a)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QuestionsForDisplay returns the quiz's questions in presentation order,
// shuffled per request when the quiz randomizes. Order is never
// persisted; evaluation keys on question id.
func (e *Engine) QuestionsForDisplay(qz quiz.Quiz) ([]quiz.Question, error) {
	var qs []quiz.Question
	if err := e.db.Where("quiz_id = ?", qz.ID).
		Order("order_index asc, id asc").Find(&qs).Error; err != nil {
		return nil, err
	}
	for i := range qs {
		qs[i].CorrectAnswer = ""
		qs[i].Explanation = ""
	}
	if qz.RandomizeQuestions {
		rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	}
	return qs, nil
}

// pastDeadline reports whether the attempt ran out of wall-clock time.
func (e *Engine) pastDeadline(qz quiz.Quiz, a quiz.Attempt) bool {
	deadline := a.StartedAt.Add(time.Duration(qz.DurationMinutes) * time.Minute)
	return e.clock.Now().After(deadline)
}

// reapExpired flips an expired in_progress attempt to abandoned. It runs
// outside the caller's transaction so the flip sticks even when the
// calling operation then fails.
func (e *Engine) reapExpired(qz *quiz.Quiz, a *quiz.Attempt) (bool, error) {
	if a.Status != quiz.StatusInProgress || !e.pastDeadline(*qz, *a) {
		return false, nil
	}
	res := e.db.Model(&quiz.Attempt{}).
		Where("id = ? AND status = ?", a.ID, quiz.StatusInProgress).
		Update("status", quiz.StatusAbandoned)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// a concurrent transition won; take whatever it committed
		return false, e.db.First(a, a.ID).Error
	}
	a.Status = quiz.StatusAbandoned
	return true, nil
}

func (e *Engine) loadQuiz(quizID uint) (*quiz.Quiz, error) {
	var qz quiz.Quiz
	if err := e.db.Where("id = ? AND is_deleted = ?", quizID, false).First(&qz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &qz, nil
}

// loadAttempt fetches an attempt with its quiz and enforces ownership.
// Ownership failures stay distinct from not-found on purpose.
func (e *Engine) loadAttempt(userID, attemptID uint) (*quiz.Attempt, *quiz.Quiz, error) {
	var a quiz.Attempt
	if err := e.db.First(&a, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAttemptNotFound
		}
		return nil, nil, err
	}
	if a.UserID != userID {
		return nil, nil, ErrOwnershipMismatch
	}
	var qz quiz.Quiz
	if err := e.db.First(&qz, a.QuizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrQuizNotFound
		}
		return nil, nil, err
	}
	return &a, &qz, nil
}

// lockInProgress takes the attempt's row lock for the rest of the
// transaction and fails unless the attempt is still in_progress. The
// guard uses a status-conditioned write rather than SELECT FOR UPDATE
// so it works on every dialect.
func (e *Engine) lockInProgress(tx *gorm.DB, attemptID uint) error {
	res := tx.Model(&quiz.Attempt{}).
		Where("id = ? AND status = ?", attemptID, quiz.StatusInProgress).
		Update("updated_at", e.clock.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAttemptNotInProgress
	}
	return nil
}

// quizTotalPoints sums point values over every question of the quiz,
// answered or not.
func quizTotalPoints(tx *gorm.DB, quizID uint) (int, error) {
	var total int
	err := tx.Model(&quiz.Question{}).
		Where("quiz_id = ?", quizID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}

// buildResult assembles the scored result over the full question set;
// questions without an answer row still appear in the denominator.
func buildResult(tx *gorm.DB, qz quiz.Quiz, a quiz.Attempt) (*ScoredResult, error) {
	var questions []quiz.Question
	if err := tx.Where("quiz_id = ?", qz.ID).
		Order("order_index asc, id asc").Find(&questions).Error; err != nil {
		return nil, err
	}

	var answers []quiz.Answer
	if err := tx.Where("attempt_id = ?", a.ID).Find(&answers).Error; err != nil {
		return nil, err
	}
	byQuestion := make(map[uint]quiz.Answer, len(answers))
	for _, ans := range answers {
		byQuestion[ans.QuestionID] = ans
	}

	details := make([]AnswerDetail, 0, len(questions))
	for _, q := range questions {
		d := AnswerDetail{
			QuestionID: q.ID,
			Prompt:     q.Prompt,
			Points:     q.Points,
		}
		if ans, ok := byQuestion[q.ID]; ok {
			d.Value = ans.Value
			d.Answered = true
			d.IsCorrect = ans.IsCorrect
			d.PointsEarned = ans.PointsEarned
			d.TimeSpentSeconds = ans.TimeSpentSeconds
		}
		if qz.ShowCorrectAnswers {
			d.CorrectAnswer = q.CorrectAnswer
			d.Explanation = q.Explanation
		}
		details = append(details, d)
	}

	score := 0
	if a.Score != nil {
		score = *a.Score
	}
	passed := false
	if a.Passed != nil {
		passed = *a.Passed
	}

	out := &ScoredResult{
		AttemptID:      a.ID,
		QuizID:         qz.ID,
		AttemptNumber:  a.AttemptNumber,
		Score:          score,
		Grade:          LetterGrade(score),
		Passed:         passed,
		TotalPoints:    a.TotalPoints,
		EarnedPoints:   a.EarnedPoints,
		ElapsedSeconds: a.ElapsedSeconds,
		Answers:        details,
	}
	if a.CompletedAt != nil {
		out.CompletedAt = *a.CompletedAt
	}
	return out, nil
}
