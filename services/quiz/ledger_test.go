package quizService

import (
	"testing"
	"time"

	quiz "learnify/models/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeWith drives one attempt to completion with the given answers.
func completeWith(t *testing.T, engine *Engine, userID uint, qz quiz.Quiz, answers map[uint]string) *ScoredResult {
	t.Helper()
	a, err := engine.StartAttempt(userID, qz.ID)
	require.NoError(t, err)
	for questionID, value := range answers {
		_, err := engine.SubmitAnswer(userID, a.ID, questionID, value, 10)
		require.NoError(t, err)
	}
	result, err := engine.CompleteAttempt(userID, a.ID)
	require.NoError(t, err)
	return result
}

func TestCompletedCountIgnoresAbandoned(t *testing.T) {
	engine, db, clock := newTestEngine(t)
	qz := seedQuiz(t, db, nil)

	// one abandoned, one completed
	_, err := engine.StartAttempt(1, qz.ID)
	require.NoError(t, err)
	clock.Advance(11 * time.Minute)

	completeWith(t, engine, 1, qz, nil)

	n, err := engine.CompletedCount(1, qz.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRemainingAttempts(t *testing.T) {
	unlimited := quiz.Quiz{}
	assert.Nil(t, RemainingAttempts(unlimited, 5))

	limited := quiz.Quiz{MaxAttempts: intPtr(3)}
	require.NotNil(t, RemainingAttempts(limited, 1))
	assert.Equal(t, 2, *RemainingAttempts(limited, 1))

	// never negative
	assert.Equal(t, 0, *RemainingAttempts(limited, 7))
}

func TestBestAttemptPrefersHighestScoreThenEarliest(t *testing.T) {
	engine, db, clock := newTestEngine(t)
	qz := seedQuiz(t, db, nil)

	// 50%, then 100%, then 100% again later
	completeWith(t, engine, 1, qz, map[uint]string{qz.Questions[0].ID: "B"})
	clock.Advance(time.Hour)
	second := completeWith(t, engine, 1, qz, map[uint]string{
		qz.Questions[0].ID: "B",
		qz.Questions[1].ID: "goroutine",
	})
	clock.Advance(time.Hour)
	completeWith(t, engine, 1, qz, map[uint]string{
		qz.Questions[0].ID: "B",
		qz.Questions[1].ID: "goroutine",
	})

	best, err := engine.BestAttempt(1, qz.ID)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, second.AttemptID, best.ID)
	require.NotNil(t, best.Score)
	assert.Equal(t, 100, *best.Score)
}

func TestBestAttemptNilWithoutCompletions(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	qz := seedQuiz(t, db, nil)

	best, err := engine.BestAttempt(1, qz.ID)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestLatestAttemptRegardlessOfStatus(t *testing.T) {
	engine, db, clock := newTestEngine(t)
	qz := seedQuiz(t, db, nil)

	completeWith(t, engine, 1, qz, nil)

	// a later attempt left to expire is still the latest
	started, err := engine.StartAttempt(1, qz.ID)
	require.NoError(t, err)
	clock.Advance(11 * time.Minute)
	_, err = engine.GetResults(1, started.ID)
	assert.ErrorIs(t, err, ErrNotCompleted)

	latest, err := engine.LatestAttempt(1, qz.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, started.ID, latest.ID)
	assert.Equal(t, quiz.StatusAbandoned, latest.Status)
}

func TestHasPassed(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	qz := seedQuiz(t, db, nil)

	passed, err := engine.HasPassed(1, qz.ID)
	require.NoError(t, err)
	assert.False(t, passed)

	// 50% is below the 70% bar
	completeWith(t, engine, 1, qz, map[uint]string{qz.Questions[0].ID: "B"})
	passed, err = engine.HasPassed(1, qz.ID)
	require.NoError(t, err)
	assert.False(t, passed)

	completeWith(t, engine, 1, qz, map[uint]string{
		qz.Questions[0].ID: "B",
		qz.Questions[1].ID: "goroutine",
	})
	passed, err = engine.HasPassed(1, qz.ID)
	require.NoError(t, err)
	assert.True(t, passed)
}

func TestStanding(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	qz := seedQuiz(t, db, intPtr(3))

	completeWith(t, engine, 1, qz, map[uint]string{qz.Questions[0].ID: "B"})

	standing, err := engine.Standing(1, qz)
	require.NoError(t, err)
	assert.EqualValues(t, 1, standing.CompletedAttempts)
	require.NotNil(t, standing.RemainingAttempts)
	assert.Equal(t, 2, *standing.RemainingAttempts)
	assert.False(t, standing.Unlimited)
	assert.False(t, standing.HasPassed)
	require.NotNil(t, standing.BestScore)
	assert.Equal(t, 50, *standing.BestScore)
	assert.EqualValues(t, 1, standing.AttemptsThisMonth)
	require.NotNil(t, standing.Latest)
	assert.Equal(t, quiz.StatusCompleted, standing.Latest.Status)

	// another user's history is independent
	other, err := engine.Standing(2, qz)
	require.NoError(t, err)
	assert.Zero(t, other.CompletedAttempts)
	assert.Nil(t, other.Latest)
}

func TestListUserAttemptsNewestFirst(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	qz := seedQuiz(t, db, nil)

	completeWith(t, engine, 1, qz, nil)
	completeWith(t, engine, 1, qz, map[uint]string{qz.Questions[0].ID: "B"})

	attempts, err := engine.ListUserAttempts(1, qz.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 2, attempts[0].AttemptNumber)
	assert.Equal(t, 1, attempts[1].AttemptNumber)
	require.NotNil(t, attempts[0].Score)
	assert.Equal(t, 50, *attempts[0].Score)
}
