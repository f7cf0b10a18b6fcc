package quizService

import (
	"testing"

	quiz "learnify/models/quiz"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateMultipleChoice(t *testing.T) {
	q := quiz.Question{Type: quiz.TypeMultipleChoice, CorrectAnswer: "B", Points: 5}

	tests := []struct {
		name      string
		submitted string
		correct   bool
		points    int
	}{
		{name: "exact match", submitted: "B", correct: true, points: 5},
		{name: "surrounding whitespace is not stripped", submitted: " B ", correct: false, points: 0},
		{name: "wrong option", submitted: "A", correct: false, points: 0},
		{name: "case matters for option ids", submitted: "b", correct: false, points: 0},
		{name: "empty", submitted: "", correct: false, points: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			correct, points := Evaluate(q, tc.submitted)
			assert.Equal(t, tc.correct, correct)
			assert.Equal(t, tc.points, points)
		})
	}
}

func TestEvaluateTrueFalse(t *testing.T) {
	q := quiz.Question{Type: quiz.TypeTrueFalse, CorrectAnswer: "true", Points: 2}

	tests := []struct {
		name      string
		submitted string
		correct   bool
	}{
		{name: "lowercase", submitted: "true", correct: true},
		{name: "uppercase", submitted: "TRUE", correct: true},
		{name: "mixed case with spaces", submitted: " True ", correct: true},
		{name: "wrong", submitted: "false", correct: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			correct, points := Evaluate(q, tc.submitted)
			assert.Equal(t, tc.correct, correct)
			if tc.correct {
				assert.Equal(t, 2, points)
			} else {
				assert.Zero(t, points)
			}
		})
	}
}

func TestEvaluateTextAnswers(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		submitted string
		correct   bool
	}{
		{name: "exact", key: "goroutine", submitted: "goroutine", correct: true},
		{name: "case and whitespace folded", key: "goroutine", submitted: "  GoRoutine ", correct: true},
		{name: "alternate answer", key: "colour|color", submitted: "color", correct: true},
		{name: "second alternate folded", key: "colour|color", submitted: " COLOUR ", correct: true},
		{name: "near miss accepted", key: "photosynthesis", submitted: "fotosynthesis", correct: true},
		{name: "plural accepted", key: "cat", submitted: "cats", correct: true},
		{name: "below threshold", key: "cat", submitted: "cut", correct: false},
		{name: "unrelated", key: "mitochondria", submitted: "nucleus", correct: false},
		{name: "empty submission", key: "anything", submitted: "   ", correct: false},
	}

	for _, typ := range []string{quiz.TypeFillBlank, quiz.TypeShortAnswer} {
		for _, tc := range tests {
			t.Run(typ+"/"+tc.name, func(t *testing.T) {
				q := quiz.Question{Type: typ, CorrectAnswer: tc.key, Points: 3}
				correct, points := Evaluate(q, tc.submitted)
				assert.Equal(t, tc.correct, correct)
				if tc.correct {
					assert.Equal(t, 3, points)
				} else {
					assert.Zero(t, points)
				}
			})
		}
	}
}

func TestEvaluateUnknownType(t *testing.T) {
	q := quiz.Question{Type: "essay", CorrectAnswer: "anything", Points: 10}
	correct, points := Evaluate(q, "anything")
	assert.False(t, correct)
	assert.Zero(t, points)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 100, Similarity("same", "same"), 0.001)
	assert.InDelta(t, 100, Similarity("", ""), 0.001)
	assert.InDelta(t, 0, Similarity("abc", ""), 0.001)
	// one substitution over four characters
	assert.InDelta(t, 75, Similarity("cats", "bats"), 0.001)
	// one insertion over four characters
	assert.InDelta(t, 75, Similarity("cat", "cats"), 0.001)
}
