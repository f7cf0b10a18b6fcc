package quizService

import (
	"strings"

	quiz "learnify/models/quiz"
)

// FuzzyThreshold is the minimum character similarity percentage for a
// text answer to count as correct.
const FuzzyThreshold = 70.0

// Evaluate checks a submitted value against a question and returns the
// verdict plus points earned. Full points or zero; no partial credit.
// It is pure: no database, no clock.
func Evaluate(q quiz.Question, submitted string) (bool, int) {
	var correct bool
	switch q.Type {
	case quiz.TypeMultipleChoice:
		// opaque exact equality: the caller decides whether values
		// are option ids or indexes, and no normalization is applied
		correct = submitted == q.CorrectAnswer
	case quiz.TypeTrueFalse:
		correct = strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(q.CorrectAnswer))
	case quiz.TypeFillBlank, quiz.TypeShortAnswer:
		correct = matchText(submitted, q.CorrectAnswer)
	default:
		correct = false
	}

	if correct {
		return true, q.Points
	}
	return false, 0
}

// matchText compares case-insensitively and whitespace-trimmed against
// every acceptable answer (the key may hold alternates separated by
// the AnswerDelimiter), falling back to fuzzy matching.
func matchText(submitted, answerKey string) bool {
	got := strings.ToLower(strings.TrimSpace(submitted))
	if got == "" {
		return false
	}
	for _, want := range strings.Split(answerKey, quiz.AnswerDelimiter) {
		want = strings.ToLower(strings.TrimSpace(want))
		if want == "" {
			continue
		}
		if got == want {
			return true
		}
		if Similarity(got, want) >= FuzzyThreshold {
			return true
		}
	}
	return false
}

// Similarity returns a character-level similarity percentage between
// two strings: 100 * (1 - editDistance/maxLen).
func Similarity(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	longest := len(ar)
	if len(br) > longest {
		longest = len(br)
	}
	if longest == 0 {
		return 100
	}
	dist := editDistance(ar, br)
	return 100 * (1 - float64(dist)/float64(longest))
}

// editDistance computes Levenshtein distance with unit costs.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			diag := prev
			prev = row[j]

			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			best := diag + cost // substitution
			if del := row[j] + 1; del < best {
				best = del
			}
			if ins := row[j-1] + 1; ins < best {
				best = ins
			}
			row[j] = best
		}
	}
	return row[len(b)]
}
