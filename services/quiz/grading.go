package quizService

import "math"

// ComputeScore returns the percentage score for earned points over total
// points, rounded to the nearest integer. A quiz with no gradeable points
// scores zero.
func ComputeScore(earnedPoints, totalPoints int) int {
	if totalPoints <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(earnedPoints) / float64(totalPoints)))
}

// LetterGrade maps a percentage score onto a letter grade.
func LetterGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
