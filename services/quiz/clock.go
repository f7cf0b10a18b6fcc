package quizService

import "time"

// Clock supplies the current time to the engine. All expiry math goes
// through it so tests can simulate the passage of time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
