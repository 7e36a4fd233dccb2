package game

import (
	"math"

	"quizzing/internal/domain"
)

// Outcome is the result of scoring a single question.
type Outcome struct {
	Correct bool
	Points  int
}

// Score awards time-weighted points for an answer. An empty selection (time
// expired with nothing chosen) and a wrong or unknown option both score zero.
// A correct answer earns round(secondsLeft/timeLimit * points), so answering
// with full time remaining earns the question's full point value and answering
// at the last instant earns nothing. Pure function, no side effects.
func Score(q domain.Question, selectedOptionID string, secondsLeft int) Outcome {
	if selectedOptionID == "" {
		return Outcome{}
	}
	opt, ok := q.Option(selectedOptionID)
	if !ok || !opt.Correct {
		return Outcome{}
	}

	limit := q.TimeLimitSeconds
	if limit < 1 {
		limit = 1
	}
	left := secondsLeft
	if left < 0 {
		left = 0
	}
	if left > q.TimeLimitSeconds {
		left = q.TimeLimitSeconds
	}
	points := int(math.Round(float64(left) / float64(limit) * float64(q.Points)))
	return Outcome{Correct: true, Points: points}
}
