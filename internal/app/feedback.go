package app

import (
	"math/rand"

	"adaptive-quiz-service/internal/domain"
)

var advancePhrases = []string{
	"Great Job, here is a tougher one",
	"Nice work, let's level up",
	"Well done, time for a harder one",
}

// FeedbackMessage picks the encouragement shown after an answer. Only the plain advance
// (Easy to Medium, Medium to Hard) draws from rnd; every other case is fixed.
func FeedbackMessage(prev, next domain.Difficulty, correct bool, rnd *rand.Rand) string {
	if !correct {
		return "Oops, try this easier one"
	}
	switch {
	case next.Rank() > prev.Rank():
		if rnd == nil {
			return advancePhrases[0]
		}
		return advancePhrases[rnd.Intn(len(advancePhrases))]
	case prev == domain.Hard && next == domain.Hard:
		return "Yay, another one, maintaining your level"
	}
	return "Great job!"
}

// OpeningMessage is shown with the first question.
func OpeningMessage(previousScore *int) string {
	if previousScore != nil {
		return "Ready for your re-attempt!"
	}
	return "Your AI practice is ready"
}
