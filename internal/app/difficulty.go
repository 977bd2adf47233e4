package app

import "adaptive-quiz-service/internal/domain"

// NextDifficulty steps one tier up after a correct answer and one tier down after a
// wrong one, saturating at Hard and Easy. Unknown tiers are treated as Easy.
func NextDifficulty(current domain.Difficulty, wasCorrect bool) domain.Difficulty {
	if wasCorrect {
		switch current {
		case domain.Easy:
			return domain.Medium
		case domain.Medium, domain.Hard:
			return domain.Hard
		}
		return domain.Medium
	}
	switch current {
	case domain.Hard:
		return domain.Medium
	}
	return domain.Easy
}

// PointValue is the weight of a question of tier d: Easy 1, Medium 2, Hard 3.
func PointValue(d domain.Difficulty) int {
	switch d {
	case domain.Medium:
		return 2
	case domain.Hard:
		return 3
	}
	return 1
}
