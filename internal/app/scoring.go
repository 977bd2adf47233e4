package app

import (
	"math"

	"adaptive-quiz-service/internal/domain"
)

// LocalMaxPossible is the fixed denominator of a local-mode attempt. It assumes one
// particular difficulty mix over ten questions and is lower than the all-Hard maximum of
// 30, so a strong run normalizes above 100. The value is kept as observed.
const LocalMaxPossible = 27

// Scorecard accumulates weighted points over the answered questions of one attempt.
type Scorecard struct {
	score        int
	maxScore     int
	difficulties []domain.Difficulty
}

// Record adds one answered question. maxScore grows whether or not the answer was right.
func (c *Scorecard) Record(d domain.Difficulty, correct bool) int {
	value := PointValue(d)
	awarded := 0
	if correct {
		awarded = value
	}
	c.score += awarded
	c.maxScore += value
	c.difficulties = append(c.difficulties, d)
	return awarded
}

func (c *Scorecard) Score() int    { return c.score }
func (c *Scorecard) MaxScore() int { return c.maxScore }
func (c *Scorecard) Answered() int { return len(c.difficulties) }

// Difficulties returns a copy of the tiers answered so far, in order.
func (c *Scorecard) Difficulties() []domain.Difficulty {
	out := make([]domain.Difficulty, len(c.difficulties))
	copy(out, c.difficulties)
	return out
}

// NormalizeLocal scales a local score against LocalMaxPossible. It is not clamped.
func NormalizeLocal(score int) int {
	return int(math.Round(float64(score) / float64(LocalMaxPossible) * 100))
}

// NormalizeRemote scales backend marks against the length of the backend's question
// sequence, every question counting one mark.
func NormalizeRemote(marks float64, sequenceLength int) int {
	if sequenceLength <= 0 {
		return 0
	}
	return int(math.Round(marks / float64(sequenceLength*1) * 100))
}
