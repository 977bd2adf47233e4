package domain

import (
	"strings"
	"time"
)

// Difficulty is a question tier. The string values double as the backend vocabulary.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every tier in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts the backend words (easy/medium/hard) and the short codes E/M/H.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy", "e":
		return Easy, nil
	case "medium", "m":
		return Medium, nil
	case "hard", "h":
		return Hard, nil
	}
	return "", ErrUnknownDifficulty
}

// Rank orders tiers: Easy < Medium < Hard. Unknown values rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 3
	}
	return 0
}

// Short returns the single-letter code used in difficulty histories.
func (d Difficulty) Short() string {
	switch d {
	case Easy:
		return "E"
	case Medium:
		return "M"
	case Hard:
		return "H"
	}
	return "?"
}

// Valid reports whether d is one of the three tiers.
func (d Difficulty) Valid() bool {
	return d.Rank() > 0
}

// UnknownAnswer marks a question whose correct option has not been revealed yet.
const UnknownAnswer = -1

// Question models a single-choice question. CorrectIndex is UnknownAnswer until checked
// in remote mode.
type Question struct {
	ID           string     `json:"id"`
	Difficulty   Difficulty `json:"difficulty"`
	Prompt       string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctAnswer"`
	HasDiagram   bool       `json:"hasGraph,omitempty"`
}

// OptionIndex returns the index of the option whose text equals text.
func (q Question) OptionIndex(text string) (int, bool) {
	for i, opt := range q.Options {
		if opt == text {
			return i, true
		}
	}
	trimmed := strings.TrimSpace(text)
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == trimmed {
			return i, true
		}
	}
	return 0, false
}

// QuestionBank holds the pools for one piece of content, keyed by tier.
type QuestionBank struct {
	ContentID string                    `json:"contentId"`
	Pools     map[Difficulty][]Question `json:"pools"`
}

// Pool returns the questions of one tier.
func (b QuestionBank) Pool(d Difficulty) []Question {
	return b.Pools[d]
}

// Mode tells which question source drives a session.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// Feedback is what the learner sees after an answer has been checked.
type Feedback struct {
	QuestionID     string     `json:"questionId"`
	Selected       int        `json:"selected"`
	Correct        bool       `json:"correct"`
	CorrectIndex   int        `json:"correctIndex"`
	Awarded        int        `json:"awarded"`
	Score          int        `json:"score"`
	MaxScore       int        `json:"maxScore"`
	NextDifficulty Difficulty `json:"nextDifficulty"`
	Message        string     `json:"message"`
	Last           bool       `json:"last"`
}

// Result summarizes a completed attempt.
type Result struct {
	SessionID     string       `json:"sessionId"`
	Mode          Mode         `json:"mode"`
	Score         int          `json:"score"`
	MaxScore      int          `json:"maxScore"`
	Difficulties  []Difficulty `json:"difficulties"`
	FinalScore    int          `json:"finalScore"`
	PreviousScore *int         `json:"previousScore,omitempty"`
}

// Attempt is a recorded, completed attempt used to build leaderboards.
type Attempt struct {
	ContentID   string    `json:"contentId"`
	SessionID   string    `json:"sessionId"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Score       float64   `json:"score"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// LeaderboardEntry is one learner in the overall leaderboard. SessionIDs and Scores are
// parallel: index i is match i, and a nil element marks a match not attempted.
type LeaderboardEntry struct {
	UserID       string     `json:"userId"`
	UserName     string     `json:"userName"`
	TotalScore   float64    `json:"totalScore"`
	AverageScore float64    `json:"averageScore"`
	AttemptCount int        `json:"attemptCount"`
	SessionIDs   []*string  `json:"sessionId"`
	Scores       []*float64 `json:"scores"`
}

// MatchLeaderboardEntry is one row of a single match's leaderboard.
type MatchLeaderboardEntry struct {
	SessionID string  `json:"sessionId"`
	UserID    string  `json:"userId"`
	UserName  string  `json:"userName"`
	Score     float64 `json:"score"`
}

// LeaderboardView is the match-major reshape of an overall leaderboard.
type LeaderboardView struct {
	Overall []LeaderboardEntry        `json:"overall"`
	Matches [][]MatchLeaderboardEntry `json:"matches"`
}

// MatchCount is the number of per-match leaderboards.
func (v LeaderboardView) MatchCount() int {
	return len(v.Matches)
}

// Match returns the leaderboard of match n (1-based); empty when n is out of range.
func (v LeaderboardView) Match(n int) []MatchLeaderboardEntry {
	if n < 1 || n > len(v.Matches) {
		return []MatchLeaderboardEntry{}
	}
	return v.Matches[n-1]
}

// RankedEntry pairs a display rank with a score row.
type RankedEntry struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"userId"`
	UserName string  `json:"userName"`
	Score    float64 `json:"score"`
}
