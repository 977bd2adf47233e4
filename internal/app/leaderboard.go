package app

import (
	"sort"

	"adaptive-quiz-service/internal/domain"
)

// Reshape turns the user-major overall leaderboard into one leaderboard per match.
// Match m lists, in input order, every user with a session id at position m. The overall
// list is passed through untouched.
func Reshape(overall []domain.LeaderboardEntry) domain.LeaderboardView {
	matchCount := 0
	for _, user := range overall {
		if len(user.SessionIDs) > matchCount {
			matchCount = len(user.SessionIDs)
		}
	}

	matches := make([][]domain.MatchLeaderboardEntry, matchCount)
	for m := 0; m < matchCount; m++ {
		rows := make([]domain.MatchLeaderboardEntry, 0, len(overall))
		for _, user := range overall {
			if m >= len(user.SessionIDs) || user.SessionIDs[m] == nil {
				continue
			}
			var score float64
			if m < len(user.Scores) && user.Scores[m] != nil {
				score = *user.Scores[m]
			}
			rows = append(rows, domain.MatchLeaderboardEntry{
				SessionID: *user.SessionIDs[m],
				UserID:    user.UserID,
				UserName:  user.UserName,
				Score:     score,
			})
		}
		matches[m] = rows
	}

	if overall == nil {
		overall = []domain.LeaderboardEntry{}
	}
	return domain.LeaderboardView{Overall: overall, Matches: matches}
}

// RankOverall orders users by total score, highest first. Ties keep input order.
func RankOverall(overall []domain.LeaderboardEntry) []domain.RankedEntry {
	ranked := make([]domain.RankedEntry, 0, len(overall))
	for _, user := range overall {
		ranked = append(ranked, domain.RankedEntry{UserID: user.UserID, UserName: user.UserName, Score: user.TotalScore})
	}
	return assignRanks(ranked)
}

// RankMatch orders one match's rows by score, highest first. Ties keep input order.
func RankMatch(rows []domain.MatchLeaderboardEntry) []domain.RankedEntry {
	ranked := make([]domain.RankedEntry, 0, len(rows))
	for _, row := range rows {
		ranked = append(ranked, domain.RankedEntry{UserID: row.UserID, UserName: row.UserName, Score: row.Score})
	}
	return assignRanks(ranked)
}

func assignRanks(entries []domain.RankedEntry) []domain.RankedEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// AggregateAttempts builds overall leaderboard records from completed attempts. Users
// appear in the order of their first attempt; each user's sessions keep attempt order.
func AggregateAttempts(attempts []domain.Attempt) []domain.LeaderboardEntry {
	ordered := make([]domain.Attempt, len(attempts))
	copy(ordered, attempts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].AttemptedAt.Before(ordered[j].AttemptedAt)
	})

	index := make(map[string]int)
	entries := make([]domain.LeaderboardEntry, 0)
	for _, a := range ordered {
		i, ok := index[a.UserID]
		if !ok {
			i = len(entries)
			index[a.UserID] = i
			entries = append(entries, domain.LeaderboardEntry{
				UserID:     a.UserID,
				UserName:   a.UserName,
				SessionIDs: []*string{},
				Scores:     []*float64{},
			})
		}
		entry := &entries[i]
		sessionID := a.SessionID
		score := a.Score
		entry.SessionIDs = append(entry.SessionIDs, &sessionID)
		entry.Scores = append(entry.Scores, &score)
		entry.TotalScore += score
		entry.AttemptCount++
		if a.UserName != "" {
			entry.UserName = a.UserName
		}
	}
	for i := range entries {
		if entries[i].AttemptCount > 0 {
			entries[i].AverageScore = entries[i].TotalScore / float64(entries[i].AttemptCount)
		}
	}
	return entries
}
