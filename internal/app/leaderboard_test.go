package app

import (
	"testing"
	"time"

	"adaptive-quiz-service/internal/domain"
)

func TestReshapeBuildsPerMatchBoards(t *testing.T) {
	overall := []domain.LeaderboardEntry{
		{UserID: "a", UserName: "Alice", SessionIDs: strs("s1", "s2"), Scores: nums(80, 70)},
		{UserID: "b", UserName: "Bob", SessionIDs: strs("s3"), Scores: nums(90)},
	}
	view := Reshape(overall)

	if view.MatchCount() != 2 {
		t.Fatalf("expected 2 matches, got %d", view.MatchCount())
	}
	first := view.Match(1)
	if len(first) != 2 {
		t.Fatalf("expected 2 rows in match 1, got %+v", first)
	}
	if first[0].UserID != "a" || first[0].SessionID != "s1" || first[0].Score != 80 {
		t.Fatalf("unexpected first row %+v", first[0])
	}
	if first[1].UserID != "b" || first[1].SessionID != "s3" || first[1].Score != 90 {
		t.Fatalf("unexpected second row %+v", first[1])
	}
	second := view.Match(2)
	if len(second) != 1 || second[0].UserID != "a" || second[0].SessionID != "s2" || second[0].Score != 70 {
		t.Fatalf("unexpected match 2 %+v", second)
	}
	if len(view.Match(3)) != 0 {
		t.Fatalf("expected empty match 3")
	}
	if len(view.Overall) != 2 || view.Overall[0].UserID != "a" {
		t.Fatalf("overall list should keep input order: %+v", view.Overall)
	}
}

func TestReshapeSkipsGapsAndEmptyUsers(t *testing.T) {
	overall := []domain.LeaderboardEntry{
		{UserID: "a", SessionIDs: []*string{nil, ptr("s2")}, Scores: []*float64{nil, num(50)}},
		{UserID: "z", SessionIDs: []*string{}, Scores: []*float64{}},
	}
	view := Reshape(overall)
	if view.MatchCount() != 2 {
		t.Fatalf("expected 2 matches, got %d", view.MatchCount())
	}
	if len(view.Match(1)) != 0 {
		t.Fatalf("expected gap at match 1, got %+v", view.Match(1))
	}
	if rows := view.Match(2); len(rows) != 1 || rows[0].SessionID != "s2" {
		t.Fatalf("unexpected match 2 %+v", rows)
	}
	if len(view.Overall) != 2 {
		t.Fatalf("user without attempts must stay in overall list")
	}

	empty := Reshape(nil)
	if empty.MatchCount() != 0 || empty.Overall == nil {
		t.Fatalf("unexpected empty reshape %+v", empty)
	}
}

func TestRankingIsStableOnTies(t *testing.T) {
	rows := []domain.MatchLeaderboardEntry{
		{UserID: "a", Score: 70},
		{UserID: "b", Score: 90},
		{UserID: "c", Score: 70},
		{UserID: "d", Score: 95},
	}
	ranked := RankMatch(rows)
	wantOrder := []string{"d", "b", "a", "c"}
	for i, id := range wantOrder {
		if ranked[i].UserID != id || ranked[i].Rank != i+1 {
			t.Fatalf("rank %d: got %+v, want %s", i+1, ranked[i], id)
		}
	}

	overall := RankOverall([]domain.LeaderboardEntry{
		{UserID: "x", TotalScore: 10},
		{UserID: "y", TotalScore: 10},
	})
	if overall[0].UserID != "x" || overall[1].Rank != 2 {
		t.Fatalf("unexpected overall ranking %+v", overall)
	}
}

func TestAggregateAttempts(t *testing.T) {
	base := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	attempts := []domain.Attempt{
		{SessionID: "s2", UserID: "a", UserName: "Alice", Score: 70, AttemptedAt: base.Add(2 * time.Minute)},
		{SessionID: "s1", UserID: "a", UserName: "Alice", Score: 80, AttemptedAt: base},
		{SessionID: "s3", UserID: "b", UserName: "Bob", Score: 90, AttemptedAt: base.Add(time.Minute)},
	}
	overall := AggregateAttempts(attempts)
	if len(overall) != 2 || overall[0].UserID != "a" || overall[1].UserID != "b" {
		t.Fatalf("unexpected users %+v", overall)
	}
	alice := overall[0]
	if alice.AttemptCount != 2 || alice.TotalScore != 150 || alice.AverageScore != 75 {
		t.Fatalf("unexpected totals %+v", alice)
	}
	if *alice.SessionIDs[0] != "s1" || *alice.Scores[1] != 70 {
		t.Fatalf("sessions not in attempt order")
	}

	view := Reshape(overall)
	if len(view.Match(1)) != 2 || len(view.Match(2)) != 1 {
		t.Fatalf("unexpected reshape of aggregated attempts %+v", view.Matches)
	}
}

func ptr(s string) *string   { return &s }
func num(f float64) *float64 { return &f }

func strs(values ...string) []*string {
	out := make([]*string, len(values))
	for i := range values {
		out[i] = ptr(values[i])
	}
	return out
}

func nums(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = num(values[i])
	}
	return out
}
