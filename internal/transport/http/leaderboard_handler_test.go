package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adaptive-quiz-service/internal/domain"
)

func seedAttempts(t *testing.T) http.Handler {
	t.Helper()
	service, attempts := newTestService()
	base := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	for i, a := range []domain.Attempt{
		{SessionID: "s1", UserID: "A", UserName: "Asha", Score: 80},
		{SessionID: "s3", UserID: "B", UserName: "Bala", Score: 90},
		{SessionID: "s2", UserID: "A", UserName: "Asha", Score: 70},
	} {
		a.ContentID = "physics-1"
		a.AttemptedAt = base.Add(time.Duration(i) * time.Minute)
		if err := attempts.RecordAttempt(context.Background(), a); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return NewRouter(service, nil)
}

func TestGenerateLeaderboard(t *testing.T) {
	router := seedAttempts(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard/generate-leaderboard?videoId=physics-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Overall []domain.LeaderboardEntry      `json:"overall"`
			Match1  []domain.MatchLeaderboardEntry `json:"match1"`
			Match2  []domain.MatchLeaderboardEntry `json:"match2"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Data.Overall) != 2 {
		t.Fatalf("unexpected body %s", rec.Body)
	}
	if len(body.Data.Match1) != 2 || len(body.Data.Match2) != 1 || body.Data.Match2[0].SessionID != "s2" {
		t.Fatalf("unexpected matches %+v / %+v", body.Data.Match1, body.Data.Match2)
	}
}

func TestRankedLeaderboard(t *testing.T) {
	router := seedAttempts(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?contentId=physics-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data rankedLeaderboard `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	overall := body.Data.Overall
	if len(overall) != 2 || overall[0].UserID != "A" || overall[0].Score != 150 || overall[1].Rank != 2 {
		t.Fatalf("unexpected overall ranking %+v", overall)
	}
	if len(body.Data.Matches) != 2 || body.Data.Matches[0][0].UserID != "B" || body.Data.Matches[0][0].Rank != 1 {
		t.Fatalf("unexpected match ranking %+v", body.Data.Matches)
	}
}

func TestLeaderboardRequiresContent(t *testing.T) {
	router := seedAttempts(t)
	for _, path := range []string{"/leaderboard", "/leaderboard/generate-leaderboard"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	router := seedAttempts(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
