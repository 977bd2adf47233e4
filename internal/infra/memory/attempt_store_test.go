package memory

import (
	"context"
	"testing"
	"time"

	"adaptive-quiz-service/internal/domain"
)

func TestAttemptStoreOverall(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	base := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)

	_ = store.RecordAttempt(ctx, domain.Attempt{ContentID: "physics-1", SessionID: "s1", UserID: "u1", UserName: "Alice", Score: 80, AttemptedAt: base})
	_ = store.RecordAttempt(ctx, domain.Attempt{ContentID: "physics-1", SessionID: "s2", UserID: "u2", UserName: "Bob", Score: 90, AttemptedAt: base.Add(time.Minute)})
	_ = store.RecordAttempt(ctx, domain.Attempt{ContentID: "other", SessionID: "s3", UserID: "u1", UserName: "Alice", Score: 10, AttemptedAt: base})

	overall, err := store.Overall(ctx, "physics-1")
	if err != nil {
		t.Fatalf("overall: %v", err)
	}
	if len(overall) != 2 || overall[0].UserID != "u1" || overall[1].TotalScore != 90 {
		t.Fatalf("unexpected overall %+v", overall)
	}

	empty, err := store.Overall(ctx, "unknown")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty leaderboard, got %+v %v", empty, err)
	}
}
