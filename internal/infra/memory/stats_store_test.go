package memory

import (
	"context"
	"testing"

	"quizmaster-service/internal/domain"
)

func TestStatsStoreUnknownUserGetsZeroStats(t *testing.T) {
	store := NewStatsStore()
	stats, err := store.LoadStats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.XP != 0 || stats.TotalQuizzes != 0 || len(stats.History) != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestStatsStoreRoundTrip(t *testing.T) {
	store := NewStatsStore()
	ctx := context.Background()

	in := domain.UserStats{
		XP:           120,
		TotalQuizzes: 2,
		BestAccuracy: 80,
		History:      []domain.HistoryEntry{{Topic: "Science", Score: 70, Accuracy: 80, Date: "2026-03-10"}},
		Badges:       []string{domain.BadgeFirstQuiz},
	}
	if err := store.SaveStats(ctx, "admin", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := store.LoadStats(ctx, "admin")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.XP != 120 || out.BestAccuracy != 80 || len(out.History) != 1 {
		t.Fatalf("round trip lost data: %+v", out)
	}
}

func TestHighScoresAreKeyedPerUserAndTopic(t *testing.T) {
	store := NewStatsStore()
	ctx := context.Background()

	if err := store.SaveHighScore(ctx, "admin", "science", 100); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveHighScore(ctx, "admin", "history", 200); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got, _ := store.LoadHighScore(ctx, "admin", "science"); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got, _ := store.LoadHighScore(ctx, "admin", "history"); got != 200 {
		t.Fatalf("expected 200, got %d", got)
	}
	if got, _ := store.LoadHighScore(ctx, "guest", "science"); got != 0 {
		t.Fatalf("expected 0 for other user, got %d", got)
	}
}
