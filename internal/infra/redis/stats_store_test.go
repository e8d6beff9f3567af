package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"quizmaster-service/internal/domain"
)

func TestStatsStoreDefaultsForUnknownUser(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewStatsStore(newClient(mr))
	ctx := context.Background()

	stats, err := store.LoadStats(ctx, "nobody")
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if stats.XP != 0 || stats.TotalQuizzes != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}

	score, err := store.LoadHighScore(ctx, "nobody", "science")
	if err != nil {
		t.Fatalf("load high score: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected zero high score, got %d", score)
	}
}

func TestStatsStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewStatsStore(newClient(mr))
	ctx := context.Background()

	in := domain.UserStats{
		XP:           340,
		TotalQuizzes: 3,
		BestAccuracy: 90,
		History:      []domain.HistoryEntry{{Topic: "Science", Score: 120, Accuracy: 90, Date: "2026-03-10"}},
		Badges:       []string{domain.BadgeFirstQuiz, domain.BadgeSpeedDemon},
	}
	if err := store.SaveStats(ctx, "admin", in); err != nil {
		t.Fatalf("save stats: %v", err)
	}
	if !mr.Exists("quiz:stats:admin") {
		t.Fatalf("expected stats key in redis")
	}

	out, err := store.LoadStats(ctx, "admin")
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if out.XP != 340 || out.BestAccuracy != 90 || len(out.Badges) != 2 {
		t.Fatalf("round trip lost data: %+v", out)
	}
}

func TestHighScoreKeysPerUserAndTopic(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewStatsStore(newClient(mr))
	ctx := context.Background()

	if err := store.SaveHighScore(ctx, "admin", "science", 150); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("quiz:highscore:admin:science") {
		t.Fatalf("expected high score key in redis")
	}

	score, err := store.LoadHighScore(ctx, "admin", "science")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if score != 150 {
		t.Fatalf("expected 150, got %d", score)
	}
	if other, _ := store.LoadHighScore(ctx, "admin", "history"); other != 0 {
		t.Fatalf("expected 0 for other topic, got %d", other)
	}
}
