package memory

import (
	"context"
	"testing"

	"quizmaster-service/internal/domain"
)

func TestLeaderboardKeepsBestPerUser(t *testing.T) {
	board := NewLeaderboard()
	ctx := context.Background()

	submit := func(user, topic string, score int) {
		t.Helper()
		if err := board.SubmitScore(ctx, domain.ScoreSubmission{Username: user, Topic: topic, Score: score}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	submit("admin", "science", 100)
	submit("admin", "science", 50) // lower, ignored
	submit("guest", "science", 80)

	entries, err := board.TopByTopic(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one champion per topic, got %d", len(entries))
	}
	if entries[0].Username != "admin" || entries[0].Score != 100 {
		t.Fatalf("expected admin/100, got %+v", entries[0])
	}
}

func TestLeaderboardOrdersTopicsByScore(t *testing.T) {
	board := NewLeaderboard()
	ctx := context.Background()

	seeds := []domain.ScoreSubmission{
		{Username: "admin", Topic: "science", Score: 120},
		{Username: "guest", Topic: "history", Score: 300},
		{Username: "Deepali", Topic: "geography", Score: 200},
	}
	for _, s := range seeds {
		if err := board.SubmitScore(ctx, s); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	entries, err := board.TopByTopic(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(entries))
	}
	if entries[0].Topic != "history" || entries[1].Topic != "geography" {
		t.Fatalf("expected score-descending order, got %+v", entries)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	board := NewLeaderboard()
	entries, err := board.TopByTopic(context.Background(), 5)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty board, got %+v", entries)
	}
}
