package memory

import (
	"context"
	"sort"
	"sync"

	"quizmaster-service/internal/domain"
)

// Leaderboard keeps per-topic champions in process memory. Implements
// app.Leaderboard.
type Leaderboard struct {
	mu     sync.RWMutex
	topics map[string]map[string]int // topicID -> username -> best score
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{
		topics: make(map[string]map[string]int),
	}
}

func (l *Leaderboard) SubmitScore(_ context.Context, sub domain.ScoreSubmission) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	scores, ok := l.topics[sub.Topic]
	if !ok {
		scores = make(map[string]int)
		l.topics[sub.Topic] = scores
	}
	if sub.Score > scores[sub.Username] {
		scores[sub.Username] = sub.Score
	}
	return nil
}

// TopByTopic returns the best score per topic, descending, truncated to
// limit. Score ties within a topic are broken arbitrarily.
func (l *Leaderboard) TopByTopic(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]domain.LeaderboardEntry, 0, len(l.topics))
	for topic, scores := range l.topics {
		best := domain.LeaderboardEntry{Topic: topic, Score: -1}
		for username, score := range scores {
			if score > best.Score {
				best.Username = username
				best.Score = score
			}
		}
		if best.Score >= 0 {
			entries = append(entries, best)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Topic < entries[j].Topic
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
