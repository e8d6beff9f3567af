package memory

import (
	"context"
	"sync"

	"quizmaster-service/internal/domain"
)

// StatsStore keeps user aggregates and high scores in process memory.
// Implements app.StatsStore.
type StatsStore struct {
	mu    sync.RWMutex
	stats map[string]domain.UserStats
	highs map[string]int // userID + "\x00" + topicID
}

func NewStatsStore() *StatsStore {
	return &StatsStore{
		stats: make(map[string]domain.UserStats),
		highs: make(map[string]int),
	}
}

func (s *StatsStore) LoadStats(_ context.Context, userID string) (domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats[userID], nil
}

func (s *StatsStore) SaveStats(_ context.Context, userID string, stats domain.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[userID] = stats
	return nil
}

func (s *StatsStore) LoadHighScore(_ context.Context, userID, topicID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highs[highKey(userID, topicID)], nil
}

func (s *StatsStore) SaveHighScore(_ context.Context, userID, topicID string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highs[highKey(userID, topicID)] = score
	return nil
}

func highKey(userID, topicID string) string {
	return userID + "\x00" + topicID
}
