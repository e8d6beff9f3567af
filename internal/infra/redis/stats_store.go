package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quizmaster-service/internal/domain"
)

// StatsStore keeps user aggregates and per-topic high scores in Redis:
//
//	SET quiz:stats:{userID}                 {json}
//	SET quiz:highscore:{userID}:{topicID}   {int}
//
// Stats are replaced wholesale on save; the engine owns the read-modify-write
// cycle. Implements app.StatsStore.
type StatsStore struct {
	client *redis.Client
}

func NewStatsStore(client *redis.Client) *StatsStore {
	return &StatsStore{client: client}
}

func (s *StatsStore) LoadStats(ctx context.Context, userID string) (domain.UserStats, error) {
	raw, err := s.client.Get(ctx, s.statsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.UserStats{}, nil
	}
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("load stats: %w", err)
	}
	var stats domain.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return domain.UserStats{}, fmt.Errorf("unmarshal stats: %w", err)
	}
	return stats, nil
}

func (s *StatsStore) SaveStats(ctx context.Context, userID string, stats domain.UserStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := s.client.Set(ctx, s.statsKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

func (s *StatsStore) LoadHighScore(ctx context.Context, userID, topicID string) (int, error) {
	score, err := s.client.Get(ctx, s.highScoreKey(userID, topicID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load high score: %w", err)
	}
	return score, nil
}

func (s *StatsStore) SaveHighScore(ctx context.Context, userID, topicID string, score int) error {
	if err := s.client.Set(ctx, s.highScoreKey(userID, topicID), score, 0).Err(); err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}

func (s *StatsStore) statsKey(userID string) string {
	return "quiz:stats:" + userID
}

func (s *StatsStore) highScoreKey(userID, topicID string) string {
	return "quiz:highscore:" + userID + ":" + topicID
}
