package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"quizmaster-service/internal/domain"
)

// Leaderboard stores global scores in one sorted set per topic:
//
//	ZADD GT quiz:leaderboard:{topic} {score} {username}
//	SADD    quiz:leaderboard:topics  {topic}
//
// GT keeps each member's best score, so the ratchet holds without a
// read-modify-write. Implements app.Leaderboard.
type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

func (l *Leaderboard) SubmitScore(ctx context.Context, sub domain.ScoreSubmission) error {
	pipe := l.client.Pipeline()
	pipe.ZAddGT(ctx, l.topicKey(sub.Topic), redis.Z{
		Score:  float64(sub.Score),
		Member: sub.Username,
	})
	pipe.SAdd(ctx, l.topicsKey(), sub.Topic)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	return nil
}

// TopByTopic returns the champion of each topic, ordered by score
// descending, truncated to limit.
func (l *Leaderboard) TopByTopic(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	topics, err := l.client.SMembers(ctx, l.topicsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list leaderboard topics: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(topics))
	for _, topic := range topics {
		top, err := l.client.ZRevRangeWithScores(ctx, l.topicKey(topic), 0, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("top score for %s: %w", topic, err)
		}
		if len(top) == 0 {
			continue
		}
		username, _ := top[0].Member.(string)
		entries = append(entries, domain.LeaderboardEntry{
			Username: username,
			Topic:    topic,
			Score:    int(top[0].Score),
		})
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

func (l *Leaderboard) topicKey(topic string) string {
	return "quiz:leaderboard:" + topic
}

func (l *Leaderboard) topicsKey() string {
	return "quiz:leaderboard:topics"
}
