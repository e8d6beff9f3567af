package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizmaster-service/internal/domain"
)

// CatalogLoader loads topic JSONB documents from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

// ListTopics returns topic metadata with question sets stripped.
func (l *CatalogLoader) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM topics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		var topic domain.Topic
		if err := json.Unmarshal(raw, &topic); err != nil {
			return nil, fmt.Errorf("unmarshal topic: %w", err)
		}
		topic.QuestionCount = len(topic.Questions)
		topic.Questions = nil
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

func (l *CatalogLoader) LoadTopic(ctx context.Context, topicID string) (domain.Topic, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM topics WHERE id=$1`, topicID).Scan(&raw)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("load topic: %w", domain.ErrTopicNotFound)
	}
	var topic domain.Topic
	if err := json.Unmarshal(raw, &topic); err != nil {
		return domain.Topic{}, fmt.Errorf("unmarshal topic: %w", err)
	}
	topic.QuestionCount = len(topic.Questions)
	return topic, nil
}
