package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizmaster-service/internal/domain"
)

// TopicLoader fetches catalog content from a backing store (e.g. Postgres).
type TopicLoader interface {
	ListTopics(ctx context.Context) ([]domain.Topic, error)
	LoadTopic(ctx context.Context, topicID string) (domain.Topic, error)
}

// Catalog caches topic documents in Redis and falls back to a loader on
// cache miss. Documents are stored as:
//
//	SET quiz:topic:{topicID} {json}
//	SET quiz:topics          {json list, questions stripped}
//
// Implements app.Catalog.
type Catalog struct {
	client *redis.Client
	loader TopicLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalog(client *redis.Client, loader TopicLoader, ttl time.Duration) *Catalog {
	return &Catalog{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Catalog) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	raw, err := c.client.Get(ctx, c.listKey()).Bytes()
	if err == nil {
		var list []domain.Topic
		if err := json.Unmarshal(raw, &list); err == nil {
			return list, nil
		}
	}

	result, err, _ := c.sf.Do("topics", func() (interface{}, error) {
		list, err := c.loader.ListTopics(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(list); err == nil {
			_ = c.client.Set(ctx, c.listKey(), data, c.ttlWithJitter()).Err()
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Topic), nil
}

func (c *Catalog) LoadTopic(ctx context.Context, topicID string) (domain.Topic, error) {
	raw, err := c.client.Get(ctx, c.topicKey(topicID)).Bytes()
	if err == nil {
		var topic domain.Topic
		if err := json.Unmarshal(raw, &topic); err == nil {
			return topic, nil
		}
	}

	result, err, _ := c.sf.Do(topicID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := c.client.Get(ctx, c.topicKey(topicID)).Bytes()
		if err == nil {
			var topic domain.Topic
			if err := json.Unmarshal(raw, &topic); err == nil {
				return topic, nil
			}
		}

		topic, err := c.loader.LoadTopic(ctx, topicID)
		if err != nil {
			return domain.Topic{}, err
		}
		if data, err := json.Marshal(topic); err == nil {
			_ = c.client.Set(ctx, c.topicKey(topicID), data, c.ttlWithJitter()).Err()
		}
		return topic, nil
	})
	if err != nil {
		return domain.Topic{}, err
	}
	return result.(domain.Topic), nil
}

func (c *Catalog) topicKey(topicID string) string {
	return "quiz:topic:" + topicID
}

func (c *Catalog) listKey() string {
	return "quiz:topics"
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
