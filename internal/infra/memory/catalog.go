package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizmaster-service/internal/domain"
)

// TopicLoader fetches catalog content from a backing store (Postgres, files).
type TopicLoader interface {
	ListTopics(ctx context.Context) ([]domain.Topic, error)
	LoadTopic(ctx context.Context, topicID string) (domain.Topic, error)
}

// Catalog caches topic documents with TTL to avoid repeated backing-store
// hits. Implements app.Catalog.
type Catalog struct {
	loader TopicLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu     sync.RWMutex
	topics map[string]cachedTopic
	list   []domain.Topic
	listAt time.Time
}

type cachedTopic struct {
	topic     domain.Topic
	expiresAt time.Time
}

func NewCatalog(loader TopicLoader, ttl time.Duration) *Catalog {
	return &Catalog{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		topics: make(map[string]cachedTopic),
	}
}

func (c *Catalog) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	now := c.clock()

	c.mu.RLock()
	if c.list != nil && c.listAt.After(now) {
		list := c.list
		c.mu.RUnlock()
		return list, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("topics", func() (interface{}, error) {
		list, err := c.loader.ListTopics(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.list = list
		c.listAt = c.clock().Add(c.ttlWithJitter())
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Topic), nil
}

func (c *Catalog) LoadTopic(ctx context.Context, topicID string) (domain.Topic, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.topics[topicID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.topic, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(topicID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.topics[topicID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.topic, nil
		}
		c.mu.RUnlock()

		topic, err := c.loader.LoadTopic(ctx, topicID)
		if err != nil {
			return domain.Topic{}, err
		}

		c.mu.Lock()
		c.topics[topicID] = cachedTopic{
			topic:     topic,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return topic, nil
	})
	if err != nil {
		return domain.Topic{}, err
	}
	return result.(domain.Topic), nil
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticTopicLoader serves topics from an in-memory map (tests/demos).
type StaticTopicLoader struct {
	topics map[string]domain.Topic
}

func NewStaticTopicLoader(topics map[string]domain.Topic) *StaticTopicLoader {
	return &StaticTopicLoader{topics: topics}
}

func (l *StaticTopicLoader) ListTopics(_ context.Context) ([]domain.Topic, error) {
	list := make([]domain.Topic, 0, len(l.topics))
	for _, topic := range l.topics {
		list = append(list, domain.Topic{
			ID:            topic.ID,
			Name:          topic.Name,
			Icon:          topic.Icon,
			QuestionCount: len(topic.Questions),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (l *StaticTopicLoader) LoadTopic(_ context.Context, topicID string) (domain.Topic, error) {
	if topic, ok := l.topics[topicID]; ok {
		topic.QuestionCount = len(topic.Questions)
		return topic, nil
	}
	return domain.Topic{}, domain.ErrTopicNotFound
}
