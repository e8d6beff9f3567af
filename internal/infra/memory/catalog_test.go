package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizmaster-service/internal/domain"
)

type countingLoader struct {
	mu        sync.Mutex
	loads     int
	lists     int
	topics    map[string]domain.Topic
	failLoads bool
}

func (l *countingLoader) ListTopics(_ context.Context) ([]domain.Topic, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lists++
	out := make([]domain.Topic, 0, len(l.topics))
	for _, t := range l.topics {
		out = append(out, domain.Topic{ID: t.ID, Name: t.Name, QuestionCount: len(t.Questions)})
	}
	return out, nil
}

func (l *countingLoader) LoadTopic(_ context.Context, topicID string) (domain.Topic, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	if l.failLoads {
		return domain.Topic{}, errors.New("backing store down")
	}
	t, ok := l.topics[topicID]
	if !ok {
		return domain.Topic{}, domain.ErrTopicNotFound
	}
	return t, nil
}

func sampleLoader() *countingLoader {
	return &countingLoader{topics: map[string]domain.Topic{
		"science": {ID: "science", Name: "Science", Questions: []domain.Question{
			{Text: "q1", Options: []string{"a", "b"}, CorrectIndex: 0},
		}},
	}}
}

func TestCatalogCachesLoadsWithinTTL(t *testing.T) {
	loader := sampleLoader()
	cat := NewCatalog(loader, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		topic, err := cat.LoadTopic(ctx, "science")
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if topic.ID != "science" {
			t.Fatalf("load %d: unexpected topic %q", i, topic.ID)
		}
	}

	loader.mu.Lock()
	defer loader.mu.Unlock()
	if loader.loads != 1 {
		t.Fatalf("expected 1 backing load, got %d", loader.loads)
	}
}

func TestCatalogReloadsAfterExpiry(t *testing.T) {
	loader := sampleLoader()
	cat := NewCatalog(loader, time.Minute)
	now := time.Now()
	cat.clock = func() time.Time { return now }
	ctx := context.Background()

	if _, err := cat.LoadTopic(ctx, "science"); err != nil {
		t.Fatalf("load: %v", err)
	}
	// Jitter extends the TTL by at most 10%, so two minutes is past expiry.
	now = now.Add(2 * time.Minute)
	if _, err := cat.LoadTopic(ctx, "science"); err != nil {
		t.Fatalf("load after expiry: %v", err)
	}

	loader.mu.Lock()
	defer loader.mu.Unlock()
	if loader.loads != 2 {
		t.Fatalf("expected a reload after expiry, got %d loads", loader.loads)
	}
}

func TestCatalogDoesNotCacheErrors(t *testing.T) {
	loader := sampleLoader()
	loader.failLoads = true
	cat := NewCatalog(loader, time.Minute)
	ctx := context.Background()

	if _, err := cat.LoadTopic(ctx, "science"); err == nil {
		t.Fatalf("expected load error")
	}
	loader.mu.Lock()
	loader.failLoads = false
	loader.mu.Unlock()

	if _, err := cat.LoadTopic(ctx, "science"); err != nil {
		t.Fatalf("expected recovery after backing store came back: %v", err)
	}
}

func TestCatalogListCaching(t *testing.T) {
	loader := sampleLoader()
	cat := NewCatalog(loader, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cat.ListTopics(ctx); err != nil {
			t.Fatalf("list %d: %v", i, err)
		}
	}

	loader.mu.Lock()
	defer loader.mu.Unlock()
	if loader.lists != 1 {
		t.Fatalf("expected 1 backing list, got %d", loader.lists)
	}
}

func TestStaticTopicLoaderStripsQuestionsFromList(t *testing.T) {
	loader := NewStaticTopicLoader(map[string]domain.Topic{
		"history": {ID: "history", Name: "History", Questions: []domain.Question{{Text: "q"}}},
		"science": {ID: "science", Name: "Science", Questions: []domain.Question{{Text: "q"}, {Text: "q2"}}},
	})

	list, err := loader.ListTopics(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "history" || list[1].ID != "science" {
		t.Fatalf("expected sorted ids, got %+v", list)
	}
	for _, topic := range list {
		if topic.Questions != nil {
			t.Fatalf("list leaked question content for %q", topic.ID)
		}
		if topic.QuestionCount == 0 {
			t.Fatalf("expected question count for %q", topic.ID)
		}
	}

	if _, err := loader.LoadTopic(context.Background(), "geography"); !errors.Is(err, domain.ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}
