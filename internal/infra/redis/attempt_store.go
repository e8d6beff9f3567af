package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizmaster-service/internal/app"
)

// AttemptStore is a Redis-aware implementation of app.AttemptRepository.
// Notes:
//   - Engines are process-local (they own goroutine timers); the local map
//     keeps the live instances.
//   - Redis marks attempt liveness, so an operator can see which users hold
//     an open attempt and stale markers age out with the TTL.
type AttemptStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	local  map[string]*app.Engine
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		client: client,
		ttl:    ttl,
		local:  make(map[string]*app.Engine),
	}
}

func (s *AttemptStore) GetOrCreate(userID string, build func() *app.Engine) *app.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if engine, ok := s.local[userID]; ok {
		return engine
	}
	engine := build()
	s.local[userID] = engine
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(userID), "1", s.ttl).Err()
	return engine
}

func (s *AttemptStore) Get(userID string) (*app.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	engine, ok := s.local[userID]
	return engine, ok
}

func (s *AttemptStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.local[userID]; !ok {
		return
	}
	delete(s.local, userID)
	_ = s.client.Del(context.Background(), s.key(userID)).Err()
}

func (s *AttemptStore) key(userID string) string {
	return "quiz:attempt:" + userID
}
