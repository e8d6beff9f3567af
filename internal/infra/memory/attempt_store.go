package memory

import (
	"sync"

	"quizmaster-service/internal/app"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
type AttemptStore struct {
	mu      sync.RWMutex
	engines map[string]*app.Engine
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		engines: make(map[string]*app.Engine),
	}
}

func (s *AttemptStore) GetOrCreate(userID string, build func() *app.Engine) *app.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if engine, ok := s.engines[userID]; ok {
		return engine
	}
	engine := build()
	s.engines[userID] = engine
	return engine
}

func (s *AttemptStore) Get(userID string) (*app.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	engine, ok := s.engines[userID]
	return engine, ok
}

func (s *AttemptStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.engines, userID)
}
