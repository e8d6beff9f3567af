package app

import (
	"context"

	"quizmaster-service/internal/domain"
)

// Catalog serves topic metadata and question sets. Implementations must fail
// explicitly for unknown topics rather than returning empty sets.
type Catalog interface {
	ListTopics(ctx context.Context) ([]domain.Topic, error)
	LoadTopic(ctx context.Context, topicID string) (domain.Topic, error)
}

// StatsStore persists per-user aggregates. LoadStats returns a zero value
// for unknown users; SaveStats replaces the record wholesale. The high score
// ratchet is enforced by the engine, not the store.
type StatsStore interface {
	LoadStats(ctx context.Context, userID string) (domain.UserStats, error)
	SaveStats(ctx context.Context, userID string, stats domain.UserStats) error
	LoadHighScore(ctx context.Context, userID, topicID string) (int, error)
	SaveHighScore(ctx context.Context, userID, topicID string, score int) error
}

// Leaderboard is the global score service. SubmitScore is at-most-once;
// TopByTopic returns one champion per topic, ordered by score descending.
type Leaderboard interface {
	SubmitScore(ctx context.Context, sub domain.ScoreSubmission) error
	TopByTopic(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// Identity is an opaque lookup over the built-in user list.
type Identity interface {
	FindByCredentials(id, secret string) (domain.User, error)
	FindByID(id string) (domain.User, error)
}

// AttemptRepository tracks the live engine per user (in-memory, Redis-marked,
// etc). The build function is invoked only when no engine exists yet.
type AttemptRepository interface {
	GetOrCreate(userID string, build func() *Engine) *Engine
	Get(userID string) (*Engine, bool)
	Delete(userID string)
}

// QuizService wires the collaborators together and hands out per-user
// attempt engines.
type QuizService struct {
	catalog  Catalog
	stats    StatsStore
	board    Leaderboard
	identity Identity
	attempts AttemptRepository
	opts     Options
}

func NewQuizService(catalog Catalog, stats StatsStore, board Leaderboard, identity Identity, attempts AttemptRepository, opts Options) *QuizService {
	return &QuizService{
		catalog:  catalog,
		stats:    stats,
		board:    board,
		identity: identity,
		attempts: attempts,
		opts:     opts.withDefaults(),
	}
}

// Login verifies credentials against the built-in user list.
func (s *QuizService) Login(id, secret string) (domain.User, error) {
	return s.identity.FindByCredentials(id, secret)
}

// Topics lists the catalog's topic metadata.
func (s *QuizService) Topics(ctx context.Context) ([]domain.Topic, error) {
	return s.catalog.ListTopics(ctx)
}

// HighScore reads the stored best for one user and topic, for display on the
// start screen.
func (s *QuizService) HighScore(ctx context.Context, userID, topicID string) (int, error) {
	return s.stats.LoadHighScore(ctx, userID, topicID)
}

// OpenAttempt returns the live engine for the user, creating one if needed.
// The user must exist in the identity list.
func (s *QuizService) OpenAttempt(userID string) (*Engine, error) {
	user, err := s.identity.FindByID(userID)
	if err != nil {
		return nil, err
	}
	engine := s.attempts.GetOrCreate(userID, func() *Engine {
		return NewEngine(user, s.catalog, s.stats, s.board, s.opts)
	})
	return engine, nil
}

// Attempt returns the live engine for the user if one exists.
func (s *QuizService) Attempt(userID string) (*Engine, bool) {
	return s.attempts.Get(userID)
}

// CloseAttempt abandons and drops the user's live engine.
func (s *QuizService) CloseAttempt(userID string) {
	if engine, ok := s.attempts.Get(userID); ok {
		engine.Abandon()
	}
	s.attempts.Delete(userID)
}

// DashboardView aggregates everything the dashboard screen shows.
type DashboardView struct {
	User        domain.User               `json:"user"`
	Stats       domain.UserStats          `json:"stats"`
	Level       domain.Level              `json:"level"`
	Badges      []domain.Badge            `json:"badges"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

// Dashboard builds the dashboard view for a user. A leaderboard failure
// degrades to an empty board rather than failing the view.
func (s *QuizService) Dashboard(ctx context.Context, userID string) (DashboardView, error) {
	user, err := s.identity.FindByID(userID)
	if err != nil {
		return DashboardView{}, err
	}
	stats, err := s.stats.LoadStats(ctx, userID)
	if err != nil {
		return DashboardView{}, err
	}
	board, err := s.board.TopByTopic(ctx, s.opts.LeaderboardLimit)
	if err != nil {
		board = nil
	}
	return DashboardView{
		User:        user,
		Stats:       stats,
		Level:       domain.LevelForXP(stats.XP),
		Badges:      domain.BadgeCatalog(),
		Leaderboard: board,
	}, nil
}
