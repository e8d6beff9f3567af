package memory

import (
	"testing"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

func TestAttemptStoreLifecycle(t *testing.T) {
	store := NewAttemptStore()
	catalog := NewCatalog(NewStaticTopicLoader(nil), 0)
	build := func() *app.Engine {
		return app.NewEngine(domain.User{ID: "admin"}, catalog, NewStatsStore(), NewLeaderboard(), app.Options{})
	}

	if _, ok := store.Get("admin"); ok {
		t.Fatalf("expected no engine before creation")
	}

	first := store.GetOrCreate("admin", build)
	second := store.GetOrCreate("admin", build)
	if first != second {
		t.Fatalf("expected the same engine for repeat opens")
	}

	got, ok := store.Get("admin")
	if !ok || got != first {
		t.Fatalf("expected stored engine, got %v/%v", got, ok)
	}

	store.Delete("admin")
	if _, ok := store.Get("admin"); ok {
		t.Fatalf("expected engine gone after delete")
	}
	store.Delete("admin") // idempotent
}
