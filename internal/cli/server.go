package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/config"
	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/infra/memory"
	pgcatalog "quizmaster-service/internal/infra/postgres"
	redisinfra "quizmaster-service/internal/infra/redis"
	transport "quizmaster-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.TopicLoader = memory.NewStaticTopicLoader(sampleTopics())
	if pool != nil {
		loader = pgcatalog.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var catalog app.Catalog
	if redisClient != nil {
		catalog = redisinfra.NewCatalog(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalog(loader, catalogTTL)
	}

	var stats app.StatsStore
	var board app.Leaderboard
	var attempts app.AttemptRepository
	if redisClient != nil {
		stats = redisinfra.NewStatsStore(redisClient)
		board = redisinfra.NewLeaderboard(redisClient)
		attempts = redisinfra.NewAttemptStore(redisClient, redisTTL)
	} else {
		stats = memory.NewStatsStore()
		board = memory.NewLeaderboard()
		attempts = memory.NewAttemptStore()
	}

	identity, err := memory.NewIdentity(memory.DefaultCredentials())
	if err != nil {
		return err
	}

	service := app.NewQuizService(catalog, stats, board, identity, attempts, app.Options{
		QuestionSeconds:  config.IntOr(cfg.Quiz.QuestionSeconds, app.DefaultQuestionSeconds),
		HistoryLimit:     config.IntOr(cfg.Quiz.HistoryLimit, 10),
		LeaderboardLimit: config.IntOr(cfg.Quiz.LeaderboardLimit, 5),
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizmaster service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleTopics provides a minimal catalog for running without Postgres.
func sampleTopics() map[string]domain.Topic {
	return map[string]domain.Topic{
		"science": {
			ID:   "science",
			Name: "Science",
			Icon: "🔬",
			Questions: []domain.Question{
				{
					Text:         "What planet is known as the Red Planet?",
					Options:      []string{"Venus", "Mars", "Jupiter", "Mercury"},
					CorrectIndex: 1,
					Explanation:  "Iron oxide on the surface gives Mars its reddish color.",
				},
				{
					Text:         "What gas do plants absorb from the atmosphere?",
					Options:      []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"},
					CorrectIndex: 2,
					Explanation:  "Photosynthesis converts carbon dioxide and water into glucose.",
				},
				{
					Text:         "What is the chemical symbol for gold?",
					Options:      []string{"Go", "Gd", "Au", "Ag"},
					CorrectIndex: 2,
					Explanation:  "Au comes from aurum, the Latin word for gold.",
				},
			},
		},
		"history": {
			ID:   "history",
			Name: "History",
			Icon: "🏛️",
			Questions: []domain.Question{
				{
					Text:         "In which year did World War II end?",
					Options:      []string{"1943", "1944", "1945", "1946"},
					CorrectIndex: 2,
					Explanation:  "The war ended in 1945 with the surrender of Japan in September.",
				},
				{
					Text:         "Who was the first president of the United States?",
					Options:      []string{"Thomas Jefferson", "George Washington", "John Adams", "Benjamin Franklin"},
					CorrectIndex: 1,
					Explanation:  "George Washington served as the first president from 1789 to 1797.",
				},
			},
		},
	}
}
