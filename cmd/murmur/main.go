// Package main is the entry point for the murmur posting bot. Each process
// performs exactly one publication run — an external trigger (cron, GitHub
// Actions) is expected to start it once per posting interval.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"murmur/internal/ai"
	"murmur/internal/cadence"
	"murmur/internal/catalog"
	"murmur/internal/config"
	"murmur/internal/database"
	"murmur/internal/pool"
	"murmur/internal/publisher"
	"murmur/internal/rotation"
	"murmur/internal/runlock"
	"murmur/internal/runner"
	"murmur/internal/sentiment"
	"murmur/internal/store"
	"murmur/internal/trends"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"ai_provider", cfg.AIProvider,
		"cadence", cfg.Cadence,
		"pool_size", cfg.PoolSize,
	)

	// One run must finish well within a posting interval; the external
	// collaborators carry their own shorter timeouts.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Take the advisory run lock when Redis is configured, so overlapping
	// triggers cannot double-publish against the same store.
	if cfg.RedisAddr != "" {
		redisClient, err := runlock.Connect(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		lock := runlock.New(redisClient, uuid.NewString())
		ok, err := lock.Acquire(ctx)
		if err != nil {
			slog.Error("failed to acquire run lock", "error", err)
			os.Exit(1)
		}
		if !ok {
			slog.Warn("another invocation holds the run lock, exiting")
			return
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				slog.Warn("failed to release run lock", "error", err)
			}
		}()
	}

	// Theme catalog: external YAML file or the built-in list.
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			slog.Error("failed to load theme catalog", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("theme catalog ready", "themes", cat.Len())

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Initialize data stores and core components.
	themeStore := store.NewThemeStore(db)
	postStore := store.NewPostStore(db)

	generator := ai.NewGenerator(aiRegistry)
	engine := rotation.New(themeStore, cat)
	pools := pool.New(postStore, generator, cfg.PoolSize)
	decider := cadence.New(cfg.Cadence)
	topics := trends.NewFetcher(cfg.TrendsFeedURL)
	pub := publisher.NewTwitter(cfg.TwitterToken, cfg.TwitterBaseURL)
	analyzer := sentiment.New(aiRegistry, postStore)

	run := runner.New(engine, pools, postStore, decider, generator, topics, aiRegistry, pub, analyzer)

	// "Today" is the UTC calendar day of the invocation.
	today := time.Now().UTC().Truncate(24 * time.Hour)

	result, err := run.Run(ctx, today)
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	switch result.Outcome {
	case runner.OutcomePublished:
		slog.Info("run complete", "outcome", result.Outcome,
			"theme", result.Theme.Name, "post", result.Post.ID)
	default:
		slog.Info("run complete, nothing published", "outcome", result.Outcome,
			"theme", result.Theme.Name)
	}
}
