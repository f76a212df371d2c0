package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/bot"
	"godev-candidate-bot/internal/bot/scheduler"
	"godev-candidate-bot/internal/config"
	"godev-candidate-bot/internal/logger"
	"godev-candidate-bot/internal/metrics"
	"godev-candidate-bot/internal/models"
	"godev-candidate-bot/internal/storage"
	"godev-candidate-bot/internal/storage/file"
	"godev-candidate-bot/internal/storage/memory"
	"godev-candidate-bot/internal/storage/postgres"
	"godev-candidate-bot/internal/storage/redis"
	"godev-candidate-bot/internal/workspace"

	"go.uber.org/zap"
)

const evictionInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting GoDev candidate bot",
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Duration("check_interval", cfg.CheckInterval),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	m := metrics.New()
	go func() {
		if err := metrics.NewServer(cfg.MetricsAddr, m, log).Start(ctx); err != nil {
			log.Error("metrics server stopped with error", zap.Error(err))
		}
	}()

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	migrateCtx, migrateCancel := context.WithTimeout(ctx, 30*time.Second)
	err = store.Migrate(migrateCtx)
	migrateCancel()
	if err != nil {
		log.Fatal("failed to migrate PostgreSQL", zap.Error(err))
	}

	log.Info("PostgreSQL connected successfully")

	log.Info("connecting to Redis...")
	cache, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	log.Info("Redis connected successfully")

	port, err := clientStatePort(cfg, store, cache, log)
	if err != nil {
		log.Fatal("failed to open client state storage", zap.Error(err))
	}

	client := godev.New(cfg.APIBaseURL, cfg.APITimeout, log,
		godev.WithMaxRetries(cfg.APIMaxRetries),
		godev.WithMetrics(m),
	)
	log.Info("GoDev API client created")

	registry := workspace.NewRegistry(port, client, workspace.Options{
		JobsLimit:         cfg.JobsPageSize,
		ApplicationsLimit: cfg.JobsPageSize,
		QuotaLimit:        cfg.QuickApplyDailyLimit,
	}, log, m)

	go registry.RunEviction(ctx, evictionInterval, cfg.WorkspaceIdleTTL)

	syncPremium(ctx, store, cfg.PremiumUserIDs, log)

	log.Info("initializing Telegram bot...")
	tgBot, err := bot.New(cfg, store, cache, registry, m, log)
	if err != nil {
		log.Fatal("failed to create bot", zap.Error(err))
	}

	log.Info("Telegram bot initialized successfully")

	log.Info("starting status watcher...")
	watcher := scheduler.New(
		tgBot.GetBot(),
		store,
		scheduler.RegistrySource{Workspaces: registry},
		cfg.CheckInterval,
		m,
		log,
	)

	go watcher.Start(ctx)

	log.Info("bot is running...")
	log.Info("press Ctrl+C to stop")

	if err := tgBot.Start(ctx); err != nil {
		log.Error("bot stopped with error", zap.Error(err))
	}

	log.Info("shutting down gracefully...")

	log.Info("bot stopped")
}

// clientStatePort picks where candidate sessions and quota records live.
func clientStatePort(cfg *config.Config, store *postgres.Store, cache *redis.Cache, log *zap.Logger) (storage.Port, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Warn("client state is kept in memory and is lost on restart")
		return memory.New(), nil
	case config.StorageFile:
		return file.New(cfg.StorageDir, log)
	case config.StorageRedis:
		return cache.Port(redis.ClientStatePrefix), nil
	case config.StoragePostgres:
		return store.KV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

// syncPremium grants the premium plan to the configured Telegram users.
func syncPremium(ctx context.Context, store *postgres.Store, ids []int64, log *zap.Logger) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, id := range ids {
		if _, err := store.GetOrCreateUser(dbCtx, &models.User{ID: id}); err != nil {
			log.Error("failed to create premium user", zap.Int64("user_id", id), zap.Error(err))
			continue
		}
		if err := store.SetPremium(dbCtx, id, true); err != nil {
			log.Error("failed to grant premium", zap.Int64("user_id", id), zap.Error(err))
		}
	}

	if len(ids) > 0 {
		log.Info("premium users synced", zap.Int("count", len(ids)))
	}
}
