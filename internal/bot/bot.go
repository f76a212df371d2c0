package bot

import (
	"context"
	"fmt"
	"time"

	"godev-candidate-bot/internal/bot/handlers"
	"godev-candidate-bot/internal/bot/middleware"
	"godev-candidate-bot/internal/config"
	"godev-candidate-bot/internal/metrics"
	"godev-candidate-bot/internal/storage/postgres"
	"godev-candidate-bot/internal/storage/redis"
	"godev-candidate-bot/internal/store"
	"godev-candidate-bot/internal/workspace"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Bot represents Telegram bot
type Bot struct {
	bot        *tele.Bot
	store      *postgres.Store
	cache      *redis.Cache
	workspaces *workspace.Registry
	config     *config.Config
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func New(
	cfg *config.Config,
	store *postgres.Store,
	cache *redis.Cache,
	workspaces *workspace.Registry,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot := &Bot{
		bot:        b,
		store:      store,
		cache:      cache,
		workspaces: workspaces,
		config:     cfg,
		metrics:    m,
		logger:     logger,
	}

	workspaces.OnOpen(bot.restoreFilters)

	bot.setupMiddleware()

	bot.registerHandlers()

	logger.Info("bot initialized successfully")

	return bot, nil
}

func (b *Bot) setupMiddleware() {
	b.bot.Use(middleware.Recovery(b.logger))

	b.bot.Use(middleware.Logger(b.logger, b.metrics))

	b.bot.Use(middleware.RateLimit(b.cache, b.logger))
}

// restoreFilters loads saved job filters into a freshly opened workspace.
func (b *Bot) restoreFilters(ctx context.Context, userID int64, ws *workspace.Workspace) {
	filters, err := b.store.GetFiltersMap(ctx, userID)
	if err != nil {
		b.logger.Warn("failed to restore filters", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	if len(filters) == 0 {
		return
	}

	ws.Jobs.SetFilters(func(f *store.JobsFilters) {
		handlers.ApplyFilterMap(f, filters)
	})
}

func (b *Bot) registerHandlers() {
	ctx := &handlers.Context{
		Store:      b.store,
		Cache:      b.cache,
		Workspaces: b.workspaces,
		Config:     b.config,
		Logger:     b.logger,
	}

	b.bot.Handle("/start", handlers.HandleStart(ctx))
	b.bot.Handle("/help", handlers.HandleHelp(ctx))

	b.bot.Handle("/login", handlers.HandleLogin(ctx))
	b.bot.Handle("/register", handlers.HandleRegister(ctx))
	b.bot.Handle("/logout", handlers.HandleLogout(ctx))
	b.bot.Handle("/profile", handlers.HandleProfile(ctx))

	b.bot.Handle("/jobs", handlers.HandleJobs(ctx))
	b.bot.Handle("/search", handlers.HandleSearch(ctx))
	b.bot.Handle("/filter", handlers.HandleFilters(ctx))
	b.bot.Handle("/job", handlers.HandleJobDetails(ctx))
	b.bot.Handle("/apply", handlers.HandleApply(ctx))

	b.bot.Handle("/applications", handlers.HandleApplications(ctx))
	b.bot.Handle("/dashboard", handlers.HandleDashboard(ctx))
	b.bot.Handle("/watch", handlers.HandleWatch(ctx))

	b.bot.Handle("/resumes", handlers.HandleResumes(ctx))
	b.bot.Handle("/resume", handlers.HandleResumeDownload(ctx))
	b.bot.Handle("/delresume", handlers.HandleResumeDelete(ctx))

	b.bot.Handle("/premium", handlers.HandlePremium(ctx))

	b.bot.Handle(tele.OnDocument, handlers.HandleDocument(ctx))

	b.bot.Handle(tele.OnText, handlers.HandleText(ctx))

	b.bot.Handle(tele.OnCallback, handlers.HandleCallback(ctx))

	b.logger.Info("handlers registered")
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting bot...")

	go b.bot.Start()

	<-ctx.Done()

	b.logger.Info("stopping bot...")
	b.bot.Stop()

	return nil
}

func (b *Bot) Stop() {
	b.logger.Info("bot stopped")
	b.bot.Stop()
}

func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}
