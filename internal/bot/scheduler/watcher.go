package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/bot/utils"
	"godev-candidate-bot/internal/metrics"
	"godev-candidate-bot/internal/models"
	"godev-candidate-bot/internal/workspace"

	"github.com/ecodeclub/ekit/slice"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

const (
	watchPageLimit = 50
	maxWatchPages  = 20
	startDelay     = 30 * time.Second
	runTimeout     = 5 * time.Minute
	userTimeout    = time.Minute
)

type Store interface {
	GetUsersToWatch(ctx context.Context, interval time.Duration) ([]models.User, error)
	GetWatchedApplications(ctx context.Context, userID int64) ([]models.WatchedApplication, error)
	UpsertWatchedApplications(ctx context.Context, userID int64, apps []models.WatchedApplication) error
	PruneWatchedApplications(ctx context.Context, userID int64, keepIDs []string) (int64, error)
	UpdateLastCheck(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, userID int64) error
}

type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Source lists a user's applications with that user's GoDev session.
// complete is false when only part of the list could be read.
type Source interface {
	Applications(ctx context.Context, userID int64) (apps []godev.Application, complete bool, err error)
}

type applicationLister interface {
	ListApplications(ctx context.Context, q godev.ApplicationsQuery) (*godev.Page[godev.Application], error)
}

// ErrNoSession means the user is not logged in to GoDev; such users are skipped.
var ErrNoSession = errors.New("no godev session")

// RegistrySource reads applications through the users' workspaces.
type RegistrySource struct {
	Workspaces *workspace.Registry
}

func (s RegistrySource) Applications(ctx context.Context, userID int64) ([]godev.Application, bool, error) {
	ws := s.Workspaces.Get(ctx, userID)
	if !ws.Session.IsAuthenticated() {
		return nil, false, ErrNoSession
	}

	return listAllApplications(ctx, ws.Client(), maxWatchPages)
}

// listAllApplications walks the pages in applied order, which does not shift
// when a status changes mid-walk. It stops after maxPages.
func listAllApplications(ctx context.Context, lister applicationLister, maxPages int) ([]godev.Application, bool, error) {
	var apps []godev.Application
	for page := 1; page <= maxPages; page++ {
		result, err := lister.ListApplications(ctx, godev.ApplicationsQuery{
			Page:      page,
			Limit:     watchPageLimit,
			SortBy:    godev.SortByAppliedAt,
			SortOrder: godev.SortAsc,
		})
		if err != nil {
			return nil, false, err
		}
		apps = append(apps, result.Items...)

		if page >= result.Meta.TotalPages || len(result.Items) == 0 {
			return apps, true, nil
		}
	}
	return apps, false, nil
}

// StatusWatcher notifies users when the status of one of their applications changes.
type StatusWatcher struct {
	sender      Sender
	store       Store
	source      Source
	interval    time.Duration
	concurrency int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func New(sender Sender, store Store, source Source, interval time.Duration, m *metrics.Metrics, logger *zap.Logger) *StatusWatcher {
	return &StatusWatcher{
		sender:      sender,
		store:       store,
		source:      source,
		interval:    interval,
		concurrency: 4,
		metrics:     m,
		logger:      logger,
	}
}

func (w *StatusWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("status watcher started",
		zap.Duration("interval", w.interval),
	)

	select {
	case <-ctx.Done():
		return
	case <-time.After(startDelay):
	}
	w.CheckAll(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("status watcher stopped")
			return
		case <-ticker.C:
			w.CheckAll(ctx)
		}
	}
}

// CheckAll runs one watch pass over every due user.
func (w *StatusWatcher) CheckAll(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	users, err := w.store.GetUsersToWatch(runCtx, w.interval)
	if err != nil {
		w.logger.Error("failed to get users to watch", zap.Error(err))
		return
	}

	if len(users) == 0 {
		w.logger.Debug("no users to watch")
		return
	}

	w.logger.Info("checking applications for users", zap.Int("count", len(users)))

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(w.concurrency)

	for _, user := range users {
		userID := user.ID
		g.Go(func() error {
			userCtx, cancel := context.WithTimeout(gctx, userTimeout)
			defer cancel()

			if err := w.checkUser(userCtx, userID); err != nil {
				w.logger.Error("failed to check applications for user",
					zap.Int64("user_id", userID),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	_ = g.Wait()

	w.logger.Info("finished application check for all users")
}

func (w *StatusWatcher) checkUser(ctx context.Context, userID int64) error {
	apps, complete, err := w.source.Applications(ctx, userID)
	if errors.Is(err, ErrNoSession) {
		w.logger.Debug("user has no session, skipping", zap.Int64("user_id", userID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}

	watched, err := w.store.GetWatchedApplications(ctx, userID)
	if err != nil {
		return fmt.Errorf("get watched applications: %w", err)
	}

	current := slice.Map(apps, func(_ int, app godev.Application) models.WatchedApplication {
		return models.WatchedApplication{
			UserID:        userID,
			ApplicationID: app.ID,
			Status:        string(app.Status),
			JobTitle:      app.Job.Title,
		}
	})

	// an unsent change keeps its old status so it is retried next pass
	unsent := make(map[string]string)
	for _, change := range DiffStatuses(watched, current) {
		err := w.notify(userID, change)
		if errors.Is(err, tele.ErrBlockedByUser) {
			w.logger.Info("user blocked the bot, deleting", zap.Int64("user_id", userID))
			return w.store.DeleteUser(ctx, userID)
		}
		if err != nil {
			w.logger.Warn("failed to send status change",
				zap.Int64("user_id", userID),
				zap.String("application_id", change.ApplicationID),
				zap.Error(err),
			)
			unsent[change.ApplicationID] = change.From
		}
	}

	for i := range current {
		if from, ok := unsent[current[i].ApplicationID]; ok {
			current[i].Status = from
		}
	}

	if err := w.store.UpsertWatchedApplications(ctx, userID, current); err != nil {
		return fmt.Errorf("upsert watched applications: %w", err)
	}

	// rows missing from a partial list may still exist
	if complete {
		keep := slice.Map(current, func(_ int, a models.WatchedApplication) string { return a.ApplicationID })
		if _, err := w.store.PruneWatchedApplications(ctx, userID, keep); err != nil {
			return fmt.Errorf("prune watched applications: %w", err)
		}
	}

	if err := w.store.UpdateLastCheck(ctx, userID); err != nil {
		return fmt.Errorf("update last check: %w", err)
	}

	return nil
}

func (w *StatusWatcher) notify(userID int64, change models.StatusChange) error {
	_, err := w.sender.Send(&tele.User{ID: userID}, utils.FormatStatusChange(change), tele.ModeMarkdownV2)
	switch {
	case err == nil:
		w.metrics.Notification("sent")
	case errors.Is(err, tele.ErrBlockedByUser):
		w.metrics.Notification("blocked")
	default:
		w.metrics.Notification("error")
	}
	return err
}

// DiffStatuses reports applications whose status differs from the watched one.
// Applications seen for the first time are not reported.
func DiffStatuses(watched, current []models.WatchedApplication) []models.StatusChange {
	previous := slice.ToMap(watched, func(a models.WatchedApplication) string { return a.ApplicationID })

	var changes []models.StatusChange
	for _, app := range current {
		prev, ok := previous[app.ApplicationID]
		if !ok || prev.Status == app.Status {
			continue
		}
		changes = append(changes, models.StatusChange{
			ApplicationID: app.ApplicationID,
			JobTitle:      app.JobTitle,
			From:          prev.Status,
			To:            app.Status,
		})
	}
	return changes
}
