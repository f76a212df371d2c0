package quota

import (
	"context"
	"sync"
	"time"

	"godev-candidate-bot/internal/metrics"
	"godev-candidate-bot/internal/storage"

	"go.uber.org/zap"
)

const (
	DailyLimitFree = 1
	StorageKey     = "godev:quick-apply-quota"

	dateLayout = "2006-01-02"
)

// Record is the persisted daily counter.
type Record struct {
	DateKey string `json:"dateKey"`
	Count   int    `json:"count"`
}

type Plan struct {
	IsPremium bool
}

type Decision struct {
	OK        bool
	Remaining int
}

type Option func(*Limiter)

func WithLimit(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.limit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) { l.metrics = m }
}

// Limiter enforces the free plan's daily quick-apply quota on the client.
// It never returns errors: unreadable state counts as nothing used today.
type Limiter struct {
	mu      sync.Mutex
	port    storage.Port
	limit   int
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func New(port storage.Port, logger *zap.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		port:   port,
		limit:  DailyLimitFree,
		now:    time.Now,
		logger: logger,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// today is the server's local date; the day rolls over at server midnight.
func (l *Limiter) today() string {
	return l.now().Local().Format(dateLayout)
}

// read never fails; a stale day reads as zero without touching storage.
func (l *Limiter) read(ctx context.Context) Record {
	today := l.today()

	var rec Record
	if !storage.ReadJSON(ctx, l.logger, l.port, StorageKey, &rec) {
		return Record{DateKey: today}
	}

	if rec.DateKey != today || rec.Count < 0 {
		return Record{DateKey: today}
	}

	return rec
}

// CanApply must be called before the application is submitted.
func (l *Limiter) CanApply(ctx context.Context, plan Plan) Decision {
	if plan.IsPremium {
		l.metrics.Quota("premium")
		return Decision{OK: true, Remaining: l.limit}
	}

	l.mu.Lock()
	rec := l.read(ctx)
	l.mu.Unlock()

	remaining := l.limit - rec.Count
	if remaining <= 0 {
		l.metrics.Quota("denied")
		l.logger.Debug("quick apply quota exhausted",
			zap.String("date", rec.DateKey),
			zap.Int("count", rec.Count),
		)
		return Decision{OK: false, Remaining: 0}
	}

	l.metrics.Quota("allowed")
	return Decision{OK: true, Remaining: remaining}
}

// RegisterApply must be called only after a successful submission.
func (l *Limiter) RegisterApply(ctx context.Context, plan Plan) {
	if plan.IsPremium {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.read(ctx)
	rec.Count++

	if !storage.WriteJSON(ctx, l.logger, l.port, StorageKey, rec) {
		l.logger.Warn("failed to persist quick apply quota",
			zap.String("date", rec.DateKey),
			zap.Int("count", rec.Count),
		)
	}
	l.metrics.Quota("registered")
}

func (l *Limiter) Limit() int {
	return l.limit
}
