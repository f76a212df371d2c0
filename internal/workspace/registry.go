package workspace

import (
	"context"
	"strconv"
	"sync"
	"time"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/metrics"
	"godev-candidate-bot/internal/storage"

	"github.com/ecodeclub/ekit/syncx"
	"go.uber.org/zap"
)

const (
	namespacePrefix = "tg:"
	openLockShards  = 64
)

type entry struct {
	ws       *Workspace
	lastUsed time.Time
}

// Registry lazily opens one workspace per Telegram user. Everything a
// workspace holds is persisted, so idle ones can be dropped and reopened.
type Registry struct {
	mu      sync.Mutex
	items   map[int64]*entry
	opening *syncx.SegmentKeysLock
	port    storage.Port
	client  *godev.Client
	opts    Options
	onOpen  func(ctx context.Context, userID int64, w *Workspace)
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewRegistry(port storage.Port, client *godev.Client, opts Options, logger *zap.Logger, m *metrics.Metrics) *Registry {
	now := time.Now
	if opts.Clock != nil {
		now = opts.Clock
	}

	return &Registry{
		items:   make(map[int64]*entry),
		opening: syncx.NewSegmentKeysLock(openLockShards),
		port:    port,
		client:  client,
		opts:    opts,
		now:     now,
		logger:  logger,
		metrics: m,
	}
}

// OnOpen registers fn to run once for every newly opened workspace.
func (r *Registry) OnOpen(fn func(ctx context.Context, userID int64, w *Workspace)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onOpen = fn
}

// Get returns the user's workspace, opening it on first use. Opening runs
// outside the registry lock; only callers for the same user wait on it.
func (r *Registry) Get(ctx context.Context, userID int64) *Workspace {
	if w, ok := r.lookup(userID); ok {
		return w
	}

	id := namespacePrefix + strconv.FormatInt(userID, 10)
	r.opening.Lock(id)
	defer r.opening.Unlock(id)

	if w, ok := r.lookup(userID); ok {
		return w
	}

	w := New(id, storage.Namespace(r.port, id), r.client, r.opts, r.logger, r.metrics)
	w.Open(ctx)

	r.mu.Lock()
	onOpen := r.onOpen
	r.mu.Unlock()
	if onOpen != nil {
		onOpen(ctx, userID, w)
	}

	r.mu.Lock()
	r.items[userID] = &entry{ws: w, lastUsed: r.now()}
	r.mu.Unlock()

	return w
}

func (r *Registry) lookup(userID int64) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[userID]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.ws, true
}

// Peek returns the workspace only if it is already open.
func (r *Registry) Peek(userID int64) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[userID]
	if !ok {
		return nil, false
	}
	return e.ws, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Evict drops workspaces not used for idle and reports how many went.
func (r *Registry) Evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	evicted := 0
	for userID, e := range r.items {
		if e.lastUsed.Before(cutoff) {
			delete(r.items, userID)
			evicted++
		}
	}
	return evicted
}

// RunEviction calls Evict every interval until ctx is done.
func (r *Registry) RunEviction(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(idle); n > 0 {
				r.logger.Debug("evicted idle workspaces", zap.Int("count", n), zap.Int("open", r.Len()))
			}
		}
	}
}
