package store

import (
	"context"
	"sync"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/metrics"

	"go.uber.org/zap"
)

// State is a point-in-time copy of a Resource.
type State[R any] struct {
	Data        R
	Loading     bool
	Error       string
	FetchedOnce bool
}

// LoadFunc fetches the resource for q.
type LoadFunc[Q comparable, R any] func(ctx context.Context, q Q) (R, error)

type flight[Q comparable] struct {
	query  Q
	seq    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// Resource is a remote value loaded for a query. A fetch for the query already
// in flight joins it; a fetch for a different query supersedes it, cancelling
// the older request and discarding its response.
type Resource[Q comparable, R any] struct {
	mu        sync.Mutex
	name      string
	fallback  string
	load      LoadFunc[Q, R]
	onSuccess func(q Q, data R)
	state     State[R]
	seq       uint64
	inflight  *flight[Q]
	actions   int
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

type ResourceConfig[Q comparable, R any] struct {
	Name string
	Load LoadFunc[Q, R]

	// Fallback is the error text used when the server gave none.
	Fallback string

	// OnSuccess runs under the resource lock for the response that is kept.
	OnSuccess func(q Q, data R)

	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

func NewResource[Q comparable, R any](cfg ResourceConfig[Q, R]) *Resource[Q, R] {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resource[Q, R]{
		name:      cfg.Name,
		fallback:  cfg.Fallback,
		load:      cfg.Load,
		onSuccess: cfg.OnSuccess,
		logger:    logger.With(zap.String("store", cfg.Name)),
		metrics:   cfg.Metrics,
	}
}

// Fetch loads q and waits for the outcome. It never returns an error; failures
// land in State.Error and previous data is kept.
func (r *Resource[Q, R]) Fetch(ctx context.Context, q Q) {
	r.mu.Lock()
	if cur := r.inflight; cur != nil {
		if cur.query == q {
			r.mu.Unlock()
			r.metrics.StoreFetch(r.name, "joined")
			select {
			case <-cur.done:
			case <-ctx.Done():
			}
			return
		}
		cur.cancel()
		r.logger.Debug("superseding in-flight fetch", zap.Uint64("seq", cur.seq))
	}

	r.seq++
	loadCtx, cancel := context.WithCancel(ctx)
	f := &flight[Q]{query: q, seq: r.seq, cancel: cancel, done: make(chan struct{})}
	r.inflight = f
	r.state.Loading = true
	r.state.Error = ""
	r.mu.Unlock()

	defer close(f.done)
	defer cancel()

	data, err := r.load(loadCtx, q)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seq != f.seq {
		r.metrics.StoreFetch(r.name, "stale")
		r.logger.Debug("discarding superseded response", zap.Uint64("seq", f.seq))
		return
	}

	r.inflight = nil
	r.state.Loading = r.actions > 0

	if err != nil {
		r.state.Error = godev.Message(err, r.fallback)
		r.metrics.StoreFetch(r.name, "error")
		r.logger.Warn("fetch failed", zap.Error(err))
		return
	}

	r.state.Data = data
	r.state.FetchedOnce = true
	if r.onSuccess != nil {
		r.onSuccess(q, data)
	}
	r.metrics.StoreFetch(r.name, "ok")
}

// Do runs a one-shot action (upload, delete) with the loading flag raised.
// On success patch is applied to the data; on failure the error is both
// recorded and returned.
func (r *Resource[Q, R]) Do(ctx context.Context, fallback string, action func(ctx context.Context) (func(R) R, error)) error {
	r.mu.Lock()
	r.actions++
	r.state.Loading = true
	r.state.Error = ""
	r.mu.Unlock()

	patch, err := action(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.actions--
	r.state.Loading = r.inflight != nil || r.actions > 0

	if err != nil {
		r.state.Error = godev.Message(err, fallback)
		return err
	}

	if patch != nil {
		r.state.Data = patch(r.state.Data)
	}
	return nil
}

// Mutate applies fn to the current data.
func (r *Resource[Q, R]) Mutate(fn func(R) R) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Data = fn(r.state.Data)
}

// SetError records a message without touching data.
func (r *Resource[Q, R]) SetError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Error = msg
}

func (r *Resource[Q, R]) Snapshot() State[R] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func project[R, T any](st State[R], fn func(R) T) State[T] {
	return State[T]{
		Data:        fn(st.Data),
		Loading:     st.Loading,
		Error:       st.Error,
		FetchedOnce: st.FetchedOnce,
	}
}

// MarkFetched records that data reflects the server even without a fetch.
func (r *Resource[Q, R]) MarkFetched() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.FetchedOnce = true
}
