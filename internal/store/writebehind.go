package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pinboard/internal/canvas"
)

const (
	DefaultDelay = time.Second
	minRetry     = 100 * time.Millisecond
)

// WriteBehind is a canvas.Sink that batches mutations for a Backend.
// Mutations for the same entity coalesce, the latest winning, and a batch is
// written once no new mutation has arrived for the delay window.
type WriteBehind struct {
	backend Backend
	delay   time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	pending map[string]canvas.Mutation
	order   []string
	kick    chan struct{}

	// applyMu keeps Run and Flush from writing batches concurrently.
	applyMu sync.Mutex
}

type WriteBehindOption func(*WriteBehind)

// WithDelay sets the coalescing window. Zero writes as soon as Run sees a kick.
func WithDelay(d time.Duration) WriteBehindOption {
	return func(w *WriteBehind) {
		if d >= 0 {
			w.delay = d
		}
	}
}

func WithLogger(l zerolog.Logger) WriteBehindOption {
	return func(w *WriteBehind) {
		w.log = l
	}
}

func NewWriteBehind(backend Backend, opts ...WriteBehindOption) *WriteBehind {
	w := &WriteBehind{
		backend: backend,
		delay:   DefaultDelay,
		log:     zerolog.Nop(),
		pending: make(map[string]canvas.Mutation),
		kick:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Record queues m. It never blocks.
func (w *WriteBehind) Record(m canvas.Mutation) {
	w.mu.Lock()
	key := m.Key()
	if _, ok := w.pending[key]; ok {
		w.dropKeyLocked(key)
	}
	w.pending[key] = m
	w.order = append(w.order, key)
	w.mu.Unlock()

	w.signal()
}

// Pending is the number of entities waiting to be written.
func (w *WriteBehind) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Run writes batches until ctx is done. Failed batches are logged and
// retried after the next window. Call Flush after Run returns to write what
// is left.
func (w *WriteBehind) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.kick:
		}

		if !w.settle(ctx) {
			return ctx.Err()
		}

		if err := w.Flush(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Error().Err(err).Int("pending", w.Pending()).Msg("save failed, will retry")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(max(w.delay, minRetry)):
			}
			w.signal()
		}
	}
}

// settle waits until the delay passes with no new mutation. It returns
// false when ctx ends first.
func (w *WriteBehind) settle(ctx context.Context) bool {
	if w.delay <= 0 {
		return true
	}
	timer := time.NewTimer(w.delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-w.kick:
			timer.Reset(w.delay)
		case <-timer.C:
			return true
		}
	}
}

// Flush writes everything pending now. On failure the batch is put back,
// except entities recorded again in the meantime, and the error is returned.
func (w *WriteBehind) Flush(ctx context.Context) error {
	w.applyMu.Lock()
	defer w.applyMu.Unlock()

	batch := w.take()
	if len(batch) == 0 {
		return nil
	}
	if err := w.backend.Apply(ctx, batch); err != nil {
		w.restore(batch)
		return fmt.Errorf("apply %d mutations: %w", len(batch), err)
	}
	w.log.Debug().Int("mutations", len(batch)).Msg("saved")
	return nil
}

func (w *WriteBehind) take() []canvas.Mutation {
	w.mu.Lock()
	defer w.mu.Unlock()
	batch := make([]canvas.Mutation, 0, len(w.order))
	for _, key := range w.order {
		batch = append(batch, w.pending[key])
	}
	w.pending = make(map[string]canvas.Mutation)
	w.order = nil
	return batch
}

// restore puts a failed batch back ahead of anything recorded since.
func (w *WriteBehind) restore(batch []canvas.Mutation) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var order []string
	for _, m := range batch {
		key := m.Key()
		if _, newer := w.pending[key]; newer {
			continue
		}
		w.pending[key] = m
		order = append(order, key)
	}
	w.order = append(order, w.order...)
}

func (w *WriteBehind) dropKeyLocked(key string) {
	for i, k := range w.order {
		if k == key {
			w.order = append(w.order[:i], w.order[i+1:]...)
			return
		}
	}
}

func (w *WriteBehind) signal() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}
