package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/marcus/stillwater/internal/prefs"
)

type pendingWrite struct {
	value string
	seq   uint64
}

// writer persists preference values on a single goroutine.
//
// Values are queued per key. Queuing a key that is already pending replaces
// the unstarted value, and the loop always starts the oldest pending entry
// next, so two writes to one key never overlap and a key's stored value is
// always the most recently queued one.
type writer struct {
	store  prefs.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	pending  map[string]pendingWrite
	inflight string // key being written, "" when idle
	known    map[string]string
	waiters  []chan struct{}
	started  bool
	stopping bool

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

func newWriter(store prefs.Store, logger *slog.Logger) *writer {
	ctx, cancel := context.WithCancel(context.Background())
	return &writer{
		store:   store,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]pendingWrite),
		known:   make(map[string]string),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// start launches the loop. It does nothing once stop has been called,
// since stop would never close quit for a loop started after it.
func (w *writer) start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopping {
		return
	}
	w.started = true
	go w.loop()
	w.signal()
}

// seed records a value read from the store, unless the key has been
// written this session.
func (w *writer) seed(key, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[key]; ok || w.inflight == key {
		return
	}
	if _, ok := w.known[key]; !ok {
		w.known[key] = value
	}
}

// enqueue queues key=value for writing. It reports false when the write was
// skipped because the store already holds value and nothing else is queued
// or running for key.
func (w *writer) enqueue(key, value string, seq uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopping {
		return false
	}
	_, queued := w.pending[key]
	if !queued && w.inflight != key {
		if v, ok := w.known[key]; ok && v == value {
			return false
		}
	}
	w.pending[key] = pendingWrite{value: value, seq: seq}
	w.signal()
	return true
}

// signal wakes the loop without blocking. Caller holds w.mu.
func (w *writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) loop() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		key, next, ok := w.oldest()
		if !ok {
			w.inflight = ""
			for _, ch := range w.waiters {
				close(ch)
			}
			w.waiters = nil
			w.mu.Unlock()
			return
		}
		delete(w.pending, key)
		w.inflight = key
		w.mu.Unlock()

		err := w.store.Set(w.ctx, key, next.value)

		w.mu.Lock()
		if err != nil {
			delete(w.known, key)
		} else {
			w.known[key] = next.value
		}
		w.mu.Unlock()

		if err != nil {
			w.logger.Warn("persist preference", "key", key, "seq", next.seq, "err", err)
		} else {
			w.logger.Debug("persisted preference", "key", key, "seq", next.seq)
		}
	}
}

// oldest returns the pending entry with the lowest sequence. Caller holds w.mu.
func (w *writer) oldest() (string, pendingWrite, bool) {
	var (
		bestKey string
		best    pendingWrite
		found   bool
	)
	for k, p := range w.pending {
		if !found || p.seq < best.seq {
			bestKey, best, found = k, p, true
		}
	}
	return bestKey, best, found
}

// idle reports whether nothing is queued or running. Caller holds w.mu.
func (w *writer) idle() bool {
	return len(w.pending) == 0 && w.inflight == ""
}

// flush blocks until every queued write has been attempted.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	if w.idle() {
		w.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	w.waiters = append(w.waiters, ch)
	w.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stop drains queued writes, giving them at most timeout before cancelling
// the store calls, and waits for the loop to exit.
func (w *writer) stop(timeout time.Duration) {
	w.mu.Lock()
	started := w.started
	w.stopping = true
	w.mu.Unlock()

	if !started {
		w.cancel()
		return
	}

	close(w.quit)
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-w.stopped:
	case <-t.C:
		w.logger.Warn("preference flush timed out", "timeout", timeout)
		w.cancel()
		<-w.stopped
	}
	w.cancel()
}
