// Package loader holds the per-screen request state: which request is the
// latest, what data is currently shown, and whether the screen is still
// mounted.
//
// A screen calls Begin before each fetch and Apply with the ticket it was
// given once the fetch finishes. Only the most recently issued ticket of an
// open loader can change the state, so responses that arrive out of order,
// or after the screen was closed, are dropped.
package loader

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

var owners atomic.Uint64

// Ticket identifies one request issued by one loader.
type Ticket struct {
	Owner uint64
	Seq   uint64
}

// Snapshot is a point-in-time view of a loader.
type Snapshot[T any] struct {
	Data       T
	HasData    bool
	Loading    bool // in flight with nothing to show yet
	Refreshing bool // in flight while previous data stays visible
	Err        error
	Seq        uint64
	UpdatedAt  time.Time
}

// Loader tracks the requests of a single screen instance.
type Loader[T any] struct {
	mu       sync.Mutex
	id       uint64
	ctx      context.Context
	cancel   context.CancelFunc
	inflight context.CancelFunc
	seq      uint64
	pending  bool
	closed   bool
	data     T
	hasData  bool
	err      error
	updated  time.Time
	now      func() time.Time
}

// New creates a loader whose requests are children of parent.
func New[T any](parent context.Context) *Loader[T] {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Loader[T]{
		id:     owners.Add(1),
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}
}

// ID returns the loader's owner id, unique within the process.
func (l *Loader[T]) ID() uint64 { return l.id }

// Context is the loader's lifetime context. It is canceled by Close but,
// unlike the contexts returned by Begin, not by newer requests.
func (l *Loader[T]) Context() context.Context { return l.ctx }

// Begin starts a new request. The returned context is canceled when a newer
// request begins or the loader is closed. The previous request, if still
// running, is canceled: its result could never be applied anyway.
func (l *Loader[T]) Begin() (context.Context, Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	t := Ticket{Owner: l.id, Seq: l.seq}
	if l.inflight != nil {
		l.inflight()
		l.inflight = nil
	}
	if l.closed {
		ctx, cancel := context.WithCancel(l.ctx)
		cancel()
		return ctx, t
	}
	ctx, cancel := context.WithCancel(l.ctx)
	l.inflight = cancel
	l.pending = true
	return ctx, t
}

// Apply records the outcome of the request identified by t. It reports
// whether the outcome was applied. Results for a superseded ticket, another
// loader's ticket, or a closed loader are ignored.
//
// On success the data is replaced wholesale and any previous error cleared.
// On failure the error is recorded and the previous data is kept.
func (l *Loader[T]) Apply(t Ticket, v T, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || t.Owner != l.id || t.Seq != l.seq {
		return false
	}
	l.pending = false
	if l.inflight != nil {
		l.inflight()
		l.inflight = nil
	}
	if err != nil {
		l.err = err
		return true
	}
	l.data = v
	l.hasData = true
	l.err = nil
	l.updated = l.now()
	return true
}

// State returns a snapshot of the loader.
func (l *Loader[T]) State() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot[T]{
		Data:       l.data,
		HasData:    l.hasData,
		Loading:    l.pending && !l.hasData,
		Refreshing: l.pending && l.hasData,
		Err:        l.err,
		Seq:        l.seq,
		UpdatedAt:  l.updated,
	}
}

// Close cancels every request started by the loader. Later results are
// discarded. Close is idempotent.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.pending = false
	l.inflight = nil
	l.cancel()
}

// Closed reports whether Close has been called.
func (l *Loader[T]) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
