package backdrop

import (
	"context"
	"sync"
	"time"
)

// FrameFunc is a frame callback. now is the host's timestamp for the frame.
type FrameFunc func(now time.Time)

// Scheduler is the host's per-frame primitive. RequestFrame queues fn to run
// once on a later refresh and returns a function that cancels it if it has
// not run yet. RequestFrame must not call fn synchronously.
type Scheduler interface {
	RequestFrame(fn FrameFunc) (cancel func())
}

// frameQueue is the request bookkeeping shared by the schedulers.
type frameQueue struct {
	mu       sync.Mutex
	nextID   uint64
	pending  map[uint64]FrameFunc
	order    []uint64
	requests int
}

func (q *frameQueue) request(fn FrameFunc) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[uint64]FrameFunc)
	}
	q.nextID++
	id := q.nextID
	q.pending[id] = fn
	q.order = append(q.order, id)
	q.requests++
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.pending, id)
	}
}

// take removes and returns every pending callback in request order.
func (q *frameQueue) take() []FrameFunc {
	q.mu.Lock()
	defer q.mu.Unlock()
	fns := make([]FrameFunc, 0, len(q.pending))
	for _, id := range q.order {
		if fn, ok := q.pending[id]; ok {
			fns = append(fns, fn)
			delete(q.pending, id)
		}
	}
	q.order = q.order[:0]
	return fns
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *frameQueue) total() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.requests
}

// ManualScheduler runs queued callbacks only when Step is called. Callbacks
// queued during a step run on the next step.
type ManualScheduler struct {
	q frameQueue
}

// NewManualScheduler returns an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// RequestFrame queues fn for the next Step.
func (s *ManualScheduler) RequestFrame(fn FrameFunc) func() {
	return s.q.request(fn)
}

// Step runs every callback queued before the call and returns how many ran.
func (s *ManualScheduler) Step(now time.Time) int {
	fns := s.q.take()
	for _, fn := range fns {
		fn(now)
	}
	return len(fns)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int { return s.q.len() }

// Requests returns how many callbacks have ever been requested.
func (s *ManualScheduler) Requests() int { return s.q.total() }

// DefaultRefreshRate is the polling rate of [RefreshScheduler], matching a
// 120 Hz display.
const DefaultRefreshRate = 120

// RefreshScheduler polls a clock at a fixed refresh rate and runs queued
// callbacks serially on the goroutine that called Run.
type RefreshScheduler struct {
	q        frameQueue
	clock    Clock
	interval time.Duration
}

// NewRefreshScheduler returns a scheduler refreshing hz times per second.
// Non-positive hz selects [DefaultRefreshRate]; a nil clock uses the system
// clock.
func NewRefreshScheduler(hz int, clock Clock) *RefreshScheduler {
	if hz <= 0 {
		hz = DefaultRefreshRate
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &RefreshScheduler{clock: clock, interval: time.Second / time.Duration(hz)}
}

// RequestFrame queues fn for the next refresh.
func (s *RefreshScheduler) RequestFrame(fn FrameFunc) func() {
	return s.q.request(fn)
}

// Refresh runs the callbacks queued so far with the clock's current time.
func (s *RefreshScheduler) Refresh() int {
	fns := s.q.take()
	now := s.clock.Now()
	for _, fn := range fns {
		fn(now)
	}
	return len(fns)
}

// Interval returns the time between refreshes.
func (s *RefreshScheduler) Interval() time.Duration { return s.interval }

// Pending returns the number of queued callbacks.
func (s *RefreshScheduler) Pending() int { return s.q.len() }

// Run refreshes on every tick until ctx is done.
func (s *RefreshScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Refresh()
		}
	}
}

var (
	_ Scheduler = (*ManualScheduler)(nil)
	_ Scheduler = (*RefreshScheduler)(nil)
)
