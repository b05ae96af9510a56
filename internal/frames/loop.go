// Package frames provides the rendering refresh signal that drives counter
// animations, chart transitions, and screen redraws.
//
// A Loop behaves like a browser's animation frame queue: callbacks registered
// with Request run once, on the next frame, and receive that frame's
// timestamp. Callbacks that request another frame while the current one is
// flushing are deferred to the following frame.
package frames

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"epidash/internal/logging"
)

// Callback receives the timestamp of the frame it runs in.
type Callback func(now time.Time)

// Scheduler is the subset of Loop consumed by animation code.
type Scheduler interface {
	Request(fn Callback)
}

// Loop queues per-frame callbacks and flushes them on Tick.
type Loop struct {
	mu      sync.Mutex
	pending []Callback
	after   func(now time.Time, ran int)
	logger  *slog.Logger
	frames  uint64
}

var _ Scheduler = (*Loop)(nil)

// NewLoop creates an idle loop. after, when non-nil, runs at the end of every
// frame with the number of callbacks that frame executed.
func NewLoop(logger *slog.Logger, after func(now time.Time, ran int)) *Loop {
	return &Loop{
		after:  after,
		logger: logging.NewComponentLogger(logger, "frames"),
	}
}

// Request schedules fn for the next frame.
func (l *Loop) Request(fn Callback) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
}

// Pending reports how many callbacks are queued for the next frame.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Frames reports how many frames have been flushed.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Tick flushes one frame at timestamp now.
func (l *Loop) Tick(now time.Time) {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.frames++
	l.mu.Unlock()

	for _, fn := range batch {
		l.invoke(fn, now)
	}
	if l.after != nil {
		l.after(now, len(batch))
	}
}

// invoke isolates a failing callback so one broken widget cannot stall the loop.
func (l *Loop) invoke(fn Callback, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(l.logger, "frame callback panicked", "frame_panic",
				logging.Any("panic", r))
		}
	}()
	fn(now)
}

// Run drives Tick every interval until ctx is cancelled.
func (l *Loop) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Tick(now)
		}
	}
}
