package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler runs the clock and data refresh loops on wall-clock tickers.
//
// Each loop runs its callback inline, on its own goroutine. A slow reload
// (fetch plus export) therefore never delays the clock, and reloads never
// overlap. Data ticks that come due while a reload is still running are
// dropped rather than queued: the next reload starts at the first tick after
// the slow one returns, so an overrun shifts the cadence instead of bursting.
type Scheduler struct {
	clockEvery time.Duration
	dataEvery  time.Duration
	onClock    func()
	onData     func(context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	stopped bool

	clockTicks atomic.Int64
	dataTicks  atomic.Int64
}

// NewScheduler builds an idle scheduler.
func NewScheduler(clockEvery, dataEvery time.Duration, onClock func(), onData func(context.Context)) *Scheduler {
	return &Scheduler{
		clockEvery: clockEvery,
		dataEvery:  dataEvery,
		onClock:    onClock,
		onData:     onData,
	}
}

// Start launches both loops. It only has an effect the first time it is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(2)
	go s.loop(loopCtx, s.clockEvery, &s.clockTicks, func(context.Context) { s.onClock() })
	go s.loop(loopCtx, s.dataEvery, &s.dataTicks, s.onData)
}

// Stop cancels both loops, including an in-flight data reload, and waits for
// them to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Running reports whether the loops are active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.stopped
}

// ClockTicks reports how many clock repaints have fired.
func (s *Scheduler) ClockTicks() int64 { return s.clockTicks.Load() }

// DataTicks reports how many data reloads have fired.
func (s *Scheduler) DataTicks() int64 { return s.dataTicks.Load() }

func (s *Scheduler) loop(ctx context.Context, every time.Duration, counter *atomic.Int64, fn func(context.Context)) {
	defer s.wg.Done()
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			counter.Add(1)
			fn(ctx)
		}
	}
}
