package dashboard_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"epidash/internal/dashboard"
)

func TestSlowReloadDoesNotOverlapOrStallClock(t *testing.T) {
	var (
		active          atomic.Int32
		maxActive       atomic.Int32
		reloads         atomic.Int32
		clockDuringSlow atomic.Int64
	)
	var sched *dashboard.Scheduler
	sched = dashboard.NewScheduler(5*time.Millisecond, 10*time.Millisecond,
		func() {},
		func(ctx context.Context) {
			n := active.Add(1)
			defer active.Add(-1)
			for {
				m := maxActive.Load()
				if n <= m || maxActive.CompareAndSwap(m, n) {
					break
				}
			}
			if reloads.Add(1) == 1 {
				start := sched.ClockTicks()
				select {
				case <-time.After(80 * time.Millisecond):
				case <-ctx.Done():
				}
				clockDuringSlow.Store(sched.ClockTicks() - start)
			}
		},
	)
	sched.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for reloads.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	sched.Stop()

	if got := reloads.Load(); got < 3 {
		t.Fatalf("expected reloads to resume after the slow one, got %d", got)
	}
	if got := maxActive.Load(); got != 1 {
		t.Fatalf("expected reloads never to overlap, max concurrent %d", got)
	}
	if got := clockDuringSlow.Load(); got < 3 {
		t.Fatalf("expected clock to keep ticking during a slow reload, got %d ticks", got)
	}
}
