package frames_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"epidash/internal/frames"
	"epidash/internal/logging"
)

func TestRequestRunsOnNextFrameOnly(t *testing.T) {
	loop := frames.NewLoop(logging.NewNop(), nil)
	var calls int
	loop.Request(func(time.Time) { calls++ })

	base := time.Unix(0, 0)
	loop.Tick(base)
	loop.Tick(base.Add(16 * time.Millisecond))

	if calls != 1 {
		t.Fatalf("expected callback to run once, ran %d times", calls)
	}
}

func TestRequestDuringFlushDefersToFollowingFrame(t *testing.T) {
	loop := frames.NewLoop(logging.NewNop(), nil)
	var seen []time.Time
	var step frames.Callback
	step = func(now time.Time) {
		seen = append(seen, now)
		if len(seen) < 3 {
			loop.Request(step)
		}
	}
	loop.Request(step)

	base := time.Unix(100, 0)
	for i := 0; i < 5; i++ {
		loop.Tick(base.Add(time.Duration(i) * time.Second))
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 invocations, got %d", len(seen))
	}
	for i, ts := range seen {
		if !ts.Equal(base.Add(time.Duration(i) * time.Second)) {
			t.Fatalf("invocation %d saw %v", i, ts)
		}
	}
}

func TestPanickingCallbackDoesNotStopFrame(t *testing.T) {
	var afterRan int
	loop := frames.NewLoop(logging.NewNop(), func(_ time.Time, ran int) { afterRan = ran })
	var second bool
	loop.Request(func(time.Time) { panic("boom") })
	loop.Request(func(time.Time) { second = true })

	loop.Tick(time.Now())

	if !second {
		t.Fatal("expected callback after the panicking one to run")
	}
	if afterRan != 2 {
		t.Fatalf("expected after hook to see 2 callbacks, got %d", afterRan)
	}
	if loop.Frames() != 1 {
		t.Fatalf("expected one frame, got %d", loop.Frames())
	}
}

func TestRunTicksUntilCancelled(t *testing.T) {
	var ticks atomic.Int64
	loop := frames.NewLoop(logging.NewNop(), func(time.Time, int) { ticks.Add(1) })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx, 2*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for frames")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after cancellation")
	}
}
