// Package animate counts summary card values up from zero on the frame loop.
package animate

import (
	"log/slog"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"epidash/internal/frames"
	"epidash/internal/logging"
	"epidash/internal/screen"
)

// DefaultDuration is how long a counter takes to reach its target.
const DefaultDuration = 2000 * time.Millisecond

// EaseOutQuart maps linear progress t in [0,1] onto a decelerating curve.
func EaseOutQuart(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	inv := 1 - t
	return 1 - inv*inv*inv*inv
}

// Progress returns elapsed/duration clamped to [0,1].
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	p := float64(elapsed) / float64(duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Elements resolves element ids to text slots.
type Elements interface {
	Element(id string) (*screen.Element, bool)
}

// Task is one in-flight counter animation.
type Task struct {
	id        string
	target    float64
	start     time.Time
	cancelled atomic.Bool
	finished  atomic.Bool
}

// ID returns the animated element id.
func (t *Task) ID() string { return t.id }

// Cancel stops the task before its next frame.
func (t *Task) Cancel() { t.cancelled.Store(true) }

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool { return t.cancelled.Load() }

// Finished reports whether the task wrote its final value.
func (t *Task) Finished() bool { return t.finished.Load() }

// Option configures an Animator.
type Option func(*Animator)

// WithDuration overrides DefaultDuration.
func WithDuration(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.duration = d
		}
	}
}

// WithClock sets the source of task start times.
func WithClock(now func() time.Time) Option {
	return func(a *Animator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithFormatter sets how displayed integers are rendered.
func WithFormatter(format func(int64) string) Option {
	return func(a *Animator) {
		if format != nil {
			a.format = format
		}
	}
}

// WithLogger sets the animator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Animator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Animator drives counter tasks. Starting a new animation on an element
// cancels the one already running there; other elements are unaffected.
type Animator struct {
	elements Elements
	frames   frames.Scheduler
	duration time.Duration
	now      func() time.Time
	format   func(int64) string
	logger   *slog.Logger

	mu    sync.Mutex
	tasks map[string]*Task
}

// New creates an Animator writing into elements and scheduling on sched.
func New(elements Elements, sched frames.Scheduler, opts ...Option) *Animator {
	a := &Animator{
		elements: elements,
		frames:   sched,
		duration: DefaultDuration,
		now:      time.Now,
		format:   func(n int64) string { return strconv.FormatInt(n, 10) },
		logger:   logging.NewNop(),
		tasks:    make(map[string]*Task),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.NewComponentLogger(a.logger, "animate")
	return a
}

// Animate counts element id from 0 up to target. It returns nil when the
// element does not exist or target is not a finite number.
func (a *Animator) Animate(id string, target float64) *Task {
	el, ok := a.elements.Element(id)
	if !ok {
		logging.WarnWithContext(a.logger, "animation target missing", "element_missing",
			logging.String(logging.FieldElement, id),
			logging.String(logging.FieldErrorHint, "check the screen layout defines this element"),
			logging.String(logging.FieldImpact, "card keeps its previous value"),
		)
		return nil
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		logging.WarnWithContext(a.logger, "animation target not finite", "invalid_target",
			logging.String(logging.FieldElement, id),
			logging.Float64("target", target),
		)
		return nil
	}

	task := &Task{id: id, target: target, start: a.now()}
	a.mu.Lock()
	if prev, ok := a.tasks[id]; ok {
		prev.Cancel()
	}
	a.tasks[id] = task
	a.mu.Unlock()

	a.schedule(task, el)
	return task
}

// Active reports how many tasks have not yet finished or been cancelled.
func (a *Animator) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, t := range a.tasks {
		if !t.Finished() && !t.Cancelled() {
			n++
		}
	}
	return n
}

// CancelAll stops every in-flight task.
func (a *Animator) CancelAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, t := range a.tasks {
		t.Cancel()
		delete(a.tasks, id)
	}
}

func (a *Animator) schedule(task *Task, el *screen.Element) {
	var step frames.Callback
	step = func(now time.Time) {
		if task.Cancelled() {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				task.Cancel()
				logging.ErrorWithContext(a.logger, "animation frame failed", "animation_panic",
					logging.String(logging.FieldElement, task.id),
					logging.Any("panic", r),
				)
			}
		}()
		p := Progress(now.Sub(task.start), a.duration)
		value := math.Floor(task.target * EaseOutQuart(p))
		el.SetText(a.format(int64(value)))
		if p < 1 {
			a.frames.Request(step)
			return
		}
		task.finished.Store(true)
		a.release(task)
	}
	a.frames.Request(step)
}

func (a *Animator) release(task *Task) {
	a.mu.Lock()
	if a.tasks[task.id] == task {
		delete(a.tasks, task.id)
	}
	a.mu.Unlock()
}
