package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"epidash/internal/animate"
	"epidash/internal/charts"
	"epidash/internal/config"
	"epidash/internal/feeds"
	"epidash/internal/frames"
	"epidash/internal/locale"
	"epidash/internal/logging"
	"epidash/internal/screen"
)

// Banner texts.
const (
	MessageInitFailed = "大屏初始化失败，请刷新页面重试"
	MessageLoadFailed = "数据加载失败，请检查网络连接"
)

// Deps holds the collaborators a Dashboard drives.
type Deps struct {
	Config   *config.Config
	Loader   feeds.Loader
	Screen   *screen.Screen
	Frames   *frames.Loop
	Logger   *slog.Logger
	Exporter *charts.Exporter

	// Clock overrides time.Now for animations, transitions, and the clock card.
	Clock func() time.Time
	// ClockInterval and DataInterval override the configured refresh periods.
	ClockInterval time.Duration
	DataInterval  time.Duration
}

// Dashboard is the lifecycle manager of one dashboard session.
type Dashboard struct {
	cfg       *config.Config
	loader    feeds.Loader
	screen    *screen.Screen
	frames    *frames.Loop
	registry  *charts.Registry
	animator  *animate.Animator
	formatter *locale.Formatter
	exporter  *charts.Exporter
	logger    *slog.Logger
	clock     func() time.Time
	bannerTTL time.Duration
	scheduler *Scheduler

	initOnce     sync.Once
	teardownOnce sync.Once
}

// New assembles a Dashboard without starting it.
func New(deps Deps) (*Dashboard, error) {
	if deps.Config == nil || deps.Loader == nil || deps.Screen == nil || deps.Frames == nil {
		return nil, errors.New("dashboard requires config, loader, screen, and frame loop")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := logging.NewComponentLogger(deps.Logger, "dashboard")
	formatter := locale.New(deps.Config.Display.Locale)

	d := &Dashboard{
		cfg:       deps.Config,
		loader:    deps.Loader,
		screen:    deps.Screen,
		frames:    deps.Frames,
		formatter: formatter,
		exporter:  deps.Exporter,
		logger:    logger,
		clock:     clock,
		bannerTTL: deps.Config.BannerTTL(),
	}
	d.registry = charts.NewRegistry(
		charts.WithAnimation(deps.Config.AnimationDuration()),
		charts.WithClock(clock),
		charts.WithFormatter(formatter.Int),
		charts.WithLogger(deps.Logger),
	)
	d.animator = animate.New(deps.Screen, deps.Frames,
		animate.WithDuration(deps.Config.AnimationDuration()),
		animate.WithClock(clock),
		animate.WithFormatter(formatter.Int),
		animate.WithLogger(deps.Logger),
	)

	clockEvery := firstPositive(deps.ClockInterval, deps.Config.ClockInterval())
	dataEvery := firstPositive(deps.DataInterval, deps.Config.DataInterval())
	d.scheduler = NewScheduler(clockEvery, dataEvery, d.UpdateClock, func(ctx context.Context) {
		d.LoadAllData(ctx)
	})
	return d, nil
}

// Start initialises the dashboard and launches the refresh loops. Only
// missing dependencies are returned as errors; every other failure is shown
// on screen.
func Start(ctx context.Context, deps Deps) (*Dashboard, error) {
	d, err := New(deps)
	if err != nil {
		return nil, err
	}
	d.Initialize(ctx)
	d.scheduler.Start(ctx)
	return d, nil
}

// Initialize runs the one-time setup and returns the report of the first
// refresh cycle. Repeated calls do nothing and return an empty report.
func (d *Dashboard) Initialize(ctx context.Context) Report {
	var report Report
	d.initOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				d.initFailed(fmt.Errorf("panic during initialisation: %v", r))
			}
		}()

		d.UpdateClock()
		if err := d.registry.Init(d.screen); err != nil {
			d.initFailed(err)
		}
		report = d.LoadAllData(ctx)
		d.logger.Info("dashboard initialised",
			logging.Int("charts", len(d.registry.Live())),
			logging.String("locale", d.formatter.Tag().String()),
		)
	})
	return report
}

func (d *Dashboard) initFailed(err error) {
	logging.ErrorWithContext(d.logger, "dashboard initialisation failed", "init_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the screen layout and configuration"),
	)
	d.ShowError(MessageInitFailed)
}

// Teardown stops both refresh loops and any running animations. It is safe
// to call more than once.
func (d *Dashboard) Teardown() {
	d.teardownOnce.Do(func() {
		d.scheduler.Stop()
		d.animator.CancelAll()
		d.screen.Close()
		d.logger.Info("dashboard stopped")
	})
}

// Resize lays the screen out for width x height and runs a resize pass on
// every live chart.
func (d *Dashboard) Resize(width, height int) {
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(d.logger, "chart resize failed", "resize_failed", logging.Any("panic", r))
		}
	}()
	d.screen.Resize(width, height)
	d.registry.ResizeAll()
	d.logger.Debug("charts resized", logging.Int("width", width), logging.Int("height", height))
}

// Settle fast-forwards every running animation and transition to its end.
func (d *Dashboard) Settle() {
	end := d.clock().Add(d.cfg.AnimationDuration())
	for i := 0; i < 8 && d.frames.Pending() > 0; i++ {
		d.frames.Tick(end)
	}
}

// Screen returns the dashboard surface.
func (d *Dashboard) Screen() *screen.Screen { return d.screen }

// Registry returns the chart registry.
func (d *Dashboard) Registry() *charts.Registry { return d.registry }

// Scheduler returns the refresh loop controller.
func (d *Dashboard) Scheduler() *Scheduler { return d.scheduler }

// Formatter returns the locale formatter used for display text.
func (d *Dashboard) Formatter() *locale.Formatter { return d.formatter }

func firstPositive(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return time.Second
}
