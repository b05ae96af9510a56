package charts

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"epidash/internal/animate"
	"epidash/internal/logging"
	"epidash/internal/screen"
	"epidash/internal/stats"
)

// RegionFor maps each chart to the screen region it binds to.
var RegionFor = map[Name]string{
	DailyTrend: screen.RegionDailyTrend,
	Regional:   screen.RegionRegional,
	Risk:       screen.RegionRisk,
	Monthly:    screen.RegionMonthly,
}

// ErrRegionMissing is returned by Init when a chart has nowhere to bind.
var ErrRegionMissing = errors.New("chart region missing")

// Regions resolves region ids.
type Regions interface {
	Region(id string) (*screen.Region, bool)
}

// updater turns a dataset into a patch for one chart type.
type updater func(data any) (Patch, bool)

var updaters = map[Name]updater{
	DailyTrend: func(data any) (Patch, bool) {
		d, ok := as[stats.DailyTrend](data)
		if !ok {
			return Patch{}, false
		}
		return Patch{Categories: d.Dates, Series: [][]float64{floats(d.Cases)}}, true
	},
	Regional: func(data any) (Patch, bool) {
		d, ok := as[stats.RegionalComparison](data)
		if !ok {
			return Patch{}, false
		}
		return Patch{Categories: d.Regions, Series: [][]float64{floats(d.Cases)}}, true
	},
	Risk: func(data any) (Patch, bool) {
		d, ok := as[stats.RiskDistribution](data)
		if !ok {
			return Patch{}, false
		}
		slices := make([]Slice, len(d.RiskLevels))
		for i, level := range d.RiskLevels {
			slices[i] = Slice{Name: level, Color: RiskColor(level)}
			if i < len(d.Counts) {
				slices[i].Value = float64(d.Counts[i])
			}
		}
		return Patch{Slices: slices}, true
	},
	Monthly: func(data any) (Patch, bool) {
		d, ok := as[stats.MonthlyStatistics](data)
		if !ok {
			return Patch{}, false
		}
		return Patch{
			Categories: d.Months,
			Series:     [][]float64{floats(d.NewCases), floats(d.Recovered), floats(d.Deaths)},
		}, true
	},
}

func as[T any](data any) (T, bool) {
	switch v := data.(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}

func floats(in []int64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithAnimation sets the transition length of every chart.
func WithAnimation(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.animation = d
		}
	}
}

// WithClock sets the time source used to start transitions.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithFormatter sets how chart values are rendered.
func WithFormatter(format func(int64) string) RegistryOption {
	return func(r *Registry) {
		if format != nil {
			r.format = format
		}
	}
}

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry owns every live chart handle.
type Registry struct {
	mu        sync.RWMutex
	charts    map[Name]*Chart
	regions   map[Name]*screen.Region
	animation time.Duration
	now       func() time.Time
	format    func(int64) string
	logger    *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		charts:    make(map[Name]*Chart),
		regions:   make(map[Name]*screen.Region),
		animation: animate.DefaultDuration,
		now:       time.Now,
		format:    func(n int64) string { return strconv.FormatInt(n, 10) },
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "charts")
	return r
}

// Init creates every chart whose region exists and attaches it. Charts that
// are already live are left alone. Missing regions are reported together
// after the rest have been created.
func (r *Registry) Init(regions Regions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, name := range Names {
		if _, live := r.charts[name]; live {
			continue
		}
		region, ok := regions.Region(RegionFor[name])
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s (%s)", ErrRegionMissing, name, RegionFor[name]))
			continue
		}
		option, _ := Baseline(name, r.animation)
		chart := newChart(name, option, r.now, r.format)
		w, h := region.Size()
		chart.Resize(w, h)
		region.Attach(chart)
		r.charts[name] = chart
		r.regions[name] = region
		r.logger.Debug("chart created", logging.String(logging.FieldChart, string(name)))
	}
	return errors.Join(errs...)
}

// Chart returns the live chart for name.
func (r *Registry) Chart(name Name) (*Chart, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.charts[name]
	return c, ok
}

// Live returns the live charts in display order.
func (r *Registry) Live() []*Chart {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Chart, 0, len(r.charts))
	for _, name := range Names {
		if c, ok := r.charts[name]; ok {
			out = append(out, c)
		}
	}
	return out
}

// UpdateChartData pushes data into the named chart. Unknown names,
// uninitialised charts, and data of the wrong shape are ignored. It reports
// whether a patch was applied.
func (r *Registry) UpdateChartData(name string, data any) bool {
	n := Name(name)
	update, known := updaters[n]
	if !known {
		r.logger.Debug("chart update ignored", logging.String(logging.FieldChart, name), logging.String("reason", "unknown chart"))
		return false
	}
	chart, live := r.Chart(n)
	if !live || data == nil {
		r.logger.Debug("chart update ignored", logging.String(logging.FieldChart, name), logging.String("reason", "chart or data missing"))
		return false
	}
	patch, ok := update(data)
	if !ok {
		r.logger.Debug("chart update ignored", logging.String(logging.FieldChart, name), logging.String("reason", fmt.Sprintf("unexpected data %T", data)))
		return false
	}
	chart.Apply(patch)
	return true
}

// ResizeAll re-reads every bound region size and resizes its chart.
func (r *Registry) ResizeAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range Names {
		region, ok := r.regions[name]
		if !ok {
			continue
		}
		region.Resize(region.Size())
	}
}
