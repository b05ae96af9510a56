package charts

import (
	"sync"
	"time"

	"epidash/internal/animate"
)

// Chart is a stateful drawable bound to one screen region.
type Chart struct {
	mu         sync.RWMutex
	name       Name
	option     Option
	categories []string
	colors     []string
	from       [][]float64
	to         [][]float64
	start      time.Time
	now        func() time.Time
	format     func(int64) string
	width      int
	height     int
	updates    int
	resizes    int
}

func newChart(name Name, option Option, now func() time.Time, format func(int64) string) *Chart {
	return &Chart{name: name, option: option, now: now, format: format}
}

// Name returns the chart name.
func (c *Chart) Name() Name { return c.name }

// Option returns the baseline configuration.
func (c *Chart) Option() Option {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.option
}

// Categories returns the current category labels.
func (c *Chart) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.categories...)
}

// Targets returns the values the chart is transitioning towards.
func (c *Chart) Targets() [][]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneSeries(c.to)
}

// Values returns the displayed values at now.
func (c *Chart) Values(now time.Time) [][]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.valuesLocked(now)
}

// Slices returns the donut segments displayed at now.
func (c *Chart) Slices(now time.Time) []Slice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	values := c.valuesLocked(now)
	if len(values) == 0 {
		return nil
	}
	return c.slicesLocked(values[0])
}

// TargetSlices returns the donut segments the chart is transitioning towards.
func (c *Chart) TargetSlices() []Slice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.to) == 0 {
		return nil
	}
	return c.slicesLocked(c.to[0])
}

func (c *Chart) slicesLocked(values []float64) []Slice {
	out := make([]Slice, len(c.categories))
	for i, name := range c.categories {
		out[i] = Slice{Name: name}
		if i < len(c.colors) {
			out[i].Color = c.colors[i]
		}
		if i < len(values) {
			out[i].Value = values[i]
		}
	}
	return out
}

// Updates reports how many patches have been applied.
func (c *Chart) Updates() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updates
}

// Resizes reports how many resize passes the chart has seen.
func (c *Chart) Resizes() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resizes
}

// Size returns the last resize dimensions.
func (c *Chart) Size() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}

// Resize records new dimensions for the next draw.
func (c *Chart) Resize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.resizes++
	c.mu.Unlock()
}

// Animating reports whether a transition is still in progress at now.
func (c *Chart) Animating(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.updates == 0 {
		return false
	}
	return animate.Progress(now.Sub(c.start), c.option.Animation) < 1
}

// Apply merges p into the chart and starts a transition from the values on
// screen. Series slices beyond the baseline series count are ignored.
func (c *Chart) Apply(p Patch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	current := c.valuesLocked(now)

	var next [][]float64
	if c.option.Kind == KindDonut {
		names := make([]string, len(p.Slices))
		colors := make([]string, len(p.Slices))
		values := make([]float64, len(p.Slices))
		for i, s := range p.Slices {
			names[i], colors[i], values[i] = s.Name, s.Color, s.Value
		}
		c.categories, c.colors = names, colors
		next = [][]float64{values}
	} else {
		if p.Categories != nil {
			c.categories = append([]string(nil), p.Categories...)
		}
		next = make([][]float64, len(c.option.Series))
		for i := range next {
			switch {
			case i < len(p.Series):
				next[i] = append([]float64(nil), p.Series[i]...)
			case i < len(c.to):
				next[i] = append([]float64(nil), c.to[i]...)
			}
		}
	}

	from := make([][]float64, len(next))
	for i := range next {
		from[i] = make([]float64, len(next[i]))
		if i < len(current) {
			copy(from[i], current[i])
		}
	}
	c.from, c.to = from, next
	c.start = now
	c.updates++
}

func (c *Chart) valuesLocked(now time.Time) [][]float64 {
	if len(c.to) == 0 {
		return nil
	}
	eased := animate.EaseOutQuart(animate.Progress(now.Sub(c.start), c.option.Animation))
	out := make([][]float64, len(c.to))
	for i, target := range c.to {
		out[i] = make([]float64, len(target))
		for j, v := range target {
			var prev float64
			if i < len(c.from) && j < len(c.from[i]) {
				prev = c.from[i][j]
			}
			if eased >= 1 {
				out[i][j] = v
				continue
			}
			out[i][j] = prev + (v-prev)*eased
		}
	}
	return out
}

func cloneSeries(in [][]float64) [][]float64 {
	if in == nil {
		return nil
	}
	out := make([][]float64, len(in))
	for i, s := range in {
		out[i] = append([]float64(nil), s...)
	}
	return out
}
