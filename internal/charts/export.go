package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"epidash/internal/fileutil"
	"epidash/internal/logging"
)

const (
	exportWidth    = 960
	exportHeight   = 540
	lockFileName   = ".epidash-export.lock"
	lockRetryDelay = 50 * time.Millisecond
	lockTimeout    = 5 * time.Second
)

// ErrExportBusy is returned when another process holds the export lock.
var ErrExportBusy = errors.New("export directory locked")

// Exporter writes live charts as SVG files.
type Exporter struct {
	dir         string
	lockTimeout time.Duration
	logger      *slog.Logger
}

// ExportOption configures an Exporter.
type ExportOption func(*Exporter)

// WithLockTimeout bounds how long Export waits for the directory lock.
func WithLockTimeout(d time.Duration) ExportOption {
	return func(e *Exporter) {
		if d > 0 {
			e.lockTimeout = d
		}
	}
}

// NewExporter returns an exporter writing into dir.
func NewExporter(dir string, logger *slog.Logger, opts ...ExportOption) *Exporter {
	e := &Exporter{dir: dir, lockTimeout: lockTimeout, logger: logging.NewComponentLogger(logger, "export")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the export directory.
func (e *Exporter) Dir() string { return e.dir }

// Export renders every chart with data into <dir>/<name>.svg and returns the
// written paths. Files whose SVG is unchanged are left untouched but still
// listed. The directory lock is held for the whole pass; a chart that
// fails to render is logged and skipped.
func (e *Exporter) Export(ctx context.Context, list []*Chart) ([]string, error) {
	if strings.TrimSpace(e.dir) == "" {
		return nil, errors.New("export directory not configured")
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure export directory: %w", err)
	}

	lock := flock.New(filepath.Join(e.dir, lockFileName))
	lockCtx, cancel := context.WithTimeout(ctx, e.lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrExportBusy
		}
		return nil, fmt.Errorf("lock export directory: %w", err)
	}
	if !locked {
		return nil, ErrExportBusy
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			e.logger.Warn("export unlock failed", logging.Error(err))
		}
	}()

	var written []string
	for _, c := range list {
		svg, err := RenderSVG(c)
		if err != nil {
			logging.WarnWithContext(e.logger, "chart export skipped", "export_skipped",
				logging.String(logging.FieldChart, string(c.Name())),
				logging.Error(err),
				logging.String(logging.FieldImpact, "previous export file is kept"),
			)
			continue
		}
		path := filepath.Join(e.dir, string(c.Name())+".svg")
		same, err := fileutil.SameContent(path, svg)
		if err != nil {
			return written, fmt.Errorf("compare export file: %w", err)
		}
		if !same {
			if err := fileutil.WriteFileAtomic(path, svg, 0o644); err != nil {
				return written, fmt.Errorf("write export file: %w", err)
			}
		}
		written = append(written, path)
	}
	e.logger.Info("charts exported", logging.Int("count", len(written)), logging.String("dir", e.dir))
	return written, nil
}

// RenderSVG draws the chart's target values as an SVG document.
func RenderSVG(c *Chart) ([]byte, error) {
	opt := c.Option()
	categories := c.Categories()
	values := c.Targets()
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, fmt.Errorf("%s: no data", c.Name())
	}

	var buf bytes.Buffer
	var err error
	switch opt.Kind {
	case KindBar:
		err = barChart(opt, categories, values[0]).Render(chart.SVG, &buf)
	case KindDonut:
		err = pieChart(opt, c.TargetSlices()).Render(chart.SVG, &buf)
	default:
		err = lineChart(opt, categories, values).Render(chart.SVG, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: render svg: %w", c.Name(), err)
	}
	return buf.Bytes(), nil
}

func lineChart(opt Option, categories []string, values [][]float64) chart.Chart {
	ticks := make([]chart.Tick, len(categories))
	for i, label := range categories {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	graph := chart.Chart{
		Title:      opt.Title,
		Width:      exportWidth,
		Height:     exportHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Ticks: ticks},
	}
	for i, series := range values {
		if len(series) == 0 {
			continue
		}
		style := SeriesStyle{Name: fmt.Sprintf("series %d", i+1), Color: ColorUnknown, Width: 2}
		if i < len(opt.Series) {
			style = opt.Series[i]
		}
		xs := make([]float64, len(series))
		for j := range xs {
			xs[j] = float64(j)
		}
		stroke := hexColor(style.Color)
		s := chart.Style{StrokeColor: stroke, StrokeWidth: float64(max(style.Width, 1))}
		if style.AreaFill {
			s.FillColor = stroke.WithAlpha(76)
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    style.Name,
			XValues: xs,
			YValues: series,
			Style:   s,
		})
	}
	if opt.Legend != LegendNone {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}
	return graph
}

func barChart(opt Option, categories []string, values []float64) chart.BarChart {
	fill := ColorUnknown
	if len(opt.Series) > 0 {
		fill = opt.Series[0].Color
		if g := opt.Series[0].Gradient; len(g) > 1 {
			fill = g[len(g)-1]
		}
	}
	bars := make([]chart.Value, len(values))
	for i, v := range values {
		label := ""
		if i < len(categories) {
			label = categories[i]
		}
		bars[i] = chart.Value{
			Value: v,
			Label: label,
			Style: chart.Style{FillColor: hexColor(fill), StrokeColor: hexColor(fill)},
		}
	}
	return chart.BarChart{
		Title:      opt.Title,
		Width:      exportWidth,
		Height:     exportHeight,
		BarWidth:   40,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Bars:       bars,
	}
}

func pieChart(opt Option, slices []Slice) chart.PieChart {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: s.Value,
			Label: s.Name,
			Style: chart.Style{FillColor: hexColor(s.Color), StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		})
	}
	return chart.PieChart{
		Title:  opt.Title,
		Width:  exportHeight,
		Height: exportHeight,
		Values: values,
	}
}

func hexColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		hex = strings.TrimPrefix(ColorUnknown, "#")
	}
	return drawing.ColorFromHex(hex)
}
