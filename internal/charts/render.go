package charts

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	emptyPlaceholder = "(暂无数据)"
	labelColumns     = 14
	valueColumns     = 10
	minPlotColumns   = 8
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// terminalColors maps baseline hex colours onto the nearest ANSI colour.
var terminalColors = map[string]text.Color{
	"#e74c3c": text.FgHiRed,
	"#27ae60": text.FgGreen,
	"#f39c12": text.FgYellow,
	"#8e44ad": text.FgMagenta,
	"#3498db": text.FgHiBlue,
	"#95a5a6": text.FgHiBlack,
}

func paint(s, hex string, color bool) string {
	if !color {
		return s
	}
	if c, ok := terminalColors[strings.ToLower(hex)]; ok {
		return c.Sprint(s)
	}
	return s
}

// Draw renders the chart at now. Zero dimensions fall back to the last
// resize pass.
func (c *Chart) Draw(width, height int, now time.Time, color bool) string {
	c.mu.RLock()
	opt := c.option
	categories := append([]string(nil), c.categories...)
	colors := append([]string(nil), c.colors...)
	values := c.valuesLocked(now)
	if width <= 0 {
		width = c.width
	}
	if height <= 0 {
		height = c.height
	}
	c.mu.RUnlock()

	var b strings.Builder
	title := opt.Title
	if color {
		title = text.Colors{text.Bold, text.FgHiWhite}.Sprint(title)
	}
	b.WriteString(title)
	b.WriteByte('\n')

	if len(values) == 0 || len(values[0]) == 0 {
		b.WriteString(emptyPlaceholder)
		return b.String()
	}

	plot := width - labelColumns - valueColumns
	if plot < minPlotColumns {
		plot = minPlotColumns
	}

	switch opt.Kind {
	case KindBar:
		b.WriteString(c.drawBars(opt, categories, values[0], plot, height, color))
	case KindDonut:
		b.WriteString(c.drawDonut(opt, categories, colors, values[0], plot, color))
	default:
		b.WriteString(c.drawLines(opt, categories, values, plot, color))
	}
	return b.String()
}

func (c *Chart) drawLines(opt Option, categories []string, values [][]float64, plot int, color bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"系列", axisLabel(categories), "最新", "最高"})
	for i, series := range values {
		style := SeriesStyle{Name: fmt.Sprintf("series %d", i+1)}
		if i < len(opt.Series) {
			style = opt.Series[i]
		}
		last, peak := lastAndPeak(series)
		tw.AppendRow(table.Row{
			paint(style.Name, style.Color, color),
			paint(sparkline(series, plot), style.Color, color),
			c.formatValue(last),
			c.formatValue(peak),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func (c *Chart) drawBars(opt Option, categories []string, values []float64, plot, height int, color bool) string {
	barColor := ""
	if len(opt.Series) > 0 {
		barColor = opt.Series[0].Color
	}
	_, peak := lastAndPeak(values)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	rows := len(values)
	if height > 3 && rows > height-3 {
		rows = height - 3
	}
	for i := 0; i < rows; i++ {
		label := ""
		if i < len(categories) {
			label = categories[i]
		}
		tw.AppendRow(table.Row{label, paint(bar(values[i], peak, plot), barColor, color), c.formatValue(values[i])})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	return tw.Render()
}

func (c *Chart) drawDonut(opt Option, categories, colors []string, values []float64, plot int, color bool) string {
	var total float64
	for _, v := range values {
		total += v
	}
	seriesName := ""
	if len(opt.Series) > 0 {
		seriesName = opt.Series[0].Name
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	for i, v := range values {
		name, hex := "", ColorUnknown
		if i < len(categories) {
			name = categories[i]
		}
		if i < len(colors) && colors[i] != "" {
			hex = colors[i]
		}
		share := 0.0
		if total > 0 {
			share = v / total
		}
		tip := FormatTooltip(opt.Tooltip, seriesName, name, c.formatValue(v), share*100)
		tw.AppendRow(table.Row{paint("●", hex, color), paint(bar(share, 1, plot/2), hex, color), tip})
	}
	return tw.Render()
}

// FormatTooltip expands the {a} series, {b} item, {c} value and {d} percent
// placeholders of a tooltip template.
func FormatTooltip(template, series, item, value string, percent float64) string {
	return strings.NewReplacer(
		"{a}", series,
		"{b}", item,
		"{c}", value,
		"{d}", formatPercent(percent),
	).Replace(template)
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(math.Round(p*100)/100, 'f', -1, 64)
}

func (c *Chart) formatValue(v float64) string {
	return c.format(int64(math.Round(v)))
}

func axisLabel(categories []string) string {
	switch len(categories) {
	case 0:
		return ""
	case 1:
		return categories[0]
	default:
		return categories[0] + " → " + categories[len(categories)-1]
	}
}

func lastAndPeak(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	return values[len(values)-1], peak
}

func bar(v, peak float64, width int) string {
	if peak <= 0 || v <= 0 || width <= 0 {
		return ""
	}
	n := int(math.Round(v / peak * float64(width)))
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

// sparkline resamples values onto at most width columns.
func sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	cols := len(values)
	if cols > width {
		cols = width
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > 0 {
		lo = 0
	}
	out := make([]rune, cols)
	for i := range out {
		v := values[i*len(values)/cols]
		level := 0
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		out[i] = sparkBlocks[level]
	}
	return string(out)
}
