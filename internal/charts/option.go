package charts

import (
	"strings"
	"time"
)

// Name identifies one of the dashboard charts.
type Name string

// Chart names.
const (
	DailyTrend Name = "dailyTrend"
	Regional   Name = "regional"
	Risk       Name = "risk"
	Monthly    Name = "monthly"
)

// Names lists every chart in display order.
var Names = []Name{DailyTrend, Regional, Risk, Monthly}

// Kind selects how a chart lays out its data.
type Kind int

const (
	KindLine Kind = iota
	KindBar
	KindDonut
)

// Legend placement.
const (
	LegendNone     = ""
	LegendVertical = "vertical"
	LegendBottom   = "bottom"
)

// Risk level colours.
const (
	ColorLowRisk    = "#27ae60"
	ColorMediumRisk = "#f39c12"
	ColorHighRisk   = "#e74c3c"
	ColorUnknown    = "#95a5a6"
)

var riskColors = map[string]string{
	"低风险": ColorLowRisk,
	"中风险": ColorMediumRisk,
	"高风险": ColorHighRisk,
}

// RiskColor returns the slice colour for a risk level label.
func RiskColor(level string) string {
	if c, ok := riskColors[strings.TrimSpace(level)]; ok {
		return c
	}
	return ColorUnknown
}

// SeriesStyle is the baseline styling of one data series.
type SeriesStyle struct {
	Name     string
	Color    string
	Width    int
	AreaFill bool
	Gradient []string
	Smooth   bool
}

// Option is the full baseline configuration a chart is created with.
type Option struct {
	Title      string
	Kind       Kind
	Horizontal bool
	Legend     string
	Tooltip    string
	Series     []SeriesStyle
	Radius     [2]int
	Animation  time.Duration
}

// Slice is one donut segment.
type Slice struct {
	Name  string
	Value float64
	Color string
}

// Patch is a partial data update. Series holds one value slice per baseline
// series; donut charts use Slices instead.
type Patch struct {
	Categories []string
	Series     [][]float64
	Slices     []Slice
}

// Baseline returns the baseline option for name.
func Baseline(name Name, animation time.Duration) (Option, bool) {
	build, ok := baselines[name]
	if !ok {
		return Option{}, false
	}
	opt := build()
	opt.Animation = animation
	return opt, true
}

var baselines = map[Name]func() Option{
	DailyTrend: func() Option {
		return Option{
			Title:   "每日新增确诊趋势",
			Kind:    KindLine,
			Tooltip: "{b}: {c}",
			Series: []SeriesStyle{{
				Name:     "新增确诊",
				Color:    "#e74c3c",
				Width:    3,
				AreaFill: true,
				Gradient: []string{"rgba(231, 76, 60, 0.3)", "rgba(231, 76, 60, 0.05)"},
				Smooth:   true,
			}},
		}
	},
	Regional: func() Option {
		return Option{
			Title:      "各区域确诊对比",
			Kind:       KindBar,
			Horizontal: true,
			Tooltip:    "{b}: {c}",
			Series: []SeriesStyle{{
				Name:     "新增确诊",
				Color:    "#3498db",
				Gradient: []string{"#3498db", "#2980b9"},
			}},
		}
	},
	Risk: func() Option {
		return Option{
			Title:   "风险等级分布",
			Kind:    KindDonut,
			Legend:  LegendVertical,
			Tooltip: "{a} · {b}: {c} ({d}%)",
			Series:  []SeriesStyle{{Name: "风险等级"}},
			Radius:  [2]int{40, 70},
		}
	},
	Monthly: func() Option {
		return Option{
			Title:   "月度疫情统计",
			Kind:    KindLine,
			Legend:  LegendBottom,
			Tooltip: "{a} {b}: {c}",
			Series: []SeriesStyle{
				{Name: "新增确诊", Color: "#e74c3c", Width: 3, AreaFill: true, Gradient: []string{"rgba(231, 76, 60, 0.3)"}, Smooth: true},
				{Name: "新增康复", Color: "#27ae60", Width: 3, AreaFill: true, Gradient: []string{"rgba(39, 174, 96, 0.3)"}, Smooth: true},
				{Name: "新增死亡", Color: "#8e44ad", Width: 3, AreaFill: true, Gradient: []string{"rgba(142, 68, 173, 0.3)"}, Smooth: true},
			},
		}
	},
}
