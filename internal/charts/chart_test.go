package charts_test

import (
	"strings"
	"testing"
	"time"

	"epidash/internal/charts"
	"epidash/internal/logging"
	"epidash/internal/screen"
	"epidash/internal/stats"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newRegistry(t *testing.T) (*charts.Registry, *screen.Screen, *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := screen.NewDashboard()
	r := charts.NewRegistry(charts.WithClock(clk.Now), charts.WithLogger(logging.NewNop()))
	if err := r.Init(s); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return r, s, clk
}

func TestRiskColor(t *testing.T) {
	tests := map[string]string{
		"低风险":  "#27ae60",
		"中风险":  "#f39c12",
		"高风险":  "#e74c3c",
		"未知":   "#95a5a6",
		"":     "#95a5a6",
		" 低风险": "#27ae60",
	}
	for level, want := range tests {
		if got := charts.RiskColor(level); got != want {
			t.Fatalf("RiskColor(%q) = %q, want %q", level, got, want)
		}
	}
}

func TestInitBindsEveryChartToItsRegion(t *testing.T) {
	r, s, _ := newRegistry(t)
	for _, name := range charts.Names {
		c, ok := r.Chart(name)
		if !ok {
			t.Fatalf("expected chart %q", name)
		}
		region, _ := s.Region(charts.RegionFor[name])
		d, ok := region.Drawable()
		if !ok || d != c {
			t.Fatalf("expected chart %q attached to %s", name, region.ID())
		}
		if c.Option().Animation != 2*time.Second {
			t.Fatalf("unexpected animation duration for %q: %s", name, c.Option().Animation)
		}
	}
}

func TestInitReportsMissingRegions(t *testing.T) {
	s := screen.NewDashboard()
	s.RemoveRegion(screen.RegionRisk)
	r := charts.NewRegistry()

	err := r.Init(s)
	if err == nil || !strings.Contains(err.Error(), "riskChart") {
		t.Fatalf("expected missing region error, got %v", err)
	}
	if _, ok := r.Chart(charts.Risk); ok {
		t.Fatal("expected risk chart absent")
	}
	if len(r.Live()) != 3 {
		t.Fatalf("expected three live charts, got %d", len(r.Live()))
	}
	if r.UpdateChartData(string(charts.Risk), stats.RiskDistribution{RiskLevels: []string{"低风险"}, Counts: []int64{1}}) {
		t.Fatal("expected update of uninitialised chart to be ignored")
	}
}

func TestUpdateChartDataDailyTrend(t *testing.T) {
	r, _, clk := newRegistry(t)
	data := stats.DailyTrend{Dates: []string{"01-01", "01-02"}, Cases: []int64{5, 10}}
	if !r.UpdateChartData("dailyTrend", data) {
		t.Fatal("expected update applied")
	}
	c, _ := r.Chart(charts.DailyTrend)
	if got := c.Categories(); len(got) != 2 || got[0] != "01-01" || got[1] != "01-02" {
		t.Fatalf("unexpected categories: %v", got)
	}
	clk.Advance(2 * time.Second)
	values := c.Values(clk.Now())
	if len(values) != 1 || len(values[0]) != 2 || values[0][0] != 5 || values[0][1] != 10 {
		t.Fatalf("unexpected series data: %v", values)
	}
	opt := c.Option()
	if opt.Title != "每日新增确诊趋势" || opt.Series[0].Color != "#e74c3c" || !opt.Series[0].Smooth {
		t.Fatalf("expected baseline styling preserved, got %#v", opt)
	}
}

func TestUpdateChartDataIgnoresUnknownAndMismatched(t *testing.T) {
	r, _, _ := newRegistry(t)
	if r.UpdateChartData("heatmap", stats.DailyTrend{}) {
		t.Fatal("expected unknown chart ignored")
	}
	if r.UpdateChartData("regional", stats.DailyTrend{Dates: []string{"x"}, Cases: []int64{1}}) {
		t.Fatal("expected mismatched dataset ignored")
	}
	if r.UpdateChartData("monthly", nil) {
		t.Fatal("expected nil data ignored")
	}
	for _, c := range r.Live() {
		if c.Updates() != 0 {
			t.Fatalf("expected %q untouched", c.Name())
		}
	}
}

func TestUpdateChartDataAcceptsPointers(t *testing.T) {
	r, _, _ := newRegistry(t)
	data := &stats.RegionalComparison{Regions: []string{"中西区"}, Cases: []int64{7}}
	if !r.UpdateChartData("regional", data) {
		t.Fatal("expected pointer dataset accepted")
	}
	var nilData *stats.RegionalComparison
	if r.UpdateChartData("regional", nilData) {
		t.Fatal("expected nil pointer ignored")
	}
}

func TestRiskSlicesCarryColours(t *testing.T) {
	r, _, clk := newRegistry(t)
	r.UpdateChartData("risk", stats.RiskDistribution{
		RiskLevels: []string{"低风险", "中风险", "高风险", "未知"},
		Counts:     []int64{10, 5, 2, 1},
	})
	c, _ := r.Chart(charts.Risk)
	clk.Advance(3 * time.Second)
	slices := c.Slices(clk.Now())
	want := []charts.Slice{
		{Name: "低风险", Value: 10, Color: "#27ae60"},
		{Name: "中风险", Value: 5, Color: "#f39c12"},
		{Name: "高风险", Value: 2, Color: "#e74c3c"},
		{Name: "未知", Value: 1, Color: "#95a5a6"},
	}
	if len(slices) != len(want) {
		t.Fatalf("unexpected slices: %v", slices)
	}
	for i := range want {
		if slices[i] != want[i] {
			t.Fatalf("slice %d: got %#v want %#v", i, slices[i], want[i])
		}
	}
}

func TestMonthlyPatchUpdatesThreeSeries(t *testing.T) {
	r, _, clk := newRegistry(t)
	r.UpdateChartData("monthly", stats.MonthlyStatistics{
		Months:    []string{"2022-01", "2022-02"},
		NewCases:  []int64{100, 200},
		Recovered: []int64{80, 150},
		Deaths:    []int64{1, 4},
	})
	c, _ := r.Chart(charts.Monthly)
	clk.Advance(2 * time.Second)
	values := c.Values(clk.Now())
	if len(values) != 3 || values[2][1] != 4 || values[1][0] != 80 {
		t.Fatalf("unexpected monthly values: %v", values)
	}
	names := []string{"新增确诊", "新增康复", "新增死亡"}
	colors := []string{"#e74c3c", "#27ae60", "#8e44ad"}
	for i, s := range c.Option().Series {
		if s.Name != names[i] || s.Color != colors[i] || !s.AreaFill {
			t.Fatalf("series %d: unexpected style %#v", i, s)
		}
	}
}

func TestTransitionEasesFromPreviousValues(t *testing.T) {
	r, _, clk := newRegistry(t)
	r.UpdateChartData("regional", stats.RegionalComparison{Regions: []string{"a"}, Cases: []int64{100}})
	c, _ := r.Chart(charts.Regional)
	clk.Advance(2 * time.Second)
	if c.Animating(clk.Now()) {
		t.Fatal("expected first transition finished")
	}

	r.UpdateChartData("regional", stats.RegionalComparison{Regions: []string{"a"}, Cases: []int64{200}})
	clk.Advance(time.Second)
	mid := c.Values(clk.Now())[0][0]
	if mid != 100+100*0.9375 {
		t.Fatalf("unexpected midpoint value %v", mid)
	}
	if !c.Animating(clk.Now()) {
		t.Fatal("expected transition in progress")
	}
	clk.Advance(time.Second)
	if got := c.Values(clk.Now())[0][0]; got != 200 {
		t.Fatalf("expected target reached, got %v", got)
	}
}

func TestResizeAllTouchesEveryChart(t *testing.T) {
	r, s, _ := newRegistry(t)
	s.Resize(160, 48)
	r.ResizeAll()
	for _, c := range r.Live() {
		if w, h := c.Size(); w != 160 || h != 10 {
			t.Fatalf("chart %q: unexpected size %dx%d", c.Name(), w, h)
		}
		if c.Resizes() < 2 {
			t.Fatalf("chart %q: expected resize pass recorded", c.Name())
		}
	}
}

func TestDrawRendersTooltipAndPlaceholder(t *testing.T) {
	r, _, clk := newRegistry(t)
	c, _ := r.Chart(charts.Risk)
	if out := c.Draw(80, 10, clk.Now(), false); !strings.Contains(out, "(暂无数据)") {
		t.Fatalf("expected placeholder, got %q", out)
	}
	r.UpdateChartData("risk", stats.RiskDistribution{RiskLevels: []string{"低风险", "高风险"}, Counts: []int64{3, 1}})
	clk.Advance(2 * time.Second)
	out := c.Draw(80, 10, clk.Now(), false)
	for _, want := range []string{"风险等级分布", "风险等级 · 低风险: 3 (75%)", "风险等级 · 高风险: 1 (25%)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestDrawLineAndBarCharts(t *testing.T) {
	r, _, clk := newRegistry(t)
	r.UpdateChartData("dailyTrend", stats.DailyTrend{Dates: []string{"01-01", "01-02"}, Cases: []int64{5, 10}})
	r.UpdateChartData("regional", stats.RegionalComparison{Regions: []string{"中西区", "湾仔区"}, Cases: []int64{40, 20}})
	clk.Advance(2 * time.Second)

	daily, _ := r.Chart(charts.DailyTrend)
	out := daily.Draw(80, 10, clk.Now(), false)
	for _, want := range []string{"新增确诊", "01-01 → 01-02", "▄█"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	regional, _ := r.Chart(charts.Regional)
	out = regional.Draw(80, 10, clk.Now(), false)
	if !strings.Contains(out, "中西区") || !strings.Contains(out, "40") {
		t.Fatalf("unexpected bar chart:\n%s", out)
	}
}

func TestFormatTooltip(t *testing.T) {
	got := charts.FormatTooltip("{a} · {b}: {c} ({d}%)", "风险等级", "中风险", "5", 27.7777)
	if got != "风险等级 · 中风险: 5 (27.78%)" {
		t.Fatalf("unexpected tooltip %q", got)
	}
}
