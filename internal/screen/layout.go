package screen

// Element identifiers.
const (
	IDUpdateTime     = "updateTime"
	IDTotalCases     = "totalCases"
	IDAvgDaily       = "avgDaily"
	IDMaxDaily       = "maxDaily"
	IDTotalRecovered = "totalRecovered"
	IDTotalDeaths    = "totalDeaths"
	IDPeakDate       = "peakDate"
)

// Region identifiers.
const (
	RegionDailyTrend = "dailyTrendChart"
	RegionRegional   = "regionalChart"
	RegionRisk       = "riskChart"
	RegionMonthly    = "monthlyChart"
)

// DefaultTitle is the heading of the dashboard frame.
const DefaultTitle = "香港疫情数据可视化大屏"

type slot struct {
	id    string
	label string
}

var defaultCards = []slot{
	{IDTotalCases, "累计确诊"},
	{IDAvgDaily, "日均新增"},
	{IDMaxDaily, "单日最高"},
	{IDTotalRecovered, "累计康复"},
	{IDTotalDeaths, "累计死亡"},
	{IDPeakDate, "峰值日期"},
}

var defaultRegions = []string{RegionDailyTrend, RegionRegional, RegionRisk, RegionMonthly}

// NewDashboard returns a screen with the standard dashboard layout.
func NewDashboard(opts ...Option) *Screen {
	s := New(opts...)
	s.AddElement(IDUpdateTime, "更新时间")
	for _, card := range defaultCards {
		s.AddCard(card.id, card.label)
	}
	for _, id := range defaultRegions {
		s.AddRegion(id)
	}
	return s
}
