package feeds

import "epidash/internal/stats"

// Result is the tagged outcome of one dataset fetch.
type Result[T any] struct {
	Value  T
	Err    error
	Status int
}

// OK reports whether the fetch produced a usable value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Batch collects the settled results of one refresh cycle.
type Batch struct {
	Summary  Result[stats.Summary]
	Daily    Result[stats.DailyTrend]
	Regional Result[stats.RegionalComparison]
	Risk     Result[stats.RiskDistribution]
	Monthly  Result[stats.MonthlyStatistics]
}

// Failures returns the endpoints whose fetch failed, in application order.
func (b Batch) Failures() []string {
	var failed []string
	if !b.Summary.OK() {
		failed = append(failed, EndpointSummary)
	}
	if !b.Daily.OK() {
		failed = append(failed, EndpointDailyTrend)
	}
	if !b.Regional.OK() {
		failed = append(failed, EndpointRegional)
	}
	if !b.Risk.OK() {
		failed = append(failed, EndpointRisk)
	}
	if !b.Monthly.OK() {
		failed = append(failed, EndpointMonthly)
	}
	return failed
}
