package stats

import (
	"errors"
	"fmt"
)

// Summary holds the headline counters shown on the dashboard cards.
type Summary struct {
	TotalCases     int64   `json:"total_cases"`
	AvgDaily       float64 `json:"avg_daily"`
	MaxDaily       int64   `json:"max_daily"`
	TotalRecovered int64   `json:"total_recovered"`
	TotalDeaths    int64   `json:"total_deaths"`
	PeakDate       string  `json:"peak_date,omitempty"`
}

// DailyTrend holds new confirmed cases per reporting date.
type DailyTrend struct {
	Dates []string `json:"dates"`
	Cases []int64  `json:"cases"`
}

// RegionalComparison holds cumulative cases per district.
type RegionalComparison struct {
	Regions []string `json:"regions"`
	Cases   []int64  `json:"cases"`
}

// RiskDistribution holds how many records fall in each risk level.
type RiskDistribution struct {
	RiskLevels []string `json:"risk_levels"`
	Counts     []int64  `json:"counts"`
}

// MonthlyStatistics holds per-month totals for three parallel series.
type MonthlyStatistics struct {
	Months    []string `json:"months"`
	NewCases  []int64  `json:"new_cases"`
	Recovered []int64  `json:"recovered"`
	Deaths    []int64  `json:"deaths"`
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid dataset")

// Validate checks that every counter is non-negative.
func (s Summary) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"total_cases", float64(s.TotalCases)},
		{"avg_daily", s.AvgDaily},
		{"max_daily", float64(s.MaxDaily)},
		{"total_recovered", float64(s.TotalRecovered)},
		{"total_deaths", float64(s.TotalDeaths)},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalid, f.name)
		}
	}
	return nil
}

// Validate checks that dates and cases are parallel.
func (d DailyTrend) Validate() error {
	return checkParallel("dates", d.Dates, series{"cases", d.Cases})
}

// Validate checks that regions and cases are parallel.
func (r RegionalComparison) Validate() error {
	return checkParallel("regions", r.Regions, series{"cases", r.Cases})
}

// Validate checks that risk levels and counts are parallel.
func (r RiskDistribution) Validate() error {
	return checkParallel("risk_levels", r.RiskLevels, series{"counts", r.Counts})
}

// Total returns the sum of all counts.
func (r RiskDistribution) Total() int64 {
	var total int64
	for _, c := range r.Counts {
		total += c
	}
	return total
}

// Validate checks that all three series are parallel to months.
func (m MonthlyStatistics) Validate() error {
	return checkParallel("months", m.Months,
		series{"new_cases", m.NewCases},
		series{"recovered", m.Recovered},
		series{"deaths", m.Deaths},
	)
}

type series struct {
	name   string
	values []int64
}

// checkParallel reports the first offending series in argument order.
func checkParallel(labelName string, labels []string, all ...series) error {
	for _, s := range all {
		if len(s.values) != len(labels) {
			return fmt.Errorf("%w: %s has %d entries but %s has %d", ErrInvalid, s.name, len(s.values), labelName, len(labels))
		}
		for i, v := range s.values {
			if v < 0 {
				return fmt.Errorf("%w: %s[%d] is negative", ErrInvalid, s.name, i)
			}
		}
	}
	return nil
}
