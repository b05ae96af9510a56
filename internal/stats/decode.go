package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// The backend sums its columns with pandas, so a whole count can arrive as
// 5.0 or 1e3 once a column has held a float. Counts are decoded as JSON
// numbers and accepted when they are integral. An absent or null count is 0.

func (s *Summary) UnmarshalJSON(data []byte) error {
	var wire struct {
		TotalCases     json.Number `json:"total_cases"`
		AvgDaily       float64     `json:"avg_daily"`
		MaxDaily       json.Number `json:"max_daily"`
		TotalRecovered json.Number `json:"total_recovered"`
		TotalDeaths    json.Number `json:"total_deaths"`
		PeakDate       string      `json:"peak_date"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := Summary{AvgDaily: wire.AvgDaily, PeakDate: wire.PeakDate}
	for _, f := range []struct {
		name string
		raw  json.Number
		dst  *int64
	}{
		{"total_cases", wire.TotalCases, &out.TotalCases},
		{"max_daily", wire.MaxDaily, &out.MaxDaily},
		{"total_recovered", wire.TotalRecovered, &out.TotalRecovered},
		{"total_deaths", wire.TotalDeaths, &out.TotalDeaths},
	} {
		v, err := parseCount(f.name, f.raw)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	*s = out
	return nil
}

func (d *DailyTrend) UnmarshalJSON(data []byte) error {
	var wire struct {
		Dates []string      `json:"dates"`
		Cases []json.Number `json:"cases"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	cases, err := parseCounts("cases", wire.Cases)
	if err != nil {
		return err
	}
	*d = DailyTrend{Dates: wire.Dates, Cases: cases}
	return nil
}

func (r *RegionalComparison) UnmarshalJSON(data []byte) error {
	var wire struct {
		Regions []string      `json:"regions"`
		Cases   []json.Number `json:"cases"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	cases, err := parseCounts("cases", wire.Cases)
	if err != nil {
		return err
	}
	*r = RegionalComparison{Regions: wire.Regions, Cases: cases}
	return nil
}

func (r *RiskDistribution) UnmarshalJSON(data []byte) error {
	var wire struct {
		RiskLevels []string      `json:"risk_levels"`
		Counts     []json.Number `json:"counts"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	counts, err := parseCounts("counts", wire.Counts)
	if err != nil {
		return err
	}
	*r = RiskDistribution{RiskLevels: wire.RiskLevels, Counts: counts}
	return nil
}

func (m *MonthlyStatistics) UnmarshalJSON(data []byte) error {
	var wire struct {
		Months    []string      `json:"months"`
		NewCases  []json.Number `json:"new_cases"`
		Recovered []json.Number `json:"recovered"`
		Deaths    []json.Number `json:"deaths"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := MonthlyStatistics{Months: wire.Months}
	var err error
	if out.NewCases, err = parseCounts("new_cases", wire.NewCases); err != nil {
		return err
	}
	if out.Recovered, err = parseCounts("recovered", wire.Recovered); err != nil {
		return err
	}
	if out.Deaths, err = parseCounts("deaths", wire.Deaths); err != nil {
		return err
	}
	*m = out
	return nil
}

func parseCounts(name string, raw []json.Number) ([]int64, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]int64, len(raw))
	for i, n := range raw {
		v, err := parseCount(fmt.Sprintf("%s[%d]", name, i), n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseCount keeps the sign; Validate rejects negative counts.
func parseCount(name string, n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || f < -math.Exp2(63) || f >= math.Exp2(63) {
		return 0, fmt.Errorf("%w: %s out of range (%s)", ErrInvalid, name, n)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s is not a whole count (%s)", ErrInvalid, name, n)
	}
	return int64(f), nil
}
