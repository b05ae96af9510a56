package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"epidash/internal/charts"
	"epidash/internal/feeds"
	"epidash/internal/logging"
	"epidash/internal/screen"
	"epidash/internal/stats"
)

// Report summarises one refresh cycle.
type Report struct {
	CycleID  string
	Applied  []string
	Failed   []string
	Errors   map[string]string
	Exported []string
	Duration time.Duration
	Err      error
}

// LoadAllData fetches every dataset concurrently, waits for all of them to
// settle, and then applies the successful ones in a fixed order: summary,
// daily trend, regional comparison, risk distribution, monthly statistics.
// Failed datasets are skipped so their previous visual stays on screen.
func (d *Dashboard) LoadAllData(ctx context.Context) (report Report) {
	report.CycleID = uuid.NewString()
	ctx = logging.WithCycleID(ctx, report.CycleID)
	logger := logging.WithContext(ctx, d.logger)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			report.Err = fmt.Errorf("refresh cycle panicked: %v", r)
			logging.ErrorWithContext(logger, "data load failed", "load_failed",
				logging.Error(report.Err),
				logging.String(logging.FieldErrorHint, "check the statistics backend and network connection"),
			)
			d.ShowError(MessageLoadFailed)
		}
		report.Duration = time.Since(started)
	}()

	logger.Debug("refresh cycle started")
	batch := d.loader.LoadAll(ctx)

	if batch.Summary.OK() {
		d.UpdateSummaryCards(batch.Summary.Value)
		report.Applied = append(report.Applied, feeds.EndpointSummary)
	}
	apply := []struct {
		endpoint string
		chart    charts.Name
		ok       bool
		data     any
	}{
		{feeds.EndpointDailyTrend, charts.DailyTrend, batch.Daily.OK(), batch.Daily.Value},
		{feeds.EndpointRegional, charts.Regional, batch.Regional.OK(), batch.Regional.Value},
		{feeds.EndpointRisk, charts.Risk, batch.Risk.OK(), batch.Risk.Value},
		{feeds.EndpointMonthly, charts.Monthly, batch.Monthly.OK(), batch.Monthly.Value},
	}
	chartsApplied := 0
	for _, step := range apply {
		if !step.ok {
			continue
		}
		if d.UpdateChartData(string(step.chart), step.data) {
			chartsApplied++
		}
		report.Applied = append(report.Applied, step.endpoint)
	}
	report.Failed = batch.Failures()
	report.Errors = batchErrors(batch)

	if len(report.Failed) > 0 {
		logging.WarnWithContext(logger, "refresh cycle incomplete", "refresh_partial",
			logging.Any("failed", report.Failed),
			logging.Int("applied", len(report.Applied)),
			logging.String(logging.FieldImpact, "failed widgets keep their previous data"),
		)
	} else {
		logger.Info("refresh cycle complete", logging.Int("applied", len(report.Applied)))
	}

	if chartsApplied > 0 {
		report.Exported = d.export(ctx)
	}
	return report
}

// UpdateSummaryCards animates the five headline counters and sets the peak
// date when the backend reports one.
func (d *Dashboard) UpdateSummaryCards(s stats.Summary) {
	d.animator.Animate(screen.IDTotalCases, float64(s.TotalCases))
	d.animator.Animate(screen.IDAvgDaily, s.AvgDaily)
	d.animator.Animate(screen.IDMaxDaily, float64(s.MaxDaily))
	d.animator.Animate(screen.IDTotalRecovered, float64(s.TotalRecovered))
	d.animator.Animate(screen.IDTotalDeaths, float64(s.TotalDeaths))
	if s.PeakDate != "" {
		if el, ok := d.screen.Element(screen.IDPeakDate); ok {
			el.SetText(s.PeakDate)
		}
	}
}

// UpdateChartData routes data to the named chart. Unknown names are ignored.
func (d *Dashboard) UpdateChartData(name string, data any) bool {
	return d.registry.UpdateChartData(name, data)
}

func (d *Dashboard) export(ctx context.Context) []string {
	if d.exporter == nil || !d.cfg.Export.Enabled {
		return nil
	}
	written, err := d.exporter.Export(ctx, d.registry.Live())
	if err != nil {
		logger := logging.WithContext(ctx, d.logger)
		if errors.Is(err, charts.ErrExportBusy) {
			logger.Info("chart export skipped, directory busy", logging.String("dir", d.exporter.Dir()))
			return written
		}
		logging.WarnWithContext(logger, "chart export failed", "export_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "exported charts may be stale"),
		)
	}
	return written
}

func batchErrors(b feeds.Batch) map[string]string {
	errs := make(map[string]string)
	record := func(endpoint string, err error) {
		if err != nil {
			errs[endpoint] = err.Error()
		}
	}
	record(feeds.EndpointSummary, b.Summary.Err)
	record(feeds.EndpointDailyTrend, b.Daily.Err)
	record(feeds.EndpointRegional, b.Regional.Err)
	record(feeds.EndpointRisk, b.Risk.Err)
	record(feeds.EndpointMonthly, b.Monthly.Err)
	return errs
}
