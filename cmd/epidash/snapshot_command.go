package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"epidash/internal/charts"
	"epidash/internal/dashboard"
	"epidash/internal/feeds"
	"epidash/internal/frames"
	"epidash/internal/screen"
)

var snapshotEndpoints = []string{
	feeds.EndpointSummary,
	feeds.EndpointDailyTrend,
	feeds.EndpointRegional,
	feeds.EndpointRisk,
	feeds.EndpointMonthly,
}

var snapshotCards = []string{
	screen.IDTotalCases,
	screen.IDAvgDaily,
	screen.IDMaxDaily,
	screen.IDTotalRecovered,
	screen.IDTotalDeaths,
	screen.IDPeakDate,
}

type snapshotSeries struct {
	Name   string    `json:"name"`
	Color  string    `json:"color,omitempty"`
	Values []float64 `json:"values"`
}

type snapshotChart struct {
	Name       string           `json:"name"`
	Title      string           `json:"title"`
	Categories []string         `json:"categories"`
	Series     []snapshotSeries `json:"series,omitempty"`
	Slices     []snapshotSlice  `json:"slices,omitempty"`
}

type snapshotSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type snapshotOutput struct {
	CycleID   string            `json:"cycle_id"`
	UpdatedAt string            `json:"updated_at"`
	Cards     map[string]string `json:"cards"`
	Charts    []snapshotChart   `json:"charts"`
	Failed    []string          `json:"failed,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	Exported  []string          `json:"exported,omitempty"`
}

func newSnapshotCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var exportDir string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch every dataset once and print the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			logger, err := ctx.newLogger(false)
			if err != nil {
				return err
			}
			client, err := ctx.newClient(logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := !jsonOutput && screen.ColorEnabled(cfg.Display.Color, out)
			scr := screen.NewDashboard(screen.WithColor(colorize))
			deps := dashboard.Deps{
				Config: &cfg,
				Loader: client,
				Screen: scr,
				Frames: frames.NewLoop(logger, nil),
				Logger: logger,
			}
			if dir := strings.TrimSpace(exportDir); dir != "" {
				cfg.Export.Enabled = true
				cfg.Export.Dir = dir
			}
			if cfg.Export.Enabled {
				deps.Exporter = charts.NewExporter(cfg.Export.Dir, logger)
			}

			dash, err := dashboard.New(deps)
			if err != nil {
				return err
			}
			defer dash.Teardown()

			report := dash.Initialize(cmd.Context())
			dash.Settle()

			if jsonOutput {
				if err := writeJSON(cmd, buildSnapshot(dash, report)); err != nil {
					return err
				}
			} else {
				printSnapshot(cmd, dash, report, colorize)
			}

			if len(report.Failed) == len(snapshotEndpoints) {
				return errors.New("snapshot failed: no dataset could be loaded")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the snapshot as JSON")
	cmd.Flags().StringVar(&exportDir, "export", "", "Write SVG charts into this directory")
	return cmd
}

func buildSnapshot(dash *dashboard.Dashboard, report dashboard.Report) snapshotOutput {
	scr := dash.Screen()
	snap := snapshotOutput{
		CycleID:  report.CycleID,
		Cards:    make(map[string]string, len(snapshotCards)),
		Failed:   report.Failed,
		Errors:   report.Errors,
		Exported: report.Exported,
	}
	if el, ok := scr.Element(screen.IDUpdateTime); ok {
		snap.UpdatedAt = el.Text()
	}
	for _, id := range snapshotCards {
		if el, ok := scr.Element(id); ok {
			snap.Cards[id] = el.Text()
		}
	}
	for _, c := range dash.Registry().Live() {
		opt := c.Option()
		entry := snapshotChart{Name: string(c.Name()), Title: opt.Title, Categories: c.Categories()}
		if opt.Kind == charts.KindDonut {
			for _, s := range c.TargetSlices() {
				entry.Slices = append(entry.Slices, snapshotSlice{Name: s.Name, Value: s.Value, Color: s.Color})
			}
		} else {
			for i, values := range c.Targets() {
				series := snapshotSeries{Values: values}
				if i < len(opt.Series) {
					series.Name, series.Color = opt.Series[i].Name, opt.Series[i].Color
				}
				entry.Series = append(entry.Series, series)
			}
		}
		snap.Charts = append(snap.Charts, entry)
	}
	return snap
}

func printSnapshot(cmd *cobra.Command, dash *dashboard.Dashboard, report dashboard.Report, colorize bool) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, dash.Screen().Frame(time.Now().Add(time.Hour)))
	fmt.Fprintln(out)

	status := newStatusReport(out, colorize)
	status.section("Datasets")
	for _, endpoint := range snapshotEndpoints {
		label := strings.TrimPrefix(endpoint, "/api/")
		if msg, failed := report.Errors[endpoint]; failed {
			status.line(label, levelError, msg)
			continue
		}
		status.line(label, levelOK, "")
	}

	if len(report.Exported) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, exportTable(report.Exported))
	}
}
