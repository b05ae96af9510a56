package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type statusLevel int

const (
	levelInfo statusLevel = iota
	levelOK
	levelWarn
	levelError
)

var levelStyles = [...]struct {
	tag   string
	color text.Colors
}{
	levelInfo:  {"INFO", text.Colors{text.FgBlue}},
	levelOK:    {"OK", text.Colors{text.FgGreen}},
	levelWarn:  {"WARN", text.Colors{text.FgYellow}},
	levelError: {"ERROR", text.Colors{text.FgRed}},
}

const labelWidth = 22

// statusReport prints titled sections of "label: [TAG] detail" lines, as
// used by config validate and the snapshot dataset summary.
type statusReport struct {
	out      io.Writer
	colorize bool
	sections int
}

func newStatusReport(out io.Writer, colorize bool) *statusReport {
	return &statusReport{out: out, colorize: colorize}
}

func (r *statusReport) section(title string) {
	if r.sections > 0 {
		fmt.Fprintln(r.out)
	}
	r.sections++
	heading := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(heading))
	if r.colorize {
		heading, rule = text.FgBlue.Sprint(heading), text.FgBlue.Sprint(rule)
	}
	fmt.Fprintln(r.out, heading)
	fmt.Fprintln(r.out, rule)
}

func (r *statusReport) line(label string, level statusLevel, detail string) {
	line := formatStatus(label, level, detail)
	if r.colorize {
		line = levelStyles[level].color.Sprint(line)
	}
	fmt.Fprintln(r.out, line)
}

func formatStatus(label string, level statusLevel, detail string) string {
	status := "[" + levelStyles[level].tag + "]"
	if detail != "" {
		status += " " + detail
	}
	return fmt.Sprintf("  %-*s %s", labelWidth, label+":", status)
}

// exportTable lists written chart files by chart name.
func exportTable(paths []string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Chart", "File"})
	for _, path := range paths {
		tw.AppendRow(table.Row{strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), path})
	}
	return tw.Render()
}
