package output

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/mwiater/k6merge/internal/report"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	typeColors = map[report.MetricType]*color.Color{
		report.MetricCounter: color.New(color.FgCyan),
		report.MetricGauge:   color.New(color.FgYellow),
		report.MetricRate:    color.New(color.FgGreen),
		report.MetricTrend:   color.New(color.FgMagenta),
	}
	unknownType = color.New(color.FgHiBlack)
)

// WriteSummary renders the merged metrics as a table, one row per metric in document order.
func WriteSummary(w io.Writer, doc report.Document) error {
	durationMs := doc.State.DurationMs()
	title := titleStyle.Render(fmt.Sprintf("k6 merged summary: %d metrics over %s",
		doc.Metrics.Len(), formatDuration(durationMs)))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("METRIC", "TYPE", "CONTAINS", "VALUES").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	doc.Metrics.Each(func(name string, m report.Metric) {
		t.Row(name, colorType(m.Type), m.Contains, formatValues(m))
	})

	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, t.Render()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func colorType(t report.MetricType) string {
	name := string(t)
	if name == "" {
		name = "-"
	}
	if c, ok := typeColors[t]; ok {
		return c.Sprint(name)
	}
	return unknownType.Sprint(name)
}

func formatValues(m report.Metric) string {
	fields := m.Values.Fields()
	if len(fields) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Name+"="+formatValue(m.Contains, f))
	}
	return strings.Join(parts, " ")
}

// formatValue renders time stats in milliseconds. Counts and rates are never times.
func formatValue(contains string, f report.Field) string {
	switch f.Name {
	case "count", "passes", "fails", "rate":
		return formatNumber(f.Value)
	}
	if contains == "time" {
		return formatNumber(f.Value) + "ms"
	}
	return formatNumber(f.Value)
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func formatDuration(ms float64) string {
	if ms < 1000 {
		return formatNumber(ms) + "ms"
	}
	return formatNumber(ms/1000) + "s"
}
