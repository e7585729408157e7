package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/scenesmith/scenesmith/internal/pipeline"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8fc279"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5dc796"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ba8c0"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f04c56"))
)

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range header {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// printResults renders one naming-result table plus a summary line.
func printResults(heading string, results []pipeline.Result) {
	fmt.Println(headingStyle.Render(heading))

	if len(results) == 0 {
		fmt.Println(mutedStyle.Render("nothing to do"))
		return
	}

	rows := make([][]string, 0, len(results))
	skipped := 0
	for _, r := range results {
		status := string(r.Reason)
		if r.Skipped != "" {
			status = "skipped: " + r.Skipped
			skipped++
		}
		rows = append(rows, []string{r.Title, r.Original, r.Proposed, status})
	}
	fmt.Println(renderTable([]string{"Title", "Original", "Proposed", "Status"}, rows))

	summary := fmt.Sprintf("%d processed", len(results)-skipped)
	if skipped > 0 {
		summary += fmt.Sprintf(", %d skipped", skipped)
	}
	fmt.Println(successStyle.Render(summary))
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
