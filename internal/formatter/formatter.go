// package formatter renders sheet data and run summaries to various formats (CSV, tables, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/sheet"
)

// ExportToCSV serializes a sheet table to CSV with its header row first.
func ExportToCSV(t *sheet.Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			record[i] = row.Cell(col)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSVExport writes a sheet table to a CSV file at path.
func WriteCSVExport(t *sheet.Table, path string) (string, error) {
	if path == "" {
		path = "videos_export.csv"
	}

	data, err := ExportToCSV(t)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}

// RenderVideos formats a list of videos as numbered plain text lines.
func RenderVideos(videos []models.Video) []byte {
	var buf bytes.Buffer

	for i, v := range videos {
		label := v.CategoryLabel()
		if label != "" {
			label = " [" + label + "]"
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, v.Title, label))
		buf.WriteString(fmt.Sprintf("   %s (%s)\n", v.URL, v.PublishedAt.Format(models.SheetTimeLayout)))
	}

	return buf.Bytes()
}

// RenderStats formats a stats report as a rounded two-column table.
//
// Fields backed by a missing sheet column are reported as "n/a" rather
// than zero.
func RenderStats(report *models.StatsReport) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})

	tw.AppendRow(table.Row{"Total rows", strconv.Itoa(report.TotalRows)})
	tw.AppendRow(table.Row{"In database", renderCount(report.InDatabase)})
	tw.AppendRow(table.Row{"Not in database", renderCount(report.NotInDatabase)})
	tw.AppendRow(table.Row{"Distinct URLs", renderCount(report.DistinctURLs)})
	tw.AppendRow(table.Row{"Latest video", renderRef(report.Latest)})
	tw.AppendRow(table.Row{"Oldest video", renderRef(report.Oldest)})
	tw.AppendRow(table.Row{"Timespan (days)", renderCount(report.TimespanDays)})

	if report.Categories != nil {
		names := make([]string, 0, len(report.Categories))
		for name := range report.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			tw.AppendRow(table.Row{"Category: " + name, strconv.Itoa(report.Categories[name])})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func renderCount(n *int) string {
	if n == nil {
		return "n/a"
	}
	return strconv.Itoa(*n)
}

func renderRef(ref *models.RowRef) string {
	if ref == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s (%s)", ref.Title, ref.Date.Format(models.CutoffDateLayout))
}

// RenderRunSummary formats the outcome of a pipeline run as plain text.
func RenderRunSummary(fetched, classified, unclassified, newlyAdded int, persisted bool) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Fetched: %d\n", fetched))
	buf.WriteString(fmt.Sprintf("Classified: %d (%d unmatched)\n", classified, unclassified))
	buf.WriteString(fmt.Sprintf("Newly added: %d\n", newlyAdded))
	if persisted {
		buf.WriteString("Sheet updated.\n")
	} else {
		buf.WriteString("Sheet NOT updated.\n")
	}

	return buf.Bytes()
}
