package sheet

import (
	"strings"

	"github.com/desertthunder/vidtrack/internal/models"
)

// Summarize derives summary statistics from a reconciled table.
//
// Fully-empty rows are dropped before counting. Fields whose source column is
// absent from the table stay nil so a missing column is never reported as a
// zero count.
func Summarize(t *Table) *models.StatsReport {
	report := &models.StatsReport{}
	if t == nil {
		return report
	}

	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if !row.IsEmpty() {
			rows = append(rows, row)
		}
	}
	report.TotalRows = len(rows)

	if t.HasColumn(ColAddedToDB) {
		inDB, notInDB := 0, 0
		for _, row := range rows {
			if row.AddedToDB {
				inDB++
			} else {
				notInDB++
			}
		}
		report.InDatabase = &inDB
		report.NotInDatabase = &notInDB
	}

	if t.HasColumn(ColURL) {
		urls := map[string]struct{}{}
		for _, row := range rows {
			if row.URL != "" {
				urls[row.URL] = struct{}{}
			}
		}
		distinct := len(urls)
		report.DistinctURLs = &distinct
	}

	var latest, oldest *Row
	for i := range rows {
		row := &rows[i]
		if !row.DateKnown {
			continue
		}
		if latest == nil || row.Date.After(latest.Date) {
			latest = row
		}
		if oldest == nil || row.Date.Before(oldest.Date) {
			oldest = row
		}
	}
	if latest != nil {
		report.Latest = &models.RowRef{Title: latest.Title, Date: latest.Date}
		report.Oldest = &models.RowRef{Title: oldest.Title, Date: oldest.Date}
		days := int(latest.Date.Sub(oldest.Date).Hours() / 24)
		report.TimespanDays = &days
	}

	if t.HasColumn(ColCategories) {
		tally := map[string]int{}
		for _, row := range rows {
			for _, category := range strings.Split(row.Categories, ",") {
				category = strings.TrimSpace(category)
				if category != "" {
					tally[category]++
				}
			}
		}
		report.Categories = tally
	}

	return report
}
