package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

const statsSheet = "Stats"

// BuildStatsReport renders an aggregate (and, when available, the report
// forecast) as an xlsx workbook.
func BuildStatsReport(agg *AggregateResult, forecast *ForecastResult) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", statsSheet)

	headers := []any{"Location", "Visits", "Primary items", "Secondary items"}
	if err := f.SetSheetRow(statsSheet, "A1", &headers); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(agg.PerCategory))
	for name := range agg.PerCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	row := 2
	for _, name := range names {
		stats := agg.PerCategory[name]
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := []any{name, stats.Primary, stats.Secondary1, stats.Secondary2}
		if err := f.SetSheetRow(statsSheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	totals := []any{"Total", agg.Total.Primary, agg.Total.Secondary1, agg.Total.Secondary2}
	if err := f.SetSheetRow(statsSheet, cell, &totals); err != nil {
		return nil, err
	}

	mode := "live"
	if agg.Cached {
		mode = "cached"
	}
	footer := []any{fmt.Sprintf("Year %s (%s)", agg.Year, mode)}
	cell, err = excelize.CoordinatesToCellName(1, row+2)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(statsSheet, cell, &footer); err != nil {
		return nil, err
	}

	if forecast != nil {
		if err := addForecastSheet(f, forecast); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func addForecastSheet(f *excelize.File, forecast *ForecastResult) error {
	const sheet = "Forecast"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Last report", forecast.LastTimestamp.Format(time.RFC3339)},
		{"Next report", forecast.NextTime.Format(time.RFC3339)},
		{"Countdown", forecast.Countdown},
		{"Missed cycles", forecast.MissedCycles},
		{"Next calendar slot", forecast.NextCalendar.Format(time.RFC3339)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
