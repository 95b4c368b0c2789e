// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/tierboard/models"
)

const (
	namesSheet  = "Results"
	countsSheet = "Counts"
)

// ResultsWorkbook writes aggregated results as an xlsx file with two sheets:
// participant names per tier and vote counts per tier.
func ResultsWorkbook(res models.ProjectResults) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", namesSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(countsSheet); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	header := []any{"Item"}
	for _, t := range models.Tiers {
		header = append(header, string(t))
	}

	for _, sheet := range []string{namesSheet, countsSheet} {
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
		if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
			return nil, fmt.Errorf("failed to size column: %w", err)
		}
	}

	for i, r := range res.Items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		names := []any{r.Item.Name}
		counts := []any{r.Item.Name}
		for _, t := range models.Tiers {
			names = append(names, strings.Join(r.Tiers[t], ", "))
			counts = append(counts, r.Counts[t])
		}
		if err := f.SetSheetRow(namesSheet, cell, &names); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
		if err := f.SetSheetRow(countsSheet, cell, &counts); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
