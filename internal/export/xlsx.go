package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/loadwise/vanpack/internal/model"
)

// manifestHeader lists the columns written for each loaded item.
var manifestHeader = []string{
	"ID", "Name", "Width", "Height", "Depth", "Weight", "Priority",
	"X", "Y", "Z", "Rotation",
}

// ExportXLSX writes a load manifest workbook: one sheet per bin with every
// loaded item and its placement, plus a summary sheet.
func ExportXLSX(path string, configuration model.Configuration, stats model.Statistics) error {
	if len(configuration) == 0 {
		return fmt.Errorf("no bins to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Bins used", len(configuration)},
		{"Items loaded", configuration.ItemCount()},
		{"Loaded volume", stats.LoadedVolume.String()},
		{"Loaded weight", stats.LoadedWeight.String()},
		{"Average fill ratio", stats.AverageVolume.String()},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	for binIdx, bin := range configuration {
		sheet := fmt.Sprintf("Bin %d", binIdx+1)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}

		info := []interface{}{bin.Model.Name, fmt.Sprintf("%s x %s x %s", bin.Model.Size.X, bin.Model.Size.Y, bin.Model.Size.Z),
			fmt.Sprintf("weight %s / %s", bin.Weight, bin.MaxWeight())}
		if err := f.SetSheetRow(sheet, "A1", &info); err != nil {
			return fmt.Errorf("failed to write bin info: %w", err)
		}

		header := make([]interface{}, len(manifestHeader))
		for i, h := range manifestHeader {
			header[i] = h
		}
		if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}

		for i, it := range bin.Items {
			row := []interface{}{
				it.ID, it.Name,
				it.Width().String(), it.Height().String(), it.Depth().String(),
				it.Weight.String(), it.Priority,
				it.Position().X.String(), it.Position().Y.String(), it.Position().Z.String(),
				it.Rotation(),
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+3)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("failed to write item row: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
