package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"SkinIndex/internal/model"
)

const chartSheet = "Chart"

// WriteWorkbook writes chart as an XLSX workbook: one row per day with the
// mean price and every moving average; empty cells where an average is undefined.
func WriteWorkbook(w io.Writer, chart *model.Chart) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", chartSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"Date", "Price"}
	for _, ov := range chart.MovingAverages {
		header = append(header, fmt.Sprintf("MA %d", ov.Window))
	}
	if err := f.SetSheetRow(chartSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, label := range chart.Labels {
		row := []interface{}{label, chart.Prices[i]}
		for _, ov := range chart.MovingAverages {
			if v := ov.Values[i]; v.Valid {
				row = append(row, v.Float64)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(chartSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{Title: chart.Title}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
