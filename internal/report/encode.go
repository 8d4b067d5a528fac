package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"qreport/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// Download names and content types of the exported report
const (
	CSVFileName     = "transformed_question_report.csv"
	CSVContentType  = "text/csv"
	XLSXFileName    = "transformed_question_report.xlsx"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	xlsxSheetName = "Report"
)

// Table exposes the wide table as a header plus rows
func (w *WideTable) Table() *dataset.Table {
	return &dataset.Table{Headers: w.Columns, Rows: w.Rows}
}

// WriteCSV writes t as comma-separated UTF-8 text with a header row
func WriteCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// WriteXLSX writes t as a single-sheet workbook. All cells are stored as
// text so question identifiers and labels keep their literal form.
func WriteXLSX(w io.Writer, t *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeXLSXRow(f, 1, t.Headers); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeXLSXRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeXLSXRow(f *excelize.File, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(xlsxSheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
