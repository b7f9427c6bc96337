package report

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "History"

// WriteXLSX renders t as a workbook with a single sheet. The title goes in
// the document properties, headers in row 1 and records below.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: t.Title}); err != nil {
		return err
	}

	cols := columnCount(t)
	if cols == 0 {
		return f.Write(w)
	}

	header := make([]interface{}, cols)
	for i := range header {
		header[i] = cell(t.Headers, i)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1A237E"}},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return err
	}

	for r, row := range t.Rows {
		values := make([]interface{}, cols)
		for i := range values {
			values[i] = cell(row, i)
		}
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, start, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
