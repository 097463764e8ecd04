package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/log"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/presentation"
)

// SheetName is the single sheet holding the exported row.
const SheetName = "Consulta"

// WriteXLSX serializes the flat display mapping as one spreadsheet row:
// labels on the header row, values on the row below.
func WriteXLSX(path string, fields []presentation.Field) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	for i, field := range fields {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("resolving column %d: %w", i+1, err)
		}
		if err := f.SetCellValue(SheetName, col+"1", field.Label); err != nil {
			return fmt.Errorf("writing header %q: %w", field.Label, err)
		}
		if err := f.SetCellValue(SheetName, col+"2", field.Value); err != nil {
			return fmt.Errorf("writing value for %q: %w", field.Label, err)
		}
		// Size the column to its widest cell so the row is readable as-is.
		width := float64(len(field.Label))
		if w := float64(len(field.Value)); w > width {
			width = w
		}
		if width > 60 {
			width = 60
		}
		if err := f.SetColWidth(SheetName, col, col, width+2); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		log.ErrorErr(log.CatExport, "Failed to save spreadsheet", err, "path", path)
		return fmt.Errorf("saving spreadsheet: %w", err)
	}
	log.Info(log.CatExport, "Spreadsheet written", "path", path, "columns", len(fields))
	return nil
}
