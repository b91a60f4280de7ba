package reports

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ofarias/plantmrp/pkg/application/dto"
)

// XLSXWriter writes each table as a single-sheet workbook under Dir. The
// filename is derived from the table name.
type XLSXWriter struct {
	Dir string
}

var _ Sink = (*XLSXWriter)(nil)

func NewXLSXWriter(dir string) *XLSXWriter {
	return &XLSXWriter{Dir: dir}
}

func (w *XLSXWriter) Write(table *dto.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := setRow(f, sheet, 1, table.Headers); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	path := filepath.Join(w.Dir, fileName(table.Name)+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func fileName(name string) string {
	clean := strings.ToLower(name)
	replacer := strings.NewReplacer(
		" ", "_",
		"ç", "c", "ã", "a", "á", "a", "é", "e", "ê", "e", "í", "i", "ó", "o", "õ", "o", "ú", "u",
	)
	return replacer.Replace(clean)
}
