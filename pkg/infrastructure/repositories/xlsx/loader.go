// Package xlsx adapts the spreadsheet files the planning cycle is fed with
// (and re-ingests) into domain entities. The sheet layouts follow the plant's
// established workbooks: Estoque.xlsx, one <PRODUCT>_BOM.xlsx per final
// product, Cotacoes.xlsx and the three capacity tables.
package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
)

// Loader handles loading planning data from xlsx workbooks.
type Loader struct{}

// NewLoader creates a new xlsx loader.
func NewLoader() *Loader {
	return &Loader{}
}

// bomFileSuffix names the per-product BOM workbooks; the product code is the
// file name with the suffix stripped.
const bomFileSuffix = "_BOM.xlsx"

var materialsHeader = []string{
	"Material", "Em Estoque", "Mínimo", "Custo Medio Unitario",
	"Imposto Medio Unitario", "Frete Medio Lote", "Leadtime Medio Lote",
}

var quotesHeader = []string{
	"Material", "Custo Unitario", "Imposto Unitario", "Frete Lote", "Leadtime Lote",
}

// LoadMaterials loads the material ledger from the stock workbook.
func (l *Loader) LoadMaterials(filename string) ([]*entities.Material, error) {
	rows, err := readRows(filename)
	if err != nil {
		return nil, err
	}
	if err := validateHeader(rows, materialsHeader, filename); err != nil {
		return nil, err
	}

	var materials []*entities.Material
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) < len(materialsHeader) {
			return nil, fmt.Errorf("%w: %s row %d: expected %d columns, got %d",
				entities.ErrValidation, filename, i+2, len(materialsHeader), len(row))
		}

		onHand, err := parseDecimal(row[1])
		if err != nil {
			return nil, rowErr(filename, i+2, "on-hand stock", err)
		}
		minimum, err := parseDecimal(row[2])
		if err != nil {
			return nil, rowErr(filename, i+2, "minimum stock", err)
		}
		unitCost, err := parseDecimal(row[3])
		if err != nil {
			return nil, rowErr(filename, i+2, "unit cost", err)
		}
		unitTax, err := parseDecimal(row[4])
		if err != nil {
			return nil, rowErr(filename, i+2, "unit tax", err)
		}
		freight, err := parseDecimal(row[5])
		if err != nil {
			return nil, rowErr(filename, i+2, "lot freight", err)
		}
		leadTime, err := parseInt(row[6])
		if err != nil {
			return nil, rowErr(filename, i+2, "lot leadtime", err)
		}

		material, err := entities.NewMaterial(
			entities.MaterialCode(strings.TrimSpace(row[0])),
			onHand, minimum, unitCost, unitTax, freight, leadTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filename, i+2, err)
		}
		materials = append(materials, material)
	}

	return materials, nil
}

// LoadBOMDir loads every <PRODUCT>_BOM.xlsx workbook in a directory into one
// set of BOM lines.
func (l *Loader) LoadBOMDir(dir string) ([]*entities.BOMLine, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read BOM directory %s: %w", dir, err)
	}

	var lines []*entities.BOMLine
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), bomFileSuffix) {
			continue
		}
		product := entities.MaterialCode(strings.TrimSuffix(entry.Name(), bomFileSuffix))
		fileLines, err := l.LoadBOMFile(filepath.Join(dir, entry.Name()), product)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fileLines...)
	}
	return lines, nil
}

// LoadBOMFile loads one product's BOM workbook. Rows whose quantity cell is
// not numeric (the header, or the product's own name row at the top of the
// sheet) are skipped, matching how the workbooks are laid out.
func (l *Loader) LoadBOMFile(filename string, product entities.MaterialCode) ([]*entities.BOMLine, error) {
	rows, err := readRows(filename)
	if err != nil {
		return nil, err
	}

	var lines []*entities.BOMLine
	for _, row := range rows {
		if len(row) < 2 || isBlank(row) {
			continue
		}
		qtyPer, err := parseDecimal(row[1])
		if err != nil {
			continue
		}
		component := entities.MaterialCode(strings.TrimSpace(row[0]))
		if component == product {
			continue
		}

		line, err := entities.NewBOMLine(product, component, qtyPer)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadQuotes loads a quotation workbook.
func (l *Loader) LoadQuotes(filename string) ([]*entities.Quote, error) {
	rows, err := readRows(filename)
	if err != nil {
		return nil, err
	}
	if err := validateHeader(rows, quotesHeader, filename); err != nil {
		return nil, err
	}

	var quotes []*entities.Quote
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) < len(quotesHeader) {
			return nil, fmt.Errorf("%w: %s row %d: expected %d columns, got %d",
				entities.ErrValidation, filename, i+2, len(quotesHeader), len(row))
		}

		unitCost, err := parseDecimal(row[1])
		if err != nil {
			return nil, rowErr(filename, i+2, "unit cost", err)
		}
		unitTax, err := parseDecimal(row[2])
		if err != nil {
			return nil, rowErr(filename, i+2, "unit tax", err)
		}
		freight, err := parseDecimal(row[3])
		if err != nil {
			return nil, rowErr(filename, i+2, "lot freight", err)
		}
		leadTime, err := parseInt(row[4])
		if err != nil {
			return nil, rowErr(filename, i+2, "lot leadtime", err)
		}

		quote, err := entities.NewQuote(
			entities.MaterialCode(strings.TrimSpace(row[0])),
			unitCost, unitTax, freight, leadTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filename, i+2, err)
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// LoadResourceDemand loads the resource demand matrix: one row per product,
// one column per operation with minutes per unit.
func (l *Loader) LoadResourceDemand(filename string) ([]*entities.ResourceDemand, error) {
	rows, err := readRows(filename)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("%w: %s must have a product column and at least one operation column",
			entities.ErrValidation, filename)
	}

	operations := rows[0][1:]
	var demand []*entities.ResourceDemand
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		minutes := make(map[entities.Operation]decimal.Decimal, len(operations))
		for col, op := range operations {
			value, err := parseDecimal(cell(row, col+1))
			if err != nil {
				return nil, rowErr(filename, i+2, "operation "+string(op), err)
			}
			minutes[entities.Operation(strings.TrimSpace(op))] = value
		}

		demandRow, err := entities.NewResourceDemand(entities.MaterialCode(strings.TrimSpace(row[0])), minutes)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filename, i+2, err)
		}
		demand = append(demand, demandRow)
	}
	return demand, nil
}

// LoadResourceCapacity loads the nominal capacity table: one row per
// resource, one column per operation with minutes per day.
func (l *Loader) LoadResourceCapacity(filename string) ([]*entities.ResourceCapacity, error) {
	rows, err := readRows(filename)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("%w: %s must have a resource column and at least one operation column",
			entities.ErrValidation, filename)
	}

	operations := rows[0][1:]
	var capacities []*entities.ResourceCapacity
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		minutes := make(map[entities.Operation]decimal.Decimal, len(operations))
		for col, op := range operations {
			value, err := parseDecimal(cell(row, col+1))
			if err != nil {
				return nil, rowErr(filename, i+2, "operation "+string(op), err)
			}
			minutes[entities.Operation(strings.TrimSpace(op))] = value
		}

		capacity, err := entities.NewResourceCapacity(entities.ResourceCode(strings.TrimSpace(row[0])), minutes)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filename, i+2, err)
		}
		capacities = append(capacities, capacity)
	}
	return capacities, nil
}

// LoadCapacityExceptions loads the dated capacity reductions. The sheet is
// laid out in blocks: a header row naming a resource and its operation
// columns, followed by rows keyed by date with the reduction per operation.
func (l *Loader) LoadCapacityExceptions(filename string) ([]*entities.CapacityException, error) {
	rows, err := readRows(filename)
	if err != nil {
		return nil, err
	}

	var (
		exceptions []*entities.CapacityException
		resource   entities.ResourceCode
		operations []entities.Operation
	)
	for i, row := range rows {
		if isBlank(row) {
			continue
		}

		if !isDate(row[0]) {
			// Block header: resource code plus its operation columns.
			if len(row) < 2 {
				return nil, fmt.Errorf("%w: %s row %d: resource header needs at least one operation",
					entities.ErrValidation, filename, i+1)
			}
			resource = entities.ResourceCode(strings.TrimSpace(row[0]))
			operations = operations[:0]
			for _, op := range row[1:] {
				operations = append(operations, entities.Operation(strings.TrimSpace(op)))
			}
			continue
		}

		if resource == "" {
			return nil, fmt.Errorf("%w: %s row %d: dated row before any resource header",
				entities.ErrValidation, filename, i+1)
		}
		for col, op := range operations {
			reduction, err := parseDecimal(cell(row, col+1))
			if err != nil {
				return nil, rowErr(filename, i+1, "operation "+string(op), err)
			}
			exception, err := entities.NewCapacityException(resource, op, strings.TrimSpace(row[0]), reduction)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", filename, i+1, err)
			}
			exceptions = append(exceptions, exception)
		}
	}
	return exceptions, nil
}

// LoadPlanningBoard re-ingests an exported planning board workbook. The
// export collapses order kinds into date columns, so re-ingested deliveries
// carry KindUnspecified; only totals survive the round trip.
func (l *Loader) LoadPlanningBoard(filename string) (*entities.PlanningBoard, error) {
	rows, err := readRows(filename)
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 || len(rows[0]) < 2 ||
		!strings.EqualFold(strings.TrimSpace(rows[0][0]), "Material") ||
		!strings.EqualFold(strings.TrimSpace(rows[0][1]), "Estoque Atual") {
		return nil, fmt.Errorf("%w: %s is not a planning board sheet", entities.ErrValidation, filename)
	}

	dates := rows[0][2:]
	board := entities.NewPlanningBoard()
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		material := entities.MaterialCode(strings.TrimSpace(row[0]))
		stock, err := parseDecimal(cell(row, 1))
		if err != nil {
			return nil, rowErr(filename, i+2, "current stock", err)
		}

		for col, date := range dates {
			raw := cell(row, col+2)
			if strings.TrimSpace(raw) == "" {
				continue
			}
			quantity, err := parseDecimal(raw)
			if err != nil {
				return nil, rowErr(filename, i+2, "quantity for "+date, err)
			}
			if !quantity.IsPositive() {
				continue
			}
			board.Schedule(material, stock, entities.ScheduledDelivery{
				Kind:     entities.KindUnspecified,
				Date:     strings.TrimSpace(date),
				Quantity: quantity,
			})
		}
	}
	return board, nil
}

// readRows opens a workbook and returns the rows of its first sheet.
func readRows(filename string) ([][]string, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", filename, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook %s has no sheets", entities.ErrValidation, filename)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheets[0], filename, err)
	}
	return rows, nil
}

// validateHeader checks the first row against the expected column names.
func validateHeader(rows [][]string, expected []string, filename string) error {
	if len(rows) < 2 {
		return fmt.Errorf("%w: %s must have a header and at least one data row", entities.ErrValidation, filename)
	}
	header := rows[0]
	if len(header) < len(expected) {
		return fmt.Errorf("%w: %s header mismatch, expected %v, got %v", entities.ErrValidation, filename, expected, header)
	}
	for i, want := range expected {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("%w: %s header mismatch, expected %v, got %v", entities.ErrValidation, filename, expected, header)
		}
	}
	return nil
}

func rowErr(filename string, row int, field string, err error) error {
	return fmt.Errorf("%s row %d: invalid %s: %w", filename, row, field, err)
}

// cell returns the column's value, tolerating rows that were truncated at the
// last non-empty cell.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isDate(value string) bool {
	_, err := time.Parse(entities.BoardDateLayout, strings.TrimSpace(value))
	return err == nil
}

func parseDecimal(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", entities.ErrValidation, value)
	}
	return d, nil
}

func parseInt(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	// Sheets often store integers as "11.0".
	d, err := decimal.NewFromString(trimmed)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q is not an integer", entities.ErrValidation, value)
	}
	return int(d.IntPart()), nil
}
