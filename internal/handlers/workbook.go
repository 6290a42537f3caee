// internal/handlers/workbook.go
package handlers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/sweetshop-be/internal/core/domain"
)

// SheetName is the worksheet written by exports and read first by imports
const SheetName = "Inventory"

var workbookHeaders = []string{"ID", "Name", "Category", "Price", "Quantity"}

// EncodeWorkbook renders records as a single-sheet xlsx file
func EncodeWorkbook(records []domain.Record) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	header := sheet.AddRow()
	for _, title := range workbookHeaders {
		cell := header.AddCell()
		cell.Value = title
		cell.GetStyle().Font.Bold = true
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetInt64(rec.ID)
		row.AddCell().Value = rec.Name
		row.AddCell().Value = rec.Category
		// text keeps every decimal place through an export/import round trip
		row.AddCell().SetString(rec.Price.String())
		row.AddCell().SetInt(rec.Quantity)
	}

	for i := range workbookHeaders {
		sheet.SetColWidth(i+1, i+1, 18)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WorkbookRow is one parsed data row; Err is set when the row is unusable
type WorkbookRow struct {
	Line int
	Item domain.NewItem
	Err  error
}

// DecodeWorkbook reads Name, Category, Price, Quantity rows from the first
// sheet. Columns are located by header title so an exported file, which
// carries an extra ID column, imports cleanly. Blank rows are skipped.
func DecodeWorkbook(data []byte) ([]WorkbookRow, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, domain.NewValidationError("file", "has no worksheets")
	}

	var (
		rows    []WorkbookRow
		columns map[string]int
	)

	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		line := r.GetCoordinate() + 1
		if columns == nil {
			cols, headerErr := headerColumns(r)
			columns = cols
			return headerErr
		}

		get := func(name string) string {
			cell := r.GetCell(columns[name])
			if cell == nil {
				return ""
			}
			return strings.TrimSpace(cell.String())
		}

		name, category, price, quantity := get("name"), get("category"), get("price"), get("quantity")
		if name == "" && category == "" && price == "" && quantity == "" {
			return nil
		}

		row := WorkbookRow{Line: line, Item: domain.NewItem{Name: name, Category: category}}
		row.Item.Price, row.Err = decimal.NewFromString(strings.TrimPrefix(price, "$"))
		if row.Err != nil {
			row.Err = domain.NewValidationError("price", "must be a number")
		} else if row.Item.Quantity, row.Err = parseQuantity(quantity); row.Err != nil {
			row.Err = domain.NewValidationError("quantity", "must be a whole number")
		}

		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func headerColumns(r *xlsx.Row) (map[string]int, error) {
	columns := make(map[string]int)
	r.ForEachCell(func(c *xlsx.Cell) error {
		col, _ := c.GetCoordinates()
		title := strings.ToLower(strings.TrimSpace(c.String()))
		if _, seen := columns[title]; !seen && title != "" {
			columns[title] = col
		}
		return nil
	})

	for _, required := range []string{"name", "category", "price", "quantity"} {
		if _, ok := columns[required]; !ok {
			return nil, domain.NewValidationError("file", fmt.Sprintf("missing %q column", required))
		}
	}
	return columns, nil
}

func parseQuantity(s string) (int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return int(d.IntPart()), nil
}
