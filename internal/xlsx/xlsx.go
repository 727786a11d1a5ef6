// Package xlsx reads and writes the Excel exchange format for catalog
// items.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Items"

var headers = []string{"Name", "Category", "Size", "Quantity", "Price", "Created At"}

// Write renders items to a workbook the import side can read back.
func Write(w io.Writer, items []models.ClothingItem) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for i, item := range items {
		row := i + 2
		values := []any{
			item.Name,
			item.Category,
			item.Size,
			item.Quantity,
			item.Price.StringFixed(2),
			item.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Parse reads item rows from the first sheet of a workbook. The header
// row is skipped; fully empty rows are ignored.
func Parse(r io.Reader) ([]service.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	out := make([]service.ImportRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		parsed, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

func parseRow(row []string) (service.ImportRow, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	parsed := service.ImportRow{
		Name:     get(0),
		Category: get(1),
		Size:     get(2),
		Price:    decimal.Zero,
	}
	if q := get(3); q != "" {
		qty, err := strconv.Atoi(q)
		if err != nil {
			return parsed, fmt.Errorf("quantity %q: %w", q, err)
		}
		parsed.Quantity = qty
	}
	if p := get(4); p != "" {
		price, err := decimal.NewFromString(p)
		if err != nil {
			return parsed, fmt.Errorf("price %q: %w", p, err)
		}
		parsed.Price = price
	}
	return parsed, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
