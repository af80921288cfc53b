package workbook

import (
	"fmt"
	"io"
	"strconv"

	"github.com/etnz/folio"
	"github.com/xuri/excelize/v2"
)

// DecodeXLSX decodes an Office Open XML workbook.
//
// Numeric cells (dates included, as spreadsheet serials) become float64,
// booleans become bool, and every other cell stays a string.
func DecodeXLSX(r io.Reader) (folio.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode xlsx: %w", err)
	}
	defer f.Close()

	book := folio.NewBook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}
		grid := make([][]folio.Cell, len(rows))
		for i, row := range rows {
			grid[i] = make([]folio.Cell, len(row))
			for j, raw := range row {
				if raw == "" {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					return nil, err
				}
				typ, err := f.GetCellType(name, ref)
				if err != nil {
					return nil, fmt.Errorf("could not read cell %s!%s: %w", name, ref, err)
				}
				grid[i][j] = typed(raw, typ)
			}
		}
		book.Add(folio.NewSheet(name, grid))
	}
	return book, nil
}

// typed converts a raw cell value according to its type.
func typed(raw string, typ excelize.CellType) folio.Cell {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		// number cells usually have no explicit type.
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	case excelize.CellTypeError:
		return nil
	default:
		return raw
	}
}
