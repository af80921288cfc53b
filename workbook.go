package folio

import (
	"fmt"
	"slices"
	"strings"
)

// Cell is a raw spreadsheet value: nil, string, float64, bool or time.Time.
type Cell any

// Workbook is the in-memory representation of a decoded spreadsheet file.
type Workbook interface {
	// SheetNames returns the sheet names in workbook order.
	SheetNames() []string
	// Sheet returns the named sheet, or nil if there is none.
	Sheet(name string) *Sheet
}

// Sheet is a rectangular grid of cells.
//
// It can be read positionally, for fixed-layout valuation sheets, or as
// header-keyed rows where the first row holds the headers.
type Sheet struct {
	Name string
	grid [][]Cell
}

// NewSheet creates a sheet from row-major cells. Rows may have different lengths.
func NewSheet(name string, grid [][]Cell) *Sheet {
	return &Sheet{Name: name, grid: grid}
}

// Len returns the number of rows in the sheet, headers included.
func (s *Sheet) Len() int { return len(s.grid) }

// Cell returns the cell at the given zero-based position, or nil when out of range.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.grid) {
		return nil
	}
	r := s.grid[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// Headers returns the trimmed textual content of the first row.
func (s *Sheet) Headers() []string {
	if len(s.grid) == 0 {
		return nil
	}
	headers := make([]string, len(s.grid[0]))
	for i, c := range s.grid[0] {
		headers[i] = strings.TrimSpace(cellText(c))
	}
	return headers
}

// Rows returns the header-keyed data rows, skipping the header row.
func (s *Sheet) Rows() []Row {
	headers := s.Headers()
	if len(s.grid) < 2 {
		return []Row{}
	}
	rows := make([]Row, 0, len(s.grid)-1)
	for _, cells := range s.grid[1:] {
		rows = append(rows, Row{headers: headers, cells: cells})
	}
	return rows
}

// Row is one header-keyed row of a sheet.
type Row struct {
	headers []string
	cells   []Cell
}

// NewRow creates a standalone row, mostly useful for tests.
func NewRow(headers []string, cells ...Cell) Row {
	return Row{headers: headers, cells: cells}
}

// Headers returns the headers of the sheet this row belongs to.
func (r Row) Headers() []string { return r.headers }

// Value returns the cell under header (exact match), or nil.
func (r Row) Value(header string) Cell {
	i := slices.Index(r.headers, header)
	if i < 0 || i >= len(r.cells) {
		return nil
	}
	return r.cells[i]
}

// Get returns the cell of a logical field through the column mapping.
func (r Row) Get(m ColumnMapping, f Field) Cell {
	h := m.Header(f)
	if h == "" {
		return nil
	}
	return r.Value(h)
}

// Text returns the cell of a logical field as trimmed text.
func (r Row) Text(m ColumnMapping, f Field) string {
	return strings.TrimSpace(cellText(r.Get(m, f)))
}

// IsBlank reports whether every cell of the row is empty.
func (r Row) IsBlank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(cellText(c)) != "" {
			return false
		}
	}
	return true
}

// cellText formats a cell for text matching.
func cellText(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Book is a simple Workbook implementation keeping sheets in order.
type Book struct {
	names  []string
	sheets map[string]*Sheet
}

// NewBook creates a Workbook from sheets, in order. A later sheet with the same name replaces the former.
func NewBook(sheets ...*Sheet) *Book {
	b := &Book{sheets: make(map[string]*Sheet)}
	for _, s := range sheets {
		b.Add(s)
	}
	return b
}

// Add appends a sheet to the workbook.
func (b *Book) Add(s *Sheet) {
	if _, exists := b.sheets[s.Name]; !exists {
		b.names = append(b.names, s.Name)
	}
	b.sheets[s.Name] = s
}

func (b *Book) SheetNames() []string     { return slices.Clone(b.names) }
func (b *Book) Sheet(name string) *Sheet { return b.sheets[name] }
