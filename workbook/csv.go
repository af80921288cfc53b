package workbook

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio"
)

// utf8BOM is written by spreadsheet software in front of UTF-8 CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeCSV decodes a CSV export into a single sheet workbook.
//
// The separator is guessed from the first line among ';', ',' and tab:
// European exports use ';' because ',' is their decimal separator.
func DecodeCSV(r io.Reader, sheet string) (folio.Workbook, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	first, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("could not read csv: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = separator(first)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not decode csv: %w", err)
	}

	grid := make([][]folio.Cell, len(records))
	for i, rec := range records {
		grid[i] = make([]folio.Cell, len(rec))
		for j, v := range rec {
			if v = strings.TrimSpace(v); v != "" {
				grid[i][j] = v
			}
		}
	}
	if sheet == "" {
		sheet = "Sheet1"
	}
	return folio.NewBook(folio.NewSheet(sheet, grid)), nil
}

// separator returns the most frequent candidate separator in the first line.
func separator(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	best, count := ',', 0
	for _, sep := range []rune{';', ',', '\t'} {
		if n := strings.Count(string(line), string(sep)); n > count {
			best, count = sep, n
		}
	}
	return best
}
