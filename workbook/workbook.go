// Package workbook decodes spreadsheet files into folio workbooks.
//
// It reads .xlsx files with excelize and .csv files with encoding/csv. This is
// the only place where malformed input is an error: once decoded, the
// workbook is read leniently by the folio package.
package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/folio"
)

// ErrUnsupported is returned for files that are neither .xlsx nor .csv.
var ErrUnsupported = errors.New("unsupported workbook format")

// Open decodes the workbook file at path, based on its extension.
func Open(path string) (folio.Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode decodes a workbook. name is used to pick the format from its
// extension, and as the sheet name of CSV files.
func Decode(r io.Reader, name string) (folio.Workbook, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return DecodeXLSX(r)
	case ".csv", ".txt":
		return DecodeCSV(r, strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// Sniff decodes a workbook whose name carries no usable extension, by
// looking at its first bytes: xlsx files are zip archives.
func Sniff(r io.Reader, name string) (folio.Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read workbook: %w", err)
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return DecodeXLSX(bytes.NewReader(data))
	}
	return DecodeCSV(bytes.NewReader(data), name)
}
