package workbook

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/folio"
	"github.com/xuri/excelize/v2"
)

// xlsxFixture builds a two sheets workbook in memory.
func xlsxFixture(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Transactions"); err != nil {
		t.Fatal(err)
	}
	rows := [][]any{
		{"Date", "Description", "Montant", "Devise", "Payé"},
		{45306.0, "Virement entrant", 1000.0, "CHF", true},
		{"15.02.2024", "Courtage", "-12,50", "CHF", false},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Transactions", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.NewSheet("Positions"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Positions", "A1", &[]any{"Symbole", "Valeur"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Positions", "A2", &[]any{"AAA", 1050.5}); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeXLSX(t *testing.T) {
	wb, err := Decode(bytes.NewReader(xlsxFixture(t)), "export.xlsx")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	names := wb.SheetNames()
	if len(names) != 2 || names[0] != "Transactions" || names[1] != "Positions" {
		t.Fatalf("SheetNames() = %v, want [Transactions Positions]", names)
	}

	tx := wb.Sheet("Transactions")
	tests := []struct {
		row, col int
		want     folio.Cell
	}{
		{0, 0, "Date"},
		{1, 0, 45306.0},
		{1, 1, "Virement entrant"},
		{1, 2, 1000.0},
		{1, 4, true},
		{2, 0, "15.02.2024"},
		{2, 2, "-12,50"},
		{2, 4, false},
	}
	for _, tt := range tests {
		if got := tx.Cell(tt.row, tt.col); got != tt.want {
			t.Errorf("Cell(%d, %d) = %#v, want %#v", tt.row, tt.col, got, tt.want)
		}
	}

	pos := wb.Sheet("Positions")
	if got := pos.Cell(1, 1); got != 1050.5 {
		t.Errorf("Positions Cell(1, 1) = %#v, want 1050.5", got)
	}
}

func TestDecodeXLSX_Invalid(t *testing.T) {
	if _, err := DecodeXLSX(strings.NewReader("not a zip")); err == nil {
		t.Error("DecodeXLSX() expected an error for garbage input")
	}
}

func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]folio.Cell
	}{
		{
			name:  "semicolon",
			input: "Date;Montant\n15.01.2024;1'000,50\n",
			want:  [][]folio.Cell{{"Date", "Montant"}, {"15.01.2024", "1'000,50"}},
		},
		{
			name:  "comma with bom",
			input: "\xEF\xBB\xBFDate,Amount\n2024-01-15,\"1,000.50\"\n",
			want:  [][]folio.Cell{{"Date", "Amount"}, {"2024-01-15", "1,000.50"}},
		},
		{
			name:  "ragged and blank cells",
			input: "A;B;C\n1; ;\n2\n",
			want:  [][]folio.Cell{{"A", "B", "C"}, {"1", nil, nil}, {"2"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, err := DecodeCSV(strings.NewReader(tt.input), "export")
			if err != nil {
				t.Fatalf("DecodeCSV() error = %v", err)
			}
			sheet := wb.Sheet("export")
			if sheet == nil {
				t.Fatalf("DecodeCSV() missing sheet %q, got %v", "export", wb.SheetNames())
			}
			if sheet.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", sheet.Len(), len(tt.want))
			}
			for i, row := range tt.want {
				for j, want := range row {
					if got := sheet.Cell(i, j); got != want {
						t.Errorf("Cell(%d, %d) = %#v, want %#v", i, j, got, want)
					}
				}
			}
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "mouvements.csv")
	if err := os.WriteFile(csvPath, []byte("Date;Montant\n15.01.2024;100\n"), 0644); err != nil {
		t.Fatal(err)
	}
	xlsxPath := filepath.Join(dir, "export.XLSX")
	if err := os.WriteFile(xlsxPath, xlsxFixture(t), 0644); err != nil {
		t.Fatal(err)
	}

	wb, err := Open(csvPath)
	if err != nil {
		t.Fatalf("Open(csv) error = %v", err)
	}
	if got := wb.SheetNames(); len(got) != 1 || got[0] != "mouvements" {
		t.Errorf("Open(csv) SheetNames() = %v, want [mouvements]", got)
	}

	wb, err = Open(xlsxPath)
	if err != nil {
		t.Fatalf("Open(xlsx) error = %v", err)
	}
	if wb.Sheet("Positions") == nil {
		t.Errorf("Open(xlsx) missing Positions sheet")
	}

	if _, err := Open(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("Open() expected an error for a missing file")
	}
	if _, err := Decode(strings.NewReader(""), "report.pdf"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Decode(pdf) error = %v, want ErrUnsupported", err)
	}
}

func TestSniff(t *testing.T) {
	wb, err := Sniff(bytes.NewReader(xlsxFixture(t)), "upload")
	if err != nil {
		t.Fatalf("Sniff(xlsx) error = %v", err)
	}
	if wb.Sheet("Transactions") == nil {
		t.Errorf("Sniff(xlsx) missing Transactions sheet")
	}
	wb, err = Sniff(strings.NewReader("a;b\n1;2\n"), "upload")
	if err != nil {
		t.Fatalf("Sniff(csv) error = %v", err)
	}
	if got := wb.Sheet("upload").Cell(1, 1); got != "2" {
		t.Errorf("Sniff(csv) Cell(1, 1) = %#v, want \"2\"", got)
	}
}
