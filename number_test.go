package folio

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  any
		want float64
	}{
		{nil, 0},
		{"", 0},
		{"  ", 0},
		{"abc", 0},
		{"n/a", 0},
		{12.5, 12.5},
		{42, 42},
		{"1234.50", 1234.5},
		{"1'234.50", 1234.5},
		{"1 234,50", 1234.5},
		{"1\u00a0234,50", 1234.5},
		{"1\u202f234,50", 1234.5},
		{"1.234,50", 1234.5},
		{"1,234.50", 1234.5},
		{"-2,5", -2.5},
		{"-2,5 %", -2.5},
		{"CHF 1'200.00", 1200},
		{"1'200.00 EUR", 1200},
		{"1.234.567", 1234567},
		{"1,234,567", 1234567},
		{"120.00-", -120},
		{"\u22125", -5},
		{"1E+05", 100000},
		{"2.5e-1", 0.25},
		{" -1e3 ", -1000},
		{"Total", 0},
		{decimal.RequireFromString("3.14"), 3.14},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.raw); got != tt.want {
			t.Errorf("ParseNumber(%#v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseDecimalExact(t *testing.T) {
	got := ParseDecimal("0,1").Add(ParseDecimal("0.2"))
	if !got.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("ParseDecimal sum = %v, want 0.3", got)
	}
}
