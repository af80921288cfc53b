package date

import (
	"slices"
	"testing"
)

func TestHistory_Append(t *testing.T) {
	var h History[float64]
	h.Append(New(2024, 3, 31), 1030).
		Append(New(2024, 1, 31), 1000).
		Append(New(2024, 2, 29), 990).
		Append(New(2024, 1, 31), 1005) // replaces

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	var days []string
	var values []float64
	for on, v := range h.Values() {
		days = append(days, on.String())
		values = append(values, v)
	}
	if want := []string{"2024-01-31", "2024-02-29", "2024-03-31"}; !slices.Equal(days, want) {
		t.Errorf("Values() days = %v, want %v", days, want)
	}
	if want := []float64{1005, 990, 1030}; !slices.Equal(values, want) {
		t.Errorf("Values() values = %v, want %v", values, want)
	}
}

func TestHistory_FirstLast(t *testing.T) {
	var h History[string]
	if _, _, ok := h.First(); ok {
		t.Error("First() on empty history returned ok")
	}
	if _, _, ok := h.Last(); ok {
		t.Error("Last() on empty history returned ok")
	}
	h.Append(New(2024, 6, 30), "june").Append(New(2024, 5, 31), "may")
	if on, v, _ := h.First(); on != New(2024, 5, 31) || v != "may" {
		t.Errorf("First() = %v %q, want 2024-05-31 may", on, v)
	}
	if on, v, _ := h.Last(); on != New(2024, 6, 30) || v != "june" {
		t.Errorf("Last() = %v %q, want 2024-06-30 june", on, v)
	}
}

func TestHistory_ValueAsOf(t *testing.T) {
	var h History[float64]
	h.Append(New(2024, 1, 31), 100).Append(New(2024, 3, 31), 300)

	tests := []struct {
		on     Date
		want   float64
		wantOK bool
	}{
		{on: New(2024, 1, 1), wantOK: false},
		{on: New(2024, 1, 31), want: 100, wantOK: true},
		{on: New(2024, 2, 15), want: 100, wantOK: true},
		{on: New(2024, 3, 31), want: 300, wantOK: true},
		{on: New(2025, 1, 1), want: 300, wantOK: true},
	}
	for _, tt := range tests {
		got, ok := h.ValueAsOf(tt.on)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ValueAsOf(%v) = %v, %v, want %v, %v", tt.on, got, ok, tt.want, tt.wantOK)
		}
	}
}
