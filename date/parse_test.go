package date

import (
	"testing"
	"time"
)

func TestParseFlexible(t *testing.T) {
	want := New(2024, time.January, 15)
	testCases := []struct {
		name string
		in   any
		want Date
		ok   bool
	}{
		{"iso", "2024-01-15", want, true},
		{"dmy", "15-01-2024", want, true},
		{"dmy slashes", "15/01/2024", want, true},
		{"dmy dots", "15.01.2024", want, true},
		{"ymd slashes", "2024/1/15", want, true},
		{"serial", 45306.0, want, true},
		{"serial with time", 45306.75, want, true},
		{"serial int", 45306, want, true},
		{"serial string", "45306", want, true},
		{"serial string with time", "45306.25", want, true},
		{"year only", "2024", Date{}, false},
		{"exponent", "1e5", Date{}, false},
		{"six digits", "453060", Date{}, false},
		{"signed serial string", "-45306", Date{}, false},
		{"compact key", "20240115", want, true},
		{"iso with time", "2024-01-15 10:32:00", want, true},
		{"iso datetime", "2024-01-15T10:32:00", want, true},
		{"time value", time.Date(2024, time.January, 15, 13, 0, 0, 0, time.UTC), want, true},
		{"date value", want, want, true},
		{"two digit year", "15-01-24", want, true},
		{"nil", nil, Date{}, false},
		{"empty", "   ", Date{}, false},
		{"garbage", "Total", Date{}, false},
		{"two tokens", "01-2024", Date{}, false},
		{"invalid day", "31-02-2024", Date{}, false},
		{"invalid month", "2024-13-01", Date{}, false},
		{"zero serial", 0.0, Date{}, false},
		{"negative serial", -3.0, Date{}, false},
		{"unsupported type", true, Date{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseFlexible(tc.in)
			if ok != tc.ok {
				t.Fatalf("ParseFlexible(%v) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("ParseFlexible(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSerial(t *testing.T) {
	d := New(2024, time.January, 15)
	if got := d.Serial(); got != 45306 {
		t.Errorf("Serial() = %d, want 45306", got)
	}
	back, ok := FromSerial(float64(d.Serial()))
	if !ok || back != d {
		t.Errorf("FromSerial(Serial()) = %v, %v want %v", back, ok, d)
	}
}

func TestKeyAndBounds(t *testing.T) {
	d := New(2024, time.March, 5)
	if got := d.Key(); got != "20240305" {
		t.Errorf("Key() = %q, want %q", got, "20240305")
	}
	testCases := []struct {
		name   string
		bounds Bounds
		want   bool
	}{
		{"unbounded", Bounds{}, true},
		{"inclusive start", NewBounds("2024-03-05", ""), true},
		{"inclusive end", NewBounds("", "20240305"), true},
		{"after end", NewBounds("", "2024-03-04"), false},
		{"before start", NewBounds("2024-3-6", ""), false},
		{"inside", NewBounds("2024-01-01", "2024-12-31"), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.bounds.Contains(d); got != tc.want {
				t.Errorf("%+v.Contains(%v) = %v, want %v", tc.bounds, d, got, tc.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	from := New(2023, time.January, 1)
	if got := from.DaysUntil(New(2024, time.January, 1)); got != 365 {
		t.Errorf("DaysUntil() = %d, want 365", got)
	}
	if got := New(2024, time.January, 1).DaysUntil(from); got != -365 {
		t.Errorf("DaysUntil() = %d, want -365", got)
	}
}
