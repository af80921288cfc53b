package date

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is day 0 of the spreadsheet date serial convention.
var serialEpoch = New(1899, time.December, 30)

// maxSerial is the serial of 9999-12-31.
const maxSerial = 2958465

// FromSerial converts a spreadsheet date serial (days since 1899-12-30) to a Date.
// The fractional part (time of day) is ignored. Serials outside ]0, 9999-12-31] are rejected.
func FromSerial(serial float64) (Date, bool) {
	if math.IsNaN(serial) || serial < 1 || serial >= maxSerial+1 {
		return Date{}, false
	}
	return serialEpoch.Add(int(math.Floor(serial))), true
}

// Serial returns the spreadsheet date serial of d.
func (d Date) Serial() int { return serialEpoch.DaysUntil(d) }

// ParseFlexible converts a spreadsheet cell into a Date.
//
// It accepts a spreadsheet serial (any numeric type, or a five digit string), a time.Time or Date,
// a compact "YYYYMMDD" string, or a string with '-', '/' or '.' separators in either
// YYYY-MM-DD or DD-MM-YYYY order (the first token having 4 digits means year first).
// A trailing time of day is ignored.
//
// It returns false when the value cannot be read as a date: such rows must be dropped,
// never defaulted.
func ParseFlexible(raw any) (Date, bool) {
	switch v := raw.(type) {
	case nil:
		return Date{}, false
	case Date:
		return v, !v.IsZero()
	case time.Time:
		if v.IsZero() {
			return Date{}, false
		}
		return New(v.Date()), true
	case *time.Time:
		if v == nil {
			return Date{}, false
		}
		return ParseFlexible(*v)
	case float64:
		return FromSerial(v)
	case float32:
		return FromSerial(float64(v))
	case int:
		return FromSerial(float64(v))
	case int64:
		return FromSerial(float64(v))
	case string:
		return parseString(v)
	case []byte:
		return parseString(string(v))
	default:
		return Date{}, false
	}
}

func parseString(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	if len(s) == 8 && isDigits(s) {
		on, err := time.Parse(KeyFormat, s)
		if err != nil {
			return Date{}, false
		}
		return New(on.Date()), true
	}
	if isSerial(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Date{}, false
		}
		return FromSerial(f)
	}
	// drop the time of day, if any.
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	s = strings.NewReplacer("/", "-", ".", "-").Replace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, false
	}
	y, m, d := parts[0], parts[1], parts[2]
	if len(parts[0]) != 4 {
		y, d = parts[2], parts[0]
	}
	return fromParts(y, m, d)
}

// fromParts builds a Date from textual year, month and day, rejecting anything New would normalize.
func fromParts(ys, ms, ds string) (Date, bool) {
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Date{}, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return Date{}, false
	}
	d, err := strconv.Atoi(ds)
	if err != nil {
		return Date{}, false
	}
	if len(ys) == 2 {
		y += 2000
	}
	if y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return Date{}, false
	}
	on := New(y, time.Month(m), d)
	if on.Year() != y || on.Month() != time.Month(m) || on.Day() != d {
		// 31-02-2024 and friends.
		return Date{}, false
	}
	return on, true
}

// isSerial reports whether s is written like a spreadsheet serial: five
// digits (1927 to 2173), optionally followed by a fraction.
func isSerial(s string) bool {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if len(whole) != 5 || !isDigits(whole) {
		return false
	}
	return !hasFrac || (frac != "" && isDigits(frac))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
