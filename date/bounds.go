package date

import "strings"

// Bounds is an inclusive filter over date keys. Either side may be empty, meaning unbounded.
//
// Bounds are compared as YYYYMMDD keys, so "2024-01-15" and "20240115" are equivalent.
type Bounds struct {
	Start, End string
}

// NewBounds normalizes textual bounds (ISO or compact) to keys.
func NewBounds(start, end string) Bounds {
	return Bounds{Start: normalizeKey(start), End: normalizeKey(end)}
}

// Contains reports whether d is inside the bounds.
func (b Bounds) Contains(d Date) bool {
	k := d.Key()
	if s := normalizeKey(b.Start); s != "" && k < s {
		return false
	}
	if e := normalizeKey(b.End); e != "" && k > e {
		return false
	}
	return true
}

// IsZero reports whether the bounds accept every date.
func (b Bounds) IsZero() bool { return b.Start == "" && b.End == "" }

func normalizeKey(s string) string {
	s = strings.TrimSpace(s)
	if d, err := Parse(s); err == nil {
		return d.Key()
	}
	return strings.ReplaceAll(s, "-", "")
}
