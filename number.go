package folio

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseNumber reads a spreadsheet cell as a float64.
//
// It never fails: nil, empty or unparseable values are 0. See [ParseDecimal] for
// the accepted formats.
func ParseNumber(raw any) float64 {
	return ParseDecimal(raw).InexactFloat64()
}

// ParseDecimal reads a spreadsheet cell as a decimal.
//
// Strings may contain whitespace (including no-break and thin spaces) or
// apostrophes as thousands separators, a currency code or a percent sign.
// When both ',' and '.' are present, the right-most one is the decimal separator.
// A lone ',' is a decimal comma. Scientific notation ("1E+05") is accepted.
func ParseDecimal(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case float32:
		return ParseDecimal(float64(v))
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case bool, time.Time:
		return decimal.Zero
	case string:
		return parseDecimalString(v)
	case []byte:
		return parseDecimalString(string(v))
	default:
		return decimal.Zero
	}
}

func parseDecimalString(s string) decimal.Decimal {
	// scientific notation: "1E+05"
	if t := strings.TrimSpace(s); strings.ContainsAny(t, "eE") {
		if d, err := decimal.NewFromString(t); err == nil {
			return d
		}
	}
	s = cleanNumber(s)
	if s == "" {
		return decimal.Zero
	}
	comma := strings.LastIndexByte(s, ',')
	dot := strings.LastIndexByte(s, '.')
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		// 1.234,50
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		// 1,234.50
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0 && strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		// 1,234,567
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		// 1.234.567
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// cleanNumber strips separators, currency codes and signs that are not part of the number itself.
func cleanNumber(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '\'', r == '’':
			// thousands separators, no-break and thin spaces included
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-', r == '+':
			b.WriteRune(r)
		case r == '\u2212':
			b.WriteRune('-')
		case unicode.IsLetter(r), r == '%', unicode.Is(unicode.Sc, r):
			// currency codes, symbols and percent
		default:
			// anything else makes the cell unreadable
			return ""
		}
	}
	out := b.String()
	// a trailing sign is used by some exports: "120.00-"
	if strings.HasSuffix(out, "-") && !strings.HasPrefix(out, "-") {
		out = "-" + strings.TrimSuffix(out, "-")
	}
	return out
}
