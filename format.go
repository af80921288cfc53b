package folio

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// FormatTag identifies the shape of a broker export.
type FormatTag string

const (
	// Key4Excel is a UBS Key4 export with "Transactions" and "Positions" sheets.
	Key4Excel FormatTag = "KEY4_EXCEL"
	// AdvisorExcel is a UBS advisory export with a portfolio sheet.
	AdvisorExcel FormatTag = "ADVISOR_EXCEL"
	// SaxoPerformance is a Saxo Bank performance export with a daily series.
	SaxoPerformance FormatTag = "SAXO_PERFORMANCE"
	// UBSMaster is a monthly UBS valuation file with a fixed-layout "Client <id>" sheet.
	UBSMaster FormatTag = "UBS_MASTER"
	// SimpleCSV is any single sheet workbook, typically a CSV file.
	SimpleCSV FormatTag = "SIMPLE_CSV"
	Unknown   FormatTag = "UNKNOWN"
)

// masterSheet matches the valuation sheet name of the UBS master files.
var masterSheet = regexp.MustCompile(`^client\s+\S+`)

// DetectFormat inspects lower-cased sheet names to pick the export shape.
func DetectFormat(sheetNames []string) FormatTag {
	lower := make([]string, len(sheetNames))
	for i, n := range sheetNames {
		lower[i] = strings.ToLower(strings.TrimSpace(n))
	}
	has := func(pred func(string) bool) bool { return slices.ContainsFunc(lower, pred) }
	contains := func(sub string) func(string) bool {
		return func(s string) bool { return strings.Contains(s, sub) }
	}

	switch {
	case has(contains("transaction")) && has(contains("position")):
		return Key4Excel
	case has(contains("performance")):
		return SaxoPerformance
	case has(masterSheet.MatchString):
		return UBSMaster
	case has(contains("portfolio")) || has(contains("portefeuille")):
		return AdvisorExcel
	case len(sheetNames) == 1:
		return SimpleCSV
	default:
		return Unknown
	}
}

// Field is a logical column of a broker export.
type Field string

const (
	FieldDate     Field = "date"
	FieldDesc     Field = "desc"
	FieldAmount   Field = "amount"
	FieldCurrency Field = "currency"
	FieldType     Field = "type"
	FieldSymbol   Field = "symbol"
	FieldAccount  Field = "account"

	// FieldValue is the market value column of a position sheet.
	FieldValue Field = "value"

	// Fields of a performance series.
	FieldTWR          Field = "twr"
	FieldAccountValue Field = "accountValue"
	FieldDailyReturn  Field = "dailyReturn"
)

// TransactionFields lists the fields resolved on a transaction sheet, in order.
var TransactionFields = []Field{FieldDate, FieldDesc, FieldAmount, FieldCurrency, FieldType, FieldSymbol, FieldAccount}

// SeriesFields lists the fields resolved on a performance sheet, in order.
var SeriesFields = []Field{FieldDate, FieldTWR, FieldAccountValue, FieldDailyReturn}

// ParseField parses a field name as used in configuration.
func ParseField(s string) (Field, error) {
	f := Field(strings.TrimSpace(s))
	all := append(slices.Clone(TransactionFields), FieldValue, FieldTWR, FieldAccountValue, FieldDailyReturn)
	if !slices.Contains(all, f) {
		return "", fmt.Errorf("unknown field %q", s)
	}
	return f, nil
}

// ResolveColumn finds the header matching one of the candidates.
//
// The first pass requires an exact case-insensitive match, the second pass
// accepts a header containing a candidate. Both passes try candidates in
// priority order.
func ResolveColumn(headers []string, candidates []string) (string, bool) {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if i := slices.Index(norm, c); i >= 0 {
			return headers[i], true
		}
	}
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		for i, h := range norm {
			if strings.Contains(h, c) {
				return headers[i], true
			}
		}
	}
	return "", false
}

// ColumnMapping maps logical fields to actual headers. It is immutable once built.
type ColumnMapping struct {
	headers    map[Field]string
	unverified []Field
	order      []Field
}

// ResolveColumns builds the mapping of fields using sample's headers and the
// candidates of the profile.
//
// Fields that cannot be resolved fall back to the profile default header and
// are reported by [ColumnMapping.Unverified].
func ResolveColumns(sample Row, p Profile, fields []Field) ColumnMapping {
	m := ColumnMapping{headers: make(map[Field]string, len(fields)), order: slices.Clone(fields)}
	for _, f := range fields {
		if h, ok := ResolveColumn(sample.Headers(), p.Candidates[f]); ok {
			m.headers[f] = h
			continue
		}
		m.headers[f] = p.Defaults[f]
		m.unverified = append(m.unverified, f)
	}
	return m
}

// SampleRow returns the first row with any non-empty cell, or the first row.
func SampleRow(rows []Row) (Row, bool) {
	if len(rows) == 0 {
		return Row{}, false
	}
	for _, r := range rows {
		if !r.IsBlank() {
			return r, true
		}
	}
	return rows[0], true
}

// Header returns the header mapped to f, or "" if f is not mapped.
func (m ColumnMapping) Header(f Field) string { return m.headers[f] }

// IsVerified reports whether f was found in the sheet headers.
func (m ColumnMapping) IsVerified(f Field) bool {
	_, mapped := m.headers[f]
	return mapped && !slices.Contains(m.unverified, f)
}

// Unverified returns the fields that fell back to their default header.
func (m ColumnMapping) Unverified() []Field { return slices.Clone(m.unverified) }

// Fields returns the mapped fields in resolution order.
func (m ColumnMapping) Fields() []Field { return slices.Clone(m.order) }

// MarshalJSON encodes the mapping as an object of field to header, in resolution order.
func (m ColumnMapping) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, f := range m.order {
		w.Append(string(f), m.headers[f])
	}
	return w.MarshalJSON()
}

// UnmarshalJSON decodes a mapping encoded with MarshalJSON. Every field is considered verified.
func (m *ColumnMapping) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.headers = make(map[Field]string, len(raw))
	m.order = nil
	m.unverified = nil
	for _, f := range append(slices.Clone(TransactionFields), FieldValue, FieldTWR, FieldAccountValue, FieldDailyReturn) {
		if h, ok := raw[string(f)]; ok {
			m.headers[f] = h
			m.order = append(m.order, f)
		}
	}
	return nil
}

// Profile describes a broker export as data: the candidate headers of each
// field, the default header when nothing matches, and the sheet name hints.
type Profile struct {
	Broker     string
	Candidates map[Field][]string
	Defaults   map[Field]string

	// Lower-case substrings identifying sheets.
	TransactionSheets []string
	PositionSheets    []string
	PerformanceSheets []string
}

// UBS is the profile of UBS exports (Key4, advisory, simple CSV).
var UBS = Profile{
	Broker: "UBS",
	Candidates: map[Field][]string{
		FieldDate:     {"Date", "Date de valeur", "Booking date", "Date comptable", "Datum"},
		FieldDesc:     {"Description", "Libellé", "Text", "Bezeichnung"},
		FieldAmount:   {"Montant", "Amount", "Betrag", "CHF", "EUR", "Montant en CHF"},
		FieldCurrency: {"Devise", "Currency", "Währung"},
		FieldType:     {"Type", "Category", "Catégorie", "Typ"},
		FieldSymbol:   {"Titre", "Security", "ISIN", "Valeur", "Wertpapier"},
		FieldAccount:  {"Compte", "Account", "Konto", "Numéro de compte"},
		FieldValue:    {"Valeur", "Value", "Valorisation", "Market value", "Montant", "Wert", "Cours actuel"},
	},
	Defaults: map[Field]string{
		FieldDate:     "Date",
		FieldDesc:     "Description",
		FieldAmount:   "Montant",
		FieldCurrency: "Devise",
		FieldType:     "Type",
		FieldSymbol:   "Titre",
		FieldAccount:  "Compte",
		FieldValue:    "Valeur",
	},
	TransactionSheets: []string{"transaction", "mouvement", "opérat"},
	PositionSheets:    []string{"position", "portefeuille", "portfolio"},
}

// Saxo is the profile of Saxo Bank exports (account statement and performance).
var Saxo = Profile{
	Broker: "Saxo",
	Candidates: map[Field][]string{
		FieldDate:         {"Date", "Trade Date", "Date de transaction", "Value Date", "Date de valeur", "Datum"},
		FieldDesc:         {"Description", "Event", "Événement", "Text"},
		FieldAmount:       {"Booked Amount", "Montant comptabilisé", "Amount", "Montant", "Betrag"},
		FieldCurrency:     {"Currency", "Devise", "Währung"},
		FieldType:         {"Type", "Transaction Type", "Type de transaction"},
		FieldSymbol:       {"Symbol", "Instrument Symbol", "Symbole", "ISIN", "Instrument"},
		FieldAccount:      {"Account ID", "ID de compte", "Account", "Compte", "Konto"},
		FieldValue:        {"Market Value", "Valeur de marché", "Value", "Valeur"},
		FieldTWR:          {"Accumulated Time-Weighted Return", "Rendement pondéré dans le temps cumulé", "Time-Weighted", "TWR", "pondéré"},
		FieldAccountValue: {"Account Value", "Valeur du compte", "Kontowert", "Valeur"},
		FieldDailyReturn:  {"Daily Return", "Rendement quotidien", "Tagesrendite", "Return"},
	},
	Defaults: map[Field]string{
		FieldDate:         "Date",
		FieldDesc:         "Event",
		FieldAmount:       "Booked Amount",
		FieldCurrency:     "Currency",
		FieldType:         "Type",
		FieldSymbol:       "Instrument Symbol",
		FieldAccount:      "Account ID",
		FieldValue:        "Market Value",
		FieldTWR:          "Accumulated Time-Weighted Return",
		FieldAccountValue: "Account Value",
		FieldDailyReturn:  "Daily Return",
	},
	TransactionSheets: []string{"transaction", "opérat", "trades", "bookings"},
	PositionSheets:    []string{"position", "portefeuille", "portfolio"},
	PerformanceSheets: []string{"performance"},
}

// ProfileByName returns the built-in profile of a broker, case-insensitive.
func ProfileByName(broker string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(broker)) {
	case "ubs", "":
		return UBS, nil
	case "saxo":
		return Saxo, nil
	default:
		return Profile{}, fmt.Errorf("unknown broker %q, want \"ubs\" or \"saxo\"", broker)
	}
}

// With returns a copy of the profile with extra candidates appended after the built-in ones.
func (p Profile) With(extra map[Field][]string) Profile {
	candidates := make(map[Field][]string, len(p.Candidates))
	for f, c := range p.Candidates {
		candidates[f] = slices.Clone(c)
	}
	for f, c := range extra {
		candidates[f] = append(candidates[f], c...)
	}
	p.Candidates = candidates
	return p
}

// findSheet returns the first sheet whose lower-cased name contains any of hints.
func findSheet(wb Workbook, hints []string) *Sheet {
	for _, name := range wb.SheetNames() {
		lower := strings.ToLower(name)
		for _, h := range hints {
			if strings.Contains(lower, h) {
				return wb.Sheet(name)
			}
		}
	}
	return nil
}
