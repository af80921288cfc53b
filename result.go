package folio

import (
	"slices"

	"github.com/etnz/folio/date"
	"github.com/google/uuid"
)

// DateRange is the span of the aggregated events.
type DateRange struct {
	Min date.Date `json:"min"`
	Max date.Date `json:"max"`
}

// Stats counts what happened to the rows of an import.
type Stats struct {
	Rows    int `json:"rows"`    // data rows read, blank rows excluded
	Events  int `json:"events"`  // events aggregated after filtering
	Other   int `json:"other"`   // rows matching no category and without symbol
	Undated int `json:"undated"` // rows without a parseable date
}

// Result is the outcome of an import. An empty result has the same shape as
// a populated one: slices are empty, never nil.
type Result struct {
	ID         string         `json:"id"`
	Broker     string         `json:"broker"`
	Format     FormatTag      `json:"format"`
	Currency   string         `json:"currency,omitempty"`
	SheetNames []string       `json:"sheetNames"`
	ColMapping ColumnMapping  `json:"colMapping"`
	Unverified []Field        `json:"unverified"`
	Accounts   []string       `json:"accounts"`
	KPIs       KPISet         `json:"kpis"`
	Positions  []Position     `json:"positions"`
	Months     []PeriodBucket `json:"months"`
	Quarters   []PeriodBucket `json:"quarters"`
	Years      []PeriodBucket `json:"years"`
	DateRange  *DateRange     `json:"dateRange"`
	Stats      Stats          `json:"stats"`
	Metrics    *Metrics       `json:"metrics,omitempty"`
	Timeline   *Timeline      `json:"timeline,omitempty"`
}

func newResult() *Result {
	return &Result{
		ID:         uuid.NewString(),
		SheetNames: []string{},
		Unverified: []Field{},
		Accounts:   []string{},
		Positions:  []Position{},
		Months:     []PeriodBucket{},
		Quarters:   []PeriodBucket{},
		Years:      []PeriodBucket{},
	}
}

// EmptyResult returns a zero valued result for a workbook without usable rows.
func EmptyResult(broker string, format FormatTag, sheetNames []string) *Result {
	r := newResult()
	r.Broker = broker
	r.Format = format
	if sheetNames != nil {
		r.SheetNames = slices.Clone(sheetNames)
	}
	return r
}

// Merge combines results of independent folds, one per sheet or file.
//
// Sums are commutative, so the merged figures do not depend on the order of
// results. Descriptive fields (broker, format, mapping, metrics) come from the
// first result that has them.
func Merge(results ...*Result) *Result {
	a := newAccumulator()
	var stats Stats
	var first *Result
	var sheets []string
	var unverified []Field
	for _, r := range results {
		if r == nil {
			continue
		}
		if first == nil {
			first = r
		}
		a.mergeResult(r)
		stats.Rows += r.Stats.Rows
		stats.Other += r.Stats.Other
		stats.Undated += r.Stats.Undated
		for _, n := range r.SheetNames {
			if !slices.Contains(sheets, n) {
				sheets = append(sheets, n)
			}
		}
		for _, f := range r.Unverified {
			if !slices.Contains(unverified, f) {
				unverified = append(unverified, f)
			}
		}
	}
	m := a.result()
	stats.Events = m.Stats.Events
	m.Stats = stats
	if first == nil {
		return m
	}
	m.Broker = first.Broker
	m.Format = first.Format
	m.Currency = first.Currency
	m.ColMapping = first.ColMapping
	m.Metrics = first.Metrics
	m.Timeline = first.Timeline
	if sheets != nil {
		m.SheetNames = sheets
	}
	if unverified != nil {
		m.Unverified = unverified
	}
	return m
}
