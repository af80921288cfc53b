package folio

import (
	"slices"

	"github.com/etnz/folio/date"
)

// PerformancePoint is one day of a performance series.
type PerformancePoint struct {
	Date date.Date `json:"date"`
	// TWRCumulative is the time-weighted return since the start of the series, in percent.
	TWRCumulative  float64 `json:"twrCumulative"`
	AccountValue   float64 `json:"accountValue"`
	DailyReturnPct float64 `json:"dailyReturnPct"`
}

// Series is a read-only performance series sorted by date.
type Series struct {
	points []PerformancePoint
}

// NewSeries creates a series from points. Points are sorted by date and a
// later point replaces an earlier one with the same date.
func NewSeries(points []PerformancePoint) Series {
	p := slices.Clone(points)
	slices.SortStableFunc(p, func(a, b PerformancePoint) int { return a.Date.Compare(b.Date) })
	out := p[:0]
	for _, x := range p {
		if n := len(out); n > 0 && out[n-1].Date == x.Date {
			out[n-1] = x
			continue
		}
		out = append(out, x)
	}
	return Series{points: out}
}

func (s Series) Len() int                   { return len(s.points) }
func (s Series) Points() []PerformancePoint { return slices.Clone(s.points) }

// At returns the i-th point.
func (s Series) At(i int) PerformancePoint { return s.points[i] }

// Last returns the last point, or false if the series is empty.
func (s Series) Last() (PerformancePoint, bool) {
	if len(s.points) == 0 {
		return PerformancePoint{}, false
	}
	return s.points[len(s.points)-1], true
}

// TWR returns the last cumulative time-weighted return as provided by the
// source, as a fraction. It is never recomputed.
func (s Series) TWR() float64 {
	last, ok := s.Last()
	if !ok {
		return 0
	}
	return last.TWRCumulative / 100
}

// Days returns the calendar days between the first and last points.
func (s Series) Days() int {
	if len(s.points) < 2 {
		return 0
	}
	return s.points[0].Date.DaysUntil(s.points[len(s.points)-1].Date)
}

// Cumulative returns the cumulative TWR column, in percent.
func (s Series) Cumulative() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.TWRCumulative
	}
	return out
}

// DailyReturns returns the daily return column, in percent.
func (s Series) DailyReturns() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.DailyReturnPct
	}
	return out
}

// Dates returns the date column.
func (s Series) Dates() []date.Date {
	out := make([]date.Date, len(s.points))
	for i, p := range s.points {
		out[i] = p.Date
	}
	return out
}

// ReadSeries extracts a performance series from a header-keyed sheet.
//
// Percent columns are read as percent values: "12.5" and "12.5 %" both mean 12.5%.
// Undated rows are skipped and counted.
func ReadSeries(sheet *Sheet, p Profile) (s Series, m ColumnMapping, undated int) {
	rows := sheet.Rows()
	sample, ok := SampleRow(rows)
	if !ok {
		return Series{}, ResolveColumns(Row{}, p, SeriesFields), 0
	}
	m = ResolveColumns(sample, p, SeriesFields)
	points := make([]PerformancePoint, 0, len(rows))
	for _, r := range rows {
		if r.IsBlank() {
			continue
		}
		on, ok := date.ParseFlexible(r.Get(m, FieldDate))
		if !ok {
			undated++
			continue
		}
		points = append(points, PerformancePoint{
			Date:           on,
			TWRCumulative:  ParseNumber(r.Get(m, FieldTWR)),
			AccountValue:   ParseNumber(r.Get(m, FieldAccountValue)),
			DailyReturnPct: ParseNumber(r.Get(m, FieldDailyReturn)),
		})
	}
	return NewSeries(points), m, undated
}

// ChainReturns chains the simple returns between consecutive valuations.
//
// periodic[i] is the return from values[i] to values[i+1], as a fraction.
// Steps starting from a zero valuation are skipped (their periodic return is 0).
//
// This is an approximation: cash flows within a period are counted as
// performance, because their timing is unknown.
func ChainReturns(values []float64) (periodic []float64, cumulative float64) {
	if len(values) < 2 {
		return []float64{}, 0
	}
	periodic = make([]float64, len(values)-1)
	growth := 1.0
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		r := (values[i] - prev) / prev
		periodic[i-1] = r
		growth *= 1 + r
	}
	return periodic, growth - 1
}
