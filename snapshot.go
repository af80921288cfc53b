package folio

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/etnz/folio/date"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the valuation of a portfolio at one date, read from one workbook.
type Snapshot struct {
	Source   string             `json:"source"`
	Date     date.Date          `json:"date"`
	Value    float64            `json:"value"`
	Accounts map[string]float64 `json:"accounts,omitempty"`
}

// MasterLayout locates the figures of a fixed-layout "Client <id>" valuation sheet.
// Rows and columns are zero-based.
type MasterLayout struct {
	DateRow, DateCol int
	TotalRow         int   // grand total line
	AccountRows      []int // sub-account lines
	LabelCol         int
	ValueCol         int
}

// DefaultMasterLayout is the layout of UBS monthly master files.
var DefaultMasterLayout = MasterLayout{
	DateRow:     0,
	DateCol:     3,
	TotalRow:    1,
	AccountRows: []int{44},
	LabelCol:    0,
	ValueCol:    3,
}

var (
	// dates embedded in text: "Valuation as of 31.01.2024", "au 2024-01-31".
	textDate = regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}|\d{1,2}[./-]\d{1,2}[./-]\d{4}`)
	// months embedded in file names: "master_2024-01.xlsx", "202401.xlsx", "01.2024.xlsx".
	nameMonth    = regexp.MustCompile(`(\d{4})[-_.]?(0[1-9]|1[0-2])(?:\D|$)`)
	nameMonthDMY = regexp.MustCompile(`(0[1-9]|1[0-2])[-_.](\d{4})`)
)

// dateFromCell reads a date from a cell value, or from a date embedded in its text.
func dateFromCell(c Cell) (date.Date, bool) {
	if on, ok := date.ParseFlexible(c); ok {
		return on, true
	}
	s, ok := c.(string)
	if !ok {
		return date.Date{}, false
	}
	if m := textDate.FindString(s); m != "" {
		return date.ParseFlexible(m)
	}
	return date.Date{}, false
}

// dateFromName reads the month of a snapshot from its file name. The snapshot is dated at the end of that month.
func dateFromName(source string) (date.Date, bool) {
	base := filepath.Base(source)
	if m := textDate.FindString(base); m != "" {
		if on, ok := date.ParseFlexible(m); ok {
			return on, true
		}
	}
	var ys, ms string
	if m := nameMonth.FindStringSubmatch(base); m != nil {
		ys, ms = m[1], m[2]
	} else if m := nameMonthDMY.FindStringSubmatch(base); m != nil {
		ys, ms = m[2], m[1]
	} else {
		return date.Date{}, false
	}
	first, ok := date.ParseFlexible(ys + "-" + ms + "-01")
	if !ok {
		return date.Date{}, false
	}
	return first.EndOf(date.Monthly), true
}

// ReadMasterSnapshot reads a fixed-layout valuation sheet.
func ReadMasterSnapshot(sheet *Sheet, source string, layout MasterLayout) (Snapshot, bool) {
	on, ok := dateFromCell(sheet.Cell(layout.DateRow, layout.DateCol))
	if !ok {
		on, ok = dateFromName(source)
	}
	if !ok {
		return Snapshot{}, false
	}
	s := Snapshot{
		Source:   source,
		Date:     on,
		Value:    ParseNumber(sheet.Cell(layout.TotalRow, layout.ValueCol)),
		Accounts: make(map[string]float64),
	}
	for _, row := range layout.AccountRows {
		label := strings.TrimSpace(cellText(sheet.Cell(row, layout.LabelCol)))
		if label == "" {
			label = fmt.Sprintf("row %d", row+1)
		}
		s.Accounts[label] += ParseNumber(sheet.Cell(row, layout.ValueCol))
	}
	return s, true
}

// PositionsValue sums the value column of a position sheet.
func PositionsValue(sheet *Sheet, p Profile) (float64, bool) {
	rows := sheet.Rows()
	sample, ok := SampleRow(rows)
	if !ok {
		return 0, false
	}
	h, ok := ResolveColumn(sample.Headers(), p.Candidates[FieldValue])
	if !ok {
		return 0, false
	}
	total := 0.0
	for _, r := range rows {
		total += ParseNumber(r.Value(h))
	}
	return total, true
}

// ReadSnapshot reads the valuation of one monthly workbook: the master sheet
// when there is one, else the sum of the position sheet.
// It returns false when the workbook has no valuation or no date.
func ReadSnapshot(wb Workbook, source string, p Profile, layout MasterLayout) (Snapshot, bool) {
	for _, name := range wb.SheetNames() {
		if masterSheet.MatchString(strings.ToLower(strings.TrimSpace(name))) {
			return ReadMasterSnapshot(wb.Sheet(name), source, layout)
		}
	}
	sheet := findSheet(wb, p.PositionSheets)
	if sheet == nil {
		return Snapshot{}, false
	}
	value, ok := PositionsValue(sheet, p)
	if !ok {
		return Snapshot{}, false
	}
	on, ok := dateFromName(source)
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{Source: source, Date: on, Value: value}, true
}

// TimelinePoint is one valuation of a timeline with its change since the previous one.
type TimelinePoint struct {
	Date     date.Date `json:"date"`
	Value    float64   `json:"value"`
	Delta    float64   `json:"delta"`
	DeltaPct float64   `json:"deltaPct"`
	// CumulativeTWR is the chained return since the first point, in percent.
	CumulativeTWR float64            `json:"cumulativeTwr"`
	Accounts      map[string]float64 `json:"accounts,omitempty"`
}

// Timeline is a sorted series of valuations.
//
// Its returns are chained from consecutive valuations: deposits and
// withdrawals between two snapshots are counted as performance.
type Timeline struct {
	Points []TimelinePoint `json:"points"`
}

// BuildTimeline sorts snapshots by date. When two snapshots share a date the
// last one in the input wins.
func BuildTimeline(snapshots []Snapshot) Timeline {
	var values date.History[float64]
	accounts := make(map[date.Date]map[string]float64)
	for _, s := range snapshots {
		values.Append(s.Date, s.Value)
		accounts[s.Date] = s.Accounts
	}

	t := Timeline{Points: make([]TimelinePoint, 0, values.Len())}
	var vals []float64
	for on, v := range values.Values() {
		vals = append(vals, v)
		t.Points = append(t.Points, TimelinePoint{Date: on, Value: v, Accounts: maps.Clone(accounts[on])})
	}
	periodic, _ := ChainReturns(vals)
	growth := 1.0
	for i := 1; i < len(t.Points); i++ {
		p := &t.Points[i]
		p.Delta = p.Value - t.Points[i-1].Value
		p.DeltaPct = periodic[i-1] * 100
		growth *= 1 + periodic[i-1]
		p.CumulativeTWR = (growth - 1) * 100
	}
	return t
}

// Series converts the timeline to a performance series. Daily returns are
// left at 0: monthly returns must not be annualized as daily ones.
func (t Timeline) Series() Series {
	points := make([]PerformancePoint, len(t.Points))
	for i, p := range t.Points {
		points[i] = PerformancePoint{Date: p.Date, TWRCumulative: p.CumulativeTWR, AccountValue: p.Value}
	}
	return NewSeries(points)
}

// Last returns the last point of the timeline.
func (t Timeline) Last() (TimelinePoint, bool) {
	if len(t.Points) == 0 {
		return TimelinePoint{}, false
	}
	return t.Points[len(t.Points)-1], true
}

// OpenFunc decodes the workbook at path.
type OpenFunc func(path string) (Workbook, error)

// LoadSnapshots reads one snapshot per path concurrently.
//
// A workbook that cannot be decoded is an error. Workbooks without a
// valuation or a date are skipped and their paths returned.
func LoadSnapshots(ctx context.Context, paths []string, open OpenFunc, p Profile, layout MasterLayout) (snapshots []Snapshot, skipped []string, err error) {
	found := make([]*Snapshot, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			wb, err := open(path)
			if err != nil {
				return fmt.Errorf("could not read snapshot %q: %w", path, err)
			}
			if s, ok := ReadSnapshot(wb, path, p, layout); ok {
				found[i] = &s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	// input order, so that the last file wins on duplicate dates.
	snapshots = make([]Snapshot, 0, len(paths))
	for i, s := range found {
		if s == nil {
			skipped = append(skipped, paths[i])
			continue
		}
		snapshots = append(snapshots, *s)
	}
	slices.SortStableFunc(snapshots, func(a, b Snapshot) int { return a.Date.Compare(b.Date) })
	return snapshots, skipped, nil
}
