package folio

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
)

func newTestImporter(t *testing.T) *Importer {
	t.Helper()
	im, err := NewImporter(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewImporter() error = %v", err)
	}
	return im
}

func TestImporter_Import(t *testing.T) {
	im := newTestImporter(t)
	r := im.Import(ubsBook(), Filter{})

	if r.Format != Key4Excel || r.Broker != "UBS" {
		t.Errorf("format = %v, broker = %v", r.Format, r.Broker)
	}
	if diff := cmp.Diff(Stats{Rows: 11, Events: 9, Other: 1, Undated: 1}, r.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if len(r.Unverified) != 0 {
		t.Errorf("unverified = %v, want none", r.Unverified)
	}
	if diff := cmp.Diff([]string{"A-1", "A-2"}, r.Accounts); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}

	k := r.KPIs
	if !k.Deposits.Equal(D(10000)) || !k.Withdrawals.Equal(D(1000)) || !k.NetDeposits.Equal(D(9000)) {
		t.Errorf("cash flows = %v / %v / %v", k.Deposits, k.Withdrawals, k.NetDeposits)
	}
	if !k.TotalFees.Equal(D(24.5)) {
		t.Errorf("totalFees = %v, want 24.5", k.TotalFees)
	}
	if !k.NetResult.Equal(D(552.2)) {
		t.Errorf("netResult = %v, want 552.2", k.NetResult)
	}
	if !k.TotalValue.Equal(D(2250)) {
		t.Errorf("totalValue = %v, want 2250", k.TotalValue)
	}
	if len(r.Positions) != 1 || r.Positions[0].Symbol != "NESN" || !r.Positions[0].Dividends.Equal(D(75.5)) {
		t.Errorf("positions = %+v", r.Positions)
	}
	if r.DateRange == nil || r.DateRange.Min != on("2024-01-15") || r.DateRange.Max != on("2024-07-05") {
		t.Errorf("dateRange = %+v", r.DateRange)
	}
	if r.Metrics == nil || r.Metrics.XIRR == nil {
		t.Errorf("metrics = %+v, want an XIRR", r.Metrics)
	}
}

func TestImporter_ImportFiltered(t *testing.T) {
	im := newTestImporter(t)
	r := im.Import(ubsBook(), Filter{Account: "A-2", Range: date.NewBounds("2024-05-01", "2024-06-30")})

	if r.Stats.Events != 3 {
		t.Errorf("events = %d, want 3", r.Stats.Events)
	}
	if !r.KPIs.Deposits.IsZero() || r.KPIs.PerfPct != 0 {
		t.Errorf("KPIs = %+v", r.KPIs)
	}
	// accounts ignore the filter
	if len(r.Accounts) != 2 {
		t.Errorf("accounts = %v", r.Accounts)
	}
}

func TestImporter_ImportSingleAccountHasNoXIRR(t *testing.T) {
	im := newTestImporter(t)
	r := im.Import(ubsBook(), Filter{Account: "A-1"})
	if !r.KPIs.Deposits.Equal(D(10000)) {
		t.Errorf("deposits = %v, want 10000", r.KPIs.Deposits)
	}
	// the position value covers both accounts.
	if r.Metrics != nil && r.Metrics.XIRR != nil {
		t.Errorf("XIRR = %v, want nil for a single account", *r.Metrics.XIRR)
	}
}

func TestImporter_ImportKey4WithPerformanceSheet(t *testing.T) {
	im := newTestImporter(t)
	book := ubsBook()
	book.Add(NewSheet("Performance", [][]Cell{
		{"Date", "Accumulated Time-Weighted Return"},
		{"2024-01-15", 0.0},
	}))
	r := im.Import(book, Filter{})

	if r.Format != Key4Excel || r.Broker != "UBS" {
		t.Errorf("format = %v, broker = %v, want KEY4_EXCEL from UBS", r.Format, r.Broker)
	}
	if len(r.Unverified) != 0 {
		t.Errorf("unverified = %v, want none", r.Unverified)
	}
	if len(r.Positions) != 1 || r.Positions[0].Symbol != "NESN" || !r.Positions[0].Realized().Equal(D(500)) {
		t.Errorf("positions = %+v, want NESN realizing 500", r.Positions)
	}
}

func TestImporter_ImportUnresolvedColumns(t *testing.T) {
	im := newTestImporter(t)
	wb := NewBook(NewSheet("export", [][]Cell{
		{"Foo", "Bar"},
		{"x", 1.0},
		{"y", 2.0},
	}))
	r := im.Import(wb, Filter{})

	if r.Format != SimpleCSV {
		t.Errorf("format = %v", r.Format)
	}
	if len(r.Unverified) != len(TransactionFields) {
		t.Errorf("unverified = %v, want every field", r.Unverified)
	}
	if r.Stats.Undated != 2 || r.Stats.Events != 0 {
		t.Errorf("stats = %+v", r.Stats)
	}
	if r.DateRange != nil || len(r.Positions) != 0 || r.Months == nil {
		t.Errorf("want an empty result, got %+v", r)
	}
}

func TestImporter_ImportEmpty(t *testing.T) {
	im := newTestImporter(t)
	r := im.Import(NewBook(NewSheet("Transactions", [][]Cell{ubsHeaders}), NewSheet("Positions", nil)), Filter{})
	if r.Stats != (Stats{}) || r.Metrics != nil || r.DateRange != nil {
		t.Errorf("want a zero result, got %+v", r)
	}
	if r.Positions == nil || r.Quarters == nil || r.Accounts == nil {
		t.Errorf("slices must not be nil")
	}
}

func TestImporter_ImportSaxoPerformance(t *testing.T) {
	im := newTestImporter(t)
	wb := NewBook(
		NewSheet("Performance", [][]Cell{
			{"Date", "Account Value", "Accumulated Time-Weighted Return", "Daily Return"},
			{"2024-01-01", 1000.0, 0.0, 0.0},
			{"2024-07-01", 1050.0, 5.0, 0.4},
			{"2025-01-01", 1100.0, 10.0, -0.3},
		}),
		NewSheet("Trades", [][]Cell{
			{"Trade Date", "Event", "Booked Amount", "Currency", "Instrument Symbol", "Account ID"},
			{"2024-01-01", "Cash deposit", 1000.0, "EUR", "", "S-1"},
		}),
	)
	r := im.Import(wb, Filter{})

	if r.Format != SaxoPerformance || r.Broker != "Saxo" {
		t.Errorf("format = %v, broker = %v", r.Format, r.Broker)
	}
	if r.Metrics == nil {
		t.Fatalf("metrics missing")
	}
	if !r.Metrics.TWR.Equal(10) || r.Metrics.CAGR == nil || r.Metrics.XIRR == nil {
		t.Errorf("metrics = %+v", r.Metrics)
	}
	if !r.KPIs.Deposits.Equal(D(1000)) {
		t.Errorf("deposits = %v", r.KPIs.Deposits)
	}
}

func TestImporter_ImportFiles(t *testing.T) {
	im := newTestImporter(t)
	open := func(path string) (Workbook, error) {
		if path == "bad.xlsx" {
			return nil, errors.New("zip: not a valid zip file")
		}
		return ubsBook(), nil
	}
	r, err := im.ImportFiles(context.Background(), []string{"a.xlsx", "b.xlsx"}, open, Filter{})
	if err != nil {
		t.Fatalf("ImportFiles() error = %v", err)
	}
	if !r.KPIs.Deposits.Equal(D(20000)) || r.Stats.Events != 18 || r.Stats.Rows != 22 {
		t.Errorf("merged result = %+v / %+v", r.KPIs, r.Stats)
	}

	if _, err := im.ImportFiles(context.Background(), []string{"a.xlsx", "bad.xlsx"}, open, Filter{}); err == nil {
		t.Errorf("ImportFiles() with an undecodable file should fail")
	}
}

func TestImporter_Timeline(t *testing.T) {
	im := newTestImporter(t)
	books := map[string]Workbook{
		"2024-01.xlsx": masterBook("", 100.0, 60.0),
		"2024-02.xlsx": masterBook("", 110.0, 70.0),
	}
	open := func(path string) (Workbook, error) { return books[path], nil }
	r, err := im.Timeline(context.Background(), []string{"2024-02.xlsx", "2024-01.xlsx"}, open)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}
	if r.Timeline == nil || len(r.Timeline.Points) != 2 {
		t.Fatalf("timeline = %+v", r.Timeline)
	}
	if r.Metrics == nil || !r.Metrics.Approximated || !r.Metrics.TWR.Equal(10) {
		t.Errorf("metrics = %+v", r.Metrics)
	}
	if !r.KPIs.TotalValue.Equal(D(110)) {
		t.Errorf("totalValue = %v", r.KPIs.TotalValue)
	}
	if diff := cmp.Diff([]string{"Compte 0230-123456"}, r.Accounts); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}
}

func TestImporter_Detect(t *testing.T) {
	im := newTestImporter(t)

	d := im.Detect(ubsBook())
	if d.Format != Key4Excel || d.Sheet != "Transactions" {
		t.Errorf("Detect() = %+v, want KEY4_EXCEL on Transactions", d)
	}
	if got := d.Mapping.Header(FieldAmount); got != "Montant" {
		t.Errorf("amount header = %q, want Montant", got)
	}
	if len(d.Unverified) != 0 {
		t.Errorf("unverified = %v, want none", d.Unverified)
	}

	perf := NewBook(NewSheet("Performance", [][]Cell{
		{"Date", "Account Value", "Accumulated Time-Weighted Return", "Daily Return"},
		{"2024-01-01", 1000.0, 0.0, 0.0},
	}))
	d = im.Detect(perf)
	if d.Format != SaxoPerformance || d.Broker != "Saxo" || d.Sheet != "Performance" {
		t.Errorf("Detect() = %+v, want SAXO_PERFORMANCE on Performance", d)
	}
	if got := d.Mapping.Header(FieldTWR); got != "Accumulated Time-Weighted Return" {
		t.Errorf("twr header = %q", got)
	}

	d = im.Detect(NewBook())
	if d.Format != Unknown || d.Sheet != "" || d.Unverified == nil {
		t.Errorf("Detect(empty) = %+v", d)
	}
}
