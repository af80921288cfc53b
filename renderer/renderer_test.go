package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

func sampleResult() *folio.Result {
	events := []folio.FinancialEvent{
		{Date: date.New(2024, 1, 15), Kind: folio.Deposit, Amount: decimal.NewFromInt(1000), Account: "A-1"},
		{Date: date.New(2024, 2, 20), Kind: folio.TradeBuy, Amount: decimal.NewFromInt(-400), Symbol: "NESN", Account: "A-1"},
		{Date: date.New(2024, 5, 2), Kind: folio.TradeSell, Amount: decimal.NewFromInt(450), Symbol: "NESN", Account: "A-2"},
		{Date: date.New(2024, 5, 3), Kind: folio.Commission, Amount: decimal.NewFromInt(-10), Account: "A-2"},
	}
	r := folio.Aggregate(events, folio.Filter{})
	r.Broker = "UBS"
	r.Format = folio.Key4Excel
	r.Currency = "CHF"
	r.SheetNames = []string{"Transactions"}
	return r
}

func TestReportMarkdown(t *testing.T) {
	got := ReportMarkdown(sampleResult(), AllPeriods)

	for _, want := range []string{
		"# UBS Report",
		"| **Format** | **KEY4_EXCEL** |",
		"| Period | 2024-01-15 to 2024-05-03 |",
		"| Accounts | A-1, A-2 |",
		"| **Net Result** | **+40.00 CHF** |",
		"| Deposits | 1,000.00 CHF |",
		"| Commissions | 10.00 CHF |",
		"| NESN | 2 | 400.00 CHF | 450.00 CHF | - | +50.00 CHF |",
		"## Years",
		"## Quarters",
		"## Months",
		"| 05/2024 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ReportMarkdown() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "## Performance") {
		t.Errorf("ReportMarkdown() rendered metrics for a result without metrics")
	}
	if strings.Contains(got, "Columns not found") {
		t.Errorf("ReportMarkdown() warned about columns for a result without unverified columns")
	}
}

func TestReportMarkdown_Options(t *testing.T) {
	got := ReportMarkdown(sampleResult(), ReportOptions{Years: true})
	if !strings.Contains(got, "## Years") {
		t.Errorf("ReportMarkdown() missing years table")
	}
	if strings.Contains(got, "## Months") || strings.Contains(got, "## Quarters") {
		t.Errorf("ReportMarkdown() rendered disabled period tables:\n%s", got)
	}
}

func TestReportMarkdown_Empty(t *testing.T) {
	r := folio.EmptyResult("UBS", folio.Unknown, nil)
	got := ReportMarkdown(r, AllPeriods)
	if !strings.Contains(got, "| Period | no dated event |") {
		t.Errorf("ReportMarkdown() on empty result:\n%s", got)
	}
	if strings.Contains(got, "## Positions") || strings.Contains(got, "## Fees") {
		t.Errorf("ReportMarkdown() rendered empty sections:\n%s", got)
	}
}

func TestMetricsMarkdown(t *testing.T) {
	xirr := folio.Percent(7.5)
	m := &folio.Metrics{
		From:         date.New(2024, 1, 1),
		To:           date.New(2024, 12, 31),
		Days:         365,
		TWR:          12.34,
		XIRR:         &xirr,
		Volatility:   9.1,
		Sharpe:       0.93,
		MaxDrawdown:  -4.2,
		Approximated: true,
		Drawdowns: folio.DrawdownReport{
			Max: -4.2,
			Episodes: []folio.Episode{
				{Start: date.New(2024, 3, 1), Trough: date.New(2024, 3, 10), End: date.New(2024, 4, 2), Depth: -4.2, Recovered: true},
				{Start: date.New(2024, 11, 5), Trough: date.New(2024, 12, 1), Depth: -1.5},
			},
		},
	}
	got := MetricsMarkdown(m)
	for _, want := range []string{
		"| **Time-Weighted Return** | **+12.34%** |",
		"| Annualized (CAGR) | n/a |",
		"| Money-Weighted (XIRR) | +7.50% |",
		"| Volatility | 9.10% |",
		"| Sharpe Ratio | 0.93 |",
		"| Max Drawdown | -4.20% |",
		"| 2024-03-01 | 2024-03-10 | 2024-04-02 | -4.20% |",
		"| 2024-11-05 | 2024-12-01 | ongoing | -1.50% |",
		"> Returns are chained from valuations",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("MetricsMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestTimelineMarkdown(t *testing.T) {
	tl := folio.BuildTimeline([]folio.Snapshot{
		{Date: date.New(2024, 1, 31), Value: 1000},
		{Date: date.New(2024, 2, 29), Value: 1100},
	})
	got := TimelineMarkdown(&tl, "CHF")
	for _, want := range []string{
		"| 2024-01-31 | 1,000.00 CHF |  |  | - |",
		"| 2024-02-29 | 1,100.00 CHF | +100.00 CHF | +10.00% | +10.00% |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("TimelineMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestHTML(t *testing.T) {
	got, err := HTML(ReportMarkdown(sampleResult(), AllPeriods), "UBS")
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	for _, want := range []string{"<title>UBS</title>", "<h1>UBS Report</h1>", "<table>", ">NESN</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML() missing %q", want)
		}
	}
}

func TestTerminal(t *testing.T) {
	got, err := Terminal("# Title\n\nSome *text*.", 80)
	if err != nil {
		t.Fatalf("Terminal() error = %v", err)
	}
	if !strings.Contains(got, "Title") || !strings.Contains(got, "text") {
		t.Errorf("Terminal() = %q, want the rendered text", got)
	}
}
