package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// ReportOptions selects the sections of a report.
type ReportOptions struct {
	Months   bool
	Quarters bool
	Years    bool
}

// AllPeriods renders every period table.
var AllPeriods = ReportOptions{Months: true, Quarters: true, Years: true}

// ReportMarkdown renders an import result.
func ReportMarkdown(r *folio.Result, opts ReportOptions) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	money := func(d decimal.Decimal) string { return folio.M(d, r.Currency).String() }
	signed := func(d decimal.Decimal) string { return folio.M(d, r.Currency).SignedString() }

	doc.H1(fmt.Sprintf("%s Report", r.Broker))

	period := "no dated event"
	if r.DateRange != nil {
		period = fmt.Sprintf("%s to %s", r.DateRange.Min, r.DateRange.Max)
	}
	accounts := "-"
	if len(r.Accounts) > 0 {
		accounts = strings.Join(r.Accounts, ", ")
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{md.Bold("Format"), md.Bold(string(r.Format))},
		Rows: [][]string{
			{"Period", period},
			{"Sheets", strings.Join(r.SheetNames, ", ")},
			{"Accounts", accounts},
			{"Rows", fmt.Sprintf("%d read, %d aggregated, %d unclassified, %d undated", r.Stats.Rows, r.Stats.Events, r.Stats.Other, r.Stats.Undated)},
		},
	})

	if len(r.Unverified) > 0 {
		doc.LF()
		fields := make([]string, len(r.Unverified))
		for i, f := range r.Unverified {
			fields[i] = fmt.Sprintf("%s (%q)", f, r.ColMapping.Header(f))
		}
		doc.Blockquote("Columns not found, defaults used: " + strings.Join(fields, ", ")).LF()
	}

	k := r.KPIs
	doc.H2("Key Figures")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Net Result"), md.Bold(signed(k.NetResult))},
		Rows: [][]string{
			{"Deposits", money(k.Deposits)},
			{"Withdrawals", money(k.Withdrawals)},
			{"Net Deposits", signed(k.NetDeposits)},
			{"Dividends", signed(k.Dividends)},
			{"Interest", signed(k.Interest)},
			{"Total Fees", money(k.TotalFees)},
			{"Total Value", money(k.TotalValue)},
			{"Performance", k.PerfPct.SignedString()},
		},
	})

	if !k.TotalFees.IsZero() || !k.Rebates.Commission.IsZero() {
		doc.H2("Fees")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Kind", "Amount"},
			Rows: [][]string{
				{"Commissions", money(k.Fees.Commission)},
				{"Taxes", money(k.Fees.Tax)},
			},
		}
		if !k.Fees.Other.IsZero() {
			table.Rows = append(table.Rows, []string{"Other", money(k.Fees.Other)})
		}
		if !k.Rebates.Commission.IsZero() {
			table.Rows = append(table.Rows, []string{"Commission Rebates", signed(k.Rebates.Commission.Neg())})
		}
		doc.Table(table)
	}

	if len(r.Positions) > 0 {
		doc.H2("Positions")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Position", "Trades", "Buys", "Sells", "Dividends", "Realized"},
		}
		for _, p := range r.Positions {
			table.Rows = append(table.Rows, []string{
				p.Symbol,
				fmt.Sprint(p.TradeCount),
				money(p.Buys),
				money(p.Sells),
				signed(p.Dividends),
				signed(p.Realized()),
			})
		}
		doc.Table(table)
	}

	if opts.Years {
		periodTable(doc, "Years", r.Years, money, signed)
	}
	if opts.Quarters {
		periodTable(doc, "Quarters", r.Quarters, money, signed)
	}
	if opts.Months {
		periodTable(doc, "Months", r.Months, money, signed)
	}

	if r.Metrics != nil {
		doc.PlainText(MetricsMarkdown(r.Metrics))
	}
	if r.Timeline != nil && len(r.Timeline.Points) > 0 {
		doc.PlainText(TimelineMarkdown(r.Timeline, r.Currency))
	}

	return doc.String()
}

func periodTable(doc *md.Markdown, title string, buckets []folio.PeriodBucket, money, signed func(decimal.Decimal) string) {
	if len(buckets) == 0 {
		return
	}
	doc.H2(title)
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Period", "Deposits", "Withdrawals", "Dividends", "Interest", "Fees", "P/L"},
	}
	for _, b := range buckets {
		table.Rows = append(table.Rows, []string{
			b.Period,
			money(b.Deposits),
			money(b.Withdrawals),
			signed(b.Dividends),
			signed(b.Interest),
			money(b.Fees),
			signed(b.PL),
		})
	}
	doc.Table(table)
}
