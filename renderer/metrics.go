package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
)

// MetricsMarkdown renders performance metrics.
func MetricsMarkdown(m *folio.Metrics) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Performance")
	if m.Approximated {
		doc.Blockquote("Returns are chained from valuations and include external cash flows.").LF()
	}

	optional := func(p *folio.Percent) string {
		if p == nil {
			return "n/a"
		}
		return p.SignedString()
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Time-Weighted Return"), md.Bold(m.TWR.SignedString())},
		Rows: [][]string{
			{"Period", fmt.Sprintf("%s to %s (%d days)", m.From, m.To, m.Days)},
			{"Annualized (CAGR)", optional(m.CAGR)},
			{"Money-Weighted (XIRR)", optional(m.XIRR)},
			{"Volatility", m.Volatility.String()},
			{"Sharpe Ratio", fmt.Sprintf("%.2f", m.Sharpe)},
			{"Max Drawdown", folio.Percent(m.MaxDrawdown).SignedString()},
		},
	})

	if len(m.Drawdowns.Episodes) > 0 {
		doc.H3("Drawdowns")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Start", "Trough", "End", "Depth"},
		}
		for _, e := range m.Drawdowns.Episodes {
			end := e.End.String()
			if !e.Recovered {
				end = "ongoing"
			}
			table.Rows = append(table.Rows, []string{
				e.Start.String(),
				e.Trough.String(),
				end,
				folio.Percent(e.Depth).SignedString(),
			})
		}
		doc.Table(table)
	}
	return doc.String()
}

// TimelineMarkdown renders a valuation timeline.
func TimelineMarkdown(t *folio.Timeline, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Timeline")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Value", "Change", "Change %", "Cumulative"},
	}
	for i, p := range t.Points {
		change, changePct := "", ""
		if i > 0 {
			change = folio.M(p.Delta, currency).SignedString()
			changePct = folio.Percent(p.DeltaPct).SignedString()
		}
		table.Rows = append(table.Rows, []string{
			p.Date.String(),
			folio.M(p.Value, currency).String(),
			change,
			changePct,
			folio.Percent(p.CumulativeTWR).SignedString(),
		})
	}
	doc.Table(table)
	return doc.String()
}
