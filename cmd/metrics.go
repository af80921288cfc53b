package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type metricsCmd struct{}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "display the performance metrics of the last import" }
func (*metricsCmd) Usage() string {
	return `fa metrics

  Displays the time-weighted return, CAGR, XIRR, volatility, Sharpe ratio and
  drawdowns of the last imported result. Metrics require a performance sheet,
  or cash flows and a valuation.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {}

func (c *metricsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	r, status := s.loadResult(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	if r.Metrics == nil {
		fmt.Fprintln(os.Stderr, "The last result has no performance metrics.")
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.MetricsMarkdown(r.Metrics))
	return subcommands.ExitSuccess
}
