package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio/renderer"
	"github.com/etnz/folio/store"
	"github.com/google/subcommands"
)

type timelineCmd struct {
	dryRun bool
}

func (*timelineCmd) Name() string     { return "timeline" }
func (*timelineCmd) Synopsis() string { return "build a valuation timeline from monthly exports" }
func (*timelineCmd) Usage() string {
	return `fa timeline <file>...

  Reads one valuation per file (the grand total of a master file, or the sum
  of a positions sheet), dated from the file or its name, and chains them into
  a timeline with approximated performance metrics.

  Files without a valuation or a date are skipped.
`
}

func (c *timelineCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "Do not save the result.")
}

func (c *timelineCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one export file is required")
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	im, err := s.importer("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	r, err := im.Timeline(ctx, f.Args(), openWorkbook)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if r.Timeline == nil || len(r.Timeline.Points) == 0 {
		fmt.Fprintln(os.Stderr, "No valuation found in the files.")
		return subcommands.ExitFailure
	}

	if !c.dryRun {
		if err := store.SaveResult(ctx, s.store, r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	md := renderer.TimelineMarkdown(r.Timeline, r.Currency)
	if r.Metrics != nil {
		md += "\n" + renderer.MetricsMarkdown(r.Metrics)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
