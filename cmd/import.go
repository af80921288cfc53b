package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/etnz/folio/store"
	"github.com/google/subcommands"
)

type importCmd struct {
	account string
	from    string
	to      string
	broker  string
	dryRun  bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "analyse broker exports and save the result" }
func (*importCmd) Usage() string {
	return `fa import [-account <id>] [-from <date>] [-to <date>] [-broker ubs|saxo] <file>...

  Reads UBS or Saxo exports (.xlsx or .csv), classifies every transaction row,
  aggregates the figures and computes performance metrics when the export
  carries a performance sheet. Several files are merged into a single result.

  The result is saved in the store, for the report, metrics and query commands.

Usage Examples:
# Analyse a Key4 export for 2024 only.
$ fa import -from 2024-01-01 -to 2024-12-31 transactions.xlsx
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", folio.AllAccounts, "Sub-account to analyse, or ALL.")
	f.StringVar(&c.from, "from", "", "First date to include (YYYY-MM-DD or YYYYMMDD).")
	f.StringVar(&c.to, "to", "", "Last date to include (YYYY-MM-DD or YYYYMMDD).")
	f.StringVar(&c.broker, "broker", "", "Broker profile (ubs, saxo). Defaults to the configured one.")
	f.BoolVar(&c.dryRun, "n", false, "Do not save the result.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	im, err := s.importer(c.broker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	filter := folio.Filter{Account: c.account, Range: date.NewBounds(c.from, c.to)}
	r, err := im.ImportFiles(ctx, f.Args(), openWorkbook, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if !c.dryRun {
		if err := store.SaveResult(ctx, s.store, r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.ReportMarkdown(r, renderer.ReportOptions{Years: true}))
	return subcommands.ExitSuccess
}
