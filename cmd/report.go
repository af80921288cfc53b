package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	periods  string
	html     string
	markdown bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the report of the last import" }
func (*reportCmd) Usage() string {
	return `fa report [-p months,quarters,years] [-html <file>] [-md]

  Displays the key figures, positions and period tables of the last imported
  result. Use -html to write a standalone HTML page instead, or -md to print
  the raw markdown.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.periods, "p", "years,quarters", "Comma separated period tables to include: months, quarters, years.")
	f.StringVar(&c.html, "html", "", "Write the report as HTML to this file.")
	f.BoolVar(&c.markdown, "md", false, "Print raw markdown.")
}

// parsePeriods parses the -p flag.
func parsePeriods(s string) (renderer.ReportOptions, error) {
	var opts renderer.ReportOptions
	for _, p := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "months", "month", "m":
			opts.Months = true
		case "quarters", "quarter", "q":
			opts.Quarters = true
		case "years", "year", "y":
			opts.Years = true
		case "all":
			opts = renderer.AllPeriods
		case "":
		default:
			return opts, fmt.Errorf("unknown period table %q", p)
		}
	}
	return opts, nil
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := parsePeriods(c.periods)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

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
	md := renderer.ReportMarkdown(r, opts)

	switch {
	case c.html != "":
		page, err := renderer.HTML(md, r.Broker+" Report")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.html, []byte(page), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.html, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", c.html)
	case c.markdown:
		fmt.Println(md)
	default:
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}
