package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

type detectCmd struct {
	broker string
}

func (*detectCmd) Name() string     { return "detect" }
func (*detectCmd) Synopsis() string { return "show how exports are recognized" }
func (*detectCmd) Usage() string {
	return `fa detect [-broker ubs|saxo] <file>...

  Prints the detected format of each file, the sheet that would be read and
  the header mapped to each field. Fields marked as unverified were not found
  in the file and fall back to their default header: add the actual header to
  the columns section of the configuration.
`
}

func (c *detectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.broker, "broker", "", "Broker profile (ubs, saxo). Defaults to the configured one.")
}

// detectionMarkdown renders a detection.
func detectionMarkdown(path string, d folio.Detection) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(path)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{md.Bold("Format"), md.Bold(string(d.Format))},
		Rows: [][]string{
			{"Broker", d.Broker},
			{"Sheets", strings.Join(d.Sheets, ", ")},
			{"Read", d.Sheet},
		},
	})
	fields := d.Mapping.Fields()
	if len(fields) == 0 {
		return doc.String()
	}
	doc.LF()
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Field", "Header", "Status"},
	}
	for _, f := range fields {
		status := "found"
		if !d.Mapping.IsVerified(f) {
			status = "unverified"
		}
		table.Rows = append(table.Rows, []string{string(f), d.Mapping.Header(f), status})
	}
	doc.Table(table)
	return doc.String()
}

func (c *detectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one export file is required")
		return subcommands.ExitUsageError
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	s := &session{cfg: cfg}
	im, err := s.importer(c.broker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	status := subcommands.ExitSuccess
	var out strings.Builder
	for _, path := range f.Args() {
		wb, err := openWorkbook(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		out.WriteString(detectionMarkdown(path, im.Detect(wb)))
		out.WriteString("\n\n")
	}
	printMarkdown(out.String())
	return status
}
