package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/renderer"
	"github.com/google/subcommands"
)

type yearsCmd struct {
	format string
}

func (*yearsCmd) Name() string     { return "years" }
func (*yearsCmd) Synopsis() string { return "capital gains summary per tax year" }
func (*yearsCmd) Usage() string {
	return `cgt years [-format terminal|markdown|html]

  Displays, for each tax year with a disposal, the number of disposals, the
  proceeds, the allowable costs, the gains, the losses and the net gain.
`
}

func (c *yearsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(renderer.Terminal), "Output format: "+strings.Join(renderer.Formats, ", "))
}

func (c *yearsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	results, err := matchAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching disposals: %v\n", err)
		return subcommands.ExitFailure
	}
	md := renderer.YearsMarkdown(ukcgt.AggregateByTaxYear(results.Lots()))
	md += "\n" + renderer.DiscrepanciesMarkdown(results.Discrepancies())
	return printMarkdown(md, c.format)
}
