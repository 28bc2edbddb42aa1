package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ukcgt/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	format string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the Section 104 pools" }
func (*holdingsCmd) Usage() string {
	return `cgt holdings [-format terminal|markdown|html]

  Displays the shares held in each Section 104 pool after the last
  transaction, with their allowable cost.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(renderer.Terminal), "Output format: "+strings.Join(renderer.Formats, ", "))
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	results, err := matchAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching disposals: %v\n", err)
		return subcommands.ExitFailure
	}
	md := renderer.HoldingsMarkdown(results.Holdings())
	md += "\n" + renderer.DiscrepanciesMarkdown(results.Discrepancies())
	return printMarkdown(md, c.format)
}
