package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/date"
	"github.com/etnz/ukcgt/renderer"
	"github.com/google/subcommands"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	year     string
	security string
	gains    bool
	losses   bool
	format   string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "capital gains computation per disposal" }
func (*gainsCmd) Usage() string {
	return `cgt gains [-y <tax year>] [-security <id>] [-gains|-losses] [-format terminal|markdown|html]

  Matches every disposal with its acquisitions (same day, bed and breakfast,
  then Section 104 pool) and displays one line per matched lot, for each tax
  year, with the totals.

Usage Examples:
# gains of the 2023/24 tax year, as HTML.
$ cgt gains -y 2023/24 -format html > gains.html

`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.year, "y", "", "Tax year (e.g. 2023 or 2023/24). All years by default.")
	f.StringVar(&c.security, "security", "", "Only report this security.")
	f.BoolVar(&c.gains, "gains", false, "Only report lots with a gain.")
	f.BoolVar(&c.losses, "losses", false, "Only report lots with a loss.")
	f.StringVar(&c.format, "format", string(renderer.Terminal), "Output format: "+strings.Join(renderer.Formats, ", "))
}

// filter returns the lots selected by the flags.
func (c *gainsCmd) filter(lots []ukcgt.MatchedLot) []ukcgt.MatchedLot {
	var res []ukcgt.MatchedLot
	for _, l := range lots {
		if c.security != "" && string(l.Security) != c.security {
			continue
		}
		if c.gains && !l.Gain().IsPositive() {
			continue
		}
		if c.losses && !l.Gain().IsNegative() {
			continue
		}
		res = append(res, l)
	}
	return res
}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.gains && c.losses {
		fmt.Fprintln(os.Stderr, "-gains and -losses flags cannot be used together")
		return subcommands.ExitUsageError
	}
	var only *date.TaxYear
	if c.year != "" {
		y, err := date.ParseTaxYear(c.year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing tax year: %v\n", err)
			return subcommands.ExitUsageError
		}
		only = &y
	}

	results, err := matchAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching disposals: %v\n", err)
		return subcommands.ExitFailure
	}

	years := ukcgt.AggregateByTaxYear(c.filter(results.Lots()))
	var b strings.Builder
	for _, y := range years.Years() {
		if only != nil && y != *only {
			continue
		}
		b.WriteString(renderer.GainsMarkdown(years[y]))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		fmt.Fprintln(os.Stderr, "No disposals to report.")
	}
	b.WriteString(renderer.DiscrepanciesMarkdown(results.Discrepancies()))
	return printMarkdown(b.String(), c.format)
}
