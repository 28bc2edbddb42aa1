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

// ordersCmd holds the flags for the 'orders' subcommand.
type ordersCmd struct {
	year         string
	security     string
	acquisitions bool
	disposals    bool
	format       string

	only *date.TaxYear
}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "list the acquisitions and disposals as matched" }
func (*ordersCmd) Usage() string {
	return `cgt orders [-y <tax year>] [-security <id>] [-acquisitions|-disposals] [-format terminal|markdown|html]

  Lists the buy and sell orders the way they are matched: in the reporting
  currency, with quantities restated after splits and consolidations next to
  the recorded ones.

Usage Examples:
# disposals of the 2023/24 tax year.
$ cgt orders -y 2023 -disposals

`
}

func (c *ordersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.year, "y", "", "Tax year (e.g. 2023 or 2023/24). All years by default.")
	f.StringVar(&c.security, "security", "", "Only list this security.")
	f.BoolVar(&c.acquisitions, "acquisitions", false, "Only list acquisitions.")
	f.BoolVar(&c.disposals, "disposals", false, "Only list disposals.")
	f.StringVar(&c.format, "format", string(renderer.Terminal), "Output format: "+strings.Join(renderer.Formats, ", "))
}

// filter returns the transactions selected by the flags.
func (c *ordersCmd) filter(txs []ukcgt.Transaction) []ukcgt.Transaction {
	var res []ukcgt.Transaction
	for _, tx := range txs {
		if c.only != nil && date.TaxYearOf(tx.When()) != *c.only {
			continue
		}
		if c.security != "" && string(tx.Asset()) != c.security {
			continue
		}
		if c.acquisitions && tx.What() != ukcgt.CmdBuy {
			continue
		}
		if c.disposals && tx.What() != ukcgt.CmdSell {
			continue
		}
		res = append(res, tx)
	}
	return res
}

func (c *ordersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.acquisitions && c.disposals {
		fmt.Fprintln(os.Stderr, "-acquisitions and -disposals flags cannot be used together")
		return subcommands.ExitUsageError
	}
	if c.year != "" {
		y, err := date.ParseTaxYear(c.year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing tax year: %v\n", err)
			return subcommands.ExitUsageError
		}
		c.only = &y
	}

	results, err := matchAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching disposals: %v\n", err)
		return subcommands.ExitFailure
	}
	txs := c.filter(results.Transactions())
	if len(txs) == 0 {
		fmt.Fprintln(os.Stderr, "No orders found.")
	}
	md := renderer.OrdersMarkdown(txs)
	md += "\n" + renderer.DiscrepanciesMarkdown(results.Discrepancies())
	return printMarkdown(md, c.format)
}
