package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/date"
	"github.com/etnz/ukcgt/eodhd"
	"github.com/google/subcommands"
)

// fetchCmd implements the "fetch" command.
type fetchCmd struct {
	eodhdApiFlag string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetches corporate actions from EODHD" }
func (*fetchCmd) Usage() string {
	return `cgt fetch [-eodhd-api-key <key>]

  Fetches the splits and consolidations of every security in the ledger from
  eodhd.com, and writes them to the corporate actions file.

  Requires the EODHD_API_KEY environment variable to be set or passed as a flag.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.eodhdApiFlag, "eodhd-api-key", "", "EODHD API key to use for consuming EODHD.com API. This flag takes precedence over the EODHD_API_KEY environment variable. You can get one at https://eodhd.com/")
}

// eodhdApiKey retrieves the EODHD API key from the command-line flag or the environment variable.
// It prioritizes the flag over the environment variable.
func (c *fetchCmd) eodhdApiKey() string {
	if c.eodhdApiFlag == "" {
		c.eodhdApiFlag = config.EODHDKey
	}
	return c.eodhdApiFlag
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key := c.eodhdApiKey()
	if key == "" {
		fmt.Fprintf(os.Stderr, "Error: EODHD API key is not set. Use -eodhd-api-key flag or EODHD_API_KEY environment variable\n")
		return subcommands.ExitFailure
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	opts := options()
	client := eodhd.New(key, eodhd.WithLogger(*opts.Logger))
	actions, err := ukcgt.FetchCorporateActions(ctx, client, ledger, date.Today(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching corporate actions: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeActions(actions); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", *actionsFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "%d corporate actions written to %q.\n", len(actions), *actionsFile)
	return subcommands.ExitSuccess
}
