// Package cmd implements the cgt command line application.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/ukcgt"
	"github.com/etnz/ukcgt/renderer"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&gainsCmd{}, "reports")
	c.Register(&yearsCmd{}, "reports")
	c.Register(&holdingsCmd{}, "reports")
	c.Register(&ordersCmd{}, "reports")

	c.Register(&fetchCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var config = LoadConfig()

var (
	ledgerFile    = flag.String("ledger", config.Ledger, "Path to the ledger file (JSONL format). Defaults to $UKCGT_LEDGER.")
	actionsFile   = flag.String("actions", config.Actions, "Path to the corporate actions cache written by 'fetch'. Defaults to $UKCGT_ACTIONS.")
	strict        = flag.Bool("strict", config.Strict, "Fail on the first discrepancy instead of reporting it.")
	includeFXFees = flag.Bool("include-fx-fees", config.IncludeFXFees, "Count currency conversion fees as allowable costs.")
	verbose       = flag.Bool("v", false, "Verbose logging.")
)

// options returns the matching options from the global flags.
func options() ukcgt.Options {
	log := newLogger(os.Stderr, config.LogLevel, *verbose)
	return ukcgt.Options{
		Strict:        *strict,
		IncludeFXFees: *includeFXFees,
		Logger:        &log,
	}
}

// DecodeLedger decodes the ledger file.
func DecodeLedger() (*ukcgt.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ukcgt.DecodeLedger(f)
}

// EncodeLedger writes the ledger file.
func EncodeLedger(l *ukcgt.Ledger) error {
	var buf bytes.Buffer
	if err := ukcgt.EncodeLedger(&buf, l); err != nil {
		return err
	}
	return os.WriteFile(*ledgerFile, buf.Bytes(), 0o644)
}

// DecodeActions reads the corporate actions cache, a missing file is empty.
func DecodeActions() ([]ukcgt.CorporateAction, error) {
	f, err := os.Open(*actionsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ukcgt.DecodeCorporateActions(f)
}

// EncodeActions writes the corporate actions cache.
func EncodeActions(actions []ukcgt.CorporateAction) error {
	var buf bytes.Buffer
	if err := ukcgt.EncodeCorporateActions(&buf, actions); err != nil {
		return err
	}
	return os.WriteFile(*actionsFile, buf.Bytes(), 0o644)
}

// matchAll loads the ledger and the corporate actions and matches every security.
func matchAll(ctx context.Context) (ukcgt.Results, error) {
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, fmt.Errorf("loading ledger %q: %w", *ledgerFile, err)
	}
	if err := ledger.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger %q: %w", *ledgerFile, err)
	}
	actions, err := DecodeActions()
	if err != nil {
		return nil, fmt.Errorf("loading corporate actions %q: %w", *actionsFile, err)
	}
	return ukcgt.NewBook(ledger, actions...).MatchAll(ctx, options())
}

// printMarkdown prints a markdown report in the selected format.
func printMarkdown(md, format string) subcommands.ExitStatus {
	f, err := renderer.ParseFormat(format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if err := renderer.Print(os.Stdout, md, f); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
