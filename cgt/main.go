// Command cgt computes UK capital gains on shares from a JSONL ledger.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/ukcgt/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Complete("cgt")

	commander := subcommands.NewCommander(flag.CommandLine, "cgt")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
