package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ukcgt/docs"
	"github.com/etnz/ukcgt/renderer"
	"github.com/google/subcommands"
)

type topicCmd struct {
	format string
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `cgt topic [-format terminal|markdown|html] [<topic>...]

  Shows the documentation of the given topics, "*" for all of them.
  Without topic, lists them.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(renderer.Terminal), "Output format: "+strings.Join(renderer.Formats, ", "))
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	return printMarkdown(doc, c.format)
}
