package cmd

import (
	"github.com/etnz/ukcgt/renderer"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
func completion() *complete.Command {
	format := predict.Set(renderer.Formats)
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger":          predict.Files("*.jsonl"),
			"actions":         predict.Files("*.jsonl"),
			"strict":          predict.Nothing,
			"include-fx-fees": predict.Nothing,
			"v":               predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"gains": {Flags: map[string]complete.Predictor{
				"y":        predict.Something,
				"security": predict.Something,
				"gains":    predict.Nothing,
				"losses":   predict.Nothing,
				"format":   format,
			}},
			"orders": {Flags: map[string]complete.Predictor{
				"y":            predict.Something,
				"security":     predict.Something,
				"acquisitions": predict.Nothing,
				"disposals":    predict.Nothing,
				"format":       format,
			}},
			"years":    {Flags: map[string]complete.Predictor{"format": format}},
			"holdings": {Flags: map[string]complete.Predictor{"format": format}},
			"fetch":    {Flags: map[string]complete.Predictor{"eodhd-api-key": predict.Something}},
			"fmt":      {},
			"topic": {
				Flags: map[string]complete.Predictor{"format": format},
				Args:  predict.Set{"readme", "ledger", "rules", "actions", "*"},
			},
			"help":     {},
			"commands": {},
			"flags":    {},
		},
	}
}

// Complete answers a shell completion request and exits, if the shell made
// one. Otherwise it does nothing.
//
// Install the completion for bash with:
//
//	COMP_INSTALL=1 cgt
func Complete(name string) {
	completion().Complete(name)
}
