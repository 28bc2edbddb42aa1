package ukcgt

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Options controls how transactions are matched.
type Options struct {
	// Strict turns every discrepancy into a hard failure.
	Strict bool
	// IncludeFXFees makes currency conversion fees an allowable cost.
	IncludeFXFees bool
	// Currency is the reporting currency, GBP if empty.
	Currency string
	// Converter converts transactions not in the reporting currency. When nil
	// such transactions are reported as ErrCurrencyMismatch.
	Converter Converter
	// Logger receives warnings and debug traces. Nil discards them.
	Logger *zerolog.Logger
	// Parallelism bounds the number of securities matched at once by a Book.
	// Zero means runtime.NumCPU().
	Parallelism int
}

func (o Options) currency() string {
	if o.Currency == "" {
		return GBP
	}
	return o.Currency
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

func (o Options) parallelism() int {
	if o.Parallelism <= 0 {
		return runtime.NumCPU()
	}
	return o.Parallelism
}

// report logs d as a warning and returns it as an error in strict mode.
func (o Options) report(log zerolog.Logger, d Discrepancy) error {
	if o.Strict {
		return d
	}
	log.Warn().
		Str("kind", d.Kind.Error()).
		Str("date", d.Date.String()).
		Str("ref", d.Ref).
		Msg(d.Detail)
	return nil
}
