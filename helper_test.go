package ukcgt

import (
	"time"

	"github.com/etnz/ukcgt/date"
)

const (
	AAPL ID = "US0378331005"
	GOOG ID = "US38259P5089"
)

// gbp is a helper for test to create pounds from const
func gbp(v float64) Money { return M(v, GBP) }

// usd is a helper for test to create usd money from const
func usd(v float64) Money { return M(v, "USD") }

// day is a helper for test to create a date in 2024.
func day(m time.Month, d int) date.Date { return date.New(2024, m, d) }

func buy(on date.Date, q, cost float64) Acquisition {
	return NewAcquisition(on, AAPL, Q(q), gbp(cost), "")
}

func sell(on date.Date, q, proceeds float64) Disposal {
	return NewDisposal(on, AAPL, Q(q), gbp(proceeds), "")
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
