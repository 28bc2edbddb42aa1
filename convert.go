package ukcgt

import (
	"fmt"
	"sort"

	"github.com/etnz/ukcgt/date"
)

// Converter converts an amount into another currency using the rate of a given day.
type Converter interface {
	Convert(m Money, on date.Date, currency string) (Money, error)
}

type rate struct {
	on    date.Date
	value Quantity
}

// RateTable is a Converter backed by a table of daily exchange rates.
//
// A conversion uses the latest rate known on or before the day requested.
type RateTable struct {
	rates map[[2]string][]rate // sorted by date
}

// NewRateTable returns an empty RateTable.
func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[[2]string][]rate)}
}

// Set records that on day, 1 unit of from is worth value units of to.
func (t *RateTable) Set(from, to string, on date.Date, value Quantity) {
	k := [2]string{from, to}
	rs := t.rates[k]
	i := sort.Search(len(rs), func(i int) bool { return !rs[i].on.Before(on) })
	if i < len(rs) && rs[i].on == on {
		rs[i].value = value
		return
	}
	rs = append(rs, rate{})
	copy(rs[i+1:], rs[i:])
	rs[i] = rate{on: on, value: value}
	t.rates[k] = rs
}

// Rate returns the rate from one currency to another on a given day.
func (t *RateTable) Rate(from, to string, on date.Date) (Quantity, error) {
	if from == to {
		return Q(1), nil
	}
	if rs := t.rates[[2]string{from, to}]; len(rs) > 0 {
		if i := sort.Search(len(rs), func(i int) bool { return rs[i].on.After(on) }); i > 0 {
			return rs[i-1].value, nil
		}
	}
	// try the inverse pair.
	if rs := t.rates[[2]string{to, from}]; len(rs) > 0 {
		if i := sort.Search(len(rs), func(i int) bool { return rs[i].on.After(on) }); i > 0 && !rs[i-1].value.IsZero() {
			return Q(1).Div(rs[i-1].value), nil
		}
	}
	return Quantity{}, fmt.Errorf("no %s/%s rate on or before %s", from, to, on)
}

// Convert implements Converter.
func (t *RateTable) Convert(m Money, on date.Date, currency string) (Money, error) {
	r, err := t.Rate(m.Currency(), currency, on)
	if err != nil {
		return Money{}, err
	}
	return M(m.Decimal().Mul(r.Decimal()), currency), nil
}
