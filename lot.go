package ukcgt

import (
	"fmt"

	"github.com/etnz/ukcgt/date"
)

// Identification is the share identification rule a disposal was matched with.
type Identification int

const (
	SameDay Identification = iota
	BedAndBreakfast
	Section104
)

func (k Identification) String() string {
	switch k {
	case SameDay:
		return "Same day"
	case BedAndBreakfast:
		return "Bed & breakfast"
	case Section104:
		return "Section 104"
	}
	return fmt.Sprintf("Identification(%d)", int(k))
}

// MatchedLot is the part of a disposal identified with one acquisition, or with the pool.
type MatchedLot struct {
	Kind         Identification
	Security     ID
	DisposalRef  string
	DisposalDate date.Date
	// AcquisitionDate is the date of the matched acquisition, zero for Section 104.
	AcquisitionDate date.Date
	AcquisitionRef  string
	Quantity        Quantity
	Cost            Money // Cost is the allowable cost, including the share of disposal fees.
	Proceeds        Money
}

// Gain returns the gain, or the loss when negative.
func (l MatchedLot) Gain() Money { return l.Proceeds.Sub(l.Cost) }

// TaxYear returns the tax year of the disposal.
func (l MatchedLot) TaxYear() date.TaxYear { return date.TaxYearOf(l.DisposalDate) }

// Identification returns the rule description as shown on a computation.
func (l MatchedLot) Identification() string {
	if l.Kind == BedAndBreakfast {
		return fmt.Sprintf("Bed & B. (%s)", l.AcquisitionDate)
	}
	return l.Kind.String()
}
