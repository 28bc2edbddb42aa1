package ukcgt

import (
	"errors"
	"fmt"

	"github.com/etnz/ukcgt/date"
)

// Error kinds. A Discrepancy always unwraps to one of them.
var (
	// ErrUnsupportedCorporateAction reports a corporate action, like a spin-off,
	// that has no quantity adjustment rule.
	ErrUnsupportedCorporateAction = errors.New("unsupported corporate action")
	// ErrInsufficientPoolQuantity reports a disposal larger than the known holding.
	// It implies missing or malformed history.
	ErrInsufficientPoolQuantity = errors.New("insufficient pool quantity")
	// ErrCurrencyMismatch reports a transaction not in the reporting currency
	// and no way to convert it.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrAmbiguousOrdering reports two transactions on the same date with no
	// way to order them.
	ErrAmbiguousOrdering = errors.New("ambiguous ordering")
)

// Discrepancy is a data-integrity problem found while matching a security.
//
// Unless strict mode is set, discrepancies are collected in the Result and
// processing continues with the rest of the timeline.
type Discrepancy struct {
	Kind     error     // Kind is one of the Err* sentinel errors.
	Security ID        // Security is the security being matched.
	Date     date.Date // Date is the date of the transaction that triggered it.
	Ref      string    // Ref is the reference of the transaction that triggered it.
	Detail   string
}

func (d Discrepancy) Error() string {
	msg := fmt.Sprintf("%s: %v on %s", d.Security, d.Kind, d.Date)
	if d.Ref != "" {
		msg += fmt.Sprintf(" (%s)", d.Ref)
	}
	if d.Detail != "" {
		msg += ": " + d.Detail
	}
	return msg
}

// Unwrap returns the error kind, so that errors.Is(d, ErrInsufficientPoolQuantity) works.
func (d Discrepancy) Unwrap() error { return d.Kind }
