package ukcgt

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/etnz/ukcgt/date"
	"github.com/shopspring/decimal"
)

// CorporateAction is a share reorganisation that changes the number of
// shares held without any acquisition or disposal.
type CorporateAction struct {
	Security ID
	Date     date.Date   // Date is the effective date, transactions strictly before it are adjusted.
	Kind     CommandType // Kind is one of CmdSplit, CmdConsolidation or CmdSpinOff.
	// Numerator and Denominator define the ratio new shares / old shares.
	// A 2-for-1 split is 2/1, a 1-for-10 consolidation is 1/10.
	Numerator   int64
	Denominator int64
}

// NewSplit returns a split of num new shares for den old shares.
func NewSplit(security ID, on date.Date, num, den int64) CorporateAction {
	return CorporateAction{Security: security, Date: on, Kind: CmdSplit, Numerator: num, Denominator: den}
}

// Ratio returns Numerator/Denominator.
func (a CorporateAction) Ratio() decimal.Decimal {
	return decimal.NewFromInt(a.Numerator).Div(decimal.NewFromInt(a.Denominator))
}

// Validate checks the corporate action fields.
func (a CorporateAction) Validate() error {
	if err := ValidateID(a.Security); err != nil {
		return fmt.Errorf("%s on %s: %w", a.Kind, a.Date, err)
	}
	switch a.Kind {
	case CmdSplit, CmdConsolidation:
		if a.Numerator <= 0 || a.Denominator <= 0 {
			return fmt.Errorf("%s %s on %s: ratio must be positive, got %d/%d", a.Kind, a.Security, a.Date, a.Numerator, a.Denominator)
		}
	case CmdSpinOff:
	default:
		return fmt.Errorf("unknown corporate action %q", a.Kind)
	}
	return nil
}

func (a CorporateAction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", a.Kind)
	w.Append("date", a.Date)
	w.Append("security", a.Security)
	if a.Kind != CmdSpinOff || a.Numerator != 0 {
		w.Append("num", a.Numerator)
		w.Append("den", a.Denominator)
	}
	return w.MarshalJSON()
}

func (a *CorporateAction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Command  CommandType `json:"command"`
		Date     date.Date   `json:"date"`
		Security ID          `json:"security"`
		Num      int64       `json:"num"`
		Den      int64       `json:"den"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*a = CorporateAction{
		Security:    temp.Security,
		Date:        temp.Date,
		Kind:        temp.Command,
		Numerator:   temp.Num,
		Denominator: temp.Den,
	}
	return nil
}

// Normalize restates the quantities of txs in the units in force after every
// corporate action of security.
//
// A transaction dated strictly before an action has its quantity multiplied
// by the action's ratio, costs and proceeds are unchanged. Actions compose in
// ascending date order. The recorded quantity is kept in Original.
//
// Spin-offs cannot be adjusted automatically: the security is then left
// unadjusted and an ErrUnsupportedCorporateAction discrepancy is returned
// (or an error in strict mode).
func Normalize(security ID, txs []Transaction, actions []CorporateAction, opts Options) ([]Transaction, []Discrepancy, error) {
	log := opts.logger().With().Str("security", string(security)).Logger()

	var own []CorporateAction
	for _, a := range actions {
		if a.Security != security {
			continue
		}
		if err := a.Validate(); err != nil {
			return nil, nil, err
		}
		own = append(own, a)
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].Date.Before(own[j].Date) })

	for _, a := range own {
		if a.Kind != CmdSpinOff {
			continue
		}
		d := Discrepancy{
			Kind:     ErrUnsupportedCorporateAction,
			Security: security,
			Date:     a.Date,
			Detail:   "spin-off requires a manual cost apportionment, corporate actions are not applied",
		}
		if err := opts.report(log, d); err != nil {
			return nil, nil, err
		}
		return append([]Transaction(nil), txs...), []Discrepancy{d}, nil
	}

	res := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		num, den := decimal.NewFromInt(1), decimal.NewFromInt(1)
		for _, a := range own {
			if tx.When().Before(a.Date) {
				num = num.Mul(decimal.NewFromInt(a.Numerator))
				den = den.Mul(decimal.NewFromInt(a.Denominator))
			}
		}
		if num.Equal(den) {
			res = append(res, tx)
			continue
		}
		o := tx.Base()
		adjusted := Quantity{o.Quantity.value.Mul(num).Div(den)}
		log.Debug().
			Str("ref", o.Reference()).
			Str("from", o.Quantity.String()).
			Str("to", adjusted.String()).
			Msg("quantity adjusted")
		if o.Original.IsZero() {
			o.Original = o.Quantity
		}
		o.Quantity = adjusted
		res = append(res, withBase(tx, o))
	}
	return res, nil, nil
}

// withBase returns a copy of tx with its order fields replaced by o.
func withBase(tx Transaction, o Order) Transaction {
	switch v := tx.(type) {
	case Acquisition:
		v.Order = o
		return v
	case *Acquisition:
		c := *v
		c.Order = o
		return c
	case Disposal:
		v.Order = o
		return v
	case *Disposal:
		c := *v
		c.Order = o
		return c
	}
	panic(fmt.Sprintf("unsupported transaction type %T", tx))
}
