package ukcgt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/ukcgt/date"
	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying ledger lines.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdBuy           CommandType = "buy"
	CmdSell          CommandType = "sell"
	CmdSplit         CommandType = "split"
	CmdConsolidation CommandType = "consolidation"
	CmdSpinOff       CommandType = "spinoff"
)

// MinDate is the first day handled: share identification rules changed on
// 6 April 2008 and earlier disposals follow different rules.
var MinDate = date.New(2008, 4, 6)

// Transaction is an acquisition or a disposal of a security.
type Transaction interface {
	What() CommandType // What returns the command type of the transaction.
	When() date.Date   // When returns the date on which the transaction occurred.
	Asset() ID         // Asset returns the security traded.
	Amount() Money     // Amount returns the cost of an acquisition or the proceeds of a disposal.
	Base() Order       // Base returns the fields common to all orders.
}

// Fees holds the incidental costs of an acquisition or a disposal.
type Fees struct {
	Commission Money // Commission is the dealing charge.
	StampDuty  Money // StampDuty is the Stamp Duty or Stamp Duty Reserve Tax.
	Forex      Money // Forex is the currency conversion fee.
}

// Total returns the sum of all fees.
func (f Fees) Total() Money { return f.Commission.Add(f.StampDuty).Add(f.Forex) }

// Allowable returns the fees deductible from the gain. Currency conversion
// fees are only allowable when includeFX is set.
func (f Fees) Allowable(includeFX bool) Money {
	if includeFX {
		return f.Total()
	}
	return f.Commission.Add(f.StampDuty)
}

func (f Fees) all() []Money { return []Money{f.Commission, f.StampDuty, f.Forex} }

// IsZero reports whether there are no fees at all.
func (f Fees) IsZero() bool { return f.Commission.IsZero() && f.StampDuty.IsZero() && f.Forex.IsZero() }

// Order holds the fields common to acquisitions and disposals.
type Order struct {
	Date     date.Date
	Security ID
	Quantity Quantity // Quantity is the number of shares, after corporate action adjustments.
	Original Quantity // Original is the quantity as recorded, before any adjustment. Zero if never adjusted.
	Fees     Fees
	Ref      string // Ref is the broker or ledger reference used in audit messages.
	Seq      int    // Seq is the stable secondary order among transactions of the same date.
	Memo     string
}

// Base returns the order itself, it is promoted to acquisitions and disposals.
func (o Order) Base() Order { return o }

// When returns the date of the transaction.
func (o Order) When() date.Date { return o.Date }

// Asset returns the security of the transaction.
func (o Order) Asset() ID { return o.Security }

// Reference returns Ref, or a description built from the order when it is empty.
func (o Order) Reference() string {
	if o.Ref != "" {
		return o.Ref
	}
	return fmt.Sprintf("%s#%d", o.Date, o.Seq)
}

// RecordedQuantity returns the quantity as it was recorded before adjustment.
func (o Order) RecordedQuantity() Quantity {
	if o.Original.IsZero() {
		return o.Quantity
	}
	return o.Original
}

func (o Order) validate() error {
	if err := ValidateID(o.Security); err != nil {
		return err
	}
	if o.Date.Before(MinDate) {
		return fmt.Errorf("orders executed before %s are not supported, got %s", MinDate, o.Date)
	}
	if !o.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive, got %s", o.Quantity)
	}
	for _, fee := range o.Fees.all() {
		if fee.IsNegative() {
			return fmt.Errorf("fees cannot be negative, got %s", fee)
		}
	}
	return nil
}

// ValidateID checks that id is a valid security identifier.
func ValidateID(id ID) error {
	if id == "" {
		return errors.New("security is missing")
	}
	_, err := ParseID(string(id))
	return err
}

// Acquisition is the purchase of a quantity of a security.
type Acquisition struct {
	Order
	Cost Money // Cost is the total cost including fees.
}

// NewAcquisition creates a new Acquisition.
func NewAcquisition(day date.Date, security ID, quantity Quantity, cost Money, ref string) Acquisition {
	return Acquisition{
		Order: Order{Date: day, Security: security, Quantity: quantity, Ref: ref},
		Cost:  cost,
	}
}

func (t Acquisition) What() CommandType { return CmdBuy }
func (t Acquisition) Amount() Money     { return t.Cost }

// AllowableCost returns the cost, less the currency conversion fees when they are not allowable.
func (t Acquisition) AllowableCost(includeFX bool) Money {
	if includeFX {
		return t.Cost
	}
	return t.Cost.Sub(t.Fees.Forex)
}

// Validate checks the Acquisition fields.
func (t Acquisition) Validate() error {
	if err := t.Order.validate(); err != nil {
		return fmt.Errorf("buy %s: %w", t.Reference(), err)
	}
	if t.Cost.IsNegative() {
		return fmt.Errorf("buy %s: cost cannot be negative, got %s", t.Reference(), t.Cost)
	}
	// fees in another currency are only comparable once converted.
	if sameCurrency(append(t.Fees.all(), t.Cost)...) && t.Cost.LessThan(t.Fees.Total()) {
		return fmt.Errorf("buy %s: cost %s is lower than its fees %s", t.Reference(), t.Cost, t.Fees.Total())
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Acquisition.
func (t Acquisition) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", CmdBuy)
	t.Order.marshal(&w)
	w.EmbedFrom(t.Cost)
	t.Fees.marshal(&w)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Acquisition.
func (t *Acquisition) UnmarshalJSON(data []byte) error {
	var temp orderCmd
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.Order = temp.toOrder()
	t.Cost = temp.Money()
	return nil
}

// Disposal is the sale of a quantity of a security.
type Disposal struct {
	Order
	Proceeds Money // Proceeds are the gross proceeds, before fees.
}

// NewDisposal creates a new Disposal.
func NewDisposal(day date.Date, security ID, quantity Quantity, proceeds Money, ref string) Disposal {
	return Disposal{
		Order:    Order{Date: day, Security: security, Quantity: quantity, Ref: ref},
		Proceeds: proceeds,
	}
}

func (t Disposal) What() CommandType { return CmdSell }
func (t Disposal) Amount() Money     { return t.Proceeds }

// Validate checks the Disposal fields.
func (t Disposal) Validate() error {
	if err := t.Order.validate(); err != nil {
		return fmt.Errorf("sell %s: %w", t.Reference(), err)
	}
	if t.Proceeds.IsNegative() {
		return fmt.Errorf("sell %s: proceeds cannot be negative, got %s", t.Reference(), t.Proceeds)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Disposal.
func (t Disposal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", CmdSell)
	t.Order.marshal(&w)
	w.EmbedFrom(t.Proceeds)
	t.Fees.marshal(&w)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Disposal.
func (t *Disposal) UnmarshalJSON(data []byte) error {
	var temp orderCmd
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.Order = temp.toOrder()
	t.Proceeds = temp.Money()
	return nil
}

func (o Order) marshal(w *jsonObjectWriter) {
	w.Append("date", o.Date)
	w.Append("security", o.Security)
	w.Append("quantity", o.RecordedQuantity())
	w.Optional("ref", o.Ref)
	w.Optional("memo", o.Memo)
}

func (f Fees) marshal(w *jsonObjectWriter) {
	w.OptionalAmount("commission", f.Commission)
	w.OptionalAmount("stampDuty", f.StampDuty)
	w.OptionalAmount("forex", f.Forex)
}

// orderCmd is the flat ledger representation of an order, used for decoding.
type orderCmd struct {
	amountCmd
	Date       date.Date       `json:"date"`
	Security   ID              `json:"security"`
	Quantity   Quantity        `json:"quantity"`
	Ref        string          `json:"ref,omitempty"`
	Memo       string          `json:"memo,omitempty"`
	Commission decimal.Decimal `json:"commission"`
	StampDuty  decimal.Decimal `json:"stampDuty"`
	Forex      decimal.Decimal `json:"forex"`
}

func (c orderCmd) toOrder() Order {
	return Order{
		Date:     c.Date,
		Security: c.Security,
		Quantity: c.Quantity,
		Ref:      c.Ref,
		Memo:     c.Memo,
		Fees: Fees{
			Commission: M(c.Commission, c.Currency),
			StampDuty:  M(c.StampDuty, c.Currency),
			Forex:      M(c.Forex, c.Currency),
		},
	}
}
