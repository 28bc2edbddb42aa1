package ukcgt

import (
	"fmt"
	"slices"
	"sort"

	"github.com/etnz/ukcgt/date"
	"github.com/rs/zerolog"
)

// Result is the outcome of matching the disposals of a security.
type Result struct {
	Security ID
	// Lots are ordered by disposal, then SameDay, BedAndBreakfast, Section104.
	Lots []MatchedLot
	// Pool is the Section 104 holding after the last transaction.
	Pool Pool
	// Discrepancies are the data problems found and skipped.
	Discrepancies []Discrepancy
	// Transactions are the transactions matched: ordered, in the reporting
	// currency, with quantities restated after corporate actions.
	Transactions []Transaction
}

// Match identifies every disposal of security in txs with its acquisitions,
// following the share identification rules: same day, then bed and breakfast
// (acquisitions in the 30 days after the disposal), then the Section 104 pool.
//
// Quantities are first restated after the security's corporate actions.
// In strict mode, the first discrepancy is returned as an error.
func Match(security ID, txs []Transaction, actions []CorporateAction, opts Options) (*Result, error) {
	log := opts.logger().With().Str("security", string(security)).Logger()
	res := &Result{Security: security, Pool: Pool{Security: security, Quantity: Q(0), Cost: M(0, opts.currency())}}

	for _, tx := range txs {
		if tx.Asset() != security {
			return nil, fmt.Errorf("%s %s is for %s, not %s", tx.What(), tx.Base().Reference(), tx.Asset(), security)
		}
		if v, ok := tx.(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				return nil, err
			}
		}
	}

	ordered, ds, err := order(security, txs, opts, log)
	res.Discrepancies = append(res.Discrepancies, ds...)
	if err != nil {
		return nil, err
	}

	converted, ds, err := convert(security, ordered, opts, log)
	res.Discrepancies = append(res.Discrepancies, ds...)
	if err != nil {
		return nil, err
	}

	normalized, ds, err := Normalize(security, converted, actions, opts)
	res.Discrepancies = append(res.Discrepancies, ds...)
	if err != nil {
		return nil, err
	}

	res.Transactions = normalized

	var acqs []*acquisition
	var disps []*disposal
	for _, tx := range normalized {
		switch v := tx.(type) {
		case Acquisition:
			acqs = append(acqs, &acquisition{Acquisition: v, cost: v.AllowableCost(opts.IncludeFXFees), claimed: Q(0)})
		case *Acquisition:
			acqs = append(acqs, &acquisition{Acquisition: *v, cost: v.AllowableCost(opts.IncludeFXFees), claimed: Q(0)})
		case Disposal:
			disps = append(disps, &disposal{Disposal: v, fees: v.Fees.Allowable(opts.IncludeFXFees), matched: Q(0)})
		case *Disposal:
			disps = append(disps, &disposal{Disposal: *v, fees: v.Fees.Allowable(opts.IncludeFXFees), matched: Q(0)})
		}
	}

	claims(acqs, disps)

	// commit in date order: acquisitions of the day enter the pool before its disposals.
	next := 0
	for _, d := range disps {
		for ; next < len(acqs) && !acqs[next].Date.After(d.Date); next++ {
			res.Pool.addUnclaimed(acqs[next])
		}
		lots, err := res.commit(d, opts, log)
		if err != nil {
			return nil, err
		}
		res.Lots = append(res.Lots, lots...)
	}
	for ; next < len(acqs); next++ {
		res.Pool.addUnclaimed(acqs[next])
	}
	log.Debug().Str("quantity", res.Pool.Quantity.String()).Str("cost", res.Pool.Cost.String()).Msg("final pool")
	return res, nil
}

// addUnclaimed puts the quantity of a not identified with any disposal into the pool.
func (p *Pool) addUnclaimed(a *acquisition) {
	if q := a.available(); q.IsPositive() {
		p.Add(q, a.cost.Sub(a.allocated))
	}
}

// commit builds the lots of d, taking from the pool what the claims did not cover.
func (r *Result) commit(d *disposal, opts Options, log zerolog.Logger) ([]MatchedLot, error) {
	lots := make([]MatchedLot, 0, len(d.claims)+1)
	for _, c := range d.claims {
		lots = append(lots, MatchedLot{
			Kind:            c.kind,
			AcquisitionDate: c.acq.Date,
			AcquisitionRef:  c.acq.Reference(),
			Quantity:        c.quantity,
			Cost:            c.cost,
		})
	}
	if rest := d.unmatched(); rest.IsPositive() {
		available := r.Pool.Quantity
		cost, err := r.Pool.Remove(rest)
		if err != nil {
			disc := Discrepancy{
				Kind:     ErrInsufficientPoolQuantity,
				Security: d.Security,
				Date:     d.Date,
				Ref:      d.Reference(),
				Detail:   fmt.Sprintf("selling %s shares from a pool of %s", rest, available),
			}
			if err := opts.report(log, disc); err != nil {
				return nil, err
			}
			r.Discrepancies = append(r.Discrepancies, disc)
		} else {
			lots = append(lots, MatchedLot{Kind: Section104, Quantity: rest, Cost: cost})
		}
	}

	// share proceeds and fees by quantity, the last lot takes the remainder
	// when the lots cover the whole disposal.
	var total Quantity
	for _, l := range lots {
		total = total.Add(l.Quantity)
	}
	complete := total.Equal(d.Quantity)
	proceeds, fees := d.Proceeds, d.fees
	for i := range lots {
		l := &lots[i]
		l.Security = d.Security
		l.DisposalRef = d.Reference()
		l.DisposalDate = d.Date
		var p, f Money
		if complete && i == len(lots)-1 {
			p, f = proceeds, fees
		} else {
			p, f = d.Proceeds.Prorate(l.Quantity, d.Quantity), d.fees.Prorate(l.Quantity, d.Quantity)
		}
		proceeds, fees = proceeds.Sub(p), fees.Sub(f)
		l.Proceeds = p
		l.Cost = l.Cost.Add(f)
		log.Debug().
			Str("disposal", l.DisposalRef).
			Str("rule", l.Identification()).
			Str("quantity", l.Quantity.String()).
			Str("cost", l.Cost.String()).
			Str("proceeds", l.Proceeds.String()).
			Msg("lot")
	}
	return lots, nil
}

// order sorts txs by date then sequence number.
//
// When every sequence number is zero the input order is kept for transactions
// of the same day. Two transactions sharing a date and a sequence number are
// ambiguous: the input order is used instead for that date only.
//
// Transactions without a sequence number are numbered after the others of
// their day, so that every reference is unique.
func order(security ID, txs []Transaction, opts Options, log zerolog.Logger) ([]Transaction, []Discrepancy, error) {
	res := append([]Transaction(nil), txs...)
	seen := make(map[string]Transaction)
	ambiguous := make(map[date.Date]bool)
	var ds []Discrepancy
	for _, tx := range res {
		o := tx.Base()
		if o.Seq == 0 {
			continue
		}
		k := fmt.Sprintf("%s#%d", o.Date, o.Seq)
		if prev, dup := seen[k]; dup {
			d := Discrepancy{
				Kind:     ErrAmbiguousOrdering,
				Security: security,
				Date:     o.Date,
				Ref:      o.Reference(),
				Detail:   fmt.Sprintf("same sequence number as %s %s, using input order", prev.What(), prev.Base().Reference()),
			}
			if err := opts.report(log, d); err != nil {
				return nil, nil, err
			}
			ds = append(ds, d)
			ambiguous[o.Date] = true
			continue
		}
		seen[k] = tx
	}
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i].Base(), res[j].Base()
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		if ambiguous[a.Date] {
			return false
		}
		return a.Seq < b.Seq
	})

	last := make(map[date.Date]int)
	for _, tx := range res {
		if o := tx.Base(); o.Seq > last[o.Date] {
			last[o.Date] = o.Seq
		}
	}
	for i, tx := range res {
		if o := tx.Base(); o.Seq == 0 {
			last[o.Date]++
			o.Seq = last[o.Date]
			res[i] = withBase(tx, o)
		}
	}
	return res, ds, nil
}

// convert restates every transaction in the reporting currency.
//
// Transactions that cannot be converted are excluded and reported as ErrCurrencyMismatch.
func convert(security ID, txs []Transaction, opts Options, log zerolog.Logger) ([]Transaction, []Discrepancy, error) {
	cur := opts.currency()
	res := make([]Transaction, 0, len(txs))
	var ds []Discrepancy
	for _, tx := range txs {
		if inCurrency(tx, cur) {
			res = append(res, tx)
			continue
		}
		c, err := convertTx(tx, cur, opts.Converter)
		if err == nil {
			res = append(res, c)
			continue
		}
		d := Discrepancy{
			Kind:     ErrCurrencyMismatch,
			Security: security,
			Date:     tx.When(),
			Ref:      tx.Base().Reference(),
			Detail:   fmt.Sprintf("%s %s excluded: %v", tx.What(), tx.Amount(), err),
		}
		if err := opts.report(log, d); err != nil {
			return nil, nil, err
		}
		ds = append(ds, d)
	}
	return res, ds, nil
}

// inCurrency reports whether the amount and the fees of tx are all in cur, or
// have no currency.
func inCurrency(tx Transaction, cur string) bool {
	for _, m := range append(tx.Base().Fees.all(), tx.Amount()) {
		if c := m.Currency(); c != "" && c != cur {
			return false
		}
	}
	return true
}

func convertTx(tx Transaction, cur string, conv Converter) (Transaction, error) {
	if conv == nil {
		var from []string
		for _, m := range append(tx.Base().Fees.all(), tx.Amount()) {
			if c := m.Currency(); c != "" && c != cur && !slices.Contains(from, c) {
				from = append(from, c)
			}
		}
		return nil, fmt.Errorf("no conversion from %v to %s", from, cur)
	}
	on := tx.When()
	money := func(m Money) (Money, error) {
		if c := m.Currency(); m.IsZero() || c == "" || c == cur {
			return M(m.Decimal(), cur), nil
		}
		return conv.Convert(m, on, cur)
	}
	o := tx.Base()
	var err error
	if o.Fees.Commission, err = money(o.Fees.Commission); err != nil {
		return nil, err
	}
	if o.Fees.StampDuty, err = money(o.Fees.StampDuty); err != nil {
		return nil, err
	}
	if o.Fees.Forex, err = money(o.Fees.Forex); err != nil {
		return nil, err
	}
	amount, err := money(tx.Amount())
	if err != nil {
		return nil, err
	}
	switch v := withBase(tx, o).(type) {
	case Acquisition:
		v.Cost = amount
		return v, nil
	case Disposal:
		v.Proceeds = amount
		return v, nil
	}
	return nil, fmt.Errorf("unsupported transaction type %T", tx)
}
