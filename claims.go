package ukcgt

// acquisition is an Acquisition being matched.
type acquisition struct {
	Acquisition
	cost      Money    // allowable cost
	claimed   Quantity // quantity identified with disposals
	allocated Money    // cost of the claimed quantity
}

// available returns the quantity not yet identified with any disposal.
func (a *acquisition) available() Quantity { return a.Quantity.Sub(a.claimed) }

// claim is a quantity of a disposal identified with an acquisition.
type claim struct {
	kind     Identification
	acq      *acquisition
	quantity Quantity
	cost     Money
}

// disposal is a Disposal being matched.
type disposal struct {
	Disposal
	fees    Money // allowable fees
	claims  []claim
	matched Quantity
}

// unmatched returns the quantity left for the Section 104 pool.
func (d *disposal) unmatched() Quantity { return d.Quantity.Sub(d.matched) }

// claims resolves the same day and bed and breakfast rules over the whole
// timeline. Both slices must be in (date, seq) order.
//
// Same day identification is done first for every disposal, so that an
// acquisition is never taken by a bed and breakfast claim when it could match
// a disposal of its own day.
func claims(acqs []*acquisition, disps []*disposal) {
	for _, d := range disps {
		for _, a := range acqs {
			if a.Date == d.Date {
				identify(d, a, SameDay)
			}
		}
	}
	for _, d := range disps {
		last := d.Date.Add(30)
		for _, a := range acqs {
			if a.Date.After(d.Date) && !a.Date.After(last) {
				identify(d, a, BedAndBreakfast)
			}
		}
	}
}

// identify matches as much of d as possible with what is left of a.
func identify(d *disposal, a *acquisition, kind Identification) {
	q := d.unmatched().Min(a.available())
	if !q.IsPositive() {
		return
	}
	var cost Money
	if q.Equal(a.available()) {
		// last of the acquisition: takes the remainder so that claims sum to its cost.
		cost = a.cost.Sub(a.allocated)
	} else {
		cost = a.cost.Prorate(q, a.Quantity)
	}
	a.claimed = a.claimed.Add(q)
	a.allocated = a.allocated.Add(cost)
	d.matched = d.matched.Add(q)
	d.claims = append(d.claims, claim{kind: kind, acq: a, quantity: q, cost: cost})
}
