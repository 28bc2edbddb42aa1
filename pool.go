package ukcgt

import "fmt"

// Pool is a Section 104 holding: all the shares of a security not identified
// with a same day or a bed and breakfast acquisition, held at their average cost.
type Pool struct {
	Security ID
	Quantity Quantity
	Cost     Money
}

// Add adds quantity shares bought for cost to the pool.
func (p *Pool) Add(quantity Quantity, cost Money) {
	p.Quantity = p.Quantity.Add(quantity)
	p.Cost = p.Cost.Add(cost)
}

// Remove takes quantity shares out of the pool and returns their allowable cost.
//
// The cost is the pool average cost at the time of removal. Removing the whole
// pool returns its whole cost. It fails with ErrInsufficientPoolQuantity
// if the pool holds less than quantity, leaving the pool unchanged.
func (p *Pool) Remove(quantity Quantity) (Money, error) {
	if quantity.GreaterThan(p.Quantity) {
		return Money{}, fmt.Errorf("%w: removing %s from %s", ErrInsufficientPoolQuantity, quantity, p.Quantity)
	}
	cost := p.Cost.Prorate(quantity, p.Quantity)
	p.Quantity = p.Quantity.Sub(quantity)
	p.Cost = p.Cost.Sub(cost)
	if p.Quantity.IsZero() {
		p.Cost = M(0, p.Cost.Currency())
	}
	return cost, nil
}

// AverageCost returns the cost of one share in the pool.
func (p Pool) AverageCost() Money {
	if p.Quantity.IsZero() {
		return M(0, p.Cost.Currency())
	}
	return p.Cost.Div(p.Quantity)
}

func (p Pool) String() string {
	return fmt.Sprintf("%s: %s shares for %s", p.Security, p.Quantity, p.Cost)
}
