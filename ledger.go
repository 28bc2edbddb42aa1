package ukcgt

import (
	"errors"
	"slices"
	"sort"
)

// Ledger is the list of transactions and corporate actions recorded by the user.
//
// In a Ledger transactions are always in chronological order, transactions of
// the same day keep their recorded order.
type Ledger struct {
	transactions []Transaction
	actions      []CorporateAction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append adds transactions at the end of the ledger.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
}

// AppendActions adds corporate actions to the ledger.
func (l *Ledger) AppendActions(actions ...CorporateAction) {
	l.actions = append(l.actions, actions...)
}

// Transactions returns the transactions in chronological order.
func (l *Ledger) Transactions() []Transaction { return l.transactions }

// CorporateActions returns the corporate actions recorded in the ledger.
func (l *Ledger) CorporateActions() []CorporateAction { return l.actions }

// Securities returns every security traded in the ledger, sorted.
func (l *Ledger) Securities() []ID {
	seen := make(map[ID]struct{})
	for _, tx := range l.transactions {
		seen[tx.Asset()] = struct{}{}
	}
	ids := make([]ID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// First returns the first transaction of security, and false if there is none.
func (l *Ledger) First(security ID) (Transaction, bool) {
	for _, tx := range l.transactions {
		if tx.Asset() == security {
			return tx, true
		}
	}
	return nil, false
}

// Validate checks every transaction and corporate action, and reports all the
// errors found.
func (l *Ledger) Validate() error {
	var errs []error
	for _, tx := range l.transactions {
		if v, ok := tx.(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, a := range l.actions {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
	sort.SliceStable(l.actions, func(i, j int) bool {
		a, b := l.actions[i], l.actions[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.Security < b.Security
	})
}
