package ukcgt

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// timeline is the full history of one security.
type timeline struct {
	txs     []Transaction
	actions []CorporateAction
}

// Book holds the timelines of every security of a ledger. Each timeline is
// matched independently of the others.
type Book struct {
	timelines map[ID]*timeline
}

// NewBook splits the ledger by security. Corporate actions from other sources,
// like a provider cache, are merged with the ledger's own, duplicates are ignored.
func NewBook(l *Ledger, actions ...CorporateAction) *Book {
	b := &Book{timelines: make(map[ID]*timeline)}
	for _, tx := range l.Transactions() {
		b.timeline(tx.Asset()).txs = append(b.timeline(tx.Asset()).txs, tx)
	}
	for _, a := range append(slices.Clone(l.CorporateActions()), actions...) {
		t := b.timeline(a.Security)
		if !slices.Contains(t.actions, a) {
			t.actions = append(t.actions, a)
		}
	}
	return b
}

func (b *Book) timeline(id ID) *timeline {
	t, ok := b.timelines[id]
	if !ok {
		t = &timeline{}
		b.timelines[id] = t
	}
	return t
}

// Securities returns the securities with at least one transaction, sorted.
func (b *Book) Securities() []ID {
	ids := make([]ID, 0, len(b.timelines))
	for id, t := range b.timelines {
		if len(t.txs) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Match matches a single security.
func (b *Book) Match(security ID, opts Options) (*Result, error) {
	t := b.timeline(security)
	return Match(security, t.txs, t.actions, opts)
}

// MatchAll matches every security concurrently, at most opts.Parallelism at
// a time. Results are sorted by security.
//
// The first error stops dispatching the remaining securities.
func (b *Book) MatchAll(ctx context.Context, opts Options) (Results, error) {
	ids := b.Securities()
	results := make(Results, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.parallelism())
	for i, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := b.Match(id, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Results are the results of several securities.
type Results []*Result

// Lots returns the lots of every security.
func (rs Results) Lots() []MatchedLot {
	var lots []MatchedLot
	for _, r := range rs {
		lots = append(lots, r.Lots...)
	}
	return lots
}

// Transactions returns the matched transactions of every security, by date.
// Transactions of the same day keep the order of their security.
func (rs Results) Transactions() []Transaction {
	var txs []Transaction
	for _, r := range rs {
		txs = append(txs, r.Transactions...)
	}
	slices.SortStableFunc(txs, func(a, b Transaction) int { return a.When().Compare(b.When()) })
	return txs
}

// Holdings returns the pools still holding shares.
func (rs Results) Holdings() []Pool {
	var pools []Pool
	for _, r := range rs {
		if !r.Pool.Quantity.IsZero() {
			pools = append(pools, r.Pool)
		}
	}
	return pools
}

// Discrepancies returns the discrepancies of every security.
func (rs Results) Discrepancies() []Discrepancy {
	var ds []Discrepancy
	for _, r := range rs {
		ds = append(ds, r.Discrepancies...)
	}
	return ds
}
