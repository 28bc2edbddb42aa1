package ukcgt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/ukcgt/date"
)

func googBuy(on date.Date, q, cost float64) Acquisition {
	return NewAcquisition(on, GOOG, Q(q), gbp(cost), "")
}

func googSell(on date.Date, q, proceeds float64) Disposal {
	return NewDisposal(on, GOOG, Q(q), gbp(proceeds), "")
}

func TestBook_MatchAll(t *testing.T) {
	l := NewLedger()
	l.Append(
		googBuy(day(time.January, 2), 5, 500),
		buy(day(time.January, 1), 10, 100),
		sell(day(time.February, 1), 4, 60),
		googSell(day(time.March, 1), 5, 400),
	)
	split := NewSplit(AAPL, day(time.June, 1), 2, 1)
	l.AppendActions(split)

	// the duplicate split must only apply once.
	b := NewBook(l, split)
	if got := b.Securities(); len(got) != 2 || got[0] != AAPL || got[1] != GOOG {
		t.Fatalf("Securities() = %v", got)
	}

	results, err := b.MatchAll(context.Background(), Options{Parallelism: 1})
	if err != nil {
		t.Fatalf("MatchAll() error = %v", err)
	}
	if len(results) != 2 || results[0].Security != AAPL || results[1].Security != GOOG {
		t.Fatalf("MatchAll() returned results in the wrong order")
	}

	lots := results.Lots()
	if len(lots) != 2 {
		t.Fatalf("Lots() = %d lots, want 2", len(lots))
	}
	// quantities are restated after the split, costs are not.
	if !lots[0].Quantity.Equal(Q(8)) || !lots[0].Cost.Equal(gbp(40)) || !lots[0].Gain().Equal(gbp(20)) {
		t.Errorf("AAPL lot = %+v", lots[0])
	}
	if !lots[1].Gain().Equal(gbp(-100)) {
		t.Errorf("GOOG lot gain = %s, want -100", lots[1].Gain())
	}

	holdings := results.Holdings()
	if len(holdings) != 1 || holdings[0].Security != AAPL || !holdings[0].Quantity.Equal(Q(12)) || !holdings[0].Cost.Equal(gbp(60)) {
		t.Errorf("Holdings() = %v", holdings)
	}
	if ds := results.Discrepancies(); len(ds) != 0 {
		t.Errorf("Discrepancies() = %v", ds)
	}
}

func TestBook_MatchAllStrict(t *testing.T) {
	l := NewLedger()
	l.Append(
		buy(day(time.January, 1), 10, 100),
		googSell(day(time.March, 1), 5, 400),
	)
	b := NewBook(l)

	results, err := b.MatchAll(context.Background(), Options{})
	if err != nil {
		t.Fatalf("MatchAll() error = %v", err)
	}
	ds := results.Discrepancies()
	if len(ds) != 1 || !errors.Is(ds[0], ErrInsufficientPoolQuantity) || ds[0].Security != GOOG {
		t.Errorf("Discrepancies() = %v", ds)
	}

	_, err = b.MatchAll(context.Background(), Options{Strict: true})
	if !errors.Is(err, ErrInsufficientPoolQuantity) {
		t.Errorf("MatchAll() in strict mode error = %v, want %v", err, ErrInsufficientPoolQuantity)
	}
}

func TestBook_MatchAllCancelled(t *testing.T) {
	l := NewLedger()
	l.Append(buy(day(time.January, 1), 10, 100))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewBook(l).MatchAll(ctx, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("MatchAll() error = %v, want %v", err, context.Canceled)
	}
}

func TestBook_Match(t *testing.T) {
	l := NewLedger()
	l.Append(buy(day(time.January, 1), 10, 100), sell(day(time.January, 1), 10, 120))
	r := must(NewBook(l).Match(AAPL, Options{}))
	if len(r.Lots) != 1 || r.Lots[0].Kind != SameDay {
		t.Errorf("Match() lots = %v", r.Lots)
	}
	r = must(NewBook(l).Match(GOOG, Options{}))
	if len(r.Lots) != 0 || !r.Pool.Quantity.IsZero() {
		t.Errorf("Match() of an unknown security = %+v", r)
	}
}

type fakeProvider map[ID][]CorporateAction

func (p fakeProvider) CorporateActions(_ context.Context, id ID, from, to date.Date) ([]CorporateAction, error) {
	as, ok := p[id]
	if !ok {
		return nil, errors.New("unknown security")
	}
	var res []CorporateAction
	for _, a := range as {
		if !a.Date.Before(from) && !a.Date.After(to) {
			res = append(res, a)
		}
	}
	return res, nil
}

func TestFetchCorporateActions(t *testing.T) {
	l := NewLedger()
	l.Append(buy(day(time.March, 1), 10, 100), googBuy(day(time.January, 1), 1, 10))

	p := fakeProvider{AAPL: {
		NewSplit(AAPL, day(time.February, 1), 4, 1), // before the first trade
		NewSplit(AAPL, day(time.June, 1), 2, 1),
		NewSplit(AAPL, day(time.December, 1), 3, 1), // after to
	}}
	got, err := FetchCorporateActions(context.Background(), p, l, day(time.September, 1), Options{})
	if err != nil {
		t.Fatalf("FetchCorporateActions() error = %v", err)
	}
	if len(got) != 1 || got[0] != p[AAPL][1] {
		t.Errorf("FetchCorporateActions() = %v", got)
	}

	p[AAPL] = append(p[AAPL], CorporateAction{Security: AAPL, Date: day(time.July, 1), Kind: CmdSplit})
	if _, err := FetchCorporateActions(context.Background(), p, l, day(time.September, 1), Options{}); err == nil {
		t.Error("FetchCorporateActions() accepted an invalid action")
	}
}
