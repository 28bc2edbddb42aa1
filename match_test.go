package ukcgt

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/etnz/ukcgt/date"
)

// lotSpec is the expected content of a matched lot.
type lotSpec struct {
	kind     Identification
	quantity float64
	cost     float64
	proceeds float64
}

func checkLots(t *testing.T, got []MatchedLot, want []lotSpec) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d lots, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Kind != w.kind || !g.Quantity.Equal(Q(w.quantity)) || !g.Cost.Equal(gbp(w.cost)) || !g.Proceeds.Equal(gbp(w.proceeds)) {
			t.Errorf("lot %d = {%v %s %s %s}, want {%v %v %v %v}", i, g.Kind, g.Quantity, g.Cost.Decimal(), g.Proceeds.Decimal(), w.kind, w.quantity, w.cost, w.proceeds)
		}
	}
}

func checkPool(t *testing.T, p Pool, quantity, cost float64) {
	t.Helper()
	if !p.Quantity.Equal(Q(quantity)) || !p.Cost.Equal(gbp(cost)) {
		t.Errorf("pool = %s, want %v shares for %v", p, quantity, cost)
	}
}

func TestMatch_SameDayThenPool(t *testing.T) {
	txs := []Transaction{
		buy(day(time.January, 1), 10, 100),
		sell(day(time.January, 1), 4, 50),
		buy(day(time.January, 10), 4, 30),
	}
	res, err := Match(AAPL, txs, nil, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	checkLots(t, res.Lots, []lotSpec{{SameDay, 4, 40, 50}})
	if g := res.Lots[0].Gain(); !g.Equal(gbp(10)) {
		t.Errorf("gain = %s, want 10", g)
	}
	checkPool(t, res.Pool, 10, 90)
	if len(res.Discrepancies) != 0 {
		t.Errorf("unexpected discrepancies %v", res.Discrepancies)
	}
}

func TestMatch_BedAndBreakfastWindow(t *testing.T) {
	sold := day(time.February, 1)
	tests := []struct {
		name  string
		after int // days between the disposal and the repurchase
		lots  []lotSpec
		pool  [2]float64
	}{
		{"same day is not bed and breakfast", 0, []lotSpec{{SameDay, 5, 40, 60}}, [2]float64{10, 100}},
		{"next day", 1, []lotSpec{{BedAndBreakfast, 5, 40, 60}}, [2]float64{10, 100}},
		{"30th day", 30, []lotSpec{{BedAndBreakfast, 5, 40, 60}}, [2]float64{10, 100}},
		{"31st day", 31, []lotSpec{{Section104, 5, 50, 60}}, [2]float64{10, 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := []Transaction{
				buy(day(time.January, 1), 10, 100),
				sell(sold, 5, 60),
				buy(sold.Add(tt.after), 5, 40),
			}
			res, err := Match(AAPL, txs, nil, Options{})
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			checkLots(t, res.Lots, tt.lots)
			checkPool(t, res.Pool, tt.pool[0], tt.pool[1])
			for _, l := range res.Lots {
				if l.Kind == BedAndBreakfast && l.AcquisitionDate != sold.Add(tt.after) {
					t.Errorf("bed and breakfast acquisition date = %s, want %s", l.AcquisitionDate, sold.Add(tt.after))
				}
			}
		})
	}
}

func TestMatch_Priority(t *testing.T) {
	t.Run("same day before an earlier bed and breakfast", func(t *testing.T) {
		txs := []Transaction{
			buy(day(time.January, 1), 10, 100),
			sell(day(time.January, 5), 5, 60),
			sell(day(time.January, 10), 5, 70),
			buy(day(time.January, 10), 5, 45),
		}
		res, err := Match(AAPL, txs, nil, Options{})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		checkLots(t, res.Lots, []lotSpec{
			{Section104, 5, 50, 60},
			{SameDay, 5, 45, 70},
		})
		checkPool(t, res.Pool, 5, 50)
	})

	t.Run("earlier disposal first for bed and breakfast", func(t *testing.T) {
		txs := []Transaction{
			buy(day(time.January, 1), 10, 100),
			sell(day(time.January, 5), 5, 60),
			sell(day(time.January, 8), 5, 60),
			buy(day(time.January, 10), 6, 60),
		}
		res, err := Match(AAPL, txs, nil, Options{})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		checkLots(t, res.Lots, []lotSpec{
			{BedAndBreakfast, 5, 50, 60},
			{BedAndBreakfast, 1, 10, 12},
			{Section104, 4, 40, 48},
		})
		checkPool(t, res.Pool, 6, 60)
	})

	t.Run("same day, bed and breakfast, then pool", func(t *testing.T) {
		txs := []Transaction{
			buy(day(time.January, 1), 10, 100),
			sell(day(time.January, 10), 10, 200),
			buy(day(time.January, 10), 4, 48),
			buy(day(time.January, 15), 3, 30),
		}
		res, err := Match(AAPL, txs, nil, Options{})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		checkLots(t, res.Lots, []lotSpec{
			{SameDay, 4, 48, 80},
			{BedAndBreakfast, 3, 30, 60},
			{Section104, 3, 30, 60},
		})
		checkPool(t, res.Pool, 7, 70)
	})
}

func TestMatch_Fees(t *testing.T) {
	acq := buy(day(time.January, 1), 10, 113)
	acq.Fees = Fees{Commission: gbp(10), Forex: gbp(3)}
	disp := sell(day(time.February, 1), 10, 200)
	disp.Fees = Fees{Commission: gbp(5), Forex: gbp(2)}

	tests := []struct {
		includeFX bool
		cost      float64
	}{
		{false, 115},
		{true, 120},
	}
	for _, tt := range tests {
		res, err := Match(AAPL, []Transaction{acq, disp}, nil, Options{IncludeFXFees: tt.includeFX})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		checkLots(t, res.Lots, []lotSpec{{Section104, 10, tt.cost, 200}})
	}
}

func TestMatch_DisposalFeesApportioned(t *testing.T) {
	disp := sell(day(time.January, 1), 10, 100)
	disp.Fees = Fees{Commission: gbp(10)}
	txs := []Transaction{
		NewAcquisition(date.New(2023, time.December, 1), AAPL, Q(10), gbp(50), ""),
		disp,
		buy(day(time.January, 1), 4, 40),
	}
	res, err := Match(AAPL, txs, nil, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	checkLots(t, res.Lots, []lotSpec{
		{SameDay, 4, 44, 40},
		{Section104, 6, 36, 60},
	})
}

func TestMatch_InsufficientPoolQuantity(t *testing.T) {
	disp := sell(day(time.February, 1), 15, 300)
	disp.Ref = "T-42"
	txs := []Transaction{buy(day(time.January, 1), 10, 100), disp}

	res, err := Match(AAPL, txs, nil, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(res.Lots) != 0 {
		t.Errorf("got lots %v, want none", res.Lots)
	}
	checkPool(t, res.Pool, 10, 100)
	if len(res.Discrepancies) != 1 {
		t.Fatalf("got %d discrepancies, want 1", len(res.Discrepancies))
	}
	d := res.Discrepancies[0]
	if !errors.Is(d, ErrInsufficientPoolQuantity) || d.Ref != "T-42" || d.Date != day(time.February, 1) || d.Security != AAPL {
		t.Errorf("unexpected discrepancy %v", d)
	}

	_, err = Match(AAPL, txs, nil, Options{Strict: true})
	if !errors.Is(err, ErrInsufficientPoolQuantity) {
		t.Errorf("strict Match() error = %v, want %v", err, ErrInsufficientPoolQuantity)
	}
	var disc Discrepancy
	if !errors.As(err, &disc) || disc.Ref != "T-42" {
		t.Errorf("strict Match() error %v does not carry the reference", err)
	}
}

func TestMatch_CurrencyMismatch(t *testing.T) {
	txs := []Transaction{
		NewAcquisition(day(time.January, 1), AAPL, Q(10), usd(130), "B-1"),
		sell(day(time.February, 1), 5, 60),
	}

	t.Run("no converter", func(t *testing.T) {
		res, err := Match(AAPL, txs, nil, Options{})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		if len(res.Discrepancies) != 2 {
			t.Fatalf("got discrepancies %v, want 2", res.Discrepancies)
		}
		if !errors.Is(res.Discrepancies[0], ErrCurrencyMismatch) || res.Discrepancies[0].Ref != "B-1" {
			t.Errorf("got %v, want a currency mismatch", res.Discrepancies[0])
		}
		if !errors.Is(res.Discrepancies[1], ErrInsufficientPoolQuantity) {
			t.Errorf("got %v, want an insufficient pool quantity", res.Discrepancies[1])
		}
	})

	t.Run("strict", func(t *testing.T) {
		if _, err := Match(AAPL, txs, nil, Options{Strict: true}); !errors.Is(err, ErrCurrencyMismatch) {
			t.Errorf("Match() error = %v, want %v", err, ErrCurrencyMismatch)
		}
	})

	t.Run("converter", func(t *testing.T) {
		rates := NewRateTable()
		rates.Set("USD", GBP, date.New(2023, time.December, 29), Q(0.8))
		res, err := Match(AAPL, txs, nil, Options{Converter: rates})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		checkLots(t, res.Lots, []lotSpec{{Section104, 5, 52, 60}})
		checkPool(t, res.Pool, 5, 52)
	})
}

func TestMatch_ForeignFees(t *testing.T) {
	a := buy(day(time.January, 1), 10, 100)
	a.Ref = "B-1"
	a.Fees.Forex = usd(1)
	s := sell(day(time.February, 1), 5, 60)
	s.Fees.Commission = usd(5)
	txs := []Transaction{a, s}

	t.Run("no converter", func(t *testing.T) {
		res, err := Match(AAPL, txs, nil, Options{})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		if len(res.Discrepancies) != 2 || !errors.Is(res.Discrepancies[0], ErrCurrencyMismatch) || !errors.Is(res.Discrepancies[1], ErrCurrencyMismatch) {
			t.Fatalf("got discrepancies %v, want 2 currency mismatches", res.Discrepancies)
		}
		if len(res.Lots) != 0 {
			t.Errorf("got lots %v, want none", res.Lots)
		}
		checkPool(t, res.Pool, 0, 0)
	})

	t.Run("strict", func(t *testing.T) {
		if _, err := Match(AAPL, txs, nil, Options{Strict: true}); !errors.Is(err, ErrCurrencyMismatch) {
			t.Errorf("Match() error = %v, want %v", err, ErrCurrencyMismatch)
		}
	})

	rates := NewRateTable()
	rates.Set("USD", GBP, date.New(2023, time.December, 29), Q(0.8))

	t.Run("converter", func(t *testing.T) {
		res, err := Match(AAPL, txs, nil, Options{Converter: rates})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		// the forex fee is not allowable, the commission is.
		checkLots(t, res.Lots, []lotSpec{{Section104, 5, 53.6, 60}})
		checkPool(t, res.Pool, 5, 49.6)
	})

	t.Run("allowable forex", func(t *testing.T) {
		res, err := Match(AAPL, txs, nil, Options{Converter: rates, IncludeFXFees: true})
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		checkLots(t, res.Lots, []lotSpec{{Section104, 5, 54, 60}})
		checkPool(t, res.Pool, 5, 50)
	})
}

func TestAcquisition_ValidateForeignFees(t *testing.T) {
	a := buy(day(time.January, 1), 10, 1)
	a.Fees.Commission = usd(5)
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() error = %v, fees in another currency are checked once converted", err)
	}
	a.Fees.Commission = gbp(5)
	if err := a.Validate(); err == nil {
		t.Error("Validate() expected an error for fees above the cost")
	}
}

func TestMatch_UniqueReferences(t *testing.T) {
	txs := []Transaction{
		buy(day(time.January, 1), 10, 100),
		sell(day(time.February, 1), 2, 30),
		sell(day(time.February, 1), 3, 45),
	}
	res, err := Match(AAPL, txs, nil, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(res.Lots) != 2 || res.Lots[0].DisposalRef != "2024-02-01#1" || res.Lots[1].DisposalRef != "2024-02-01#2" {
		t.Fatalf("got lots %v, want one per disposal with distinct references", res.Lots)
	}
	years := AggregateByTaxYear(res.Lots)
	if got := years[2023].Disposals; got != 2 {
		t.Errorf("Disposals = %d, want 2", got)
	}
}

func TestMatch_AmbiguousOrderingIsLocal(t *testing.T) {
	a := buy(day(time.January, 1), 10, 100)
	a.Seq = 1
	b := buy(day(time.January, 1), 2, 30)
	b.Seq = 1
	second := sell(day(time.February, 1), 3, 45)
	second.Seq, second.Ref = 2, "second"
	first := sell(day(time.February, 1), 2, 30)
	first.Seq, first.Ref = 1, "first"

	res, err := Match(AAPL, []Transaction{a, b, second, first}, nil, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(res.Discrepancies) != 1 || res.Discrepancies[0].Date != day(time.January, 1) {
		t.Errorf("got discrepancies %v, want one on 2024-01-01", res.Discrepancies)
	}
	// the sequence still orders the other days.
	if len(res.Lots) != 2 || res.Lots[0].DisposalRef != "first" || res.Lots[1].DisposalRef != "second" {
		t.Errorf("got lots %v, want first then second", res.Lots)
	}
}

func TestMatch_Ordering(t *testing.T) {
	a := buy(day(time.January, 1), 10, 100)
	a.Seq = 1
	b := sell(day(time.January, 1), 4, 50)
	b.Seq = 1

	res, err := Match(AAPL, []Transaction{a, b}, nil, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(res.Discrepancies) != 1 || !errors.Is(res.Discrepancies[0], ErrAmbiguousOrdering) {
		t.Errorf("got discrepancies %v, want one ambiguous ordering", res.Discrepancies)
	}
	checkLots(t, res.Lots, []lotSpec{{SameDay, 4, 40, 50}})

	if _, err := Match(AAPL, []Transaction{a, b}, nil, Options{Strict: true}); !errors.Is(err, ErrAmbiguousOrdering) {
		t.Errorf("strict Match() error = %v, want %v", err, ErrAmbiguousOrdering)
	}

	// out of order input is sorted by date.
	later := sell(day(time.March, 1), 6, 90)
	later.Seq = 3
	b.Seq = 2
	res, err = Match(AAPL, []Transaction{later, b, a}, nil, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	checkLots(t, res.Lots, []lotSpec{{SameDay, 4, 40, 50}, {Section104, 6, 60, 90}})
	if len(res.Discrepancies) != 0 {
		t.Errorf("unexpected discrepancies %v", res.Discrepancies)
	}
	if res.Lots[0].DisposalRef != "2024-01-01#2" {
		t.Errorf("disposal reference = %q, want 2024-01-01#2", res.Lots[0].DisposalRef)
	}
}

func TestMatch_Split(t *testing.T) {
	txs := []Transaction{
		buy(day(time.January, 1), 10, 100),
		sell(day(time.March, 1), 20, 300),
	}
	actions := []CorporateAction{NewSplit(AAPL, day(time.February, 1), 2, 1)}
	res, err := Match(AAPL, txs, actions, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	checkLots(t, res.Lots, []lotSpec{{Section104, 20, 100, 300}})
	checkPool(t, res.Pool, 0, 0)
}

func TestMatch_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
	}{
		{"other security", NewAcquisition(day(time.January, 1), GOOG, Q(1), gbp(1), "")},
		{"before 2008", NewAcquisition(date.New(2008, time.April, 5), AAPL, Q(1), gbp(1), "")},
		{"zero quantity", buy(day(time.January, 1), 0, 1)},
		{"negative proceeds", sell(day(time.January, 1), 1, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Match(AAPL, []Transaction{tt.tx}, nil, Options{}); err == nil {
				t.Error("Match() expected an error")
			}
		})
	}
}

// busyTimeline generates a long and busy history.
func busyTimeline() []Transaction {
	var txs []Transaction
	add := func(tx Transaction) {
		o := tx.Base()
		o.Seq = len(txs) + 1
		txs = append(txs, withBase(tx, o))
	}
	start := day(time.January, 1)
	for i := range 80 {
		on := start.Add(i * 3)
		if i%3 == 2 {
			add(sell(on, float64(i%5+1), float64(10*(i%7+1))))
		} else {
			add(buy(on, float64(i%4+1), float64(7*(i%6+1))))
		}
		if i%10 == 0 {
			// same day pair
			add(sell(on, 1, 13))
			add(buy(on, 2, 11))
		}
	}
	return txs
}

func TestMatch_Properties(t *testing.T) {
	txs := busyTimeline()
	res, err := Match(AAPL, txs, nil, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	failed := make(map[string]bool)
	for _, d := range res.Discrepancies {
		failed[d.Ref] = true
	}
	type sum struct {
		quantity Quantity
		proceeds Money
	}
	sums := make(map[string]sum)
	for _, l := range res.Lots {
		s := sums[l.DisposalRef]
		s.quantity = s.quantity.Add(l.Quantity)
		s.proceeds = s.proceeds.Add(l.Proceeds)
		sums[l.DisposalRef] = s

		switch l.Kind {
		case SameDay:
			if l.AcquisitionDate != l.DisposalDate {
				t.Errorf("same day lot across %s and %s", l.DisposalDate, l.AcquisitionDate)
			}
		case BedAndBreakfast:
			if !l.AcquisitionDate.After(l.DisposalDate) || l.DisposalDate.DaysUntil(l.AcquisitionDate) > 30 {
				t.Errorf("bed and breakfast lot out of window %s to %s", l.DisposalDate, l.AcquisitionDate)
			}
		}
	}
	for _, tx := range txs {
		d, ok := tx.(Disposal)
		if !ok || failed[d.Reference()] {
			continue
		}
		s := sums[d.Reference()]
		if !s.quantity.Equal(d.Quantity) {
			t.Errorf("disposal %s: lots sum to %s shares, want %s", d.Reference(), s.quantity, d.Quantity)
		}
		if !s.proceeds.Equal(d.Proceeds) {
			t.Errorf("disposal %s: lots sum to %s proceeds, want %s", d.Reference(), s.proceeds.Decimal(), d.Proceeds.Decimal())
		}
	}
	if res.Pool.Quantity.IsNegative() || res.Pool.Cost.IsNegative() {
		t.Errorf("negative pool %s", res.Pool)
	}

	// deterministic
	again, err := Match(AAPL, txs, nil, Options{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if !reflect.DeepEqual(res, again) {
		t.Error("Match() is not deterministic")
	}
}
