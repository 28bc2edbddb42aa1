package ukcgt

import (
	"sort"

	"github.com/etnz/ukcgt/date"
)

// YearSummary sums the matched lots of the disposals made in a tax year.
type YearSummary struct {
	Year      date.TaxYear
	Lots      []MatchedLot // Lots are sorted by disposal date then security.
	Disposals int          // Disposals is the number of distinct disposals.
	Cost      Money
	Proceeds  Money
	Gain      Money // Gain is the net gain, negative for a net loss.
	Gains     Money // Gains is the sum of the gains of the lots with a gain.
	Losses    Money // Losses is the sum of the losses, as a negative amount.
}

// TaxYears are the summaries of each tax year with at least one disposal.
type TaxYears map[date.TaxYear]*YearSummary

// Years returns the tax years in chronological order.
func (t TaxYears) Years() []date.TaxYear {
	years := make([]date.TaxYear, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return years
}

// AggregateByTaxYear groups lots by the tax year of their disposal.
func AggregateByTaxYear(lots []MatchedLot) TaxYears {
	res := make(TaxYears)
	for _, l := range lots {
		y := l.TaxYear()
		s, ok := res[y]
		if !ok {
			s = &YearSummary{Year: y}
			res[y] = s
		}
		s.Lots = append(s.Lots, l)
	}
	for _, s := range res {
		sort.SliceStable(s.Lots, func(i, j int) bool {
			a, b := s.Lots[i], s.Lots[j]
			if c := a.DisposalDate.Compare(b.DisposalDate); c != 0 {
				return c < 0
			}
			return a.Security < b.Security
		})
		s.sum()
	}
	return res
}

func (s *YearSummary) sum() {
	type key struct {
		security ID
		ref      string
	}
	if len(s.Lots) > 0 {
		zero := M(0, s.Lots[0].Cost.Add(s.Lots[0].Proceeds).Currency())
		s.Cost, s.Proceeds, s.Gain, s.Gains, s.Losses = zero, zero, zero, zero, zero
	}
	disposals := make(map[key]struct{})
	for _, l := range s.Lots {
		disposals[key{l.Security, l.DisposalRef}] = struct{}{}
		s.Cost = s.Cost.Add(l.Cost)
		s.Proceeds = s.Proceeds.Add(l.Proceeds)
		g := l.Gain()
		s.Gain = s.Gain.Add(g)
		if g.IsPositive() {
			s.Gains = s.Gains.Add(g)
		} else {
			s.Losses = s.Losses.Add(g)
		}
	}
	s.Disposals = len(disposals)
}
