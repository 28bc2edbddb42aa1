package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The UK tax year starts on 6 April.
const (
	taxYearStartMonth = time.April
	taxYearStartDay   = 6
)

// TaxYear identifies a UK tax year by the calendar year it starts in:
// TaxYear(2023) runs from 6 April 2023 to 5 April 2024.
type TaxYear int

// TaxYearOf returns the tax year containing d.
func TaxYearOf(d Date) TaxYear {
	if d.Before(New(d.Year(), taxYearStartMonth, taxYearStartDay)) {
		return TaxYear(d.Year() - 1)
	}
	return TaxYear(d.Year())
}

// CurrentTaxYear returns the tax year containing today.
func CurrentTaxYear() TaxYear { return TaxYearOf(Today()) }

// Start returns 6 April of the tax year.
func (y TaxYear) Start() Date { return New(int(y), taxYearStartMonth, taxYearStartDay) }

// End returns 5 April of the following calendar year.
func (y TaxYear) End() Date { return (y + 1).Start().Add(-1) }

// Range returns the dates covered by the tax year.
func (y TaxYear) Range() Range { return Range{From: y.Start(), To: y.End()} }

// String returns the short "2023/24" form.
func (y TaxYear) String() string { return fmt.Sprintf("%d/%02d", int(y), (int(y)+1)%100) }

// Long returns the "6th April 2023 to 5th April 2024" form.
func (y TaxYear) Long() string {
	return fmt.Sprintf("6th April %d to 5th April %d", int(y), int(y)+1)
}

// ParseTaxYear accepts "2023", "2023/24" or "2023-24".
func ParseTaxYear(s string) (TaxYear, error) {
	s = strings.TrimSpace(s)
	head, tail, found := strings.Cut(strings.ReplaceAll(s, "-", "/"), "/")
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("invalid tax year %q: %w", s, err)
	}
	if found {
		next, err := strconv.Atoi(tail)
		if err != nil || next != (year+1)%100 {
			return 0, fmt.Errorf("invalid tax year %q: second part must be %02d", s, (year+1)%100)
		}
	}
	return TaxYear(year), nil
}
