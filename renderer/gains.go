package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/ukcgt"
)

// GainsMarkdown renders the computation of every disposal of a tax year.
//
// Each matched lot is a row, the last row holds the totals.
func GainsMarkdown(s *ukcgt.YearSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Capital Gains %s\n\n", s.Year)
	fmt.Fprintf(&b, "From %s.\n\n", s.Year.Long())

	fmt.Fprintln(&b, "| Disposal Date | Identification | Security | Quantity | Cost | Proceeds | Gain/loss |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|")
	for _, l := range s.Lots {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			l.DisposalDate,
			l.Identification(),
			l.Security,
			l.Quantity,
			l.Cost,
			l.Proceeds,
			l.Gain().SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **%s** | | | | **%s** | **%s** | **%s** |\n",
		"Total",
		s.Cost,
		s.Proceeds,
		s.Gain.SignedString(),
	)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%d disposals, gains %s, losses %s.\n", s.Disposals, s.Gains, s.Losses)
	return b.String()
}

// YearsMarkdown renders one row per tax year.
func YearsMarkdown(years ukcgt.TaxYears) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Capital Gains per Tax Year\n\n")
	fmt.Fprintln(&b, "| Tax Year | Disposals | Proceeds | Cost | Gains | Losses | Net |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, y := range years.Years() {
		s := years[y]
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			y,
			s.Disposals,
			s.Proceeds,
			s.Cost,
			s.Gains,
			s.Losses,
			s.Gain.SignedString(),
		)
	}
	return b.String()
}

// HoldingsMarkdown renders the Section 104 pools.
func HoldingsMarkdown(pools []ukcgt.Pool) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Section 104 Holdings\n\n")
	fmt.Fprintln(&b, "| Security | Quantity | Cost | Average Cost |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, p := range pools {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", p.Security, p.Quantity, p.Cost, p.AverageCost())
	}
	return b.String()
}

// DiscrepanciesMarkdown renders the discrepancies found, or nothing if there is none.
func DiscrepanciesMarkdown(ds []ukcgt.Discrepancy) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Discrepancies\n\n")
		for _, d := range ds {
			fmt.Fprintf(w, "- %s\n", d)
		}
		fmt.Fprintln(w)
		return len(ds) > 0
	})
	return b.String()
}
