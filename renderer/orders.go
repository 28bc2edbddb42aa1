package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/ukcgt"
)

// OrdersMarkdown renders the acquisitions and disposals as matched: quantities
// restated after corporate actions next to the recorded ones, amounts in the
// reporting currency.
func OrdersMarkdown(txs []ukcgt.Transaction) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Orders\n\n")
	fmt.Fprintln(&b, "| Date | Reference | Security | Quantity | Recorded | Price | Cost | Proceeds | Fees |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|---:|")
	if len(txs) == 0 {
		return b.String()
	}

	zero := ukcgt.M(0, txs[0].Amount().Currency())
	cost, proceeds, fees := zero, zero, zero
	for _, tx := range txs {
		o := tx.Base()
		recorded := ""
		if !o.RecordedQuantity().Equal(o.Quantity) {
			recorded = o.RecordedQuantity().String()
		}
		var c, p string
		switch tx.What() {
		case ukcgt.CmdBuy:
			c = tx.Amount().String()
			cost = cost.Add(tx.Amount())
		case ukcgt.CmdSell:
			p = tx.Amount().String()
			proceeds = proceeds.Add(tx.Amount())
		}
		f := ""
		if !o.Fees.IsZero() {
			f = o.Fees.Total().String()
			fees = fees.Add(o.Fees.Total())
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			o.Date,
			o.Reference(),
			o.Security,
			o.Quantity,
			recorded,
			tx.Amount().Div(o.Quantity),
			c,
			p,
			f,
		)
	}
	fmt.Fprintf(&b, "| **%s** | | | | | | **%s** | **%s** | **%s** |\n", "Total", cost, proceeds, fees)
	return b.String()
}
