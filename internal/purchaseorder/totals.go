package purchaseorder

import "math"

const maxFloat = math.MaxFloat64

// Totals is the single set of amounts consumed by every rendering target.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	TaxTotal   float64 `json:"taxTotal"`
	GrandTotal float64 `json:"grandTotal"`
}

// Assemble folds the line items into totals. Tax is taken per line and then
// summed, never on the aggregate. With prices hidden every total is zero.
// The draft's header fields never affect the amounts.
func Assemble(_ Draft, items []LineItem, showPrice bool) Totals {
	if !showPrice {
		return Totals{}
	}
	var subtotal, tax float64
	for _, item := range items {
		lineTotal := item.Qty.Float() * item.Price.Float()
		lineTax := lineTotal * item.Tax.Float() / 100
		subtotal += lineTotal
		tax += lineTax
	}
	return Totals{Subtotal: subtotal, TaxTotal: tax, GrandTotal: subtotal + tax}
}

// LineAmount is the pre-tax amount shown in the Amount column.
func LineAmount(item LineItem) float64 {
	return item.Qty.Float() * item.Price.Float()
}
