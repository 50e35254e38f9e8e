package purchaseorder

import (
	"strconv"

	"github.com/smg-ev/vendor-portal/internal/shared"
)

// Column keys.
const (
	ColIndex  = "index"
	ColName   = "name"
	ColDesc   = "desc"
	ColPrice  = "price"
	ColQty    = "qty"
	ColTax    = "tax"
	ColAmount = "amount"
)

// Column describes one item-table column for both the HTML and PDF renderers.
// A zero Width means the column takes whatever width is left.
type Column struct {
	Key    string
	Header string
	Width  float64
	Align  string
}

var pricedColumns = []Column{
	{Key: ColIndex, Header: "#", Width: 10, Align: "C"},
	{Key: ColName, Header: "Item", Width: 36, Align: "L"},
	{Key: ColDesc, Header: "Description", Align: "L"},
	{Key: ColPrice, Header: "Unit Price", Width: 24, Align: "R"},
	{Key: ColQty, Header: "Qty", Width: 16, Align: "R"},
	{Key: ColTax, Header: "Tax %", Width: 16, Align: "R"},
	{Key: ColAmount, Header: "Amount", Width: 28, Align: "R"},
}

var plainColumns = []Column{
	{Key: ColIndex, Header: "#", Width: 10, Align: "C"},
	{Key: ColName, Header: "Item", Width: 50, Align: "L"},
	{Key: ColDesc, Header: "Description", Align: "L"},
	{Key: ColQty, Header: "Qty", Width: 22, Align: "R"},
}

// Columns returns the item-table column set for the given price flag.
func Columns(showPrice bool) []Column {
	src := plainColumns
	if showPrice {
		src = pricedColumns
	}
	return append([]Column(nil), src...)
}

// Headers lists the column captions in display order.
func Headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

// CellText formats one cell; index is zero-based.
func CellText(col Column, index int, item LineItem) string {
	switch col.Key {
	case ColIndex:
		return strconv.Itoa(index + 1)
	case ColName:
		return item.Name
	case ColDesc:
		return item.Desc
	case ColPrice:
		return shared.FormatMoney(item.Price.Float())
	case ColQty:
		return shared.FormatQty(item.Qty.Float())
	case ColTax:
		return shared.FormatPercent(item.Tax.Float())
	case ColAmount:
		return shared.FormatMoney(LineAmount(item))
	default:
		return ""
	}
}

// BuildRows formats every item against the column set.
func BuildRows(cols []Column, items []LineItem) [][]string {
	rows := make([][]string, len(items))
	for i, item := range items {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = CellText(col, i, item)
		}
		rows[i] = row
	}
	return rows
}
