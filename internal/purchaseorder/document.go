package purchaseorder

import (
	"strings"
	"time"

	"github.com/smg-ev/vendor-portal/internal/media"
	"github.com/smg-ev/vendor-portal/internal/shared"
)

const dateLayout = "02-01-2006"

// Letterhead carries the issuing company's details printed in the header and
// used as the default ship-to party.
type Letterhead struct {
	Name    string
	Address string
	GSTIN   string
	Email   string
	Phone   string
}

// Lines returns the header lines below the company name.
func (l Letterhead) Lines() []string {
	var out []string
	out = append(out, splitLines(l.Address)...)
	contact := joinNonEmpty("  |  ", prefixed("Phone: ", l.Phone), prefixed("Email: ", l.Email))
	if contact != "" {
		out = append(out, contact)
	}
	if l.GSTIN != "" {
		out = append(out, "GSTIN: "+l.GSTIN)
	}
	return out
}

// Party is one of the two address boxes.
type Party struct {
	Title string
	Name  string
	Lines []string
}

// TotalLine is one row of the totals block.
type TotalLine struct {
	Label string
	Value string
	Grand bool
}

// Document is the fully assembled purchase order. Both renderers read from it
// and never recompute amounts.
type Document struct {
	Draft      Draft
	Items      []LineItem
	ShowPrice  bool
	Totals     Totals
	Columns    []Column
	Rows       [][]string
	BillTo     Party
	ShipTo     Party
	Letterhead Letterhead
	Logo       *media.Image
	Date       string
	Status     Status
	Terms      []string

	// DownloadAction and Payload feed the print view's "Download PDF" form.
	DownloadAction string
	Payload        string
}

// DocumentInput groups everything needed to assemble a Document.
type DocumentInput struct {
	Draft      Draft
	Items      []LineItem
	ShowPrice  bool
	Letterhead Letterhead
	Logo       *media.Image
	Now        time.Time
}

// NewDocument normalises the items and computes totals exactly once.
func NewDocument(in DocumentInput) Document {
	items := make([]LineItem, len(in.Items))
	for i, item := range in.Items {
		items[i] = item.Normalize()
	}
	cols := Columns(in.ShowPrice)
	date := strings.TrimSpace(in.Draft.OrderDate)
	if date == "" {
		date = in.Now.Format(dateLayout)
	}
	return Document{
		Draft:      in.Draft,
		Items:      items,
		ShowPrice:  in.ShowPrice,
		Totals:     Assemble(in.Draft, items, in.ShowPrice),
		Columns:    cols,
		Rows:       BuildRows(cols, items),
		BillTo:     billTo(in.Draft),
		ShipTo:     shipTo(in.Draft, in.Letterhead),
		Letterhead: in.Letterhead,
		Logo:       in.Logo,
		Date:       date,
		Status:     in.Draft.StatusOrDefault(),
		Terms:      splitLines(in.Draft.TermsAndConditions),
	}
}

// Headers returns the item-table captions.
func (d Document) Headers() []string {
	return Headers(d.Columns)
}

// Parties returns the bill-to and ship-to boxes in print order.
func (d Document) Parties() []Party {
	return []Party{d.BillTo, d.ShipTo}
}

// TotalLines returns the totals block, or nil when prices are hidden.
func (d Document) TotalLines() []TotalLine {
	if !d.ShowPrice {
		return nil
	}
	return []TotalLine{
		{Label: "Subtotal", Value: shared.FormatMoney(d.Totals.Subtotal)},
		{Label: "Tax", Value: shared.FormatMoney(d.Totals.TaxTotal)},
		{Label: "Grand Total", Value: shared.FormatMoney(d.Totals.GrandTotal), Grand: true},
	}
}

// MetaLine is the number / date / status line under the title.
func (d Document) MetaLine() string {
	return joinNonEmpty("    ",
		"PO No: "+d.Draft.PONumber,
		"Date: "+d.Date,
		"Status: "+string(d.Status),
	)
}

// ShippingLine summarises expected date and shipping mode.
func (d Document) ShippingLine() string {
	return joinNonEmpty("    ",
		prefixed("Expected Delivery: ", d.Draft.ExpectedDate),
		prefixed("Shipping Mode: ", d.Draft.ShippingMode),
	)
}

// Request rebuilds the payload that reproduces this document, with the
// normalised items and the resolved date pinned.
func (d Document) Request() Request {
	draft := d.Draft
	draft.OrderDate = d.Date
	return Request{FormData: draft, Items: d.Items, ShowPrice: d.ShowPrice}
}

// Filename is the download name of the PDF.
func (d Document) Filename() string {
	return d.Draft.PONumber + ".pdf"
}

func billTo(d Draft) Party {
	lines := splitLines(d.VendorAddress)
	lines = appendNonEmpty(lines,
		prefixed("Contact: ", d.VendorContact),
		prefixed("Email: ", d.VendorEmail),
		prefixed("GSTIN: ", d.VendorGSTIN),
	)
	return Party{Title: "Bill To (Vendor)", Name: d.VendorName, Lines: lines}
}

func shipTo(d Draft, lh Letterhead) Party {
	name := firstNonEmpty(d.BillingName, lh.Name)
	address := firstNonEmpty(d.DeliveryAddress, d.BillingAddress, lh.Address)
	lines := splitLines(address)
	lines = appendNonEmpty(lines,
		prefixed("Contact: ", firstNonEmpty(d.BillingContact, lh.Phone)),
		prefixed("Email: ", firstNonEmpty(d.BillingEmail, lh.Email)),
		prefixed("GSTIN: ", firstNonEmpty(d.BillingGSTIN, lh.GSTIN)),
	)
	return Party{Title: "Ship To (SMG)", Name: name, Lines: lines}
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func prefixed(prefix, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return prefix + strings.TrimSpace(value)
}

func appendNonEmpty(dst []string, values ...string) []string {
	for _, v := range values {
		if v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}

func joinNonEmpty(sep string, values ...string) string {
	return strings.Join(appendNonEmpty(nil, values...), sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
