package purchaseorder

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 14.0
	pdfLineHeight = 4.5
	pdfBandHeight = 7.0
	logoHeight    = 18.0
)

type rgb struct{ r, g, b int }

var (
	bandColor  = rgb{33, 64, 154}
	shadeColor = rgb{243, 244, 246}
	inkColor   = rgb{31, 41, 55}
	ruleColor  = rgb{107, 114, 128}
	white      = rgb{255, 255, 255}
)

// PDFRenderer draws a purchase order on A4 with fpdf. It is the only PDF
// implementation; the print view downloads through the same endpoint.
//
// Typical orders fit on one page. When the item table or the terms run past
// the bottom margin the output continues on further pages, with the table
// header band repeated, so the result may have more than one page.
type PDFRenderer struct {
	// Compress deflates page streams. Disabled in tests so drawn text can be
	// read back from the bytes.
	Compress bool
}

// NewPDFRenderer returns a renderer with stream compression enabled.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Compress: true}
}

// Render lays out doc and returns the PDF bytes.
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle("Purchase Order "+doc.Draft.PONumber, true)
	pdf.SetCreator(doc.Letterhead.Name, true)
	if stamp, ok := documentTime(doc.Date); ok {
		pdf.SetCreationDate(stamp)
		pdf.SetModificationDate(stamp)
	}
	pdf.AddPage()

	p := &pdfPage{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), doc: doc}
	p.width, p.height = pdf.GetPageSize()
	p.content = p.width - 2*pdfMargin

	p.header()
	p.title()
	p.parties()
	p.table()
	p.totals()
	p.terms()
	p.signatures()

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("purchaseorder: render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("purchaseorder: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func documentTime(date string) (time.Time, bool) {
	for _, layout := range []string{dateLayout, time.DateOnly} {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type pdfPage struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	doc     Document
	width   float64
	height  float64
	content float64
}

func (p *pdfPage) font(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
}

func (p *pdfPage) fill(c rgb) { p.pdf.SetFillColor(c.r, c.g, c.b) }
func (p *pdfPage) text(c rgb) { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *pdfPage) rule(c rgb) { p.pdf.SetDrawColor(c.r, c.g, c.b) }
func (p *pdfPage) bottom() float64 { return p.height - pdfMargin }

func (p *pdfPage) newPage() {
	p.pdf.AddPage()
	p.pdf.SetXY(pdfMargin, pdfMargin)
}

// ensure starts a new page when h millimetres no longer fit.
func (p *pdfPage) ensure(h float64) {
	if p.pdf.GetY()+h > p.bottom() {
		p.newPage()
	}
}

// wrap translates text to the core font encoding and breaks it into lines no
// wider than width. Blank lines are dropped.
func (p *pdfPage) wrap(text string, width float64) []string {
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := ""
		for _, word := range strings.Fields(p.tr(para)) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if p.pdf.GetStringWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				out = append(out, line)
			}
			for len(word) > 1 && p.pdf.GetStringWidth(word) > width {
				cut := len(word) - 1
				for cut > 1 && p.pdf.GetStringWidth(word[:cut]) > width {
					cut--
				}
				out = append(out, word[:cut])
				word = word[cut:]
			}
			line = word
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (p *pdfPage) header() {
	x := pdfMargin
	if logo := p.doc.Logo; logo != nil && len(logo.PNG) > 0 && logo.AspectRatio() > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		p.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.PNG))
		if p.pdf.Ok() {
			w := logoHeight / logo.AspectRatio()
			p.pdf.ImageOptions("logo", x, pdfMargin, w, logoHeight, false, opts, 0, "")
			x += w + 4
		} else {
			// An unreadable logo is skipped, not fatal.
			p.pdf.ClearError()
		}
	}

	p.text(inkColor)
	p.pdf.SetXY(x, pdfMargin)
	p.font("B", 16)
	p.pdf.CellFormat(0, 7, p.tr(p.doc.Letterhead.Name), "", 2, "L", false, 0, "")
	p.font("", 9)
	for _, line := range p.doc.Letterhead.Lines() {
		p.pdf.SetX(x)
		p.pdf.CellFormat(0, pdfLineHeight, p.tr(line), "", 2, "L", false, 0, "")
	}

	y := max(p.pdf.GetY(), pdfMargin+logoHeight) + 3
	p.rule(inkColor)
	p.pdf.SetLineWidth(0.5)
	p.pdf.Line(pdfMargin, y, p.width-pdfMargin, y)
	p.pdf.SetLineWidth(0.2)
	p.pdf.SetXY(pdfMargin, y+4)
}

func (p *pdfPage) title() {
	p.font("B", 16)
	p.pdf.CellFormat(p.content, 8, "PURCHASE ORDER", "", 1, "C", false, 0, "")
	p.font("", 10)
	p.pdf.CellFormat(p.content, 6, p.tr(p.doc.MetaLine()), "", 1, "C", false, 0, "")
	if line := p.doc.ShippingLine(); line != "" {
		p.pdf.CellFormat(p.content, 6, p.tr(line), "", 1, "C", false, 0, "")
	}
	p.pdf.Ln(3)
}

func (p *pdfPage) parties() {
	const gap = 6.0
	w := (p.content - gap) / 2
	inner := w - 4
	parties := p.doc.Parties()

	names := make([][]string, len(parties))
	bodies := make([][]string, len(parties))
	rows := 0
	for i, party := range parties {
		p.font("B", 10)
		names[i] = p.wrap(party.Name, inner)
		p.font("", 9)
		for _, line := range party.Lines {
			bodies[i] = append(bodies[i], p.wrap(line, inner)...)
		}
		rows = max(rows, len(names[i])+len(bodies[i]))
	}
	h := 4 + 6 + float64(max(rows, 4))*pdfLineHeight + 2
	p.ensure(h)

	y := p.pdf.GetY()
	p.rule(ruleColor)
	for i, party := range parties {
		x := pdfMargin + float64(i)*(w+gap)
		p.pdf.Rect(x, y, w, h, "D")
		p.pdf.SetXY(x+2, y+2)
		p.font("B", 9)
		p.pdf.CellFormat(inner, 6, p.tr(strings.ToUpper(party.Title)), "", 2, "L", false, 0, "")
		p.font("B", 10)
		for _, line := range names[i] {
			p.pdf.CellFormat(inner, pdfLineHeight, line, "", 2, "L", false, 0, "")
		}
		p.font("", 9)
		for _, line := range bodies[i] {
			p.pdf.CellFormat(inner, pdfLineHeight, line, "", 2, "L", false, 0, "")
		}
	}
	p.pdf.SetXY(pdfMargin, y+h+6)
}

// columnWidths gives every fixed column its width and lets the zero-width
// column take the remainder of the line.
func (p *pdfPage) columnWidths() []float64 {
	widths := make([]float64, len(p.doc.Columns))
	fixed, fill := 0.0, -1
	for i, col := range p.doc.Columns {
		if col.Width == 0 {
			fill = i
			continue
		}
		widths[i] = col.Width
		fixed += col.Width
	}
	if fill >= 0 {
		widths[fill] = max(p.content-fixed, 20)
	}
	return widths
}

func (p *pdfPage) tableHeader(widths []float64) {
	p.fill(bandColor)
	p.rule(bandColor)
	p.text(white)
	p.font("B", 9)
	p.pdf.SetX(pdfMargin)
	for i, col := range p.doc.Columns {
		p.pdf.CellFormat(widths[i], pdfBandHeight, p.tr(col.Header), "1", 0, col.Align, true, 0, "")
	}
	p.pdf.Ln(pdfBandHeight)
	p.text(inkColor)
	p.rule(ruleColor)
}

func (p *pdfPage) table() {
	widths := p.columnWidths()
	p.ensure(pdfBandHeight * 2)
	p.tableHeader(widths)
	p.font("", 9)

	if len(p.doc.Rows) == 0 {
		p.pdf.CellFormat(p.content, pdfBandHeight, "No items", "1", 1, "C", false, 0, "")
	}
	for _, row := range p.doc.Rows {
		cells := make([][]string, len(row))
		lines := 1
		for i, value := range row {
			cells[i] = p.wrap(value, widths[i]-2)
			lines = max(lines, len(cells[i]))
		}
		h := float64(lines)*pdfLineHeight + 2
		if p.pdf.GetY()+h > p.bottom() {
			p.newPage()
			p.tableHeader(widths)
			p.font("", 9)
		}
		y, x := p.pdf.GetY(), pdfMargin
		for i := range row {
			p.pdf.Rect(x, y, widths[i], h, "D")
			for j, line := range cells[i] {
				p.pdf.SetXY(x, y+1+float64(j)*pdfLineHeight)
				p.pdf.CellFormat(widths[i], pdfLineHeight, line, "", 0, p.doc.Columns[i].Align, false, 0, "")
			}
			x += widths[i]
		}
		p.pdf.SetXY(pdfMargin, y+h)
	}
	p.pdf.Ln(4)
}

func (p *pdfPage) totals() {
	lines := p.doc.TotalLines()
	if len(lines) == 0 {
		return
	}
	const boxW, rowH = 80.0, 7.0
	p.ensure(float64(len(lines)) * (rowH + 1))
	x := p.width - pdfMargin - boxW
	p.font("B", 10)
	for _, line := range lines {
		y := p.pdf.GetY()
		if line.Grand {
			p.fill(bandColor)
			p.text(white)
		} else {
			p.fill(shadeColor)
			p.text(inkColor)
		}
		p.pdf.Rect(x, y, boxW, rowH, "F")
		p.pdf.SetXY(x+2, y)
		p.pdf.CellFormat(boxW/2-2, rowH, p.tr(line.Label), "", 0, "L", false, 0, "")
		p.pdf.CellFormat(boxW/2-2, rowH, p.tr(line.Value), "", 0, "R", false, 0, "")
		p.pdf.SetXY(pdfMargin, y+rowH+1)
	}
	p.text(inkColor)
	p.pdf.Ln(3)
}

func (p *pdfPage) terms() {
	inner := p.content - 4
	p.font("", 9)
	var body []string
	for _, term := range p.doc.Terms {
		body = append(body, p.wrap(term, inner)...)
	}
	if len(body) == 0 {
		body = []string{""}
	}

	// Long terms continue in a fresh box on the next page.
	for len(body) > 0 {
		room := int((p.bottom() - p.pdf.GetY() - 12) / pdfLineHeight)
		if room < 1 {
			p.newPage()
			continue
		}
		chunk := body[:min(room, len(body))]
		body = body[len(chunk):]

		y := p.pdf.GetY()
		h := 2 + 6 + float64(len(chunk))*pdfLineHeight + 2
		p.rule(ruleColor)
		p.pdf.Rect(pdfMargin, y, p.content, h, "D")
		p.pdf.SetXY(pdfMargin+2, y+2)
		p.font("B", 10)
		p.pdf.CellFormat(inner, 6, p.tr("Terms & Conditions"), "", 2, "L", false, 0, "")
		p.font("", 9)
		for _, line := range chunk {
			p.pdf.CellFormat(inner, pdfLineHeight, line, "", 2, "L", false, 0, "")
		}
		p.pdf.SetXY(pdfMargin, y+h+4)
	}
}

func (p *pdfPage) signatures() {
	const lineW, blockH = 60.0, 30.0
	p.ensure(blockH)
	y := p.pdf.GetY() + 16
	right := p.width - pdfMargin - lineW

	p.rule(inkColor)
	p.pdf.Line(pdfMargin, y, pdfMargin+lineW, y)
	p.pdf.Line(right, y, right+lineW, y)

	p.font("", 9)
	p.pdf.SetXY(pdfMargin, y+1)
	p.pdf.CellFormat(lineW, pdfLineHeight, "Prepared By", "", 0, "C", false, 0, "")
	p.pdf.SetXY(right, y+1)
	p.pdf.CellFormat(lineW, pdfLineHeight, "Authorised Signatory", "", 2, "C", false, 0, "")
	if name := p.doc.Letterhead.Name; name != "" {
		p.pdf.CellFormat(lineW, pdfLineHeight, p.tr("For "+name), "", 2, "C", false, 0, "")
	}
}
