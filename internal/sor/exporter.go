package sor

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/smg-ev/vendor-portal/internal/platform/sheet"
)

// Layout records where each block of an exported sheet landed. Rows are
// 1-based; zero means the block is absent.
type Layout struct {
	Sheet        string
	TitleRow     int
	SubtitleRow  int
	HeaderRow    int
	FirstDataRow int
	DataRows     int
	SeparatorRow int
	// Bands maps a merged section heading to its row.
	Bands map[string]int
	// Trailer holds the rows of the closing label/value block.
	Trailer  []int
	LastRow  int
	LastCell string
}

// Workbook is an exported SOR spreadsheet.
type Workbook struct {
	Layout   Layout
	Filename string
	sheet    *sheet.Sheet
}

// File exposes the underlying workbook.
func (w *Workbook) File() *excelize.File { return w.sheet.File() }

// Bytes serialises the workbook.
func (w *Workbook) Bytes() ([]byte, error) { return w.sheet.Bytes() }

// WriteTo streams the workbook to out.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	return w.sheet.File().WriteTo(out)
}

// Close releases the workbook.
func (w *Workbook) Close() error { return w.sheet.Close() }

var columnWidths = map[Variant][]float64{
	VariantElectrical:  {22, 30, 24, 24, 30, 30},
	VariantAccessories: {22, 34, 30, 18, 30},
}

// Export flattens doc into a single-sheet workbook. Empty fields stay empty
// strings; attachments appear by file name only.
func Export(doc Document, v Variant) (*Workbook, error) {
	s, err := sheet.New(v.SheetName())
	if err != nil {
		return nil, err
	}
	var layout Layout
	if v == VariantAccessories {
		layout = writeAccessories(s, doc)
	} else {
		layout = writeElectrical(s, doc)
	}
	s.Widths(columnWidths[v]...)
	if err := s.Err(); err != nil {
		_ = s.Close()
		return nil, err
	}
	layout.Sheet = v.SheetName()
	return &Workbook{Layout: layout, Filename: v.Filename(), sheet: s}, nil
}

func writeElectrical(s *sheet.Sheet, doc Document) Layout {
	const last = "F"
	l := Layout{TitleRow: 1, Bands: map[string]int{}}
	s.Title(1, "A", last, VariantElectrical.Title())
	s.Row(2, doc.Subtitle())
	s.Merge(2, "A", last)
	s.Bold(2, "A", last)
	l.SubtitleRow = 2

	row := 3
	row = writeTable(s, &l, row, VariantElectrical, doc, last)
	row = writeFields(s, &l, row, doc.termsSection().Fields)
	l.LastRow = row - 1
	l.LastCell = last
	return l
}

func writeAccessories(s *sheet.Sheet, doc Document) Layout {
	const last = "E"
	l := Layout{TitleRow: 1, Bands: map[string]int{}}
	s.Title(1, "A", last, VariantAccessories.Title())

	row := 2
	for _, section := range []Section{doc.companySection(), doc.applicationSection()} {
		s.Band(row, "A", last, section.Title)
		l.Bands[section.Title] = row
		row++
		for _, f := range section.Fields {
			s.Row(row, f.Label, f.Value)
			s.Bold(row, "A", "A")
			row++
		}
	}

	row = writeTable(s, &l, row, VariantAccessories, doc, last)
	commercials := doc.commercialsSection()
	s.Band(row, "A", last, commercials.Title)
	l.Bands[commercials.Title] = row
	row = writeFields(s, &l, row+1, commercials.Fields)
	l.LastRow = row - 1
	l.LastCell = last
	return l
}

// writeTable writes the header row, the numbered data rows and the blank
// separator, returning the next free row.
func writeTable(s *sheet.Sheet, l *Layout, row int, v Variant, doc Document, last string) int {
	headers := Headers(v)
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	s.Row(row, values...)
	s.Bold(row, "A", last)
	l.HeaderRow = row
	row++

	rows := doc.Rows(v)
	if len(rows) > 0 {
		l.FirstDataRow = row
	}
	for i, cells := range rows {
		values := make([]any, 0, len(cells)+1)
		values = append(values, i+1)
		for _, c := range cells {
			values = append(values, c)
		}
		s.Row(row, values...)
		row++
	}
	l.DataRows = len(rows)
	l.SeparatorRow = row
	return row + 1
}

func writeFields(s *sheet.Sheet, l *Layout, row int, fields []Field) int {
	for _, f := range fields {
		s.Row(row, f.Label, f.Value)
		s.Bold(row, "A", "A")
		l.Trailer = append(l.Trailer, row)
		row++
	}
	return row
}
