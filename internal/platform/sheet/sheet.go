// Package sheet wraps excelize for the single-sheet workbooks the portal
// exports. The first error is kept and later calls become no-ops.
package sheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const bandFill = "D9E1F2"

// Sheet is a workbook with exactly one named sheet.
type Sheet struct {
	file  *excelize.File
	name  string
	bold  int
	band  int
	title int
	err   error
}

// New creates a workbook whose only sheet is called name.
func New(name string) (*Sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("sheet: rename: %w", err)
	}
	s := &Sheet{file: f, name: name}
	s.bold = s.style(&excelize.Style{Font: &excelize.Font{Bold: true}})
	s.title = s.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	s.band = s.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bandFill}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if s.err != nil {
		_ = f.Close()
		return nil, s.err
	}
	return s, nil
}

func (s *Sheet) style(st *excelize.Style) int {
	if s.err != nil {
		return 0
	}
	id, err := s.file.NewStyle(st)
	if err != nil {
		s.err = fmt.Errorf("sheet: style: %w", err)
	}
	return id
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// File exposes the underlying workbook.
func (s *Sheet) File() *excelize.File { return s.file }

// Err returns the first error recorded by any write.
func (s *Sheet) Err() error { return s.err }

// Row writes values into row starting at column A.
func (s *Sheet) Row(row int, values ...any) {
	if s.err != nil {
		return
	}
	if err := s.file.SetSheetRow(s.name, cell("A", row), &values); err != nil {
		s.err = fmt.Errorf("sheet: row %d: %w", row, err)
	}
}

// Title writes text into a merged, centred band spanning from..to.
func (s *Sheet) Title(row int, from, to, text string) {
	s.Row(row, text)
	s.Merge(row, from, to)
	s.apply(row, from, to, s.title)
}

// Band writes a shaded section heading spanning from..to.
func (s *Sheet) Band(row int, from, to, text string) {
	s.Row(row, text)
	s.Merge(row, from, to)
	s.apply(row, from, to, s.band)
}

// Bold emboldens the cells from..to on row.
func (s *Sheet) Bold(row int, from, to string) {
	s.apply(row, from, to, s.bold)
}

// Widths sets fixed column widths, in column order starting at A.
func (s *Sheet) Widths(widths ...float64) {
	for i, w := range widths {
		if s.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			s.err = err
			return
		}
		if err := s.file.SetColWidth(s.name, col, col, w); err != nil {
			s.err = fmt.Errorf("sheet: width %s: %w", col, err)
		}
	}
}

// Bytes serialises the workbook.
func (s *Sheet) Bytes() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	buf, err := s.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("sheet: write: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

// Close releases the workbook.
func (s *Sheet) Close() error {
	return s.file.Close()
}

// Merge joins the cells from..to on row.
func (s *Sheet) Merge(row int, from, to string) {
	if s.err != nil || from == to {
		return
	}
	if err := s.file.MergeCell(s.name, cell(from, row), cell(to, row)); err != nil {
		s.err = fmt.Errorf("sheet: merge row %d: %w", row, err)
	}
}

func (s *Sheet) apply(row int, from, to string, style int) {
	if s.err != nil {
		return
	}
	if err := s.file.SetCellStyle(s.name, cell(from, row), cell(to, row), style); err != nil {
		s.err = fmt.Errorf("sheet: style row %d: %w", row, err)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
