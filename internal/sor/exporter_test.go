package sor

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func electricalDoc() Document {
	return Document{
		Reference: "SOR-EL-7",
		Date:      "2024-05-01",
		Company:   Company{Name: "SMG Electric Scooters Ltd"},
		Terms: Terms{
			Warranty: "24 months",
			Delivery: "4 weeks",
			Payment:  "30 days",
		},
		TechnicalRows: []TechnicalRow{
			{KeyParameter: "Rated voltage", Standard: "48 V", Supplier: "48 V", Images: []Attachment{{Name: "label.png"}, {Name: "wiring.jpg"}}},
			{KeyParameter: "Peak current", Standard: "60 A", Remarks: "at 25C"},
			{KeyParameter: "IP rating", Standard: "IP67", Images: []Attachment{{Name: " "}, {Name: "seal.png"}}},
		},
	}
}

func accessoriesDoc() Document {
	return Document{
		Reference:   "SOR-AC-2",
		Company:     Company{Name: "SMG Electric Scooters Ltd", Email: "sourcing@smg.example"},
		Application: Application{Product: "Mirror", Model: "S1"},
		Commercials: Commercials{UnitPrice: "INR 240", MOQ: "500"},
		SpecificationRows: []SpecificationRow{
			{Specification: "Material", CustomerReq: "ABS", Compliance: "Yes"},
			{Specification: "Finish", CustomerReq: "Matte black", Compliance: "Partial", Remarks: "sample due"},
		},
	}
}

func export(t *testing.T, doc Document, v Variant) (*Workbook, [][]string) {
	t.Helper()
	wb, err := Export(doc, v)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	rows, err := wb.File().GetRows(v.SheetName())
	require.NoError(t, err)
	return wb, rows
}

func mergedRanges(t *testing.T, f *excelize.File, sheetName string) []string {
	t.Helper()
	merged, err := f.GetMergeCells(sheetName)
	require.NoError(t, err)
	var out []string
	for _, m := range merged {
		out = append(out, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	return out
}

func TestExportElectricalLayout(t *testing.T) {
	doc := electricalDoc()
	wb, rows := export(t, doc, VariantElectrical)
	l := wb.Layout

	n := len(doc.TechnicalRows)
	assert.Equal(t, "Electrical Spec", l.Sheet)
	assert.Equal(t, "Electrical_Technical_Spec.xlsx", wb.Filename)
	assert.Equal(t, 3, l.HeaderRow)
	assert.Equal(t, 4, l.FirstDataRow)
	assert.Equal(t, n, l.DataRows)
	assert.Equal(t, 4+n, l.SeparatorRow)
	assert.Equal(t, n+9, l.LastRow)
	assert.Len(t, rows, n+9)

	assert.Equal(t, "Electrical Technical Specification", rows[0][0])
	assert.Equal(t, "SMG Electric Scooters Ltd | Ref: SOR-EL-7 | Date: 2024-05-01", rows[1][0])
	assert.Equal(t, Headers(VariantElectrical), rows[2])
	assert.Empty(t, rows[l.SeparatorRow-1])

	assert.Equal(t, []string{"1", "Rated voltage", "48 V", "48 V", "", "label.png, wiring.jpg"}, rows[3])
	assert.Equal(t, "seal.png", rows[5][5])

	assert.Equal(t, []string{"Warranty", "24 months"}, rows[l.Trailer[0]-1])
	assert.Equal(t, []string{"Packing & Forwarding"}, rows[l.Trailer[4]-1])
	assert.ElementsMatch(t, []string{"A1:F1", "A2:F2"}, mergedRanges(t, wb.File(), l.Sheet))
}

func TestExportElectricalWithoutRows(t *testing.T) {
	doc := Document{Terms: Terms{Warranty: "12 months", Delivery: "2 weeks", Payment: "advance", Validity: "30 days", Packaging: "included"}}
	wb, rows := export(t, doc, VariantElectrical)
	l := wb.Layout

	assert.Zero(t, l.DataRows)
	assert.Zero(t, l.FirstDataRow)
	assert.Equal(t, 3, l.HeaderRow)
	assert.Equal(t, 4, l.SeparatorRow)
	assert.Len(t, l.Trailer, 5)
	assert.Equal(t, 9, l.LastRow)
	require.Len(t, rows, 9)
	assert.Equal(t, Headers(VariantElectrical), rows[2])
	assert.Equal(t, []string{"Validity of Offer", "30 days"}, rows[8-1])
	assert.Equal(t, []string{"Packing & Forwarding", "included"}, rows[9-1])
}

func TestExportAccessoriesLayout(t *testing.T) {
	doc := accessoriesDoc()
	wb, rows := export(t, doc, VariantAccessories)
	l := wb.Layout

	n := len(doc.SpecificationRows)
	assert.Equal(t, "Accessories_SOR.xlsx", wb.Filename)
	assert.Equal(t, n+19, l.LastRow)
	assert.Len(t, rows, n+19)
	assert.Equal(t, map[string]int{"Company Details": 2, "Application Details": 8, "Commercials": 14 + n}, l.Bands)
	assert.Equal(t, 12, l.HeaderRow)
	assert.Equal(t, Headers(VariantAccessories), rows[11])

	assert.Equal(t, []string{"Company Name", "SMG Electric Scooters Ltd"}, rows[2])
	assert.Equal(t, []string{"Email", "sourcing@smg.example"}, rows[6])
	assert.Equal(t, []string{"Vehicle Model", "S1"}, rows[9])
	assert.Equal(t, []string{"2", "Finish", "Matte black", "Partial", "sample due"}, rows[13])
	assert.Equal(t, []string{"Unit Price", "INR 240"}, rows[l.Trailer[0]-1])

	assert.ElementsMatch(t, []string{"A1:E1", "A2:E2", "A8:E8", "A16:E16"}, mergedRanges(t, wb.File(), l.Sheet))
}

func TestExportNumbersRowsContiguously(t *testing.T) {
	doc := Document{}
	for i := 0; i < 25; i++ {
		doc.SpecificationRows = append(doc.SpecificationRows, SpecificationRow{Specification: "spec " + strconv.Itoa(i)})
	}
	wb, rows := export(t, doc, VariantAccessories)
	for i := 0; i < wb.Layout.DataRows; i++ {
		assert.Equal(t, strconv.Itoa(i+1), rows[wb.Layout.FirstDataRow-1+i][0])
	}
}

func TestExportColumnWidths(t *testing.T) {
	for v, widths := range columnWidths {
		wb, _ := export(t, Document{}, v)
		for i, want := range widths {
			col, err := excelize.ColumnNumberToName(i + 1)
			require.NoError(t, err)
			got, err := wb.File().GetColWidth(wb.Layout.Sheet, col)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 0.01, "%s column %s", v, col)
		}
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	wb, _ := export(t, electricalDoc(), VariantElectrical)
	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Electrical Spec"}, f.GetSheetList())
	v, err := f.GetCellValue("Electrical Spec", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Rated voltage", v)
}
