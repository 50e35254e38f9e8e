package catalog

import (
	"github.com/smg-ev/vendor-portal/internal/platform/sheet"
)

const (
	// StockFilename is the download name of the stock report.
	StockFilename = "Stock_Levels.xlsx"
	// StockSheet is the only sheet of the stock report.
	StockSheet = "Stock Levels"
)

var stockHeaders = []any{"S.No", "Code", "Component", "Category", "Stock", "Reorder Level", "Unit", "Status"}

// ExportStockLevels writes one row per component below a header row. Rows at
// or under their reorder level are flagged LOW.
func ExportStockLevels(components []Component) ([]byte, error) {
	s, err := sheet.New(StockSheet)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = s.Close()
	}()

	s.Row(1, stockHeaders...)
	s.Bold(1, "A", "H")
	for i, c := range components {
		status := "OK"
		if c.LowStock() {
			status = "LOW"
		}
		s.Row(i+2, i+1, c.Code, c.Name, c.Category, c.Stock, c.ReorderLevel, c.Unit, status)
	}
	s.Widths(8, 16, 34, 16, 10, 14, 8, 10)
	return s.Bytes()
}
