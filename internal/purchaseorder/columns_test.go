package purchaseorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnsByPriceFlag(t *testing.T) {
	assert.Equal(t,
		[]string{"#", "Item", "Description", "Unit Price", "Qty", "Tax %", "Amount"},
		Headers(Columns(true)))
	assert.Equal(t,
		[]string{"#", "Item", "Description", "Qty"},
		Headers(Columns(false)))
}

func TestColumnsReturnsCopy(t *testing.T) {
	cols := Columns(true)
	cols[0].Header = "changed"
	assert.Equal(t, "#", Columns(true)[0].Header)
}

func TestExactlyOneFillColumn(t *testing.T) {
	for _, flag := range []bool{true, false} {
		fill := 0
		for _, c := range Columns(flag) {
			if c.Width == 0 {
				fill++
				assert.Equal(t, ColDesc, c.Key)
			}
		}
		assert.Equal(t, 1, fill)
	}
}

func TestBuildRows(t *testing.T) {
	items := []LineItem{{Name: "Motor", Desc: "1500W", Qty: 2, Price: 1234.5, Tax: 18}}

	rows := BuildRows(Columns(true), items)
	assert.Equal(t, [][]string{{"1", "Motor", "1500W", "1,234.50", "2", "18", "2,469.00"}}, rows)

	rows = BuildRows(Columns(false), items)
	assert.Equal(t, [][]string{{"1", "Motor", "1500W", "2"}}, rows)
}
