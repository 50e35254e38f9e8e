package purchaseorder

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smg-ev/vendor-portal/internal/shared"
)

func sampleItems() []LineItem {
	return []LineItem{
		{ID: "a", Name: "Battery Pack", Desc: "60V 30Ah", Qty: 2, Price: 100, Tax: 18},
		{ID: "b", Name: "Wiring Harness", Desc: "Main loom", Qty: 1, Price: 50, Tax: 0},
	}
}

func TestAssembleScenario(t *testing.T) {
	totals := Assemble(Draft{}, sampleItems(), true)
	assert.Equal(t, Totals{Subtotal: 250, TaxTotal: 36, GrandTotal: 286}, totals)
}

func TestAssembleHiddenPricesIsZero(t *testing.T) {
	assert.Equal(t, Totals{}, Assemble(Draft{PONumber: "PO-1"}, sampleItems(), false))
}

func TestAssembleEmpty(t *testing.T) {
	assert.Equal(t, Totals{}, Assemble(Draft{}, nil, true))
}

func TestAssembleFoldsPerLine(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for run := 0; run < 200; run++ {
		items := make([]LineItem, rng.IntN(12))
		var subtotal, tax float64
		for i := range items {
			items[i] = LineItem{
				Qty:   shared.Number(float64(rng.IntN(1000)) / 7),
				Price: shared.Number(rng.Float64() * 10000),
				Tax:   shared.Number([]float64{0, 5, 12, 18, 28}[rng.IntN(5)]),
			}
			line := items[i].Qty.Float() * items[i].Price.Float()
			subtotal += line
			tax += line * items[i].Tax.Float() / 100
		}
		totals := Assemble(Draft{}, items, true)
		assert.Equal(t, subtotal, totals.Subtotal)
		assert.Equal(t, tax, totals.TaxTotal)
		assert.Equal(t, totals.Subtotal+totals.TaxTotal, totals.GrandTotal)
	}
}

func TestNormalizeClampsInputs(t *testing.T) {
	item := LineItem{Qty: -3, Price: -1, Tax: 40, Discount: 9}.Normalize()
	assert.Equal(t, shared.Number(0), item.Qty)
	assert.Equal(t, shared.Number(0), item.Price)
	assert.Equal(t, shared.Number(28), item.Tax)
	assert.Equal(t, shared.Number(0), item.Discount)
	assert.NotEmpty(t, item.ID)

	kept := LineItem{ID: "x", Tax: -5}.Normalize()
	assert.Equal(t, "x", kept.ID)
	assert.Equal(t, shared.Number(0), kept.Tax)
}
