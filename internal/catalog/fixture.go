package catalog

import (
	"context"
	"slices"
	"strings"
)

// FixtureRepository serves built-in demo data for running without a backend.
type FixtureRepository struct {
	vendors    []Vendor
	components []Component
}

// NewFixtureRepository returns the demo data set.
func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{vendors: fixtureVendors, components: fixtureComponents}
}

// NewFixtureRepositoryWith serves the given records.
func NewFixtureRepositoryWith(vendors []Vendor, components []Component) *FixtureRepository {
	return &FixtureRepository{vendors: vendors, components: components}
}

func (r *FixtureRepository) ListVendors(ctx context.Context) ([]Vendor, error) {
	return slices.Clone(r.vendors), nil
}

func (r *FixtureRepository) GetVendor(ctx context.Context, id string) (Vendor, error) {
	id = strings.TrimSpace(id)
	for _, v := range r.vendors {
		if v.ID == id {
			return v, nil
		}
	}
	return Vendor{}, ErrNotFound
}

func (r *FixtureRepository) ListComponents(ctx context.Context) ([]Component, error) {
	return slices.Clone(r.components), nil
}

var fixtureVendors = []Vendor{
	{
		ID:      "V-1001",
		Name:    "Voltcell Energy Pvt Ltd",
		Address: "Plot 42, MIDC Bhosari\nPune, Maharashtra 411026",
		Contact: "+91 20 4012 7788",
		Email:   "sales@voltcell.example",
		GSTIN:   "27AABCV1234F1Z5",
	},
	{
		ID:      "V-1002",
		Name:    "Drivetrain Motors LLP",
		Address: "14 SIDCO Industrial Estate\nAmbattur, Chennai 600098",
		Contact: "+91 44 2625 1190",
		Email:   "orders@drivetrain.example",
		GSTIN:   "33AAKFD5678L1Z2",
	},
	{
		ID:      "V-1003",
		Name:    "Brightline Lighting Co.",
		Address: "B-7 Sector 63\nNoida, Uttar Pradesh 201301",
		Contact: "+91 120 455 0021",
		Email:   "support@brightline.example",
		GSTIN:   "09AAECB9012K1Z8",
	},
}

var fixtureComponents = []Component{
	{ID: "C-01", Code: "BAT-60V30", Name: "Battery Pack 60V 30Ah", Category: "Electrical", Stock: 18, ReorderLevel: 20, Unit: "pcs"},
	{ID: "C-02", Code: "MTR-1500", Name: "BLDC Hub Motor 1500W", Category: "Drivetrain", Stock: 42, ReorderLevel: 15, Unit: "pcs"},
	{ID: "C-03", Code: "CTL-4872", Name: "Motor Controller 48-72V", Category: "Electrical", Stock: 9, ReorderLevel: 10, Unit: "pcs"},
	{ID: "C-04", Code: "DCDC-12", Name: "DC-DC Converter 72V/12V", Category: "Electrical", Stock: 60, ReorderLevel: 25, Unit: "pcs"},
	{ID: "C-05", Code: "LMP-HL", Name: "Headlamp LED Assembly", Category: "Accessories", Stock: 120, ReorderLevel: 40, Unit: "pcs"},
	{ID: "C-06", Code: "BRK-LVR", Name: "Brake Lever Set", Category: "Accessories", Stock: 35, ReorderLevel: 35, Unit: "sets"},
	{ID: "C-07", Code: "WIR-HRN", Name: "Main Wiring Harness", Category: "Electrical", Stock: 74.5, ReorderLevel: 30, Unit: "m"},
}
