package purchaseorder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
	"github.com/smg-ev/vendor-portal/internal/shared"
)

// Status is the PO lifecycle marker printed on the document.
type Status string

const (
	StatusDraft  Status = "Draft"
	StatusIssued Status = "Issued"
)

// Tax rates are GST slabs; anything outside is clamped.
const (
	minTaxRate = 0
	maxTaxRate = 28
)

// ErrValidation indicates the request cannot be rendered.
var ErrValidation = fmt.Errorf("purchaseorder: %w", httpx.ErrValidation)

// Draft is the purchase-order form state as held by the dashboard.
type Draft struct {
	PONumber           string `json:"poNumber" validate:"required,max=64"`
	Status             Status `json:"status" validate:"omitempty,oneof=Draft Issued"`
	OrderDate          string `json:"orderDate" validate:"max=32"`
	VendorName         string `json:"vendorName" validate:"max=200"`
	VendorAddress      string `json:"vendorAddress" validate:"max=1000"`
	VendorContact      string `json:"vendorContact" validate:"max=100"`
	VendorEmail        string `json:"vendorEmail" validate:"max=200"`
	VendorGSTIN        string `json:"vendorGSTIN" validate:"max=20"`
	BillingName        string `json:"billingName" validate:"max=200"`
	BillingAddress     string `json:"billingAddress" validate:"max=1000"`
	BillingContact     string `json:"billingContact" validate:"max=100"`
	BillingEmail       string `json:"billingEmail" validate:"max=200"`
	BillingGSTIN       string `json:"billingGSTIN" validate:"max=20"`
	DeliveryAddress    string `json:"deliveryAddress" validate:"max=1000"`
	ExpectedDate       string `json:"expectedDate" validate:"max=32"`
	ShippingMode       string `json:"shippingMode" validate:"max=100"`
	TermsAndConditions string `json:"termsAndConditions" validate:"max=8000"`
}

// LineItem is one row of the PO. Discount is carried for compatibility and
// always zero.
type LineItem struct {
	ID       string        `json:"id"`
	Name     string        `json:"name" validate:"max=200"`
	Desc     string        `json:"desc" validate:"max=2000"`
	Qty      shared.Number `json:"qty"`
	Price    shared.Number `json:"price"`
	Tax      shared.Number `json:"tax"`
	Discount shared.Number `json:"discount"`
}

// Request is the payload accepted by every rendering endpoint.
type Request struct {
	VendorID  string     `json:"vendorId,omitempty" validate:"max=64"`
	FormData  Draft      `json:"formData"`
	Items     []LineItem `json:"items" validate:"max=500,dive"`
	ShowPrice bool       `json:"showPrice"`
}

// Normalize clamps numeric inputs into their valid ranges and fills missing IDs.
func (li LineItem) Normalize() LineItem {
	li.Qty = shared.Number(shared.Clamp(li.Qty.Float(), 0, maxFloat))
	li.Price = shared.Number(shared.Clamp(li.Price.Float(), 0, maxFloat))
	li.Tax = shared.Number(shared.Clamp(li.Tax.Float(), minTaxRate, maxTaxRate))
	li.Discount = 0
	if strings.TrimSpace(li.ID) == "" {
		li.ID = uuid.NewString()
	}
	return li
}

// StatusOrDefault returns the status, treating blank as Draft.
func (d Draft) StatusOrDefault() Status {
	if d.Status == "" {
		return StatusDraft
	}
	return d.Status
}

// HasVendor reports whether any vendor party field was filled in.
func (d Draft) HasVendor() bool {
	return strings.TrimSpace(d.VendorName+d.VendorAddress+d.VendorContact+d.VendorEmail+d.VendorGSTIN) != ""
}
