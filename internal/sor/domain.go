package sor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

// ErrValidation indicates the SOR payload was rejected.
var ErrValidation = fmt.Errorf("sor: %w", httpx.ErrValidation)

// ErrUnknownVariant is returned for a variant other than electrical or
// accessories.
var ErrUnknownVariant = fmt.Errorf("sor: unknown variant: %w", httpx.ErrNotFound)

// Variant selects the SOR form.
type Variant string

const (
	VariantElectrical  Variant = "electrical"
	VariantAccessories Variant = "accessories"
)

// ParseVariant validates a variant from a URL segment.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantElectrical, VariantAccessories:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// DraftKey is the draft slot a submitted form is saved under.
func (v Variant) DraftKey() string { return "sor-" + string(v) }

// Filename is the spreadsheet download name.
func (v Variant) Filename() string {
	if v == VariantAccessories {
		return "Accessories_SOR.xlsx"
	}
	return "Electrical_Technical_Spec.xlsx"
}

// SheetName is the name of the single worksheet.
func (v Variant) SheetName() string {
	if v == VariantAccessories {
		return "Accessories SOR"
	}
	return "Electrical Spec"
}

// Title heads both the spreadsheet and the preview.
func (v Variant) Title() string {
	if v == VariantAccessories {
		return "Accessories Statement of Requirements"
	}
	return "Electrical Technical Specification"
}

// Attachment is an image attached to a technical row. Data holds base64 or a
// data URI and only feeds the preview.
type Attachment struct {
	Name string `json:"name" validate:"max=255"`
	Data string `json:"data,omitempty"`
}

// UnmarshalJSON also accepts a bare file name.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*a = Attachment{Name: name}
		return nil
	}
	type plain Attachment
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Attachment(p)
	return nil
}

// TechnicalRow is one line of the electrical specification table.
type TechnicalRow struct {
	KeyParameter string       `json:"keyParameter" validate:"max=500"`
	Standard     string       `json:"standard" validate:"max=500"`
	Supplier     string       `json:"supplier" validate:"max=500"`
	Remarks      string       `json:"remarks" validate:"max=1000"`
	Images       []Attachment `json:"images" validate:"max=10,dive"`
}

// ImageNames joins the attachment names for the spreadsheet cell.
func (r TechnicalRow) ImageNames() string {
	names := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		if name := strings.TrimSpace(img.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// SpecificationRow is one line of the accessories requirement table.
type SpecificationRow struct {
	Specification string `json:"specification" validate:"max=500"`
	CustomerReq   string `json:"customerReq" validate:"max=500"`
	Compliance    string `json:"compliance" validate:"max=200"`
	Remarks       string `json:"remarks" validate:"max=1000"`
}

// Company is the requesting company block.
type Company struct {
	Name          string `json:"name" validate:"max=200"`
	Address       string `json:"address" validate:"max=1000"`
	ContactPerson string `json:"contactPerson" validate:"max=200"`
	Phone         string `json:"phone" validate:"max=50"`
	Email         string `json:"email" validate:"max=200"`
}

// Application describes where the part is used.
type Application struct {
	Product     string `json:"product" validate:"max=200"`
	Model       string `json:"model" validate:"max=200"`
	Application string `json:"application" validate:"max=500"`
}

// Terms closes the electrical sheet.
type Terms struct {
	Warranty  string `json:"warranty" validate:"max=500"`
	Delivery  string `json:"delivery" validate:"max=500"`
	Payment   string `json:"payment" validate:"max=500"`
	Validity  string `json:"validity" validate:"max=500"`
	Packaging string `json:"packaging" validate:"max=500"`
}

// Commercials closes the accessories sheet.
type Commercials struct {
	UnitPrice string `json:"unitPrice" validate:"max=200"`
	MOQ       string `json:"moq" validate:"max=200"`
	LeadTime  string `json:"leadTime" validate:"max=200"`
	Taxes     string `json:"taxes" validate:"max=200"`
	Freight   string `json:"freight" validate:"max=200"`
}

// Document is a SOR form snapshot. Only the rows of its variant are used.
type Document struct {
	Reference         string             `json:"reference" validate:"max=100"`
	Date              string             `json:"date" validate:"max=32"`
	Company           Company            `json:"company"`
	Application       Application        `json:"application"`
	Terms             Terms              `json:"terms"`
	Commercials       Commercials        `json:"commercials"`
	TechnicalRows     []TechnicalRow     `json:"technicalRows" validate:"max=500,dive"`
	SpecificationRows []SpecificationRow `json:"specificationRows" validate:"max=500,dive"`
}

// Field is a label/value pair in a trailing or header section.
type Field struct {
	Label string
	Value string
}

// Section is a titled group of fields.
type Section struct {
	Title  string
	Fields []Field
}

// Subtitle summarises company, reference and date.
func (d Document) Subtitle() string {
	var parts []string
	if v := strings.TrimSpace(d.Company.Name); v != "" {
		parts = append(parts, v)
	}
	if v := strings.TrimSpace(d.Reference); v != "" {
		parts = append(parts, "Ref: "+v)
	}
	if v := strings.TrimSpace(d.Date); v != "" {
		parts = append(parts, "Date: "+v)
	}
	return strings.Join(parts, " | ")
}

func (d Document) companySection() Section {
	return Section{Title: "Company Details", Fields: []Field{
		{"Company Name", d.Company.Name},
		{"Address", d.Company.Address},
		{"Contact Person", d.Company.ContactPerson},
		{"Phone", d.Company.Phone},
		{"Email", d.Company.Email},
	}}
}

func (d Document) applicationSection() Section {
	return Section{Title: "Application Details", Fields: []Field{
		{"Product", d.Application.Product},
		{"Vehicle Model", d.Application.Model},
		{"Application", d.Application.Application},
	}}
}

func (d Document) termsSection() Section {
	return Section{Title: "Terms", Fields: []Field{
		{"Warranty", d.Terms.Warranty},
		{"Delivery Period", d.Terms.Delivery},
		{"Payment Terms", d.Terms.Payment},
		{"Validity of Offer", d.Terms.Validity},
		{"Packing & Forwarding", d.Terms.Packaging},
	}}
}

func (d Document) commercialsSection() Section {
	return Section{Title: "Commercials", Fields: []Field{
		{"Unit Price", d.Commercials.UnitPrice},
		{"MOQ", d.Commercials.MOQ},
		{"Lead Time", d.Commercials.LeadTime},
		{"Taxes & Duties", d.Commercials.Taxes},
		{"Freight", d.Commercials.Freight},
	}}
}

// Headers lists the table columns of a variant, numbering column first.
func Headers(v Variant) []string {
	if v == VariantAccessories {
		return []string{"S.No", "Specification", "Customer Requirement", "Compliance", "Remarks"}
	}
	return []string{"S.No", "Key Parameter", "Standard", "Supplier", "Remarks", "Images"}
}

// Rows returns the table cells of a variant, without the numbering column.
func (d Document) Rows(v Variant) [][]string {
	if v == VariantAccessories {
		out := make([][]string, len(d.SpecificationRows))
		for i, r := range d.SpecificationRows {
			out[i] = []string{r.Specification, r.CustomerReq, r.Compliance, r.Remarks}
		}
		return out
	}
	out := make([][]string, len(d.TechnicalRows))
	for i, r := range d.TechnicalRows {
		out[i] = []string{r.KeyParameter, r.Standard, r.Supplier, r.Remarks, r.ImageNames()}
	}
	return out
}
