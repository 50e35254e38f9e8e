package catalog

import (
	"context"
	"fmt"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

// ErrNotFound is returned when a vendor or component does not exist.
var ErrNotFound = fmt.Errorf("catalog: %w", httpx.ErrNotFound)

// Vendor is a supplier as known to the procurement backend.
type Vendor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	GSTIN   string `json:"gstin"`
}

// Component is a stocked part.
type Component struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Stock        float64 `json:"stock"`
	ReorderLevel float64 `json:"reorderLevel"`
	Unit         string  `json:"unit"`
}

// LowStock reports whether stock is at or under the reorder level.
func (c Component) LowStock() bool {
	return c.Stock <= c.ReorderLevel
}

// Repository is the read side of the procurement backend.
type Repository interface {
	ListVendors(ctx context.Context) ([]Vendor, error)
	GetVendor(ctx context.Context, id string) (Vendor, error)
	ListComponents(ctx context.Context) ([]Component, error)
}

// Source selects a Repository implementation.
type Source string

const (
	SourceFixture Source = "fixture"
	SourceHTTP    Source = "http"
)

// NewRepository returns the implementation configured by source.
func NewRepository(source Source, baseURL string) (Repository, error) {
	switch source {
	case SourceFixture, "":
		return NewFixtureRepository(), nil
	case SourceHTTP:
		return NewHTTPRepository(baseURL)
	default:
		return nil, fmt.Errorf("catalog: unknown source %q", source)
	}
}
