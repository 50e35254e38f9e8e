package app

import (
	"fmt"
	"log/slog"

	"github.com/smg-ev/vendor-portal/internal/catalog"
	"github.com/smg-ev/vendor-portal/internal/media"
	"github.com/smg-ev/vendor-portal/internal/purchaseorder"
	"github.com/smg-ev/vendor-portal/internal/shared"
	"github.com/smg-ev/vendor-portal/internal/sor"
	"github.com/smg-ev/vendor-portal/internal/view"
)

// DocumentParams groups what the document services need from the process.
type DocumentParams struct {
	Config   *Config
	Logger   *slog.Logger
	Observer shared.RenderObserver
	Drafts   sor.DraftSaver
	Printer  purchaseorder.PrintClient
}

// Documents holds the services shared by the HTTP server and the worker.
type Documents struct {
	Catalog        catalog.Repository
	PurchaseOrders *purchaseorder.Service
	SOR            *sor.Service
}

// NewDocuments builds the catalog and document services from configuration.
func NewDocuments(p DocumentParams) (*Documents, error) {
	engine, err := view.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("app: templates: %w", err)
	}
	repo, err := catalog.NewRepository(p.Config.CatalogSource, p.Config.CatalogBaseURL)
	if err != nil {
		return nil, fmt.Errorf("app: catalog: %w", err)
	}
	params := purchaseorder.ServiceParams{
		HTML:       purchaseorder.NewHTMLRenderer(engine),
		Vendors:    repo,
		Letterhead: p.Config.Letterhead(),
		Logo:       media.LoadLogo(p.Config.LogoPath, p.Logger),
		Printer:    p.Printer,
		Observer:   p.Observer,
	}
	return &Documents{
		Catalog:        repo,
		PurchaseOrders: purchaseorder.NewService(params),
		SOR:            sor.NewService(sor.NewPreviewRenderer(engine), p.Drafts, p.Observer, p.Logger),
	}, nil
}
