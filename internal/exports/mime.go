package exports

import (
	"log"
	"mime"
	"path/filepath"

	"github.com/smg-ev/vendor-portal/internal/platform/sheet"
)

func init() {
	ensureMimeType(".xlsx", sheet.ContentType)
	ensureMimeType(".pdf", "application/pdf")
}

func ensureMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		log.Printf("exports: failed to register MIME type for %s: %v", ext, err)
	}
}

func contentType(name string) string {
	if typ := mime.TypeByExtension(filepath.Ext(name)); typ != "" {
		return typ
	}
	return "application/octet-stream"
}
