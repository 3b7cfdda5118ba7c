package scanning

import (
	"github.com/zombor/docscan/internal/extraction"
)

// Scanner defines the interface for document scanning operations
type Scanner interface {
	// ScanDocument classifies a document image/PDF and extracts its text and fields
	ScanDocument(imageData []byte, contentType string) (*extraction.Result, error)
	// Close closes the scanner and releases resources
	Close() error
}
