// Package document stores scanned documents: the original upload, a
// normalized image and the extraction produced by the scanner.
package document

import (
	"strings"
	"time"

	"github.com/zombor/docscan/internal/extraction"
)

// SavedDocument is a persisted scan. URI points at the normalized image and
// OriginalURI at the upload as received; either may be empty.
type SavedDocument struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	URI         string             `json:"uri,omitempty"`
	OriginalURI string             `json:"original_uri,omitempty"`
	ContentType string             `json:"content_type,omitempty"`
	Extraction  *extraction.Result `json:"extraction"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ImageRef returns the reference to read the document image from, preferring
// the normalized image over the original upload.
func (d *SavedDocument) ImageRef() string {
	if d.URI != "" {
		return d.URI
	}
	return d.OriginalURI
}

// refs lists every stored file of the document without duplicates.
func (d *SavedDocument) refs() []string {
	var refs []string
	for _, ref := range []string{d.URI, d.OriginalURI} {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if len(refs) > 0 && refs[0] == ref {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}
