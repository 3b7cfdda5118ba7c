package export

import "strings"

// Format identifiers accepted by the coordinator.
const (
	FormatPDF  = "pdf"
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatDOCX = "docx"
	FormatTXT  = "txt"
	FormatHTML = "html"
)

// Format is one supported export target
type Format struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	MIMEType  string `json:"mime"`
	Extension string `json:"extension"`
}

// IsImage reports whether the format is served from the document image
// instead of a renderer.
func (f Format) IsImage() bool {
	return strings.HasPrefix(f.MIMEType, "image/")
}

// Registry is an immutable table of export formats
type Registry struct {
	formats []Format
	byID    map[string]Format
}

// NewRegistry builds a registry. Later entries with a duplicate ID are ignored.
func NewRegistry(formats ...Format) *Registry {
	r := &Registry{byID: make(map[string]Format, len(formats))}
	for _, f := range formats {
		if _, ok := r.byID[f.ID]; ok {
			continue
		}
		r.byID[f.ID] = f
		r.formats = append(r.formats, f)
	}
	return r
}

// DefaultRegistry returns the six supported formats
func DefaultRegistry() *Registry {
	return NewRegistry(
		Format{ID: FormatPDF, Label: "PDF", MIMEType: "application/pdf", Extension: "pdf"},
		Format{ID: FormatJPEG, Label: "JPEG", MIMEType: "image/jpeg", Extension: "jpg"},
		Format{ID: FormatPNG, Label: "PNG", MIMEType: "image/png", Extension: "png"},
		Format{ID: FormatDOCX, Label: "Word (DOCX)", MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Extension: "docx"},
		Format{ID: FormatTXT, Label: "Plain Text (TXT)", MIMEType: "text/plain", Extension: "txt"},
		Format{ID: FormatHTML, Label: "HTML", MIMEType: "text/html", Extension: "html"},
	)
}

// Lookup returns the format with the given ID. Matching is exact.
func (r *Registry) Lookup(id string) (Format, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// ByMIME returns the first format producing mimeType
func (r *Registry) ByMIME(mimeType string) (Format, bool) {
	for _, f := range r.formats {
		if f.MIMEType == mimeType {
			return f, true
		}
	}
	return Format{}, false
}

// Formats returns the registered formats in registration order
func (r *Registry) Formats() []Format {
	out := make([]Format, len(r.formats))
	copy(out, r.formats)
	return out
}
