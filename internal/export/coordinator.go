// Package export turns saved documents into files: rendered text, HTML, DOCX
// and PDF, or the document image itself.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zombor/docscan/internal/document"
	"github.com/zombor/docscan/internal/extraction"
	"github.com/zombor/docscan/internal/render"
)

// Lookup finds saved documents by ID
type Lookup interface {
	Lookup(id string) (*document.SavedDocument, error)
}

// Coordinator validates export requests, picks the renderer for a format and
// hands the result to a DeliveryPort.
type Coordinator struct {
	registry *Registry
	images   ImageSource
	delivery DeliveryPort
	page     render.PageConfig
	metrics  *Metrics
}

// NewCoordinator creates a Coordinator. metrics may be nil.
func NewCoordinator(registry *Registry, images ImageSource, delivery DeliveryPort, page render.PageConfig, metrics *Metrics) *Coordinator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Coordinator{
		registry: registry,
		images:   images,
		delivery: delivery,
		page:     page,
		metrics:  metrics,
	}
}

// WithDelivery returns a copy of c that delivers through port
func (c *Coordinator) WithDelivery(port DeliveryPort) *Coordinator {
	clone := *c
	clone.delivery = port
	return &clone
}

// Registry returns the format table
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Render produces the artifact for doc in the given format
func (c *Coordinator) Render(doc *document.SavedDocument, formatID string) (*Artifact, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	format, ok := c.registry.Lookup(formatID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, formatID)
	}

	if format.IsImage() {
		return c.imageArtifact(doc, format)
	}

	result := doc.Extraction
	if result == nil {
		result = &extraction.Result{}
	}

	var (
		data []byte
		err  error
	)
	switch format.ID {
	case FormatTXT:
		data = []byte(render.Text(result))
	case FormatHTML:
		data = []byte(render.HTML(result, doc.Name))
	case FormatDOCX:
		data, err = render.EncodeDOCX(render.DocumentTree(result, doc.Name), doc.CreatedAt)
	case FormatPDF:
		data, err = render.PDF(result, doc.Name, c.page, doc.CreatedAt)
	default:
		return nil, fmt.Errorf("%w: no renderer for %s", ErrUnsupportedFormat, format.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, format.ID, err)
	}

	return &Artifact{
		Data:     data,
		MIMEType: format.MIMEType,
		Filename: filename(doc.Name, format.Extension),
	}, nil
}

// Export renders doc and delivers the artifact
func (c *Coordinator) Export(ctx context.Context, doc *document.SavedDocument, formatID string) (*DeliveryResult, error) {
	start := time.Now()
	res, err := c.export(ctx, doc, formatID)

	label := formatID
	if _, ok := c.registry.Lookup(formatID); !ok {
		label = "unsupported"
	}
	docID := ""
	if doc != nil {
		docID = doc.ID
	}

	if err != nil {
		c.metrics.observe(label, 0, err)
		slog.Error("export.failed",
			"document_id", docID,
			"format", formatID,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	c.metrics.observe(label, res.Bytes, nil)
	slog.Info("export.ok",
		"document_id", docID,
		"format", formatID,
		"filename", res.Filename,
		"bytes", res.Bytes,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (c *Coordinator) export(ctx context.Context, doc *document.SavedDocument, formatID string) (*DeliveryResult, error) {
	artifact, err := c.Render(doc, formatID)
	if err != nil {
		return nil, err
	}
	if c.delivery == nil {
		return nil, fmt.Errorf("%w: no delivery configured", ErrDeliveryFailed)
	}

	res, err := c.delivery.Deliver(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return res, nil
}

// ExportByID looks up a document and exports it. A missing document is
// reported as ErrNoDocument.
func (c *Coordinator) ExportByID(ctx context.Context, docs Lookup, id, formatID string) (*DeliveryResult, error) {
	doc, err := docs.Lookup(id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoDocument, id)
		}
		return nil, fmt.Errorf("looking up document: %w", err)
	}
	return c.Export(ctx, doc, formatID)
}
