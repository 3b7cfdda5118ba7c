package export

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// DeliveryResult describes where an artifact ended up
type DeliveryResult struct {
	Location string `json:"location,omitempty"`
	Filename string `json:"filename"`
	MIMEType string `json:"mime"`
	Bytes    int    `json:"bytes"`
}

// DeliveryPort hands a rendered artifact to its destination
type DeliveryPort interface {
	Deliver(ctx context.Context, artifact *Artifact) (*DeliveryResult, error)
}

// Sharer is called with the path of each file written by FileDelivery
type Sharer interface {
	Share(ctx context.Context, path, mimeType string) error
}

// SharerFunc adapts a function to the Sharer interface
type SharerFunc func(ctx context.Context, path, mimeType string) error

// Share calls f
func (f SharerFunc) Share(ctx context.Context, path, mimeType string) error {
	return f(ctx, path, mimeType)
}

// FileDelivery writes artifacts into a fresh directory under dir and then
// passes the file to an optional Sharer.
type FileDelivery struct {
	dir    string
	sharer Sharer
}

// NewFileDelivery creates a FileDelivery. sharer may be nil.
func NewFileDelivery(dir string, sharer Sharer) *FileDelivery {
	return &FileDelivery{dir: dir, sharer: sharer}
}

// Deliver writes the artifact to disk
func (f *FileDelivery) Deliver(ctx context.Context, artifact *Artifact) (*DeliveryResult, error) {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	tmpDir, err := os.MkdirTemp(f.dir, "export-")
	if err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(tmpDir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			slog.Warn("Failed to remove export directory", "dir", tmpDir, "error", rmErr)
		}
		return nil, fmt.Errorf("writing export: %w", err)
	}

	if f.sharer != nil {
		if err := f.sharer.Share(ctx, path, artifact.MIMEType); err != nil {
			return nil, fmt.Errorf("sharing export: %w", err)
		}
	}

	return &DeliveryResult{
		Location: path,
		Filename: artifact.Filename,
		MIMEType: artifact.MIMEType,
		Bytes:    len(artifact.Data),
	}, nil
}

// DownloadDelivery streams artifacts to an HTTP client as attachments
type DownloadDelivery struct {
	w       http.ResponseWriter
	written bool
}

// NewDownloadDelivery creates a DownloadDelivery writing to w
func NewDownloadDelivery(w http.ResponseWriter) *DownloadDelivery {
	return &DownloadDelivery{w: w}
}

// Deliver writes the artifact as the response body
func (d *DownloadDelivery) Deliver(ctx context.Context, artifact *Artifact) (*DeliveryResult, error) {
	contentType := artifact.MIMEType
	if contentType == "text/plain" || contentType == "text/html" {
		contentType += "; charset=utf-8"
	}
	d.w.Header().Set("Content-Type", contentType)
	d.w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Filename}))
	d.w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	d.w.WriteHeader(http.StatusOK)
	d.written = true

	if _, err := d.w.Write(artifact.Data); err != nil {
		return nil, fmt.Errorf("writing download: %w", err)
	}

	return &DeliveryResult{
		Filename: artifact.Filename,
		MIMEType: artifact.MIMEType,
		Bytes:    len(artifact.Data),
	}, nil
}

// Written reports whether the response headers have been sent
func (d *DownloadDelivery) Written() bool {
	return d.written
}
