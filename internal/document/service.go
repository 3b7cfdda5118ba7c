package document

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/zombor/docscan/internal/extraction"
	"github.com/zombor/docscan/internal/imaging"
	"github.com/zombor/docscan/internal/scanning"
)

// IDGenerator generates unique IDs for documents
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles document operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUID IDs and the wall clock
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return NewServiceWithDeps(db, scanner, storage, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// sanitizeFilename drops special characters from filename and truncates it
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeChars.ReplaceAllString(base, "")
	base = spaceRuns.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "document"
	}
	return base + ext
}

// uploadType resolves the MIME type of an upload. A missing or generic
// content type is replaced by the sniffed one.
func uploadType(data []byte, contentType string) string {
	mimeType := imaging.NormalizeMIME(contentType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = imaging.NormalizeMIME(mimetype.Detect(data).String())
	}
	return mimeType
}

// ProcessDocument stores an upload, scans it and saves the result. Uploads that
// are not JPEG or PNG also get a normalized PNG copy.
func (s *Service) ProcessDocument(filename string, data []byte, contentType string) (*SavedDocument, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload")
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()
	name := sanitizeFilename(filename)
	mimeType := uploadType(data, contentType)

	originalRef, err := s.storage.Save(fmt.Sprintf("%s_%s", id, name), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}
	saved := []string{originalRef}
	cleanup := func() {
		for _, ref := range saved {
			if err := s.storage.Delete(ref); err != nil {
				slog.Warn("Failed to clean up file", "ref", ref, "error", err)
			}
		}
	}

	uri := originalRef
	if detected := mimetype.Detect(data); !detected.Is(imaging.MIMEJPEG) && !detected.Is(imaging.MIMEPNG) {
		uri = ""
		pngData, _, err := imaging.ToPNG(data, mimeType)
		if err != nil {
			slog.Warn("Failed to normalize image", "filename", filename, "content_type", mimeType, "error", err)
		} else {
			base := strings.TrimSuffix(name, filepath.Ext(name))
			ref, err := s.storage.Save(fmt.Sprintf("%s_%s.png", id, base), pngData)
			if err != nil {
				cleanup()
				return nil, fmt.Errorf("saving normalized image: %w", err)
			}
			saved = append(saved, ref)
			uri = ref
		}
	}

	result, err := s.scanner.ScanDocument(data, mimeType)
	if err != nil {
		slog.Error("Failed to scan document",
			"filename", filename,
			"content_type", mimeType,
			"file_size", len(data),
			"error", err,
		)
		cleanup()
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc := &SavedDocument{
		ID:          id,
		Name:        name,
		URI:         uri,
		OriginalURI: originalRef,
		ContentType: mimeType,
		Extraction:  normalizeResult(result),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveDocument(doc); err != nil {
		cleanup()
		return nil, fmt.Errorf("saving document to database: %w", err)
	}

	slog.Info("Document processed",
		"document_id", id,
		"document_type", doc.Extraction.DocumentType,
		"fields", doc.Extraction.StructuredData.Len(),
	)
	return doc, nil
}

func normalizeResult(r *extraction.Result) *extraction.Result {
	if r == nil {
		r = &extraction.Result{}
	}
	r.DocumentType = r.DocumentType.OrOther()
	if r.Languages == nil {
		r.Languages = []string{}
	}
	if r.StructuredData == nil {
		r.StructuredData = extraction.NewData()
	}
	return r
}

// Get retrieves a document by ID
func (s *Service) Get(id string) (*SavedDocument, error) {
	doc, err := s.db.GetDocument(id)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

// Lookup returns the document with the given ID
func (s *Service) Lookup(id string) (*SavedDocument, error) {
	return s.Get(id)
}

// List returns all documents, newest first
func (s *Service) List() ([]*SavedDocument, error) {
	docs, err := s.db.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// UpdateExtraction replaces the extraction of a document
func (s *Service) UpdateExtraction(id string, result *extraction.Result) (*SavedDocument, error) {
	if result == nil {
		return nil, fmt.Errorf("extraction is required")
	}
	doc, err := s.db.GetDocument(id)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	doc.Extraction = normalizeResult(result)
	doc.UpdatedAt = s.timeSource.Now()
	if err := s.db.SaveDocument(doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return doc, nil
}

// Rename changes the display name of a document
func (s *Service) Rename(id, name string) (*SavedDocument, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	doc, err := s.db.GetDocument(id)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	doc.Name = name
	doc.UpdatedAt = s.timeSource.Now()
	if err := s.db.SaveDocument(doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return doc, nil
}

// Delete removes a document and its files
func (s *Service) Delete(id string) error {
	doc, err := s.db.GetDocument(id)
	if err != nil {
		return fmt.Errorf("getting document for deletion: %w", err)
	}

	for _, ref := range doc.refs() {
		if err := s.storage.Delete(ref); err != nil {
			slog.Warn("Failed to delete file", "ref", ref, "error", err)
		}
	}

	if err := s.db.DeleteDocument(id); err != nil {
		return fmt.Errorf("deleting document from database: %w", err)
	}
	return nil
}

// FetchImage reads a stored image and reports the MIME type of its bytes
func (s *Service) FetchImage(ref string) ([]byte, string, error) {
	data, err := s.storage.Get(ref)
	if err != nil {
		return nil, "", fmt.Errorf("getting image %s: %w", ref, err)
	}
	return data, imaging.NormalizeMIME(mimetype.Detect(data).String()), nil
}
