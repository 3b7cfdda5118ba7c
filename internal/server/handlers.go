package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/docscan/internal/document"
	"github.com/zombor/docscan/internal/export"
	"github.com/zombor/docscan/internal/extraction"
)

const maxUploadSize = int64(50 << 20) // 50MB

// documentView is a document plus its displayable fields
type documentView struct {
	*document.SavedDocument
	Fields      []extraction.Field `json:"fields"`
	ExtraFields []extraction.Field `json:"extra_fields"`
}

func newDocumentView(doc *document.SavedDocument) documentView {
	view := documentView{SavedDocument: doc, Fields: []extraction.Field{}, ExtraFields: []extraction.Field{}}
	if doc.Extraction == nil {
		return view
	}
	known, extra := extraction.SchemaFor(doc.Extraction.DocumentType).Partition(doc.Extraction)
	if known != nil {
		view.Fields = known
	}
	if extra != nil {
		view.ExtraFields = extra
	}
	return view
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// jsonError writes {"error": message}
func jsonError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// lookupStatus maps a document lookup error to a status code
func lookupStatus(err error) int {
	if errors.Is(err, document.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// exportStatus maps an export error to a status code
func exportStatus(err error) int {
	switch {
	case errors.Is(err, export.ErrNoDocument), errors.Is(err, export.ErrNoImageAvailable):
		return http.StatusNotFound
	case errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleListDocuments returns all documents
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.service.List()
	if err != nil {
		slog.Error("Error listing documents", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// uploadContentType resolves the content type of an uploaded file part
func uploadContentType(header string, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(header))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleUploadDocument stores and scans an uploaded document
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := uploadContentType(header.Header.Get("Content-Type"), header.Filename)

	doc, err := s.service.ProcessDocument(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing document", "filename", header.Filename, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, newDocumentView(doc))
}

// handleGetDocument returns a single document
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.Get(r.PathValue("id"))
	if err != nil {
		jsonError(w, "Document not found", lookupStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, newDocumentView(doc))
}

// handleRenameDocument changes the name of a document
func (s *Server) handleRenameDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		jsonError(w, "Name is required", http.StatusBadRequest)
		return
	}

	doc, err := s.service.Rename(r.PathValue("id"), req.Name)
	if err != nil {
		jsonError(w, "Error renaming document", lookupStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, newDocumentView(doc))
}

// handleUpdateExtraction replaces the extraction of a document
func (s *Server) handleUpdateExtraction(w http.ResponseWriter, r *http.Request) {
	var result extraction.Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		jsonError(w, "Invalid extraction", http.StatusBadRequest)
		return
	}

	doc, err := s.service.UpdateExtraction(r.PathValue("id"), &result)
	if err != nil {
		slog.Error("Error updating extraction", "document_id", r.PathValue("id"), "error", err)
		jsonError(w, "Error updating extraction", lookupStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, newDocumentView(doc))
}

// handleDeleteDocument deletes a document
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.PathValue("id")); err != nil {
		jsonError(w, "Error deleting document", lookupStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetImage returns the image of a document
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.Get(r.PathValue("id"))
	if err != nil {
		jsonError(w, "Document not found", lookupStatus(err))
		return
	}
	ref := doc.ImageRef()
	if ref == "" {
		jsonError(w, "No image available", http.StatusNotFound)
		return
	}

	data, contentType, err := s.service.FetchImage(ref)
	if err != nil {
		slog.Error("Error reading image", "document_id", doc.ID, "error", err)
		jsonError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleListFormats returns the export formats
func (s *Server) handleListFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.exporter.Registry().Formats())
}

// handleExport renders a document and sends it as a download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	download := export.NewDownloadDelivery(w)
	_, err := s.exporter.WithDelivery(download).ExportByID(r.Context(), s.service, r.PathValue("id"), r.PathValue("format"))
	if err == nil {
		return
	}
	if errors.Is(err, export.ErrDeliveryFailed) && download.Written() {
		// Headers are gone; the client sees a truncated body.
		return
	}
	jsonError(w, err.Error(), exportStatus(err))
}
