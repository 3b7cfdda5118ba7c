// Package imaging decodes uploaded document images (JPEG, PNG, GIF, WebP,
// HEIC/HEIF and the first page of a PDF) and re-encodes them as PNG or JPEG.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEPDF  = "application/pdf"
)

// NormalizeMIME lowercases a content type and drops any parameters.
func NormalizeMIME(contentType string) string {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// IsHEIC checks the ftyp box brand of HEIC/HEIF files
func IsHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	return brand == "heic" || brand == "heix" || brand == "heif" || brand == "mif1" || brand == "msf1"
}

// IsHEICMIME checks if the MIME type indicates HEIC/HEIF format
func IsHEICMIME(mimeType string) bool {
	mimeType = NormalizeMIME(mimeType)
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// Decode decodes image data. PDFs are rendered from their first page.
func Decode(data []byte, mimeType string) (image.Image, error) {
	mimeType = NormalizeMIME(mimeType)

	if mimeType == MIMEPDF {
		return pdfFirstPage(data)
	}

	if IsHEIC(data) || IsHEICMIME(mimeType) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") {
			return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, WebP, HEIC, HEIF, PDF. Error: %w", err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

func pdfFirstPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}

// Encode writes img in the given MIME type (image/png or image/jpeg).
func Encode(img image.Image, mimeType string) ([]byte, error) {
	var buf bytes.Buffer
	switch NormalizeMIME(mimeType) {
	case MIMEPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding PNG: %w", err)
		}
	case MIMEJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("encoding JPEG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported output format: %s", mimeType)
	}
	return buf.Bytes(), nil
}

// Convert re-encodes data into target. It reports false and returns data
// unchanged when the input is already in the target format.
func Convert(data []byte, mimeType, target string) ([]byte, bool, error) {
	mimeType = NormalizeMIME(mimeType)
	target = NormalizeMIME(target)
	if mimeType == target && !IsHEIC(data) {
		return data, false, nil
	}

	img, err := Decode(data, mimeType)
	if err != nil {
		return nil, false, err
	}
	out, err := Encode(img, target)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// ToPNG converts PDFs and non-PNG images to PNG, the format sent to vision models.
func ToPNG(data []byte, contentType string) ([]byte, bool, error) {
	mimeType := NormalizeMIME(contentType)
	if mimeType == "" {
		mimeType = MIMEJPEG
	}
	return Convert(data, mimeType, MIMEPNG)
}
