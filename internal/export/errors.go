package export

import "errors"

var (
	// ErrUnsupportedFormat is returned for a format ID missing from the registry
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrNoDocument is returned when there is no document to export
	ErrNoDocument = errors.New("no document to export")
	// ErrNoImageAvailable is returned for image exports of documents without an image
	ErrNoImageAvailable = errors.New("no image available")
	// ErrDeliveryFailed wraps failures reading image bytes or handing off the artifact
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrRenderFailed wraps encoder failures
	ErrRenderFailed = errors.New("render failed")
)
