package export

import (
	"fmt"

	"github.com/zombor/docscan/internal/document"
	"github.com/zombor/docscan/internal/imaging"
)

// ImageSource reads stored image bytes and reports their actual MIME type
type ImageSource interface {
	FetchImage(ref string) ([]byte, string, error)
}

// imageArtifact exports the document image without rendering. JPEG and PNG
// bytes are passed through with the extension of their real type; other
// image types are converted to the requested format.
func (c *Coordinator) imageArtifact(doc *document.SavedDocument, format Format) (*Artifact, error) {
	ref := doc.ImageRef()
	if ref == "" {
		return nil, fmt.Errorf("%w for document %s", ErrNoImageAvailable, doc.ID)
	}
	if c.images == nil {
		return nil, fmt.Errorf("%w: no image source configured", ErrDeliveryFailed)
	}

	data, mimeType, err := c.images.FetchImage(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching image: %w", ErrDeliveryFailed, err)
	}
	mimeType = imaging.NormalizeMIME(mimeType)

	if mimeType == imaging.MIMEJPEG || mimeType == imaging.MIMEPNG {
		actual, ok := c.registry.ByMIME(mimeType)
		if !ok {
			actual = format
		}
		return &Artifact{
			Data:     data,
			MIMEType: actual.MIMEType,
			Filename: filename(doc.Name, actual.Extension),
		}, nil
	}

	converted, _, err := imaging.Convert(data, mimeType, format.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("%w: converting %s image: %w", ErrRenderFailed, mimeType, err)
	}
	return &Artifact{
		Data:     converted,
		MIMEType: format.MIMEType,
		Filename: filename(doc.Name, format.Extension),
	}, nil
}
