package export

import (
	"path/filepath"
	"strings"
)

// Artifact is a rendered export ready for delivery
type Artifact struct {
	Data     []byte
	MIMEType string
	Filename string
}

// filename returns <base>.<ext> where base is name without its extension.
func filename(name, ext string) string {
	base := strings.TrimSpace(filepath.Base(strings.TrimSpace(name)))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSpace(base)
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	return base + "." + ext
}
