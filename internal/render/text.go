// Package render turns an extraction result into export representations:
// plain text, HTML, an abstract word-processor tree and paginated PDF pages.
// Every renderer lists fields with extraction.Fields and picks the full text
// with extraction.FullTextOf, so all formats agree on what is shown.
package render

import (
	"strings"

	"github.com/zombor/docscan/internal/extraction"
)

const textRule = "=================================================="

// Text renders r as a plain-text report.
func Text(r *extraction.Result) string {
	if r == nil {
		r = &extraction.Result{}
	}

	var b strings.Builder
	b.WriteString(strings.ToUpper(string(r.DocumentType.OrOther())))
	b.WriteString(" DOCUMENT\n")
	b.WriteString(textRule)
	b.WriteString("\n")

	if r.FormattedSummary != "" {
		b.WriteString("\n")
		b.WriteString(r.FormattedSummary)
		b.WriteString("\n")
	}

	if fields := extraction.Fields(r); len(fields) > 0 {
		b.WriteString("\n")
		for _, f := range fields {
			b.WriteString(f.Label)
			b.WriteString(": ")
			b.WriteString(f.Display)
			b.WriteString("\n")
		}
	}

	text := extraction.FullTextOf(r)
	if text == "" {
		return strings.TrimRight(b.String(), "\n")
	}
	b.WriteString("\nFULL TEXT:\n")
	b.WriteString(text)
	return b.String()
}
