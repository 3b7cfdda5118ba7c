package render

import (
	"html"
	"strings"

	"github.com/zombor/docscan/internal/extraction"
)

const htmlStyle = `body{font-family:-apple-system,Helvetica,Arial,sans-serif;margin:32px;color:#111}` +
	`h1{font-size:22px;margin-bottom:8px}` +
	`.summary{color:#444;margin-bottom:16px}` +
	`table{border-collapse:collapse;width:100%;margin-bottom:24px}` +
	`td{border:1px solid #ccc;padding:6px 8px;vertical-align:top}` +
	`td.label{width:30%;font-weight:bold}` +
	`pre{font-family:Menlo,Consolas,monospace;white-space:pre-wrap;background:#f6f6f6;padding:12px}`

// HTML renders r as a standalone HTML page titled name. All text is escaped
// and empty sections are left out.
func HTML(r *extraction.Result, name string) string {
	if r == nil {
		r = &extraction.Result{}
	}
	title := html.EscapeString(name)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + title + "</title>\n")
	b.WriteString("<style>" + htmlStyle + "</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<h1>" + title + "</h1>\n")

	if r.FormattedSummary != "" {
		b.WriteString("<p class=\"summary\">" + html.EscapeString(r.FormattedSummary) + "</p>\n")
	}

	if fields := extraction.Fields(r); len(fields) > 0 {
		b.WriteString("<table>\n")
		for _, f := range fields {
			b.WriteString("<tr><td class=\"label\"><strong>")
			b.WriteString(html.EscapeString(f.Label))
			b.WriteString("</strong></td><td class=\"value\">")
			b.WriteString(html.EscapeString(f.Display))
			b.WriteString("</td></tr>\n")
		}
		b.WriteString("</table>\n")
	}

	if text := extraction.FullTextOf(r); text != "" {
		b.WriteString("<pre class=\"full-text\">")
		b.WriteString(html.EscapeString(text))
		b.WriteString("</pre>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}
