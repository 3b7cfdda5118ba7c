package scanning

import (
	"fmt"
	"strings"

	"github.com/zombor/docscan/internal/extraction"
)

// documentScanPrompt is shared by all model providers. The per-type field
// lists come from the extraction schemas.
var documentScanPrompt = buildPrompt()

func buildPrompt() string {
	var b strings.Builder
	b.WriteString(`You are analyzing a photo or scan of a document. Read all text in the image, classify the document and extract its fields.

1. **Document type**: one of passport, id_card, receipt, invoice, letter, form, other.

2. **Language**: the main language as an ISO 639-1 code, plus every language present.

3. **Text**: the full recognized text, keeping line breaks.

4. **Fields**: put the fields of the document into "structuredData" using camelCase keys, in the order they appear on the document. Use these keys when they apply:
`)
	for _, t := range extraction.DocumentTypes {
		keys := extraction.SchemaFor(t).Keys()
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&b, "   - %s: %s\n", t, strings.Join(keys, ", "))
	}
	b.WriteString(`   Other fields you find may be added with their own camelCase keys. Line items are arrays of objects. Parties (seller, buyer) are objects.

5. **Summary**: one short sentence describing the document.

Return ONLY valid JSON in this exact format:
{
  "documentType": "receipt",
  "language": "en",
  "languages": ["en"],
  "extractedText": "full text",
  "structuredData": {},
  "formattedSummary": "short summary"
}

Important:
- If you cannot find a field, use null for that field
- Amounts must be numbers, not strings
- Dates must be in YYYY-MM-DD format
- Do not include any text before or after the JSON
- Do not use markdown code blocks`)
	return b.String()
}
