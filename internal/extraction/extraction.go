package extraction

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RawTextKey is the structuredData key some models use to repeat the full text.
// It is never listed as a field.
const RawTextKey = "rawText"

// Data holds the structured fields of an extraction in the order the model produced them.
type Data = orderedmap.OrderedMap[string, any]

// NewData returns an empty ordered field map.
func NewData() *Data {
	return orderedmap.New[string, any]()
}

// Result is the structured output of scanning a document image
type Result struct {
	DocumentType     DocumentType `json:"documentType"`
	Language         string       `json:"language"`
	Languages        []string     `json:"languages"`
	ExtractedText    string       `json:"extractedText"`
	StructuredData   *Data        `json:"structuredData"`
	FormattedSummary string       `json:"formattedSummary"`
}

// Field is a single eligible structured field, ready for display.
type Field struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Display string `json:"display"`
}

// Fields returns the displayable structured fields of r in insertion order.
// rawText, null values and empty lists are skipped.
func Fields(r *Result) []Field {
	if r == nil || r.StructuredData == nil {
		return nil
	}
	fields := make([]Field, 0, r.StructuredData.Len())
	for pair := r.StructuredData.Oldest(); pair != nil; pair = pair.Next() {
		if !eligible(pair.Key, pair.Value) {
			continue
		}
		fields = append(fields, Field{
			Key:     pair.Key,
			Label:   LabelFor(pair.Key),
			Display: DisplayFor(pair.Value),
		})
	}
	return fields
}

func eligible(key string, value any) bool {
	if key == RawTextKey || value == nil {
		return false
	}
	return !isEmptyList(value)
}

// FullTextOf returns the text to show in a full-text section: extractedText,
// or structuredData.rawText when extractedText is empty. Never both.
func FullTextOf(r *Result) string {
	if r == nil {
		return ""
	}
	if r.ExtractedText != "" {
		return r.ExtractedText
	}
	if r.StructuredData == nil {
		return ""
	}
	raw, ok := r.StructuredData.Get(RawTextKey)
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return DisplayFor(raw)
}
