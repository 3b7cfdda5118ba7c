package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DocumentType classifies a scanned document
type DocumentType string

const (
	Passport DocumentType = "passport"
	IDCard   DocumentType = "id_card"
	Receipt  DocumentType = "receipt"
	Invoice  DocumentType = "invoice"
	Letter   DocumentType = "letter"
	Form     DocumentType = "form"
	Other    DocumentType = "other"
)

// DocumentTypes lists every document type in a fixed order.
var DocumentTypes = []DocumentType{Passport, IDCard, Receipt, Invoice, Letter, Form, Other}

// ParseDocumentType maps s onto a known type. Anything unrecognised is Other.
func ParseDocumentType(s string) DocumentType {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	for _, t := range DocumentTypes {
		if string(t) == normalized {
			return t
		}
	}
	return Other
}

// OrOther returns t, or Other when t is empty.
func (t DocumentType) OrOther() DocumentType {
	if t == "" {
		return Other
	}
	return t
}

// UnmarshalJSON accepts any string and normalizes it with ParseDocumentType.
func (t *DocumentType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding document type: %w", err)
	}
	*t = ParseDocumentType(s)
	return nil
}

// Kind is the expected shape of a known field value
type Kind string

const (
	KindText   Kind = "text"
	KindDate   Kind = "date"
	KindAmount Kind = "amount"
	KindList   Kind = "list"
	KindObject Kind = "object"
)

// FieldSpec describes one known field of a document type
type FieldSpec struct {
	Key  string
	Kind Kind
}

// Schema is the known field set of one document type. Keys outside the
// schema are still valid; they are reported as extra fields.
type Schema struct {
	Type   DocumentType
	Fields []FieldSpec
}

var schemas = map[DocumentType]Schema{
	Passport: {Type: Passport, Fields: []FieldSpec{
		{"fullName", KindText},
		{"surname", KindText},
		{"givenNames", KindText},
		{"documentNumber", KindText},
		{"nationality", KindText},
		{"dateOfBirth", KindDate},
		{"placeOfBirth", KindText},
		{"sex", KindText},
		{"issueDate", KindDate},
		{"expiryDate", KindDate},
		{"issuingAuthority", KindText},
		{"mrzLine1", KindText},
		{"mrzLine2", KindText},
	}},
	IDCard: {Type: IDCard, Fields: []FieldSpec{
		{"fullName", KindText},
		{"documentNumber", KindText},
		{"nationality", KindText},
		{"dateOfBirth", KindDate},
		{"sex", KindText},
		{"address", KindText},
		{"issueDate", KindDate},
		{"expiryDate", KindDate},
	}},
	Receipt: {Type: Receipt, Fields: []FieldSpec{
		{"vendorName", KindText},
		{"vendorAddress", KindText},
		{"date", KindDate},
		{"time", KindText},
		{"items", KindList},
		{"subtotal", KindAmount},
		{"tax", KindAmount},
		{"total", KindAmount},
		{"currency", KindText},
		{"paymentMethod", KindText},
	}},
	Invoice: {Type: Invoice, Fields: []FieldSpec{
		{"invoiceNumber", KindText},
		{"invoiceDate", KindDate},
		{"dueDate", KindDate},
		{"seller", KindObject},
		{"buyer", KindObject},
		{"items", KindList},
		{"subtotal", KindAmount},
		{"tax", KindAmount},
		{"total", KindAmount},
		{"currency", KindText},
	}},
	Letter: {Type: Letter, Fields: []FieldSpec{
		{"sender", KindText},
		{"recipient", KindText},
		{"date", KindDate},
		{"subject", KindText},
		{"greeting", KindText},
		{"closing", KindText},
	}},
	Form: {Type: Form, Fields: []FieldSpec{
		{"formTitle", KindText},
		{"fields", KindList},
	}},
	Other: {Type: Other},
}

// SchemaFor returns the field schema of t. Unknown types get the empty Other schema.
func SchemaFor(t DocumentType) Schema {
	if s, ok := schemas[t]; ok {
		return s
	}
	return schemas[Other]
}

// Spec returns the known field spec for key.
func (s Schema) Spec(key string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Partition splits the eligible fields of r into those known to the schema
// and extras. Both keep insertion order.
func (s Schema) Partition(r *Result) (known, extra []Field) {
	for _, f := range Fields(r) {
		if _, ok := s.Spec(f.Key); ok {
			known = append(known, f)
		} else {
			extra = append(extra, f)
		}
	}
	return known, extra
}

// Keys returns the known field keys in schema order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// fieldValueTypes is what a structured field may hold. Kinds are descriptive;
// a value of the wrong shape is displayed as text instead of failing
// the whole scan.
var fieldValueTypes = []string{"string", "number", "boolean", "array", "object", "null"}

// JSONSchema returns a JSON schema document describing a model extraction
// response. Known fields accept any JSON value and unknown keys are allowed.
func JSONSchema() map[string]any {
	properties := map[string]any{}
	for _, t := range DocumentTypes {
		for _, f := range schemas[t].Fields {
			properties[f.Key] = map[string]any{"type": fieldValueTypes, "description": string(f.Kind)}
		}
	}
	properties[RawTextKey] = map[string]any{"type": []string{"string", "null"}}

	return map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []string{"documentType"},
		"properties": map[string]any{
			"documentType":     map[string]any{"type": "string"},
			"language":         map[string]any{"type": []string{"string", "null"}},
			"languages":        map[string]any{"type": []string{"array", "null"}, "items": map[string]any{"type": "string"}},
			"extractedText":    map[string]any{"type": []string{"string", "null"}},
			"formattedSummary": map[string]any{"type": []string{"string", "null"}},
			"structuredData": map[string]any{
				"type":                 []string{"object", "null"},
				"properties":           properties,
				"additionalProperties": true,
			},
		},
	}
}
