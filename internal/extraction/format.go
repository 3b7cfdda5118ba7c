package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// LabelFor turns a camelCase field key into a display label:
// issueDate -> "Issue Date", mrzLine1 -> "Mrz Line1".
func LabelFor(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DisplayFor renders a structured value as a single display string.
// Lists are joined with ", ", objects are written as compact JSON and
// everything else is stringified. Callers skip nil values before calling.
func DisplayFor(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case *Data:
		return compact(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, displayElement(item))
		}
		return strings.Join(parts, ", ")
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, displayElement(rv.Index(i).Interface()))
		}
		return strings.Join(parts, ", ")
	case reflect.Map, reflect.Struct:
		return compact(value)
	case reflect.Float32:
		return formatNumber(rv.Float())
	}
	return fmt.Sprint(value)
}

func displayElement(item any) string {
	if item == nil {
		return "null"
	}
	if isObject(item) {
		return compact(item)
	}
	return DisplayFor(item)
}

func isObject(v any) bool {
	if _, ok := v.(*Data); ok {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Struct:
		return true
	}
	return false
}

func isEmptyList(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

// compact writes v as JSON without HTML escaping. Map keys come out sorted,
// so the same value always produces the same text.
func compact(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
