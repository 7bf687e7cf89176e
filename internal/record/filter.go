package record

import (
	"encoding/json"
	"strconv"
)

// Criteria are the field-value constraints a caller supplies to narrow a
// collection. The shape matches url.Values so a query string converts
// directly: record.Criteria(r.URL.Query()).
type Criteria map[string][]string

// ─────────────────────────────────────────────────────────────────────────────
// Filter returns the records that satisfy every criterion.
//
// For each filterable field named in criteria, each non-empty value narrows
// the result once:
//
//	string fields  — exact equality
//	number fields  — numeric equality ("31" matches 31)
//	array fields   — the record's array must contain the value
//
// Several values for the same field narrow conjunctively, so
// ?personalityTraits=quirky&personalityTraits=rash keeps only records that
// have both traits. Unknown keys are ignored. The input is never modified;
// the result is always a new slice in the original relative order.
// ─────────────────────────────────────────────────────────────────────────────
func Filter(schema Schema, criteria Criteria, records []Record) []Record {
	filtered := records

	for _, field := range schema.Fields {
		if !field.Filterable {
			continue
		}
		for _, want := range criteria[field.Name] {
			if want == "" {
				continue
			}
			filtered = narrow(filtered, field, want)
		}
	}

	out := make([]Record, len(filtered))
	copy(out, filtered)
	return out
}

func narrow(records []Record, field Field, want string) []Record {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(field, r[field.Name], want) {
			kept = append(kept, r)
		}
	}
	return kept
}

func matches(field Field, value any, want string) bool {
	switch field.Kind {
	case KindString:
		s, ok := value.(string)
		return ok && s == want
	case KindNumber:
		n, ok := asNumber(value)
		if !ok {
			return false
		}
		w, err := strconv.ParseFloat(want, 64)
		return err == nil && n == w
	case KindArray:
		items, ok := asStrings(value)
		if !ok {
			return false
		}
		for _, item := range items {
			if item == want {
				return true
			}
		}
		return false
	}
	return false
}

// asNumber accepts the numeric shapes a record can carry: float64 from
// encoding/json, json.Number, and plain ints from records built in code.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// asStrings returns the string elements of a JSON array. Non-string
// elements are skipped rather than failing the whole record.
func asStrings(v any) ([]string, bool) {
	switch items := v.(type) {
	case []string:
		return items, true
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}
