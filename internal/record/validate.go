package record

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use.
var validate = validator.New()

// FieldError reports the first field that failed validation.
type FieldError struct {
	Entity string
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s: field %s %s", e.Entity, e.Field, e.Reason)
}

// ─────────────────────────────────────────────────────────────────────────────
// Validate checks candidate against schema and returns a *FieldError for the
// first failing field, or nil.
//
// Rules:
//
//	required string — present, a JSON string, non-empty
//	required number — present, a JSON number, non-zero
//	required array  — present and a JSON array (any length, [] included)
//	optional field  — when present, must still hold the declared kind
//
// The kind check is strict: {"age": "5"} is not a number.
// ─────────────────────────────────────────────────────────────────────────────
func Validate(schema Schema, candidate Record) error {
	if candidate == nil {
		return &FieldError{Entity: schema.Name, Reason: "is empty"}
	}

	for _, field := range schema.Fields {
		value, present := candidate[field.Name]
		if !present || value == nil {
			if field.Required {
				return &FieldError{Entity: schema.Name, Field: field.Name, Reason: "is required"}
			}
			continue
		}

		if !hasKind(field.Kind, value) {
			return &FieldError{
				Entity: schema.Name,
				Field:  field.Name,
				Reason: fmt.Sprintf("must be a %s", field.Kind),
			}
		}

		if field.Required {
			// "required" rejects "" and 0 but accepts an empty, non-nil slice.
			if err := validate.Var(value, "required"); err != nil {
				return &FieldError{Entity: schema.Name, Field: field.Name, Reason: "is required"}
			}
		}
	}

	return nil
}

// Valid reports whether candidate passes Validate.
func Valid(schema Schema, candidate Record) bool {
	return Validate(schema, candidate) == nil
}

func hasKind(kind Kind, value any) bool {
	switch kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindNumber:
		_, ok := asNumber(value)
		return ok
	case KindArray:
		switch value.(type) {
		case []any, []string:
			return true
		}
	}
	return false
}
