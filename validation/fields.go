package validation

import (
	"strings"

	"sup-api/errors"
)

// Kind restricts the JSON types a field may carry. Only strings are needed by
// the current endpoints, but the check is kept explicit so a wrong type and a
// missing field report different messages.
type Kind int

const (
	String Kind = iota
)

// Field declares one rule of an endpoint's payload contract. Rules are
// evaluated in declaration order and the first violation wins.
type Field struct {
	Name     string
	Required bool
	Kind     Kind
	// TrimNonEmpty rejects values that are empty once surrounding
	// whitespace is removed.
	TrimNonEmpty bool
}

// Check evaluates the payload against the declared fields and returns the
// first failing rule, or nil. It never mutates the payload.
func Check(payload map[string]any, fields []Field) error {
	for _, f := range fields {
		raw, present := payload[f.Name]
		if !present || raw == nil {
			if f.Required {
				return errors.NewValidation("Missing field", f.Name)
			}
			continue
		}
		switch f.Kind {
		case String:
			s, ok := raw.(string)
			if !ok {
				return errors.NewValidation("Incorrect field type", f.Name)
			}
			if f.TrimNonEmpty && strings.TrimSpace(s) == "" {
				return errors.NewValidation("Incorrect field length", f.Name)
			}
		}
	}
	return nil
}

// Text returns the string value of a field. Callers run Check first, so the
// type assertion cannot fail for declared string fields.
func Text(payload map[string]any, name string) string {
	s, _ := payload[name].(string)
	return s
}

// TrimmedText returns the field value with surrounding whitespace removed,
// matching the post-processing applied to username fields.
func TrimmedText(payload map[string]any, name string) string {
	return strings.TrimSpace(Text(payload, name))
}
