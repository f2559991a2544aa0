package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldError reports one rejected attribute.
type FieldError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field failures from schema validation.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		keys = append(keys, f.Key)
	}
	return fmt.Sprintf("invalid_attributes: %s", strings.Join(keys, ", "))
}

// ValidateAttributes checks ticket extra data against the category's form
// fields. Values are normalized in place: numbers to float64, booleans to
// bool. Keys without a matching field are rejected so a typo never slips
// past the routing rules unevaluated.
func ValidateAttributes(fields []*CategoryFormField, attrs map[string]any) (map[string]any, error) {
	known := make(map[string]bool, len(fields))
	for _, field := range fields {
		if field != nil {
			known[field.Key] = true
		}
	}

	var verr ValidationError
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if !known[k] {
			verr.Fields = append(verr.Fields, FieldError{Key: k, Message: "unknown attribute"})
			continue
		}
		out[k] = v
	}

	for _, field := range fields {
		if field == nil {
			continue
		}

		raw, present := out[field.Key]
		if !present || isEmptyValue(raw) {
			if field.Required {
				verr.Fields = append(verr.Fields, FieldError{Key: field.Key, Message: "required"})
			}
			continue
		}

		switch field.Type {
		case FieldTypeNumber:
			parsed, ok := toFloat(raw)
			if !ok {
				verr.Fields = append(verr.Fields, FieldError{Key: field.Key, Message: "must be a number"})
				continue
			}
			out[field.Key] = parsed
		case FieldTypeChoice:
			value := fmt.Sprintf("%v", raw)
			if !containsChoice(field.Choices, value) {
				verr.Fields = append(verr.Fields, FieldError{Key: field.Key, Message: "not an allowed choice"})
				continue
			}
			out[field.Key] = value
		case FieldTypeBoolean:
			parsed, ok := toBool(raw)
			if !ok {
				verr.Fields = append(verr.Fields, FieldError{Key: field.Key, Message: "must be a boolean"})
				continue
			}
			out[field.Key] = parsed
		}
	}

	if len(verr.Fields) > 0 {
		return nil, &verr
	}
	return out, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch typed := v.(type) {
	case bool:
		return typed, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return false, false
}

func containsChoice(choices []string, value string) bool {
	for _, choice := range choices {
		if choice == value {
			return true
		}
	}
	return false
}
