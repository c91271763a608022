package tool

import "fmt"

// ArgumentError reports a tool argument that failed schema validation.
type ArgumentError struct {
	Tool    string
	Field   string
	Value   any
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("tool %s: argument %q: %s", e.Tool, e.Field, e.Message)
}

// validateArguments checks args against a minimal JSON-Schema-like map:
// every name in "required" must be present, and every present argument with
// a declared property must match its primitive type. Arguments without a
// declared property pass through untouched.
func validateArguments(toolName string, args map[string]any, schema map[string]any) error {
	required, _ := schema["required"].([]string)
	if required == nil {
		// A schema decoded from JSON carries []any.
		if raw, ok := schema["required"].([]any); ok {
			for _, r := range raw {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
		}
	}
	for _, name := range required {
		if _, exists := args[name]; !exists {
			return &ArgumentError{
				Tool:    toolName,
				Field:   name,
				Message: "required argument is missing",
			}
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	for name, value := range args {
		prop, ok := properties[name].(map[string]any)
		if !ok {
			continue
		}
		expected, _ := prop["type"].(string)
		if !matchesType(value, expected) {
			return &ArgumentError{
				Tool:    toolName,
				Field:   name,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", expected, value),
			}
		}
	}

	return nil
}

// matchesType checks a value against a primitive JSON schema type.
// JSON decoding produces float64 for all numbers, so integer accepts a
// float64 with no fractional part. A JSON null never satisfies a declared
// primitive type; tool functions assert on the declared types and must not
// see nil for a typed argument.
func matchesType(value any, expected string) bool {
	switch expected {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int32, int64, float32, float64:
			return true
		}
		return false
	default:
		return true
	}
}
