package transform

import "github.com/musen-lab/cedar-mcp/pkg/model"

// inferDatatype maps a field's JSON-Schema style type hint, found under
// properties.@value.type, to a simplified datatype. The hint may be a single
// string or a list of strings; absence of a hint means string, not an error.
func inferDatatype(field map[string]any) model.Datatype {
	valueProps := rawMap(rawMap(field, "properties"), "@value")
	if valueProps == nil {
		return model.DatatypeString
	}

	switch hint := valueProps["type"].(type) {
	case string:
		if dt, ok := datatypeForHint(hint); ok {
			return dt
		}
	case []any:
		for _, candidate := range []string{"number", "integer", "boolean"} {
			if containsString(hint, candidate) {
				dt, _ := datatypeForHint(candidate)
				return dt
			}
		}
	}

	// Text, controlled terms, and links all simplify to string.
	return model.DatatypeString
}

func datatypeForHint(hint string) (model.Datatype, bool) {
	switch hint {
	case "number":
		return model.DatatypeDecimal, true
	case "integer":
		return model.DatatypeInteger, true
	case "boolean":
		return model.DatatypeBoolean, true
	default:
		return model.DatatypeString, false
	}
}

func containsString(values []any, want string) bool {
	for _, value := range values {
		if str, ok := value.(string); ok && str == want {
			return true
		}
	}
	return false
}
