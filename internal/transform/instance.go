package transform

import (
	"strconv"
	"strings"

	"github.com/musen-lab/cedar-mcp/pkg/cedar"
)

// rootMetadataKeys are removed from the top level of an instance document
// only; nested objects keep everything except the JSON-LD keys handled by
// transformValue.
var rootMetadataKeys = map[string]struct{}{
	"@context":           {},
	"schema:isBasedOn":   {},
	"schema:name":        {},
	"schema:description": {},
	"pav:createdOn":      {},
	"pav:createdBy":      {},
	"pav:derivedFrom":    {},
	"oslc:modifiedBy":    {},
	"@id":                {},
}

// elementInstanceIDMarker identifies internal instance identifiers that must
// vanish from output instead of surfacing as iri.
const elementInstanceIDMarker = "template-element-instances/"

// Instance converts a raw CEDAR instance document into its simplified form:
// root metadata keys are stripped, @value wrappers are flattened with
// XSD-aware coercion, @id becomes iri, rdfs:label becomes label, and nested
// structures are transformed recursively. The input document is never
// mutated. The result is a mapping except for the degenerate case of a root
// that is itself a bare value wrapper.
func Instance(doc cedar.Document) any {
	cleaned := make(map[string]any, len(doc))
	for key, value := range doc {
		if _, drop := rootMetadataKeys[key]; drop {
			continue
		}
		cleaned[key] = value
	}
	return transformMapping(cleaned)
}

// transformValue dispatches on the node shape: mappings and sequences recurse,
// scalars pass through unchanged.
func transformValue(value any) any {
	switch node := value.(type) {
	case map[string]any:
		return transformMapping(node)
	case []any:
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = transformValue(item)
		}
		return out
	default:
		return value
	}
}

func transformMapping(obj map[string]any) any {
	if flattened, ok := flattenValueObject(obj); ok {
		return flattened
	}

	transformed := make(map[string]any, len(obj))
	_, hasValue := obj["@value"]
	for key, value := range obj {
		if key == "@context" {
			continue
		}
		// Leftover wrapper keys on mappings too irregular to flatten.
		if hasValue && (key == "@value" || key == "@type") {
			continue
		}
		if key == "@id" {
			if id, ok := value.(string); ok && strings.Contains(id, elementInstanceIDMarker) {
				continue
			}
		}
		transformed[renameKey(key)] = transformValue(value)
	}
	return transformed
}

// flattenValueObject collapses {@value} and {@value, @type} wrappers to their
// payload. Mappings carrying additional keys are left for the general path.
func flattenValueObject(obj map[string]any) (any, bool) {
	value, ok := obj["@value"]
	if !ok {
		return nil, false
	}
	switch len(obj) {
	case 1:
		return value, true
	case 2:
		if xsdType, ok := obj["@type"].(string); ok {
			return coerceXSDValue(value, xsdType), true
		}
	}
	return nil, false
}

// coerceXSDValue converts a wrapped value according to its declared XSD type.
// A literal that fails to parse keeps its raw form rather than raising; types
// outside the table pass through as string-equivalents.
func coerceXSDValue(value any, xsdType string) any {
	switch xsdType {
	case "xsd:decimal", "xsd:float", "xsd:double":
		switch v := value.(type) {
		case float64:
			return v
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return parsed
			}
		case bool:
			if v {
				return float64(1)
			}
			return float64(0)
		}
		return value

	case "xsd:int", "xsd:integer", "xsd:long", "xsd:short", "xsd:byte":
		switch v := value.(type) {
		case float64:
			return int64(v)
		case string:
			if parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return parsed
			}
		case bool:
			if v {
				return int64(1)
			}
			return int64(0)
		}
		return value

	case "xsd:boolean":
		switch v := value.(type) {
		case string:
			lower := strings.ToLower(v)
			return lower == "true" || lower == "1"
		case bool:
			return v
		case float64:
			return v != 0
		case nil:
			return false
		}
		return true

	default:
		// xsd:string, dates, and unknown types keep the raw value.
		return value
	}
}

func renameKey(key string) string {
	switch key {
	case "@id":
		return "iri"
	case "rdfs:label":
		return "label"
	default:
		return key
	}
}
