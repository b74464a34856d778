package transform

import (
	"github.com/musen-lab/cedar-mcp/pkg/cedar"
	"github.com/musen-lab/cedar-mcp/pkg/model"
)

// buildNode classifies one raw property and builds the matching node variant.
// An array-wrapped property is unwrapped to its items payload for attribute
// extraction while the node keeps the is_array marker. Properties tagged
// neither field nor element (directly or through their items) report ok=false
// and are excluded from output.
func buildNode(key string, raw map[string]any) (model.Node, bool) {
	payload := raw
	isArray := false
	if rawString(raw, "type") == "array" {
		items := rawMap(raw, "items")
		if items == nil {
			return nil, false
		}
		payload = items
		isArray = true
	}

	switch rawString(payload, "@type") {
	case cedar.TypeTemplateField:
		return buildField(key, payload, isArray), true
	case cedar.TypeTemplateElement:
		return buildElement(key, payload, isArray), true
	default:
		return nil, false
	}
}

// buildField assembles a leaf field from its unwrapped payload.
func buildField(key string, payload map[string]any, isArray bool) *model.Field {
	name := rawStringOr(payload, "schema:name", key)
	constraints := rawMap(payload, "_valueConstraints")

	return &model.Field{
		Name:        name,
		Description: rawStringOr(payload, "schema:description", ""),
		Label:       rawStringOr(payload, "skos:prefLabel", name),
		Datatype:    inferDatatype(payload),
		Required:    rawBool(constraints, "requiredValue"),
		IsArray:     isArray,
		Pattern:     rawString(constraints, "regex"),
		Default:     extractDefault(payload),
		Values:      extractConstraints(payload),
	}
}

// buildElement assembles a composite element from its unwrapped payload,
// recursing through the element's own declared child order.
func buildElement(key string, payload map[string]any, isArray bool) *model.Element {
	name := rawStringOr(payload, "schema:name", key)
	constraints := rawMap(payload, "_valueConstraints")

	return &model.Element{
		Name:        name,
		Description: rawStringOr(payload, "schema:description", ""),
		Label:       rawStringOr(payload, "skos:prefLabel", name),
		Datatype:    model.DatatypeElement,
		Required:    rawBool(constraints, "requiredValue"),
		IsArray:     isArray,
		Children:    childrenInOrder(payload),
	}
}

// childrenInOrder walks a container's _ui.order list and builds a node for
// every name it can classify out of the properties map. The order list is
// authoritative: properties it does not mention are dropped, and the output
// preserves its sequence exactly.
func childrenInOrder(container map[string]any) []model.Node {
	order := rawSlice(rawMap(container, "_ui"), "order")
	properties := rawMap(container, "properties")

	children := make([]model.Node, 0, len(order))
	for _, entry := range order {
		childName, ok := entry.(string)
		if !ok {
			continue
		}
		childData, ok := properties[childName].(map[string]any)
		if !ok {
			continue
		}
		if node, ok := buildNode(childName, childData); ok {
			children = append(children, node)
		}
	}
	return children
}
