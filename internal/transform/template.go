package transform

import (
	"strings"

	"github.com/musen-lab/cedar-mcp/pkg/cedar"
	"github.com/musen-lab/cedar-mcp/pkg/model"
)

const unnamedTemplate = "Unnamed Template"

// Template converts a raw CEDAR template document into the simplified tree.
// Children follow the document's declared UI order; properties absent from
// that order are excluded. The call never fails: missing attributes fall back
// to defaults per the tolerances documented on the node builders.
func Template(doc cedar.Document) *model.SimplifiedTemplate {
	return model.NewSimplifiedTemplate(templateName(doc), childrenInOrder(doc))
}

// templateName resolves the template's display name. schema:name wins when
// non-empty for correct casing; otherwise the document title is used with its
// boilerplate suffix stripped; an empty result falls back to a fixed
// placeholder.
func templateName(doc cedar.Document) string {
	if name := rawString(doc, "schema:name"); name != "" {
		return name
	}

	title := rawString(doc, "title")
	title = strings.ReplaceAll(title, " template schema", "")
	title = strings.ReplaceAll(title, "template schema", "")
	title = strings.TrimSpace(title)
	if title != "" {
		return title
	}

	return unnamedTemplate
}
