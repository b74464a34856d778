package model

// Datatype is the simplified enum for template-friendly field kinds.
type Datatype string

const (
	DatatypeString  Datatype = "string"
	DatatypeInteger Datatype = "integer"
	DatatypeDecimal Datatype = "decimal"
	DatatypeBoolean Datatype = "boolean"

	// DatatypeElement is reserved for Element nodes; a Field never carries it.
	DatatypeElement Datatype = "element"
)

// Node is the closed union of template children. The only implementations are
// Field and Element; consumers switch exhaustively over the two.
type Node interface {
	// NodeName returns the node's name as it appears in the simplified output.
	NodeName() string

	isNode()
}

// Field is a leaf input in the simplified template. It never has children.
type Field struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Label       string       `json:"label" yaml:"label"`
	Datatype    Datatype     `json:"datatype" yaml:"datatype"`
	Required    bool         `json:"required" yaml:"required"`
	IsArray     bool         `json:"is_array" yaml:"is_array"`
	Pattern     string       `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Default     any          `json:"default,omitempty" yaml:"default,omitempty"`
	Values      []Constraint `json:"values,omitempty" yaml:"values,omitempty"`
}

func (f *Field) NodeName() string { return f.Name }
func (f *Field) isNode()          {}

// Element is a composite node grouping nested fields and elements. Its
// datatype is always the literal "element".
type Element struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Label       string   `json:"label" yaml:"label"`
	Datatype    Datatype `json:"datatype" yaml:"datatype"`
	Required    bool     `json:"required" yaml:"required"`
	IsArray     bool     `json:"is_array" yaml:"is_array"`
	Children    []Node   `json:"children" yaml:"children"`
}

func (e *Element) NodeName() string { return e.Name }
func (e *Element) isNode()          {}

var (
	_ Node = (*Field)(nil)
	_ Node = (*Element)(nil)
)

// TermDefault is a structured default for controlled-term fields.
type TermDefault struct {
	Label string `json:"label" yaml:"label"`
	IRI   string `json:"iri" yaml:"iri"`
}

// SimplifiedTemplate is the rooted tree produced from a raw CEDAR template.
// Name is never empty; the transformer falls back to a fixed placeholder.
type SimplifiedTemplate struct {
	Type     string `json:"type" yaml:"type"`
	Name     string `json:"name" yaml:"name"`
	Children []Node `json:"children" yaml:"children"`
}

// NewSimplifiedTemplate constructs the root node with its fixed type tag.
func NewSimplifiedTemplate(name string, children []Node) *SimplifiedTemplate {
	return &SimplifiedTemplate{Type: "template", Name: name, Children: children}
}
