package model

// ConstraintKind discriminates the closed set of value-constraint variants.
type ConstraintKind string

const (
	ConstraintKindLiteral  ConstraintKind = "literal"
	ConstraintKindOntology ConstraintKind = "ontology"
	ConstraintKindClass    ConstraintKind = "class"
	ConstraintKindBranch   ConstraintKind = "branch"
)

// Constraint is the closed union of permissible-value constraints attached to
// a controlled-term field. The four implementations below are exhaustive.
type Constraint interface {
	Kind() ConstraintKind

	isConstraint()
}

// LiteralConstraint enumerates label-only options with no identifier.
type LiteralConstraint struct {
	Type    ConstraintKind `json:"type" yaml:"type"`
	Options []string       `json:"options" yaml:"options"`
}

// NewLiteralConstraint builds a literal constraint with its type tag set.
func NewLiteralConstraint(options []string) *LiteralConstraint {
	return &LiteralConstraint{Type: ConstraintKindLiteral, Options: options}
}

func (c *LiteralConstraint) Kind() ConstraintKind { return ConstraintKindLiteral }
func (c *LiteralConstraint) isConstraint()        {}

// OntologyConstraint restricts values to terms from one or more ontologies.
type OntologyConstraint struct {
	Type             ConstraintKind `json:"type" yaml:"type"`
	OntologyAcronyms []string       `json:"ontology_acronyms" yaml:"ontology_acronyms"`
}

// NewOntologyConstraint builds an ontology constraint with its type tag set.
func NewOntologyConstraint(acronyms []string) *OntologyConstraint {
	return &OntologyConstraint{Type: ConstraintKindOntology, OntologyAcronyms: acronyms}
}

func (c *OntologyConstraint) Kind() ConstraintKind { return ConstraintKindOntology }
func (c *OntologyConstraint) isConstraint()        {}

// ClassOption pairs a human-readable label with the term identifier.
type ClassOption struct {
	Label   string `json:"label" yaml:"label"`
	TermIRI string `json:"term_iri" yaml:"term_iri"`
}

// ClassConstraint enumerates specific identified class options.
type ClassConstraint struct {
	Type    ConstraintKind `json:"type" yaml:"type"`
	Options []ClassOption  `json:"options" yaml:"options"`
}

// NewClassConstraint builds a class constraint with its type tag set.
func NewClassConstraint(options []ClassOption) *ClassConstraint {
	return &ClassConstraint{Type: ConstraintKindClass, Options: options}
}

func (c *ClassConstraint) Kind() ConstraintKind { return ConstraintKindClass }
func (c *ClassConstraint) isConstraint()        {}

// BranchConstraint restricts values to the subtree of an ontology rooted at
// BranchIRI.
type BranchConstraint struct {
	Type            ConstraintKind `json:"type" yaml:"type"`
	OntologyAcronym string         `json:"ontology_acronym" yaml:"ontology_acronym"`
	BranchIRI       string         `json:"branch_iri" yaml:"branch_iri"`
}

// NewBranchConstraint builds a branch constraint with its type tag set.
func NewBranchConstraint(acronym, branchIRI string) *BranchConstraint {
	return &BranchConstraint{Type: ConstraintKindBranch, OntologyAcronym: acronym, BranchIRI: branchIRI}
}

func (c *BranchConstraint) Kind() ConstraintKind { return ConstraintKindBranch }
func (c *BranchConstraint) isConstraint()        {}

var (
	_ Constraint = (*LiteralConstraint)(nil)
	_ Constraint = (*OntologyConstraint)(nil)
	_ Constraint = (*ClassConstraint)(nil)
	_ Constraint = (*BranchConstraint)(nil)
)
