package transform

import (
	"context"

	"go.uber.org/zap"

	"github.com/musen-lab/cedar-mcp/pkg/bioportal"
	"github.com/musen-lab/cedar-mcp/pkg/model"
)

// BranchResolver folds the children of branch-constrained fields into their
// value sets by querying BioPortal. Resolution is best-effort: a failed
// lookup or an error payload leaves the branch untouched and the
// transformation succeeds without the extra values.
type BranchResolver struct {
	children bioportal.ChildLister
	log      *zap.Logger
}

// NewBranchResolver builds a resolver around a branch-children lister. A nil
// lister yields a resolver that leaves templates unchanged, which is how a
// missing BioPortal credential is represented.
func NewBranchResolver(children bioportal.ChildLister, log *zap.Logger) *BranchResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &BranchResolver{children: children, log: log}
}

// Resolve walks the simplified template and, for every field carrying branch
// constraints, appends one class constraint holding the branches' children as
// (label, iri) options, de-duplicated by IRI across the field's branches.
func (r *BranchResolver) Resolve(ctx context.Context, tmpl *model.SimplifiedTemplate) {
	if r == nil || r.children == nil || tmpl == nil {
		return
	}
	for _, child := range tmpl.Children {
		r.resolveNode(ctx, child)
	}
}

func (r *BranchResolver) resolveNode(ctx context.Context, node model.Node) {
	switch n := node.(type) {
	case *model.Field:
		r.resolveField(ctx, n)
	case *model.Element:
		for _, child := range n.Children {
			r.resolveNode(ctx, child)
		}
	}
}

func (r *BranchResolver) resolveField(ctx context.Context, field *model.Field) {
	var options []model.ClassOption
	seen := make(map[string]struct{})

	for _, constraint := range field.Values {
		branch, ok := constraint.(*model.BranchConstraint)
		if !ok {
			continue
		}

		resp, err := r.children.BranchChildren(ctx, branch.BranchIRI, branch.OntologyAcronym)
		if err != nil {
			r.log.Debug("branch children lookup failed",
				zap.String("branch_iri", branch.BranchIRI),
				zap.String("ontology", branch.OntologyAcronym),
				zap.Error(err))
			continue
		}
		if _, failed := resp["error"]; failed {
			continue
		}

		for _, term := range bioportal.CollectionTerms(resp) {
			if _, dup := seen[term.ID]; dup {
				continue
			}
			seen[term.ID] = struct{}{}
			options = append(options, model.ClassOption{Label: term.PrefLabel, TermIRI: term.ID})
		}
	}

	if len(options) > 0 {
		field.Values = append(field.Values, model.NewClassConstraint(options))
	}
}
