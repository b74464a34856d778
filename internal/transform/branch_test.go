package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/musen-lab/cedar-mcp/pkg/bioportal"
	"github.com/musen-lab/cedar-mcp/pkg/model"
)

type stubChildLister struct {
	responses map[string]bioportal.Response
	err       error
	calls     []string
}

func (s *stubChildLister) BranchChildren(_ context.Context, branchIRI, _ string) (bioportal.Response, error) {
	s.calls = append(s.calls, branchIRI)
	if s.err != nil {
		return nil, s.err
	}
	return s.responses[branchIRI], nil
}

func branchField(branches ...*model.BranchConstraint) *model.Field {
	values := make([]model.Constraint, 0, len(branches))
	for _, b := range branches {
		values = append(values, b)
	}
	return &model.Field{Name: "tissue", Datatype: model.DatatypeString, Values: values}
}

func TestBranchResolverAppendsChildren(t *testing.T) {
	t.Parallel()

	lister := &stubChildLister{responses: map[string]bioportal.Response{
		"http://e/branch": {
			"collection": []any{
				map[string]any{"prefLabel": "Liver", "@id": "http://e/liver"},
				map[string]any{"prefLabel": "Heart", "@id": "http://e/heart"},
				map[string]any{"prefLabel": "No ID"},
			},
		},
	}}

	field := branchField(model.NewBranchConstraint("UBERON", "http://e/branch"))
	tmpl := model.NewSimplifiedTemplate("T", []model.Node{field})

	NewBranchResolver(lister, nil).Resolve(context.Background(), tmpl)

	want := []model.Constraint{
		model.NewBranchConstraint("UBERON", "http://e/branch"),
		model.NewClassConstraint([]model.ClassOption{
			{Label: "Liver", TermIRI: "http://e/liver"},
			{Label: "Heart", TermIRI: "http://e/heart"},
		}),
	}
	if diff := cmp.Diff(want, field.Values); diff != "" {
		t.Fatalf("resolved values mismatch (-want +got):\n%s", diff)
	}
}

func TestBranchResolverDeduplicatesByIRI(t *testing.T) {
	t.Parallel()

	lister := &stubChildLister{responses: map[string]bioportal.Response{
		"http://e/b1": {
			"collection": []any{
				map[string]any{"prefLabel": "Liver", "@id": "http://e/liver"},
			},
		},
		"http://e/b2": {
			"collection": []any{
				map[string]any{"prefLabel": "Liver (dup)", "@id": "http://e/liver"},
				map[string]any{"prefLabel": "Heart", "@id": "http://e/heart"},
			},
		},
	}}

	field := branchField(
		model.NewBranchConstraint("UBERON", "http://e/b1"),
		model.NewBranchConstraint("UBERON", "http://e/b2"),
	)
	tmpl := model.NewSimplifiedTemplate("T", []model.Node{field})

	NewBranchResolver(lister, nil).Resolve(context.Background(), tmpl)

	last := field.Values[len(field.Values)-1]
	class, ok := last.(*model.ClassConstraint)
	if !ok {
		t.Fatalf("expected trailing class constraint, got %T", last)
	}
	want := []model.ClassOption{
		{Label: "Liver", TermIRI: "http://e/liver"},
		{Label: "Heart", TermIRI: "http://e/heart"},
	}
	if diff := cmp.Diff(want, class.Options); diff != "" {
		t.Fatalf("deduplicated options mismatch (-want +got):\n%s", diff)
	}
}

func TestBranchResolverSkipsFailures(t *testing.T) {
	t.Parallel()

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()
		lister := &stubChildLister{err: errors.New("boom")}
		field := branchField(model.NewBranchConstraint("UBERON", "http://e/branch"))
		tmpl := model.NewSimplifiedTemplate("T", []model.Node{field})

		NewBranchResolver(lister, nil).Resolve(context.Background(), tmpl)

		if len(field.Values) != 1 {
			t.Fatalf("failed lookup must not change values, got %d constraints", len(field.Values))
		}
	})

	t.Run("error payload", func(t *testing.T) {
		t.Parallel()
		lister := &stubChildLister{responses: map[string]bioportal.Response{
			"http://e/branch": {"error": "denied"},
		}}
		field := branchField(model.NewBranchConstraint("UBERON", "http://e/branch"))
		tmpl := model.NewSimplifiedTemplate("T", []model.Node{field})

		NewBranchResolver(lister, nil).Resolve(context.Background(), tmpl)

		if len(field.Values) != 1 {
			t.Fatalf("error payload must not change values, got %d constraints", len(field.Values))
		}
	})

	t.Run("nil lister leaves template alone", func(t *testing.T) {
		t.Parallel()
		field := branchField(model.NewBranchConstraint("UBERON", "http://e/branch"))
		tmpl := model.NewSimplifiedTemplate("T", []model.Node{field})

		NewBranchResolver(nil, nil).Resolve(context.Background(), tmpl)

		if len(field.Values) != 1 {
			t.Fatalf("nil lister must not change values, got %d constraints", len(field.Values))
		}
	})
}

func TestBranchResolverRecursesIntoElements(t *testing.T) {
	t.Parallel()

	lister := &stubChildLister{responses: map[string]bioportal.Response{
		"http://e/branch": {
			"collection": []any{
				map[string]any{"prefLabel": "Liver", "@id": "http://e/liver"},
			},
		},
	}}

	field := branchField(model.NewBranchConstraint("UBERON", "http://e/branch"))
	tmpl := model.NewSimplifiedTemplate("T", []model.Node{
		&model.Element{
			Name:     "outer",
			Datatype: model.DatatypeElement,
			Children: []model.Node{field},
		},
	})

	NewBranchResolver(lister, nil).Resolve(context.Background(), tmpl)

	if len(field.Values) != 2 {
		t.Fatalf("expected nested field resolved, got %d constraints", len(field.Values))
	}
	if len(lister.calls) != 1 || lister.calls[0] != "http://e/branch" {
		t.Fatalf("unexpected lookup calls: %v", lister.calls)
	}
}
