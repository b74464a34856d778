// Package bioportal defines the contracts for BioPortal ontology lookups.
// The implementation under internal/bioportalapi satisfies Client; the branch
// resolver in internal/transform consumes only the narrow ChildLister slice
// of it.
package bioportal

import "context"

// Response is a raw BioPortal JSON payload. Term searches and branch listings
// return a "collection" list of term objects carrying at least prefLabel and
// "@id".
type Response = map[string]any

// Client performs ontology term lookups against BioPortal. Credentials are
// supplied at construction time, never read from ambient state.
type Client interface {
	ChildLister

	// SearchOntology searches for terms across an entire ontology.
	SearchOntology(ctx context.Context, query, ontologyAcronym string) (Response, error)

	// SearchBranch searches for terms within the subtree rooted at branchIRI.
	SearchBranch(ctx context.Context, query, ontologyAcronym, branchIRI string) (Response, error)

	// ClassTree returns the path-to-root tree for a class. The payload is a
	// bare JSON array of root classes, so the result is an untyped value.
	ClassTree(ctx context.Context, classIRI, ontologyAcronym string) (any, error)
}

// ChildLister lists the immediate children of an ontology branch. It is the
// only BioPortal capability the transformation engine depends on.
type ChildLister interface {
	BranchChildren(ctx context.Context, branchIRI, ontologyAcronym string) (Response, error)
}

// Term is a single ontology class as reported in a collection payload.
type Term struct {
	PrefLabel string `json:"prefLabel"`
	ID        string `json:"@id"`
}

// CollectionTerms extracts the (prefLabel, @id) pairs from a collection
// payload. Entries missing either attribute are skipped, not errors.
func CollectionTerms(resp Response) []Term {
	raw, ok := resp["collection"].([]any)
	if !ok {
		return nil
	}
	terms := make([]Term, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		label, _ := obj["prefLabel"].(string)
		id, _ := obj["@id"].(string)
		if label == "" || id == "" {
			continue
		}
		terms = append(terms, Term{PrefLabel: label, ID: id})
	}
	if len(terms) == 0 {
		return nil
	}
	return terms
}
