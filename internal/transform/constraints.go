package transform

import "github.com/musen-lab/cedar-mcp/pkg/model"

// extractConstraints reads a field's _valueConstraints block and classifies
// it into typed constraint objects: one literal constraint covering all label
// options, one ontology constraint per acronym source, one class constraint
// covering all identified options, and one branch constraint per branch
// entry. Entries missing a required attribute contribute nothing. The result
// is nil when no source produced output, never an empty slice.
func extractConstraints(field map[string]any) []model.Constraint {
	constraints := rawMap(field, "_valueConstraints")
	if constraints == nil {
		return nil
	}

	var result []model.Constraint

	if options := literalOptions(rawSlice(constraints, "literals")); len(options) > 0 {
		result = append(result, model.NewLiteralConstraint(options))
	}

	if acronyms := entryStrings(rawSlice(constraints, "ontologies"), "acronym"); len(acronyms) > 0 {
		result = append(result, model.NewOntologyConstraint(acronyms))
	}

	// Value sets fold into an ontology constraint, reusing each set's name
	// as an acronym.
	if acronyms := entryStrings(rawSlice(constraints, "valueSets"), "name"); len(acronyms) > 0 {
		result = append(result, model.NewOntologyConstraint(acronyms))
	}

	if options := classOptions(rawSlice(constraints, "classes")); len(options) > 0 {
		result = append(result, model.NewClassConstraint(options))
	}

	for _, entry := range rawSlice(constraints, "branches") {
		branch, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		acronym, hasAcronym := branch["acronym"].(string)
		uri, hasURI := branch["uri"].(string)
		if !hasAcronym || !hasURI {
			continue
		}
		result = append(result, model.NewBranchConstraint(acronym, uri))
	}

	return result
}

// extractDefault resolves a field's default value: a structured
// {rdfs:label, termUri} pair wins, then a bare scalar, then the first branch
// with both name and uri, else nil.
func extractDefault(field map[string]any) any {
	constraints := rawMap(field, "_valueConstraints")
	if constraints == nil {
		return nil
	}

	switch value := constraints["defaultValue"].(type) {
	case map[string]any:
		label, hasLabel := value["rdfs:label"].(string)
		iri, hasIRI := value["termUri"].(string)
		if hasLabel && hasIRI {
			return &model.TermDefault{Label: label, IRI: iri}
		}
	case nil:
	default:
		return value
	}

	for _, entry := range rawSlice(constraints, "branches") {
		branch, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, hasName := branch["name"].(string)
		uri, hasURI := branch["uri"].(string)
		if !hasName || !hasURI {
			continue
		}
		return &model.TermDefault{Label: name, IRI: uri}
	}

	return nil
}

func literalOptions(entries []any) []string {
	var options []string
	for _, entry := range entries {
		literal, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if label, ok := literal["label"].(string); ok {
			options = append(options, label)
		}
	}
	return options
}

func entryStrings(entries []any, key string) []string {
	var values []string
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if value, ok := obj[key].(string); ok {
			values = append(values, value)
		}
	}
	return values
}

func classOptions(entries []any) []model.ClassOption {
	var options []model.ClassOption
	for _, entry := range entries {
		class, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		label, hasLabel := class["prefLabel"].(string)
		iri, hasIRI := class["@id"].(string)
		if !hasLabel || !hasIRI {
			continue
		}
		options = append(options, model.ClassOption{Label: label, TermIRI: iri})
	}
	return options
}
