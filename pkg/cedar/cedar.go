// Package cedar defines the contracts for talking to the CEDAR metadata
// repository. Implementations live under internal/cedarapi but satisfy the
// Client interface declared here, keeping the public API decoupled from the
// HTTP layer.
package cedar

import (
	"context"
	"strings"
)

// Type tags CEDAR assigns to template properties. Classification of raw
// properties into fields and elements keys off these values.
const (
	TypeTemplateField   = "https://schema.metadatacenter.org/core/TemplateField"
	TypeTemplateElement = "https://schema.metadatacenter.org/core/TemplateElement"
)

// RepoTemplateBase prefixes bare template identifiers when the repository
// expects a fully qualified URL.
const RepoTemplateBase = "https://repo.metadatacenter.org/templates/"

// Document is a raw CEDAR JSON-LD payload decoded into generic Go values.
// The transformation engine consumes documents as-is and never mutates them.
type Document = map[string]any

// Pagination describes the slice of a search result a response covers.
type Pagination struct {
	TotalCount    int  `json:"total_count"`
	Limit         int  `json:"limit"`
	Offset        int  `json:"offset"`
	ReturnedCount int  `json:"returned_count"`
	HasMore       bool `json:"has_more"`
	NextOffset    *int `json:"next_offset,omitempty"`
}

// SearchResult is one page of instance identifiers for a template.
type SearchResult struct {
	InstanceIDs []string   `json:"instance_ids"`
	Pagination  Pagination `json:"pagination"`
}

// Client fetches raw documents from the CEDAR repository. Every method takes
// a context so callers control timeouts and cancellation; credentials are
// supplied at construction time, never read from ambient state.
type Client interface {
	// GetTemplate fetches a template document by ID or full repository URL.
	GetTemplate(ctx context.Context, templateID string) (Document, error)

	// GetInstance fetches a filled-in template instance by its full URL.
	GetInstance(ctx context.Context, instanceID string) (Document, error)

	// SearchInstanceIDs returns one page of instance IDs based on a template.
	SearchInstanceIDs(ctx context.Context, templateID string, limit, offset int) (SearchResult, error)
}

// TemplateURL expands a bare template identifier into the full repository
// URL. Identifiers that already carry a scheme pass through unchanged.
func TemplateURL(templateID string) string {
	if strings.HasPrefix(templateID, "https://") || strings.HasPrefix(templateID, "http://") {
		return templateID
	}
	return RepoTemplateBase + templateID
}
