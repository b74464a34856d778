// Package mcpserver exposes the CEDAR template and BioPortal lookup
// operations as Model Context Protocol tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/musen-lab/cedar-mcp/internal/cache"
	"github.com/musen-lab/cedar-mcp/internal/transform"
	"github.com/musen-lab/cedar-mcp/pkg/bioportal"
	"github.com/musen-lab/cedar-mcp/pkg/cedar"
)

const serverName = "cedar-mcp"

// Instance page bounds for get_instances_based_on_template.
const (
	defaultInstanceLimit = 10
	maxInstanceLimit     = 100
)

// Options wires the server to its collaborators. CedarClient is required for
// the template tools; Bioportal is required for the term lookup tools and for
// branch resolution. Cache may be nil to disable lookup caching.
type Options struct {
	CedarClient cedar.Client
	Bioportal   bioportal.Client
	Cache       *cache.Store
	Log         *zap.Logger
	Version     string
}

// Server hosts the MCP tool handlers.
type Server struct {
	cedar     cedar.Client
	bioportal bioportal.Client
	cache     *cache.Store
	resolver  *transform.BranchResolver
	log       *zap.Logger
	mcp       *server.MCPServer
}

// New builds the server and registers every tool.
func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		cedar:     opts.CedarClient,
		bioportal: opts.Bioportal,
		cache:     opts.Cache,
		log:       log,
	}
	if opts.Bioportal != nil {
		s.resolver = transform.NewBranchResolver(opts.Bioportal, log)
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	s.mcp = server.NewMCPServer(serverName, version, server.WithToolCapabilities(false))
	s.registerTools()
	return s
}

// Serve runs the MCP server over stdio until the client disconnects.
func (s *Server) Serve() error {
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("mcpserver: serve stdio: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("get_template",
		mcp.WithDescription("Fetch a CEDAR template and return its simplified field model."),
		mcp.WithString("template_id", mcp.Required(),
			mcp.Description("Template identifier or full repository URL.")),
		mcp.WithBoolean("resolve_branches",
			mcp.Description("Expand ontology branch constraints into explicit term lists (default true).")),
		mcp.WithString("format",
			mcp.Description("Output format: json (default) or yaml.")),
	), s.handleGetTemplate)

	s.mcp.AddTool(mcp.NewTool("get_instances_based_on_template",
		mcp.WithDescription("Fetch a page of simplified metadata instances based on a template."),
		mcp.WithString("template_id", mcp.Required(),
			mcp.Description("Template identifier or full repository URL.")),
		mcp.WithNumber("limit",
			mcp.Description("Page size, 1 to 100 (default 10).")),
		mcp.WithNumber("offset",
			mcp.Description("Zero-based offset into the result set (default 0).")),
	), s.handleGetInstances)

	s.mcp.AddTool(mcp.NewTool("term_search_from_ontology",
		mcp.WithDescription("Search an entire BioPortal ontology for matching terms."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text.")),
		mcp.WithString("ontology_acronym", mcp.Required(),
			mcp.Description("BioPortal ontology acronym, e.g. UBERON.")),
	), s.handleTermSearchFromOntology)

	s.mcp.AddTool(mcp.NewTool("term_search_from_branch",
		mcp.WithDescription("Search for terms within an ontology branch subtree."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text.")),
		mcp.WithString("ontology_acronym", mcp.Required(),
			mcp.Description("BioPortal ontology acronym.")),
		mcp.WithString("branch_iri", mcp.Required(),
			mcp.Description("IRI of the branch root class.")),
	), s.handleTermSearchFromBranch)

	s.mcp.AddTool(mcp.NewTool("get_branch_children",
		mcp.WithDescription("List the immediate children of an ontology branch."),
		mcp.WithString("branch_iri", mcp.Required(),
			mcp.Description("IRI of the branch root class.")),
		mcp.WithString("ontology_acronym", mcp.Required(),
			mcp.Description("BioPortal ontology acronym.")),
	), s.handleGetBranchChildren)

	s.mcp.AddTool(mcp.NewTool("get_class_tree",
		mcp.WithDescription("Return the path-to-root tree for an ontology class."),
		mcp.WithString("class_iri", mcp.Required(),
			mcp.Description("IRI of the class.")),
		mcp.WithString("ontology_acronym", mcp.Required(),
			mcp.Description("BioPortal ontology acronym.")),
	), s.handleGetClassTree)
}

func (s *Server) handleGetTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := req.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := req.GetString("format", "json")
	if format != "json" && format != "yaml" {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q: use json or yaml", format)), nil
	}

	doc, err := s.cedar.GetTemplate(ctx, templateID)
	if err != nil {
		s.log.Warn("template fetch failed", zap.String("template_id", templateID), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	tmpl := transform.Template(doc)
	if req.GetBool("resolve_branches", true) && s.resolver != nil {
		s.resolver.Resolve(ctx, tmpl)
	}

	var out []byte
	if format == "yaml" {
		out, err = tmpl.MarshalYAMLDocument()
	} else {
		out, err = tmpl.MarshalJSONIndent()
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// instanceError records one instance that could not be fetched or
// transformed. A bad instance never fails the whole page.
type instanceError struct {
	InstanceID string `json:"instance_id"`
	Error      string `json:"error"`
}

func (s *Server) handleGetInstances(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := req.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", defaultInstanceLimit)
	offset := req.GetInt("offset", 0)

	// Parameter validation happens before any upstream call.
	if limit < 1 || limit > maxInstanceLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d, got %d", maxInstanceLimit, limit)), nil
	}
	if offset < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("offset must not be negative, got %d", offset)), nil
	}

	result, err := s.cedar.SearchInstanceIDs(ctx, templateID, limit, offset)
	if err != nil {
		s.log.Warn("instance search failed", zap.String("template_id", templateID), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	instances := make([]any, 0, len(result.InstanceIDs))
	var failures []instanceError
	for _, id := range result.InstanceIDs {
		doc, err := s.cedar.GetInstance(ctx, id)
		if err != nil {
			s.log.Warn("instance fetch failed", zap.String("instance_id", id), zap.Error(err))
			failures = append(failures, instanceError{InstanceID: id, Error: err.Error()})
			continue
		}
		instances = append(instances, transform.Instance(doc))
	}

	payload := map[string]any{
		"instances":  instances,
		"pagination": result.Pagination,
	}
	if len(failures) > 0 {
		payload["errors"] = failures
	}
	return jsonResult(payload)
}

func (s *Server) handleTermSearchFromOntology(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	acronym, err := req.RequireString("ontology_acronym")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := map[string]string{"query": query, "ontology_acronym": acronym}
	return s.cachedLookup(ctx, "term_search_from_ontology", params, func() (map[string]any, error) {
		resp, err := s.bioportal.SearchOntology(ctx, query, acronym)
		if err != nil {
			return nil, err
		}
		return termsPayload(resp), nil
	})
}

func (s *Server) handleTermSearchFromBranch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	acronym, err := req.RequireString("ontology_acronym")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	branchIRI, err := req.RequireString("branch_iri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := map[string]string{"query": query, "ontology_acronym": acronym, "branch_iri": branchIRI}
	return s.cachedLookup(ctx, "term_search_from_branch", params, func() (map[string]any, error) {
		resp, err := s.bioportal.SearchBranch(ctx, query, acronym, branchIRI)
		if err != nil {
			return nil, err
		}
		return termsPayload(resp), nil
	})
}

func (s *Server) handleGetBranchChildren(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	branchIRI, err := req.RequireString("branch_iri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	acronym, err := req.RequireString("ontology_acronym")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := map[string]string{"branch_iri": branchIRI, "ontology_acronym": acronym}
	return s.cachedLookup(ctx, "get_branch_children", params, func() (map[string]any, error) {
		resp, err := s.bioportal.BranchChildren(ctx, branchIRI, acronym)
		if err != nil {
			return nil, err
		}
		return termsPayload(resp), nil
	})
}

func (s *Server) handleGetClassTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	classIRI, err := req.RequireString("class_iri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	acronym, err := req.RequireString("ontology_acronym")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := map[string]string{"class_iri": classIRI, "ontology_acronym": acronym}
	return s.cachedLookup(ctx, "get_class_tree", params, func() (map[string]any, error) {
		tree, err := s.bioportal.ClassTree(ctx, classIRI, acronym)
		if err != nil {
			return nil, err
		}
		return map[string]any{"tree": tree}, nil
	})
}

// cachedLookup serves a BioPortal lookup through the cache. Only successful
// payloads are stored; lookup errors come back as tool errors and leave the
// cache untouched.
func (s *Server) cachedLookup(ctx context.Context, op string, params map[string]string, fetch func() (map[string]any, error)) (*mcp.CallToolResult, error) {
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, op, params); ok {
			return jsonResult(payload)
		}
	}

	payload, err := fetch()
	if err != nil {
		s.log.Warn("lookup failed", zap.String("op", op), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, op, params, payload); err != nil {
			s.log.Warn("cache write failed", zap.String("op", op), zap.Error(err))
		}
	}
	return jsonResult(payload)
}

// termsPayload reduces a raw collection response to label/iri pairs.
func termsPayload(resp bioportal.Response) map[string]any {
	terms := bioportal.CollectionTerms(resp)
	entries := make([]any, 0, len(terms))
	for _, term := range terms {
		entries = append(entries, map[string]any{
			"label": term.PrefLabel,
			"iri":   term.ID,
		})
	}
	return map[string]any{
		"terms": entries,
		"count": len(entries),
	}
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
