package bioportalapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musen-lab/cedar-mcp/internal/httpx"
	"github.com/musen-lab/cedar-mcp/pkg/bioportal"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("bp-key",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRetryOptions(httpx.RetryOptions{MaxRetries: 0}),
	)
}

func TestBranchChildrenRequestShape(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"collection": [{"prefLabel": "Liver", "@id": "http://purl.obolibrary.org/obo/UBERON_0002107"}]}`))
	}))

	resp, err := client.BranchChildren(context.Background(), "http://purl.obolibrary.org/obo/UBERON_0000062", "UBERON")
	require.NoError(t, err)

	assert.Equal(t, "/ontologies/UBERON/classes/http:%2F%2Fpurl.obolibrary.org%2Fobo%2FUBERON_0000062/children", gotPath)
	assert.Equal(t, "apiKey token=bp-key", gotAuth)
	assert.Equal(t, []string{"999"}, gotQuery["pagesize"])
	assert.Equal(t, []string{"prefLabel"}, gotQuery["include"])
	assert.Equal(t, []string{"false"}, gotQuery["display_context"])
	assert.Equal(t, []string{"false"}, gotQuery["display_links"])
	assert.Equal(t, []string{"false"}, gotQuery["include_views"])

	terms := bioportal.CollectionTerms(resp)
	require.Len(t, terms, 1)
	assert.Equal(t, "Liver", terms[0].PrefLabel)
}

func TestSearchOntologyParams(t *testing.T) {
	t.Parallel()

	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"collection": []}`))
	}))

	_, err := client.SearchOntology(context.Background(), "liver", "UBERON")
	require.NoError(t, err)

	assert.Equal(t, []string{"liver"}, gotQuery["q"])
	assert.Equal(t, []string{"UBERON"}, gotQuery["ontologies"])
}

func TestSearchBranchParams(t *testing.T) {
	t.Parallel()

	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"collection": []}`))
	}))

	_, err := client.SearchBranch(context.Background(), "lobe", "UBERON", "http://purl.obolibrary.org/obo/UBERON_0002107")
	require.NoError(t, err)

	assert.Equal(t, []string{"lobe"}, gotQuery["q"])
	assert.Equal(t, []string{"UBERON"}, gotQuery["ontology"])
	assert.Equal(t, []string{"http://purl.obolibrary.org/obo/UBERON_0002107"}, gotQuery["subtree_root_id"])
}

func TestClassTreeDecodesArrayPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"prefLabel": "anatomical entity", "children": []}]`))
	}))

	value, err := client.ClassTree(context.Background(), "http://purl.obolibrary.org/obo/UBERON_0002107", "UBERON")
	require.NoError(t, err)

	roots, ok := value.([]any)
	require.True(t, ok, "tree payload should decode as an array")
	require.Len(t, roots, 1)
}

func TestStatusErrorsSurface(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))

	_, err := client.SearchOntology(context.Background(), "liver", "UBERON")
	require.Error(t, err)
	assert.True(t, httpx.IsStatus(err, http.StatusUnauthorized))
}
