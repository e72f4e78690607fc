package labels

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/wikicharts/query"
)

type labelSource struct {
	labels  map[string][]query.Term
	queries []string
	closed  int
	err     error
}

func (source *labelSource) Select(
	_ context.Context,
	queryString string,
	_ query.Options,
) (query.Rows, error) {
	source.queries = append(source.queries, queryString)
	if source.err != nil {
		return nil, source.err
	}

	var rows []query.Row
	for iri, labels := range source.labels {
		if strings.Contains(queryString, "<"+iri+">") {
			for _, label := range labels {
				rows = append(rows, query.Row{"label": label})
			}
		}
	}
	return &closeCounter{Rows: query.NewTableRows(rows), source: source}, nil
}

type closeCounter struct {
	query.Rows
	source *labelSource
}

func (rows *closeCounter) Close() error {
	rows.source.closed++
	return rows.Rows.Close()
}

func TestLabelPrefersLanguageAndCaches(t *testing.T) {
	source := &labelSource{labels: map[string][]query.Term{
		"http://example.org/Germany": {
			query.NewLangLiteral("Deutschland", "de"),
			query.NewLangLiteral("Germany", "en"),
		},
	}}
	resolver, err := NewResolver(source, "en", 16)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		label, err := resolver.Label(context.Background(), query.NewURI("http://example.org/Germany"))
		require.NoError(t, err)
		assert.Equal(t, "Germany", label)
	}

	assert.Len(t, source.queries, 1, "second lookup should be served from cache")
	assert.Equal(t, 1, source.closed)
}

func TestLabelFallsBackToOtherLanguage(t *testing.T) {
	source := &labelSource{labels: map[string][]query.Term{
		"http://example.org/France": {query.NewLangLiteral("Frankreich", "de")},
	}}
	resolver, err := NewResolver(source, "en", 16)
	require.NoError(t, err)

	label, err := resolver.Label(context.Background(), query.NewURI("http://example.org/France"))
	require.NoError(t, err)
	assert.Equal(t, "Frankreich", label)
}

func TestLabelFallsBackToLocalName(t *testing.T) {
	resolver, err := NewResolver(&labelSource{}, "en", 16)
	require.NoError(t, err)

	label, err := resolver.Label(context.Background(), query.NewURI("http://example.org/ns#Norway"))
	require.NoError(t, err)
	assert.Equal(t, "Norway", label)
}

func TestLabelWithoutSource(t *testing.T) {
	resolver, err := NewResolver(nil, "en", 16)
	require.NoError(t, err)

	label, err := resolver.Label(context.Background(), query.NewURI("http://example.org/Sweden"))
	require.NoError(t, err)
	assert.Equal(t, "Sweden", label)

	label, err = resolver.Label(context.Background(), query.NewLangLiteral("Suède", "fr"))
	require.NoError(t, err)
	assert.Equal(t, "Suède", label)

	label, err = resolver.Label(context.Background(), query.NewBlankNode("b1"))
	require.NoError(t, err)
	assert.Equal(t, "_:b1", label)
}

func TestLabelQueryError(t *testing.T) {
	resolver, err := NewResolver(&labelSource{err: errors.New("timeout")}, "en", 16)
	require.NoError(t, err)

	_, err = resolver.Label(context.Background(), query.NewURI("http://example.org/Denmark"))
	require.Error(t, err)
}

func TestLabelRejectsUnsafeIRI(t *testing.T) {
	source := &labelSource{}
	resolver, err := NewResolver(source, "en", 16)
	require.NoError(t, err)

	_, err = resolver.Label(
		context.Background(),
		query.NewURI("http://example.org/x> } DELETE WHERE { ?s ?p ?o"),
	)
	require.Error(t, err)
	assert.Empty(t, source.queries)
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, "France", LocalName("http://example.org/France"))
	assert.Equal(t, "France", LocalName("http://example.org/France/"))
	assert.Equal(t, "label", LocalName("http://www.w3.org/2000/01/rdf-schema#label"))
	assert.Equal(t, "abc", LocalName("urn:uuid:abc"))
	assert.Equal(t, "plain", LocalName("plain"))
}

func TestPageLinker(t *testing.T) {
	linker := PageLinker{BaseURL: "https://wiki.example.org/"}

	assert.Equal(
		t,
		"https://wiki.example.org/resource?uri=http%3A%2F%2Fexample.org%2FFrance",
		linker.Link(query.NewURI("http://example.org/France")),
	)
	assert.Equal(t, "", linker.Link(query.NewLiteral("France")))
	assert.Equal(t, "", linker.Link(query.NewBlankNode("b0")))
}
