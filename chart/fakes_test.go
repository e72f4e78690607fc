package chart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"hermannm.dev/wikicharts/query"
)

type fakeSource struct {
	rows    []query.Row
	err     error
	rowsErr error

	queries []string
	options []query.Options
	cursors []*trackedRows
}

func (source *fakeSource) Select(
	_ context.Context,
	queryString string,
	options query.Options,
) (query.Rows, error) {
	source.queries = append(source.queries, queryString)
	source.options = append(source.options, options)
	if source.err != nil {
		return nil, source.err
	}

	cursor := &trackedRows{Rows: query.NewTableRows(source.rows), err: source.rowsErr}
	source.cursors = append(source.cursors, cursor)
	return cursor, nil
}

func (source *fakeSource) assertCursorsClosed(t *testing.T) {
	t.Helper()
	for i, cursor := range source.cursors {
		assert.Truef(t, cursor.closed, "cursor %d was not closed", i)
	}
}

type trackedRows struct {
	query.Rows
	err    error
	closed bool
}

func (rows *trackedRows) Err() error {
	if rows.err != nil {
		return rows.err
	}
	return rows.Rows.Err()
}

func (rows *trackedRows) Close() error {
	rows.closed = true
	return rows.Rows.Close()
}

type labelFunc func(ctx context.Context, term query.Term) (string, error)

func (label labelFunc) Label(ctx context.Context, term query.Term) (string, error) {
	return label(ctx, term)
}

type countingLabels struct {
	calls int
}

func (labels *countingLabels) Label(_ context.Context, term query.Term) (string, error) {
	labels.calls++
	return term.String(), nil
}

func populationRows() []query.Row {
	return []query.Row{
		{
			"country":    query.NewLiteral("France"),
			"population": query.NewTypedLiteral("65", query.XSDInteger),
			"area":       query.NewTypedLiteral("551.7", query.XSDDecimal),
		},
		{
			"country":    query.NewLiteral("Germany"),
			"population": query.NewTypedLiteral("82", query.XSDInteger),
			"area":       query.NewTypedLiteral("357.6", query.XSDDecimal),
		},
	}
}

func populationConfig() Config {
	return Config{
		QuerySpec: QuerySpec{
			Query:         "SELECT ?country ?population WHERE { ?c :population ?population }",
			InputColumn:   "country",
			OutputColumns: []string{"population"},
		},
	}
}
