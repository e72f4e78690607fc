package elasticsearch

import (
	"context"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v8/typedapi/sql/query"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	wikiquery "hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

// Iterates SQL result pages, fetching the next page through the response cursor when the
// current page is exhausted.
type resultRows struct {
	ctx     context.Context
	source  ElasticsearchSource
	columns []types.Column
	page    [][]json.RawMessage
	index   int
	cursor  string
	current wikiquery.Row
	err     error
}

func newResultRows(
	ctx context.Context,
	source ElasticsearchSource,
	firstPage *query.Response,
) (*resultRows, error) {
	if len(firstPage.Columns) == 0 && len(firstPage.Rows) > 0 {
		return nil, wrap.Error(errMissingColumns, "invalid Elasticsearch SQL response")
	}

	rows := &resultRows{
		ctx:     ctx,
		source:  source,
		columns: firstPage.Columns,
		index:   -1,
	}
	rows.setPage(firstPage)
	return rows, nil
}

func (rows *resultRows) setPage(page *query.Response) {
	rows.page = page.Rows
	rows.index = -1
	if page.Cursor != nil {
		rows.cursor = *page.Cursor
	} else {
		rows.cursor = ""
	}
}

func (rows *resultRows) Next() bool {
	if rows.err != nil {
		return false
	}

	for rows.index+1 >= len(rows.page) {
		if rows.cursor == "" {
			return false
		}

		page, err := rows.source.fetchPage(rows.ctx, sqlRequest{Cursor: rows.cursor})
		if err != nil {
			rows.err = wrapElasticError(err, "failed to fetch next Elasticsearch SQL page")
			return false
		}
		rows.setPage(page)

		if len(rows.page) == 0 && rows.cursor == "" {
			return false
		}
	}
	rows.index++

	values := rows.page[rows.index]
	row := make(wikiquery.Row, len(rows.columns))
	for i, column := range rows.columns {
		if i >= len(values) {
			break
		}

		term, bound, err := cellToTerm(column.Type, values[i])
		if err != nil {
			rows.err = wrap.Errorf(err, "failed to convert value of column '%s'", column.Name)
			return false
		}
		if bound {
			row[column.Name] = term
		}
	}

	rows.current = row
	return true
}

func (rows *resultRows) Row() wikiquery.Row {
	return rows.current
}

func (rows *resultRows) Err() error {
	return rows.err
}

func (rows *resultRows) Close() error {
	if rows.cursor == "" {
		return nil
	}

	cursor := rows.cursor
	rows.cursor = ""
	return rows.source.clearCursor(context.WithoutCancel(rows.ctx), cursor)
}
