package query

import (
	"context"
)

// Row maps binding names to the terms bound in one query result row.
type Row map[string]Term

func (row Row) Get(binding string) (term Term, bound bool) {
	term, bound = row[binding]
	return term, bound
}

// Rows is a forward-only cursor over query results. Callers must always call Close, also when
// iteration stops early.
type Rows interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}

type Options struct {
	Inference    bool
	HistoricData bool
}

// Source runs queries against a backing store and returns a result cursor.
type Source interface {
	Select(ctx context.Context, query string, options Options) (Rows, error)
}

type tableRows struct {
	rows    []Row
	current int
	closed  bool
}

// NewTableRows returns a cursor over already fetched rows.
func NewTableRows(rows []Row) Rows {
	return &tableRows{rows: rows, current: -1}
}

func (table *tableRows) Next() bool {
	if table.closed || table.current+1 >= len(table.rows) {
		return false
	}
	table.current++
	return true
}

func (table *tableRows) Row() Row {
	if table.current < 0 || table.current >= len(table.rows) {
		return nil
	}
	return table.rows[table.current]
}

func (table *tableRows) Err() error {
	return nil
}

func (table *tableRows) Close() error {
	table.closed = true
	return nil
}
