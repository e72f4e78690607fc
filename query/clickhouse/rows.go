package clickhouse

import (
	"errors"
	"log/slog"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

type resultRows struct {
	rows    driver.Rows
	columns []string
	targets []any
	current query.Row
	err     error
}

func newResultRows(rows driver.Rows) *resultRows {
	columnTypes := rows.ColumnTypes()

	targets := make([]any, len(columnTypes))
	for i, columnType := range columnTypes {
		targets[i] = reflect.New(columnType.ScanType()).Interface()
	}

	return &resultRows{rows: rows, columns: rows.Columns(), targets: targets}
}

func (result *resultRows) Next() bool {
	if result.err != nil || !result.rows.Next() {
		return false
	}

	if err := result.rows.Scan(result.targets...); err != nil {
		result.err = wrap.Error(err, "failed to scan ClickHouse result row")
		return false
	}

	row := make(query.Row, len(result.columns))
	for i, column := range result.columns {
		term, bound, err := valueToTerm(result.targets[i])
		if errors.Is(err, errUnsupportedValue) {
			// Columns like arrays and maps cannot be charted, but should not fail the row
			log.Debug(
				"leaving ClickHouse column unbound",
				slog.String("column", column),
				slog.String("reason", err.Error()),
			)
			continue
		}
		if err != nil {
			result.err = wrap.Errorf(err, "failed to convert value of column '%s'", column)
			return false
		}
		if bound {
			row[column] = term
		}
	}

	result.current = row
	return true
}

func (result *resultRows) Row() query.Row {
	return result.current
}

func (result *resultRows) Err() error {
	if result.err != nil {
		return result.err
	}
	return result.rows.Err()
}

func (result *resultRows) Close() error {
	return result.rows.Close()
}
