package csv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/config"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

// Implements query.Source for static datasets. The query string of a widget names a CSV file in
// the configured data directory, whose header row gives the binding names.
type CSVSource struct {
	dataDir string
}

func NewCSVSource(config config.Config) (CSVSource, error) {
	info, err := os.Stat(config.CSV.DataDir)
	if err != nil {
		return CSVSource{}, wrap.Error(err, "failed to access CSV_DATA_DIR")
	}
	if !info.IsDir() {
		return CSVSource{}, fmt.Errorf("CSV_DATA_DIR '%s' is not a directory", config.CSV.DataDir)
	}

	return CSVSource{dataDir: config.CSV.DataDir}, nil
}

func (source CSVSource) Select(
	ctx context.Context,
	queryString string,
	options query.Options,
) (query.Rows, error) {
	dataset := strings.TrimSpace(queryString)
	if !filepath.IsLocal(dataset) {
		return nil, fmt.Errorf("dataset name '%s' must be a local file path", dataset)
	}

	if options.Inference || options.HistoricData {
		log.Debug(
			"ignoring inference/historic data options for static CSV dataset",
			slog.String("dataset", dataset),
		)
	}

	file, err := os.Open(filepath.Join(source.dataDir, dataset))
	if err != nil {
		return nil, wrap.Errorf(err, "failed to open dataset '%s'", dataset)
	}

	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, wrap.Errorf(err, "failed to read dataset '%s'", dataset)
	}

	header, err := reader.ReadHeaderRow()
	if err != nil {
		file.Close()
		return nil, wrap.Errorf(err, "failed to read column names from dataset '%s'", dataset)
	}

	return &datasetRows{file: file, reader: reader, columns: header}, nil
}

type datasetRows struct {
	file    *os.File
	reader  *Reader
	columns []string
	current query.Row
	done    bool
	err     error
}

func (rows *datasetRows) Next() bool {
	if rows.done || rows.err != nil {
		return false
	}

	fields, rowNumber, done, err := rows.reader.ReadRow()
	if done {
		rows.done = true
		return false
	}
	if err != nil {
		rows.err = wrap.Error(err, "failed to read CSV row")
		return false
	}

	row := make(query.Row, len(rows.columns))
	for i, field := range fields {
		if i >= len(rows.columns) {
			rows.err = fmt.Errorf(
				"row %d has %d fields, but header only has %d columns",
				rowNumber,
				len(fields),
				len(rows.columns),
			)
			return false
		}

		if term, bound := fieldToTerm(field); bound {
			row[rows.columns[i]] = term
		}
	}

	rows.current = row
	return true
}

func (rows *datasetRows) Row() query.Row {
	return rows.current
}

func (rows *datasetRows) Err() error {
	return rows.err
}

func (rows *datasetRows) Close() error {
	rows.done = true
	return rows.file.Close()
}
