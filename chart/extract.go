package chart

import (
	"log/slog"
	"math"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

// Extraction is the query result reshaped for charting. Labels and Values are index-aligned, in
// query result order.
type Extraction struct {
	Labels []query.Term
	// One row per result row, one cell per output column.
	Values [][]float64
	// Number of output cells that were unbound or non-numeric, and therefore set to 0.
	DefaultedCells int
}

func (extraction Extraction) IsEmpty() bool {
	return len(extraction.Values) == 0
}

// Extract reads all rows from the cursor. An output cell that is unbound, non-numeric or not
// finite becomes 0, and a row without an input binding gets the zero Term as its label. The
// caller owns the cursor and must close it.
func Extract(rows query.Rows, inputColumn string, outputColumns []string) (Extraction, error) {
	var extraction Extraction

	for rows.Next() {
		row := rows.Row()
		rowIndex := len(extraction.Values)

		label, _ := row.Get(inputColumn)

		values := make([]float64, len(outputColumns))
		for i, column := range outputColumns {
			value, ok := numericCell(row, column)
			if !ok {
				extraction.DefaultedCells++
				log.Debug(
					"defaulting chart cell to 0",
					slog.Int("row", rowIndex),
					slog.String("column", column),
				)
				continue
			}
			values[i] = value
		}

		extraction.Labels = append(extraction.Labels, label)
		extraction.Values = append(extraction.Values, values)
	}

	if err := rows.Err(); err != nil {
		return Extraction{}, wrap.Error(err, "failed to read query results")
	}

	return extraction, nil
}

func numericCell(row query.Row, column string) (value float64, ok bool) {
	term, bound := row.Get(column)
	if !bound {
		return 0, false
	}

	value, err := term.Float64()
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}
