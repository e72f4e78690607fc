package chart

import (
	"context"
	"fmt"
	"log/slog"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/labels"
	"hermannm.dev/wikicharts/query"
)

// Series is either a OneDimensionalSeries or a MultiDimensionalSeries.
type Series interface {
	Len() int
	isSeries()
}

// OneDimensionalSeries has a single value and a color per label.
type OneDimensionalSeries struct {
	Labels []string
	Values []float64
	Colors []string
}

// MultiDimensionalSeries has one value per output column for every label, and a color per output
// column.
type MultiDimensionalSeries struct {
	Labels []string
	Values [][]float64
	Colors []string
}

func (series OneDimensionalSeries) Len() int {
	return len(series.Values)
}

func (series MultiDimensionalSeries) Len() int {
	return len(series.Values)
}

func (OneDimensionalSeries) isSeries()   {}
func (MultiDimensionalSeries) isSeries() {}

// BuildSeries normalizes a non-empty extraction into the series shape fitting the config.
func BuildSeries(
	ctx context.Context,
	extraction Extraction,
	config Config,
	labelResolver labels.LabelResolver,
) (Series, error) {
	if extraction.IsEmpty() {
		return nil, fmt.Errorf("cannot build chart series from empty extraction")
	}
	if len(extraction.Labels) != len(extraction.Values) {
		return nil, fmt.Errorf(
			"extraction has %d labels for %d value rows",
			len(extraction.Labels),
			len(extraction.Values),
		)
	}

	resolvedLabels := make([]string, len(extraction.Labels))
	for i, term := range extraction.Labels {
		resolvedLabels[i] = resolveLabel(ctx, labelResolver, term)
	}

	if config.IsMultiDimensional() {
		values := make([][]float64, len(extraction.Values))
		for i, row := range extraction.Values {
			if len(row) != len(config.OutputColumns) {
				return nil, fmt.Errorf(
					"row %d has %d values, expected %d",
					i,
					len(row),
					len(config.OutputColumns),
				)
			}
			values[i] = append([]float64(nil), row...)
		}

		// Each output column becomes one dataset, so colors follow columns rather than rows.
		return MultiDimensionalSeries{
			Labels: resolvedLabels,
			Values: values,
			Colors: assignColors(config.Colors, len(config.OutputColumns)),
		}, nil
	}

	values := make([]float64, len(extraction.Values))
	for i, row := range extraction.Values {
		if len(row) != 1 {
			return nil, fmt.Errorf("row %d has %d values, expected 1", i, len(row))
		}
		values[i] = row[0]
	}

	return OneDimensionalSeries{
		Labels: resolvedLabels,
		Values: values,
		Colors: assignColors(config.Colors, len(values)),
	}, nil
}

// Falls back to the raw term string if the resolver fails.
func resolveLabel(ctx context.Context, resolver labels.LabelResolver, term query.Term) string {
	if resolver == nil {
		return term.String()
	}

	label, err := resolver.Label(ctx, term)
	if err != nil {
		log.ErrorCause(err, "failed to resolve chart label, using raw value")
		return term.String()
	}
	if label == "" {
		log.Debug("label resolved to empty string", slog.String("term", term.String()))
		return term.String()
	}
	return label
}
