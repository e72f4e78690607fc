package chart

import (
	"fmt"

	"github.com/google/uuid"
	"hermannm.dev/wikicharts/labels"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

// Model is the engine-agnostic chart handed to the client-side chart engine.
type Model struct {
	ID         uuid.UUID `json:"id"`
	Engine     Engine    `json:"engine"`
	Type       ChartType `json:"type"`
	Title      string    `json:"title,omitempty"`
	XAxisTitle string    `json:"xAxisTitle,omitempty"`
	YAxisTitle string    `json:"yAxisTitle,omitempty"`
	Legend     []string  `json:"legend"`
	ShowLegend bool      `json:"showLegend"`
	// Per row for one-dimensional charts, per legend entry for multi-dimensional ones.
	Colors      []string  `json:"colors"`
	Rows        []DataRow `json:"rows"`
	Multiseries bool      `json:"multiseries"`
	// Engine options decoded from the settings template, if any.
	Options map[string]any `json:"options,omitempty"`
}

type DataRow struct {
	Label  string    `json:"label"`
	Link   string    `json:"link,omitempty"`
	Values []float64 `json:"values"`
}

// Adapt assembles the chart model. Terms are the unresolved labels the series was built from, in
// the same order, and are used for row links.
func Adapt(
	config Config,
	series Series,
	terms []query.Term,
	linkResolver labels.LinkResolver,
	options map[string]any,
) (Model, error) {
	if series.Len() != len(terms) {
		return Model{}, fmt.Errorf(
			"chart series has %d rows, but got %d label terms", series.Len(), len(terms),
		)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Model{}, wrap.Error(err, "failed to generate chart ID")
	}

	model := Model{
		ID:         id,
		Engine:     config.engine(),
		Type:       config.chartType(),
		Title:      config.Title,
		XAxisTitle: config.xAxisTitle(),
		YAxisTitle: config.yAxisTitle(),
		Legend:     append([]string(nil), config.legend()...),
		ShowLegend: !config.HideLegend,
		Rows:       make([]DataRow, series.Len()),
		Options:    options,
	}

	switch series := series.(type) {
	case OneDimensionalSeries:
		model.Colors = series.Colors
		for i, label := range series.Labels {
			model.Rows[i] = DataRow{
				Label:  label,
				Link:   link(linkResolver, terms[i]),
				Values: []float64{series.Values[i]},
			}
		}
	case MultiDimensionalSeries:
		model.Multiseries = true
		model.Colors = series.Colors
		for i, label := range series.Labels {
			model.Rows[i] = DataRow{
				Label:  label,
				Link:   link(linkResolver, terms[i]),
				Values: series.Values[i],
			}
		}
	default:
		return Model{}, fmt.Errorf("unrecognized chart series type %T", series)
	}

	return model, nil
}

func link(resolver labels.LinkResolver, term query.Term) string {
	if resolver == nil {
		return ""
	}
	return resolver.Link(term)
}
