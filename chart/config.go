package chart

import (
	"errors"
	"fmt"
	"strings"

	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

// QuerySpec describes which query to run and which result columns to chart.
type QuerySpec struct {
	Query string `json:"query"`
	// Binding that labels each data point.
	InputColumn string `json:"inputColumn"`
	// Numeric bindings, in the order they are charted.
	OutputColumns []string `json:"outputColumns"`
	Inference     bool     `json:"inference,omitempty"`
	HistoricData  bool     `json:"historicData,omitempty"`
}

func (spec QuerySpec) Options() query.Options {
	return query.Options{Inference: spec.Inference, HistoricData: spec.HistoricData}
}

// BaseConfig holds the fields shared by all chart widgets.
type BaseConfig struct {
	Title            string    `json:"title,omitempty"`
	Engine           Engine    `json:"engine,omitempty"`
	Type             ChartType `json:"type,omitempty"`
	SettingsTemplate string    `json:"settingsTemplate,omitempty"`
	NoDataMessage    string    `json:"noDataMessage,omitempty"`
}

type Config struct {
	QuerySpec
	BaseConfig

	// Shows each output column as its own series, also when there is only one.
	Clustered    bool     `json:"clustered,omitempty"`
	Colors       []string `json:"colors,omitempty"`
	XAxisTitle   string   `json:"xAxisTitle,omitempty"`
	YAxisTitle   string   `json:"yAxisTitle,omitempty"`
	LegendLabels []string `json:"legendLabels,omitempty"`
	HideLegend   bool     `json:"hideLegend,omitempty"`
}

// Validate checks the parts of the config that can be checked without running the query.
func (config Config) Validate() error {
	problems := config.problems()
	if len(problems) == 0 {
		return nil
	}

	errs := make([]error, len(problems))
	for i, problem := range problems {
		errs[i] = errors.New(problem)
	}
	return wrap.Errors("invalid chart configuration", errs...)
}

func (config Config) problems() []string {
	var problems []string

	if strings.TrimSpace(config.Query) == "" {
		problems = append(problems, "missing query")
	}
	if strings.TrimSpace(config.InputColumn) == "" {
		problems = append(problems, "missing input column")
	}

	if len(config.OutputColumns) == 0 {
		problems = append(problems, "at least one output column is required")
	}
	seen := make(map[string]struct{}, len(config.OutputColumns))
	for i, column := range config.OutputColumns {
		if strings.TrimSpace(column) == "" {
			problems = append(problems, fmt.Sprintf("output column %d is blank", i+1))
			continue
		}
		if _, duplicate := seen[column]; duplicate {
			problems = append(problems, fmt.Sprintf("output column '%s' is listed twice", column))
		}
		seen[column] = struct{}{}
	}

	if len(config.LegendLabels) > 0 && len(config.LegendLabels) != len(config.OutputColumns) {
		problems = append(problems, fmt.Sprintf(
			"got %d legend labels for %d output columns",
			len(config.LegendLabels),
			len(config.OutputColumns),
		))
	}

	for i, color := range config.Colors {
		if strings.TrimSpace(color) == "" {
			problems = append(problems, fmt.Sprintf("color %d is blank", i+1))
		}
	}

	chartType := config.chartType()
	if chartType.IsOneDimensionalOnly() {
		if len(config.OutputColumns) > 1 {
			problems = append(problems, fmt.Sprintf(
				"chart type '%s' takes exactly one output column, got %d",
				chartType,
				len(config.OutputColumns),
			))
		}
		if config.Clustered {
			problems = append(problems, fmt.Sprintf(
				"chart type '%s' cannot be clustered", chartType,
			))
		}
	}

	return problems
}

func (config Config) engine() Engine {
	if config.Engine == "" {
		return DefaultEngine
	}
	return config.Engine
}

func (config Config) chartType() ChartType {
	if config.Type == "" {
		return DefaultType
	}
	return config.Type
}

// IsMultiDimensional is true when every label gets a vector of values rather than a single one.
func (config Config) IsMultiDimensional() bool {
	return config.Clustered || len(config.OutputColumns) > 1
}

func (config Config) legend() []string {
	if len(config.LegendLabels) > 0 {
		return config.LegendLabels
	}
	return config.OutputColumns
}

func (config Config) xAxisTitle() string {
	if config.XAxisTitle != "" {
		return config.XAxisTitle
	}
	return config.InputColumn
}

func (config Config) yAxisTitle() string {
	if config.YAxisTitle != "" {
		return config.YAxisTitle
	}
	return strings.Join(config.OutputColumns, ", ")
}
