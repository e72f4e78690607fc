package widget

import (
	"context"
	"encoding/json"
	"fmt"

	"hermannm.dev/wikicharts/chart"
	"hermannm.dev/wikicharts/table"
)

const (
	NameChart = "chart"
	NameTable = "table"
)

// DefaultRegistry returns a registry with all built-in widgets.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	mustRegister(registry, NameChart, RenderChart)
	mustRegister(registry, NameTable, RenderTable)
	return registry
}

func mustRegister(registry *Registry, name string, factory Factory) {
	if err := registry.Register(name, factory); err != nil {
		panic(fmt.Sprintf("failed to register built-in widget: %v", err))
	}
}

func RenderChart(ctx context.Context, env Env, rawConfig json.RawMessage) Output {
	var config chart.Config
	if err := decodeConfig(rawConfig, &config); err != nil {
		return configErrorOutput(err)
	}

	renderer := chart.Renderer{
		Source:           env.Source,
		Labels:           env.Labels,
		Links:            env.Links,
		Settings:         env.Settings,
		ShowErrorDetails: env.ShowErrorDetails,
	}
	outcome := renderer.Render(ctx, config)

	output := Output{State: outcome.State.String(), Notice: outcome.Notice}
	if outcome.Model != nil {
		output.Content = outcome.Model
	}
	return output
}

func RenderTable(ctx context.Context, env Env, rawConfig json.RawMessage) Output {
	var config table.Config
	if err := decodeConfig(rawConfig, &config); err != nil {
		return configErrorOutput(err)
	}

	renderer := table.Renderer{
		Source:           env.Source,
		Labels:           env.Labels,
		Links:            env.Links,
		ShowErrorDetails: env.ShowErrorDetails,
	}
	outcome := renderer.Render(ctx, config)

	output := Output{Notice: outcome.Notice}
	if outcome.Model != nil {
		output.Content = outcome.Model
	}
	return output
}
