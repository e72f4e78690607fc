package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/labels"
	"hermannm.dev/wikicharts/notice"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wikicharts/settings"
	"hermannm.dev/wrap"
)

// Renderer runs chart queries and turns their results into chart models. It holds no per-render
// state, so one Renderer can serve concurrent requests as long as its collaborators can.
type Renderer struct {
	Source   query.Source
	Labels   labels.LabelResolver
	Links    labels.LinkResolver
	Settings settings.Store
	// Includes error text in notices. Errors are always logged.
	ShowErrorDetails bool
}

// Outcome is the result of a render: a model if State is StateRendered, otherwise a notice.
type Outcome struct {
	State  State          `json:"state"`
	Model  *Model         `json:"model,omitempty"`
	Notice *notice.Notice `json:"notice,omitempty"`
}

// Render never returns an error: every failure, including panics, is logged and turned into a
// notice outcome. The query cursor is closed before Render returns.
func (renderer Renderer) Render(ctx context.Context, config Config) (outcome Outcome) {
	state := StateAwaitingQuery

	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = renderer.errorOutcome(fmt.Errorf("panic while rendering chart: %v", recovered))
		}
	}()

	if problems := config.problems(); len(problems) > 0 {
		state.advance(StateRenderError)
		return renderer.errorOutcome(notice.NewError(
			notice.ConfigurationError(strings.Join(problems, "; ")),
			nil,
		))
	}

	if renderer.Source == nil {
		state.advance(StateRenderError)
		return renderer.errorOutcome(fmt.Errorf("chart renderer has no query source"))
	}

	rows, err := renderer.Source.Select(ctx, config.Query, config.QuerySpec.Options())
	if err != nil {
		state.advance(StateRenderError)
		return renderer.errorOutcome(wrap.Error(err, "chart query failed"))
	}
	defer closeRows(rows)

	extraction, err := Extract(rows, config.InputColumn, config.OutputColumns)
	if err != nil {
		state.advance(StateRenderError)
		return renderer.errorOutcome(err)
	}

	if extraction.IsEmpty() {
		state.advance(StateNoData)
		noData := notice.NoData(config.NoDataMessage)
		return Outcome{State: state, Notice: &noData}
	}
	state.advance(StateHasData)

	if extraction.DefaultedCells > 0 {
		log.Debugf(
			"%d chart cells were unbound or non-numeric and were set to 0",
			extraction.DefaultedCells,
		)
	}

	model, err := renderer.buildModel(ctx, config, extraction)
	if err != nil {
		state.advance(StateRenderError)
		return renderer.errorOutcome(err)
	}

	state.advance(StateRendered)
	log.Debug(
		"rendered chart",
		slog.String("engine", string(model.Engine)),
		slog.String("type", string(model.Type)),
		slog.Int("rows", len(model.Rows)),
	)
	return Outcome{State: state, Model: &model}
}

func (renderer Renderer) buildModel(
	ctx context.Context,
	config Config,
	extraction Extraction,
) (Model, error) {
	if err := checkSupported(config.engine(), config.chartType()); err != nil {
		return Model{}, err
	}

	options, err := renderer.resolveSettings(config.SettingsTemplate)
	if err != nil {
		return Model{}, err
	}

	series, err := BuildSeries(ctx, extraction, config, renderer.Labels)
	if err != nil {
		return Model{}, wrap.Error(err, "failed to build chart series")
	}

	model, err := Adapt(config, series, extraction.Labels, renderer.Links, options)
	if err != nil {
		return Model{}, wrap.Error(err, "failed to assemble chart model")
	}

	return model, nil
}

func (renderer Renderer) resolveSettings(template string) (map[string]any, error) {
	if template == "" {
		return nil, nil
	}

	store := renderer.Settings
	if store == nil {
		store = settings.Empty{}
	}

	text, found := store.Template(template)
	if !found {
		return nil, notice.NewError(notice.SettingsNotFound(template), nil)
	}

	options, err := settings.DecodeOptions(text)
	if err == nil {
		// Options are sent to the chart engine as JSON
		_, err = json.Marshal(options)
	}
	if err != nil {
		malformed := notice.ConfigurationError(
			fmt.Sprintf("settings template '%s' is malformed", template),
		)
		malformed.Template = template
		return nil, notice.NewError(malformed, err)
	}

	return options, nil
}

func (renderer Renderer) errorOutcome(err error) Outcome {
	log.ErrorCause(err, "failed to render chart")
	errorNotice := notice.FromError(err, renderer.ShowErrorDetails)
	return Outcome{State: StateRenderError, Notice: &errorNotice}
}

func closeRows(rows query.Rows) {
	if err := rows.Close(); err != nil {
		log.ErrorCause(err, "failed to close chart query cursor")
	}
}
