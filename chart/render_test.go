package chart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/wikicharts/labels"
	"hermannm.dev/wikicharts/notice"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wikicharts/settings"
)

func TestRenderOneDimensional(t *testing.T) {
	source := &fakeSource{rows: populationRows()}
	renderer := Renderer{Source: source}

	config := populationConfig()
	config.Title = "Population"
	config.Inference = true

	outcome := renderer.Render(context.Background(), config)

	require.Equal(t, StateRendered, outcome.State)
	require.Nil(t, outcome.Notice)
	require.NotNil(t, outcome.Model)
	assert.NotEqual(t, uuid.Nil, outcome.Model.ID)

	expected := Model{
		Engine:     EngineChartJS,
		Type:       TypeBar,
		Title:      "Population",
		XAxisTitle: "country",
		YAxisTitle: "population",
		Legend:     []string{"population"},
		ShowLegend: true,
		Colors:     []string{defaultPalette[0], defaultPalette[1]},
		Rows: []DataRow{
			{Label: "France", Values: []float64{65}},
			{Label: "Germany", Values: []float64{82}},
		},
	}
	if diff := cmp.Diff(expected, *outcome.Model, cmpopts.IgnoreFields(Model{}, "ID")); diff != "" {
		t.Errorf("unexpected chart model (-want +got):\n%s", diff)
	}

	assert.Equal(t, []query.Options{{Inference: true}}, source.options)
	source.assertCursorsClosed(t)
}

func TestRenderMultiDimensional(t *testing.T) {
	source := &fakeSource{rows: populationRows()}
	resolver, err := labels.NewResolver(nil, "en", 16)
	require.NoError(t, err)
	renderer := Renderer{Source: source, Labels: resolver}

	config := populationConfig()
	config.OutputColumns = []string{"population", "area"}
	config.LegendLabels = []string{"Population (M)", "Area (k km²)"}
	config.Colors = []string{"#111111"}

	outcome := renderer.Render(context.Background(), config)
	require.Equal(t, StateRendered, outcome.State)

	model := outcome.Model
	assert.True(t, model.Multiseries)
	assert.Equal(t, []string{"Population (M)", "Area (k km²)"}, model.Legend)
	assert.Equal(t, []string{"#111111", defaultPalette[1]}, model.Colors)
	assert.Equal(t, "population, area", model.YAxisTitle)

	require.Len(t, model.Rows, 2)
	for _, row := range model.Rows {
		assert.Len(t, row.Values, len(config.OutputColumns))
	}
	assert.Equal(t, []float64{65, 551.7}, model.Rows[0].Values)
	assert.Equal(t, []float64{82, 357.6}, model.Rows[1].Values)
	source.assertCursorsClosed(t)
}

func TestRenderClusteredSingleColumn(t *testing.T) {
	source := &fakeSource{rows: populationRows()}
	config := populationConfig()
	config.Clustered = true

	outcome := Renderer{Source: source}.Render(context.Background(), config)
	require.Equal(t, StateRendered, outcome.State)
	assert.True(t, outcome.Model.Multiseries)
	assert.Equal(t, []string{defaultPalette[0]}, outcome.Model.Colors)
}

func TestRenderUnsupportedChartType(t *testing.T) {
	source := &fakeSource{rows: populationRows()}
	config := populationConfig()
	config.Engine = EngineD3
	config.Type = TypeRadar

	outcome := Renderer{Source: source}.Render(context.Background(), config)

	require.Equal(t, StateRenderError, outcome.State)
	require.Nil(t, outcome.Model)
	require.NotNil(t, outcome.Notice)
	assert.Equal(t, notice.KindUnsupportedChartType, outcome.Notice.Kind)
	assert.Equal(t, "d3", outcome.Notice.Engine)
	assert.Equal(t, "radar", outcome.Notice.ChartType)
	assert.Contains(t, outcome.Notice.Message, "d3")
	assert.Contains(t, outcome.Notice.Message, "radar")
	source.assertCursorsClosed(t)
}

func TestRenderUnknownEngineSuggestsClosest(t *testing.T) {
	config := populationConfig()
	config.Engine = "chartsj"

	outcome := Renderer{Source: &fakeSource{rows: populationRows()}}.Render(
		context.Background(), config,
	)

	require.Equal(t, notice.KindUnsupportedChartType, outcome.Notice.Kind)
	assert.Contains(t, outcome.Notice.Message, "Did you mean 'chartjs'?")
}

func TestRenderSettingsNotFound(t *testing.T) {
	source := &fakeSource{rows: populationRows()}
	config := populationConfig()
	config.SettingsTemplate = "compactPie"

	outcome := Renderer{Source: source, Settings: settings.Empty{}}.Render(
		context.Background(), config,
	)

	require.Equal(t, StateRenderError, outcome.State)
	assert.Equal(t, notice.KindSettingsNotFound, outcome.Notice.Kind)
	assert.Equal(t, "compactPie", outcome.Notice.Template)
	assert.Contains(t, outcome.Notice.Message, "compactPie")
	source.assertCursorsClosed(t)
}

func TestRenderWithSettingsTemplate(t *testing.T) {
	store, err := settings.ParseFile([]byte(`
templates:
  wideBars: |
    barThickness: 40
    legend:
      position: right
  broken: "[unclosed"
`))
	require.NoError(t, err)

	config := populationConfig()
	config.SettingsTemplate = "wideBars"

	outcome := Renderer{Source: &fakeSource{rows: populationRows()}, Settings: store}.Render(
		context.Background(), config,
	)
	require.Equal(t, StateRendered, outcome.State)
	assert.Equal(t, map[string]any{
		"barThickness": 40,
		"legend":       map[string]any{"position": "right"},
	}, outcome.Model.Options)

	config.SettingsTemplate = "broken"
	outcome = Renderer{Source: &fakeSource{rows: populationRows()}, Settings: store}.Render(
		context.Background(), config,
	)
	require.Equal(t, StateRenderError, outcome.State)
	assert.Equal(t, notice.KindConfigurationError, outcome.Notice.Kind)
	assert.Equal(t, "broken", outcome.Notice.Template)
}

func TestRenderSettingsTemplateOutsideJSON(t *testing.T) {
	store, err := settings.ParseFile([]byte(`
templates:
  notANumber: "ratio: .nan"
  numberedColors: "colors: {1: red, 2: blue}"
`))
	require.NoError(t, err)

	config := populationConfig()
	config.SettingsTemplate = "notANumber"
	source := &fakeSource{rows: populationRows()}

	outcome := Renderer{Source: source, Settings: store}.Render(context.Background(), config)
	require.Equal(t, StateRenderError, outcome.State)
	assert.Equal(t, notice.KindConfigurationError, outcome.Notice.Kind)
	assert.Equal(t, "notANumber", outcome.Notice.Template)
	source.assertCursorsClosed(t)

	config.SettingsTemplate = "numberedColors"
	outcome = Renderer{Source: &fakeSource{rows: populationRows()}, Settings: store}.Render(
		context.Background(), config,
	)
	require.Equal(t, StateRendered, outcome.State)
	assert.Equal(
		t,
		map[string]any{"colors": map[string]any{"1": "red", "2": "blue"}},
		outcome.Model.Options,
	)

	_, err = json.Marshal(outcome)
	assert.NoError(t, err)
}

func TestRenderNoData(t *testing.T) {
	source := &fakeSource{}
	labelCounter := &countingLabels{}
	config := populationConfig()
	config.NoDataMessage = "No countries found."

	outcome := Renderer{Source: source, Labels: labelCounter}.Render(context.Background(), config)

	require.Equal(t, StateNoData, outcome.State)
	require.Nil(t, outcome.Model)
	assert.Equal(t, notice.NoData("No countries found."), *outcome.Notice)
	assert.Zero(t, labelCounter.calls, "series should not be built for empty results")
	source.assertCursorsClosed(t)

	config.NoDataMessage = ""
	outcome = Renderer{Source: source}.Render(context.Background(), config)
	assert.Equal(t, notice.DefaultNoDataMessage, outcome.Notice.Message)
}

func TestRenderConfigurationErrorSkipsQuery(t *testing.T) {
	source := &fakeSource{rows: populationRows()}
	config := populationConfig()
	config.OutputColumns = nil

	outcome := Renderer{Source: source}.Render(context.Background(), config)

	require.Equal(t, StateRenderError, outcome.State)
	assert.Equal(t, notice.KindConfigurationError, outcome.Notice.Kind)
	assert.Contains(t, outcome.Notice.Message, "output column")
	assert.Empty(t, source.queries)
}

func TestRenderQueryError(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}

	outcome := Renderer{Source: source}.Render(context.Background(), populationConfig())
	require.Equal(t, StateRenderError, outcome.State)
	assert.Equal(t, notice.KindInternalError, outcome.Notice.Kind)
	assert.Empty(t, outcome.Notice.Detail)
	assert.NotContains(t, outcome.Notice.Message, "connection refused")

	outcome = Renderer{Source: source, ShowErrorDetails: true}.Render(
		context.Background(), populationConfig(),
	)
	assert.Contains(t, outcome.Notice.Detail, "connection refused")
}

func TestRenderCursorErrorClosesCursor(t *testing.T) {
	source := &fakeSource{rows: populationRows(), rowsErr: errors.New("stream reset")}

	outcome := Renderer{Source: source}.Render(context.Background(), populationConfig())

	require.Equal(t, StateRenderError, outcome.State)
	assert.Equal(t, notice.KindInternalError, outcome.Notice.Kind)
	source.assertCursorsClosed(t)
}

func TestRenderRecoversPanic(t *testing.T) {
	source := &fakeSource{rows: populationRows()}
	panicking := labelFunc(func(context.Context, query.Term) (string, error) {
		panic("label store corrupted")
	})

	outcome := Renderer{Source: source, Labels: panicking}.Render(
		context.Background(), populationConfig(),
	)

	require.Equal(t, StateRenderError, outcome.State)
	assert.Equal(t, notice.KindInternalError, outcome.Notice.Kind)
	source.assertCursorsClosed(t)
}

func TestRenderLabelFailureFallsBackToRawValue(t *testing.T) {
	source := &fakeSource{rows: []query.Row{
		{
			"country":    query.NewURI("http://example.org/France"),
			"population": query.NewTypedLiteral("65", query.XSDInteger),
		},
	}}
	failing := labelFunc(func(context.Context, query.Term) (string, error) {
		return "", errors.New("label lookup timed out")
	})

	outcome := Renderer{
		Source: source,
		Labels: failing,
		Links:  labels.PageLinker{BaseURL: "https://wiki.example.org"},
	}.Render(context.Background(), populationConfig())

	require.Equal(t, StateRendered, outcome.State)
	assert.Equal(t, DataRow{
		Label:  "http://example.org/France",
		Link:   "https://wiki.example.org/resource?uri=http%3A%2F%2Fexample.org%2FFrance",
		Values: []float64{65},
	}, outcome.Model.Rows[0])
}

func TestRenderPreservesOrderAndCyclesColors(t *testing.T) {
	var rows []query.Row
	for i := 0; i < 25; i++ {
		rows = append(rows, query.Row{
			"n":     query.NewTypedLiteral(string(rune('a'+i)), query.XSDString),
			"value": query.NewTypedLiteral(string(rune('0'+i%10)), query.XSDInteger),
		})
	}
	config := Config{
		QuerySpec: QuerySpec{Query: "q", InputColumn: "n", OutputColumns: []string{"value"}},
		BaseConfig: BaseConfig{
			Type: TypePie,
		},
		Colors: []string{"#000000", "#FFFFFF"},
	}

	outcome := Renderer{Source: &fakeSource{rows: rows}}.Render(context.Background(), config)
	require.Equal(t, StateRendered, outcome.State)

	model := outcome.Model
	require.Len(t, model.Rows, len(rows))
	require.Len(t, model.Colors, len(rows))
	for i, row := range model.Rows {
		assert.Equal(t, string(rune('a'+i)), row.Label)
		assert.Equal(t, []float64{float64(i % 10)}, row.Values)

		if i < 2 {
			assert.Equal(t, config.Colors[i], model.Colors[i])
		} else {
			assert.Equal(t, defaultPalette[i%len(defaultPalette)], model.Colors[i])
		}
	}
}

func TestRenderHiddenLegendAndAxisTitles(t *testing.T) {
	config := populationConfig()
	config.HideLegend = true
	config.XAxisTitle = "Country"
	config.YAxisTitle = "Millions"

	outcome := Renderer{Source: &fakeSource{rows: populationRows()}}.Render(
		context.Background(), config,
	)
	require.Equal(t, StateRendered, outcome.State)
	assert.False(t, outcome.Model.ShowLegend)
	assert.Equal(t, "Country", outcome.Model.XAxisTitle)
	assert.Equal(t, "Millions", outcome.Model.YAxisTitle)
}
