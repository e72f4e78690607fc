package chart

import (
	"slices"
	"sort"

	"hermannm.dev/wikicharts/notice"
	"hermannm.dev/wikicharts/suggest"
)

// Engine names the client-side library that draws a chart model.
type Engine string

const (
	EngineChartJS      Engine = "chartjs"
	EngineD3           Engine = "d3"
	EngineGoogleCharts Engine = "googlecharts"
)

type ChartType string

const (
	TypeBar           ChartType = "bar"
	TypeHorizontalBar ChartType = "horizontalBar"
	TypeLine          ChartType = "line"
	TypeArea          ChartType = "area"
	TypePie           ChartType = "pie"
	TypeDoughnut      ChartType = "doughnut"
	TypeRadar         ChartType = "radar"
	TypePolarArea     ChartType = "polarArea"
)

const (
	DefaultEngine = EngineChartJS
	DefaultType   = TypeBar
)

var engineSupport = map[Engine][]ChartType{
	EngineChartJS: {
		TypeBar, TypeHorizontalBar, TypeLine, TypePie, TypeDoughnut, TypeRadar, TypePolarArea,
	},
	EngineD3: {
		TypeBar, TypeLine, TypeArea, TypePie, TypeDoughnut,
	},
	EngineGoogleCharts: {
		TypeBar, TypeHorizontalBar, TypeLine, TypeArea, TypePie, TypeDoughnut,
	},
}

func (engine Engine) IsKnown() bool {
	_, known := engineSupport[engine]
	return known
}

func (engine Engine) Supports(chartType ChartType) bool {
	return slices.Contains(engineSupport[engine], chartType)
}

// SupportedTypes returns the chart types the engine can draw, or nil for unknown engines.
func (engine Engine) SupportedTypes() []ChartType {
	return slices.Clone(engineSupport[engine])
}

// IsOneDimensionalOnly is true for chart types that can only show a single value per label.
func (chartType ChartType) IsOneDimensionalOnly() bool {
	switch chartType {
	case TypePie, TypeDoughnut, TypePolarArea:
		return true
	default:
		return false
	}
}

func knownEngines() []string {
	engines := make([]string, 0, len(engineSupport))
	for engine := range engineSupport {
		engines = append(engines, string(engine))
	}
	sort.Strings(engines)
	return engines
}

func checkSupported(engine Engine, chartType ChartType) error {
	if engine.Supports(chartType) {
		return nil
	}

	unsupported := notice.UnsupportedChartType(string(engine), string(chartType))
	if engine.IsKnown() {
		supported := engine.SupportedTypes()
		candidates := make([]string, len(supported))
		for i, supportedType := range supported {
			candidates[i] = string(supportedType)
		}
		unsupported.Message += suggest.Hint(string(chartType), candidates)
	} else {
		unsupported.Message += suggest.Hint(string(engine), knownEngines())
	}

	return notice.NewError(unsupported, nil)
}
