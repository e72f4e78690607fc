// Package notice defines the user-visible messages rendered in place of a widget when it cannot
// render its intended content.
package notice

import (
	"errors"
	"fmt"

	"hermannm.dev/enumnames"
)

type Kind uint8

const (
	KindNoData Kind = iota + 1
	KindConfigurationError
	KindSettingsNotFound
	KindUnsupportedChartType
	KindInternalError
)

var kindNames = enumnames.NewMap(map[Kind]string{
	KindNoData:               "NO_DATA",
	KindConfigurationError:   "CONFIGURATION_ERROR",
	KindSettingsNotFound:     "SETTINGS_NOT_FOUND",
	KindUnsupportedChartType: "UNSUPPORTED_CHART_TYPE",
	KindInternalError:        "INTERNAL_ERROR",
})

func (kind Kind) IsValid() bool {
	return kindNames.ContainsEnumValue(kind)
}

func (kind Kind) String() string {
	return kindNames.GetNameOrFallback(kind, "INVALID_NOTICE_KIND")
}

func (kind Kind) MarshalJSON() ([]byte, error) {
	return kindNames.MarshalToNameJSON(kind)
}

func (kind *Kind) UnmarshalJSON(bytes []byte) error {
	return kindNames.UnmarshalFromNameJSON(bytes, kind)
}

type Notice struct {
	Kind      Kind   `json:"kind"`
	Message   string `json:"message"`
	Template  string `json:"template,omitempty"`
	Engine    string `json:"engine,omitempty"`
	ChartType string `json:"chartType,omitempty"`
	// Only set when error details are enabled.
	Detail string `json:"detail,omitempty"`
}

const DefaultNoDataMessage = "No data available."

func NoData(message string) Notice {
	if message == "" {
		message = DefaultNoDataMessage
	}
	return Notice{Kind: KindNoData, Message: message}
}

func ConfigurationError(problem string) Notice {
	return Notice{Kind: KindConfigurationError, Message: "Configuration error: " + problem}
}

func SettingsNotFound(template string) Notice {
	return Notice{
		Kind:     KindSettingsNotFound,
		Message:  fmt.Sprintf("Settings template '%s' was not found.", template),
		Template: template,
	}
}

func UnsupportedChartType(engine string, chartType string) Notice {
	return Notice{
		Kind: KindUnsupportedChartType,
		Message: fmt.Sprintf(
			"Chart type '%s' is not supported by the '%s' chart engine.",
			chartType,
			engine,
		),
		Engine:    engine,
		ChartType: chartType,
	}
}

func InternalError() Notice {
	return Notice{
		Kind:    KindInternalError,
		Message: "An error occurred while rendering this widget.",
	}
}

// Error carries a notice through error returns, so the render boundary can show it instead of
// the generic internal error notice.
type Error struct {
	Notice Notice
	Err    error
}

func (err *Error) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("%s: %v", err.Notice.Message, err.Err)
	}
	return err.Notice.Message
}

func (err *Error) Unwrap() error {
	return err.Err
}

func NewError(notice Notice, cause error) *Error {
	return &Error{Notice: notice, Err: cause}
}

// FromError returns the notice carried by err, or the internal error notice. The error text is
// attached as detail only if showDetails is set.
func FromError(err error, showDetails bool) Notice {
	var noticeErr *Error
	if errors.As(err, &noticeErr) {
		notice := noticeErr.Notice
		if showDetails && noticeErr.Err != nil {
			notice.Detail = noticeErr.Err.Error()
		}
		return notice
	}

	notice := InternalError()
	if showDetails && err != nil {
		notice.Detail = err.Error()
	}
	return notice
}
