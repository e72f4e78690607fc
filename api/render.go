package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/widget"
)

const maxConfigSize = 1 << 20

// Expects:
//   - query parameter 'widget': name of the widget to render
//   - body: JSON-encoded widget config
//
// Returns:
//   - JSON-encoded widget.Output. Render problems are reported as a notice in the output with
//     status 200, since the page should show the notice in place of the widget.
func (api WidgetAPI) RenderWidget(res http.ResponseWriter, req *http.Request) {
	if !allowMethod(res, req, http.MethodPost) {
		return
	}

	name := req.URL.Query().Get("widget")
	if name == "" {
		sendClientError(res, nil, "missing 'widget' query parameter in request")
		return
	}

	rawConfig, err := io.ReadAll(io.LimitReader(req.Body, maxConfigSize+1))
	if err != nil {
		sendClientError(res, err, "failed to read widget config from request body")
		return
	}
	if len(rawConfig) > maxConfigSize {
		sendClientError(res, nil, "widget config in request body is too large")
		return
	}

	log.Debug("rendering widget", slog.String("widget", name))

	output, err := api.registry.Render(req.Context(), name, api.env, json.RawMessage(rawConfig))
	if err != nil {
		if errors.Is(err, widget.ErrUnknownWidget) {
			sendClientError(res, err, "")
		} else {
			sendServerError(res, err, "failed to render widget")
		}
		return
	}

	sendJSON(res, output)
}
