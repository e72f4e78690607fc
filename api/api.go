package api

import (
	"fmt"
	"net/http"

	"hermannm.dev/wikicharts/widget"
)

type WidgetAPI struct {
	registry *widget.Registry
	env      widget.Env
	router   *http.ServeMux
	config   Config
}

type Config struct {
	Port string
}

func NewWidgetAPI(
	registry *widget.Registry,
	env widget.Env,
	router *http.ServeMux,
	config Config,
) WidgetAPI {
	api := WidgetAPI{registry: registry, env: env, router: router, config: config}

	api.router.HandleFunc("/health", api.Health)
	api.router.HandleFunc("/widgets", api.ListWidgets)
	api.router.HandleFunc("/render", api.RenderWidget)

	return api
}

func (api WidgetAPI) ListenAndServe() error {
	return http.ListenAndServe(fmt.Sprintf(":%s", api.config.Port), api.router)
}

func (api WidgetAPI) Health(res http.ResponseWriter, req *http.Request) {
	if !allowMethod(res, req, http.MethodGet) {
		return
	}

	sendJSON(res, map[string]string{"status": "ok"})
}

// Returns:
//   - JSON-encoded list of registered widget names
func (api WidgetAPI) ListWidgets(res http.ResponseWriter, req *http.Request) {
	if !allowMethod(res, req, http.MethodGet) {
		return
	}

	sendJSON(res, api.registry.Names())
}
