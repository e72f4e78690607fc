package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"hermannm.dev/devlog"
	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/api"
	"hermannm.dev/wikicharts/config"
	"hermannm.dev/wikicharts/labels"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wikicharts/query/clickhouse"
	"hermannm.dev/wikicharts/query/csv"
	"hermannm.dev/wikicharts/query/elasticsearch"
	"hermannm.dev/wikicharts/query/sparql"
	"hermannm.dev/wikicharts/settings"
	"hermannm.dev/wikicharts/widget"
)

func main() {
	logHandler := devlog.NewHandler(os.Stdout, &devlog.Options{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(logHandler))

	log.Info("loading config from environment...")
	conf, err := config.ReadFromEnv()
	if err != nil {
		log.ErrorCause(err, "failed to read config from env")
		os.Exit(1)
	}

	logLevel, err := conf.SlogLevel()
	if err != nil {
		log.ErrorCause(err, "invalid log level")
		os.Exit(1)
	}
	logHandler = devlog.NewHandler(os.Stdout, &devlog.Options{Level: logLevel})
	slog.SetDefault(slog.New(logHandler))

	log.Infof("connecting to %v source...", conf.Source)
	source, err := initializeSource(conf)
	if err != nil {
		log.ErrorCause(err, "failed to initialize query source")
		os.Exit(1)
	}

	env, err := initializeWidgetEnv(conf, source)
	if err != nil {
		log.ErrorCause(err, "failed to initialize widget environment")
		os.Exit(1)
	}

	widgetAPI := api.NewWidgetAPI(widget.DefaultRegistry(), env, http.NewServeMux(), api.Config{
		Port: conf.API.Port,
	})

	log.Infof("listening on port %s...", conf.API.Port)
	if err := widgetAPI.ListenAndServe(); err != nil {
		log.ErrorCause(err, "server stopped")
		os.Exit(1)
	}
}

func initializeSource(conf config.Config) (query.Source, error) {
	switch conf.Source {
	case config.SourceSPARQL:
		return sparql.NewSPARQLSource(conf)
	case config.SourceClickHouse:
		return clickhouse.NewClickHouseSource(conf)
	case config.SourceElasticsearch:
		return elasticsearch.NewElasticsearchSource(conf)
	case config.SourceCSV:
		return csv.NewCSVSource(conf)
	default:
		return nil, fmt.Errorf("unrecognized source '%v'", conf.Source)
	}
}

func initializeWidgetEnv(conf config.Config, source query.Source) (widget.Env, error) {
	var store settings.Store = settings.Empty{}
	if conf.Render.SettingsFile != "" {
		file, err := settings.LoadFile(conf.Render.SettingsFile)
		if err != nil {
			return widget.Env{}, err
		}
		log.Infof("loaded %d settings templates", file.Len())
		store = file
	}

	// Only SPARQL sources can answer rdfs:label queries. The others label IRIs by local name.
	var labelSource query.Source
	if conf.Source == config.SourceSPARQL {
		labelSource = source
	}
	labelResolver, err := labels.NewResolver(
		labelSource,
		conf.Render.LabelLanguage,
		conf.Render.LabelCacheSize,
	)
	if err != nil {
		return widget.Env{}, err
	}

	return widget.Env{
		Source:           source,
		Labels:           labelResolver,
		Links:            labels.PageLinker{BaseURL: conf.API.LinkBaseURL},
		Settings:         store,
		ShowErrorDetails: conf.Render.ShowErrorDetails,
	}, nil
}
