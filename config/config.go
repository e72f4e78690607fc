package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"hermannm.dev/enumnames"
	"hermannm.dev/wrap"
)

type Config struct {
	BaseConfig
	SPARQL        SPARQL
	ClickHouse    ClickHouse
	Elasticsearch Elasticsearch
	CSV           CSV
}

type BaseConfig struct {
	IsProduction bool            `env:"PRODUCTION"`
	Source       SupportedSource `env:"SOURCE"`
	LogLevel     string          `env:"LOG_LEVEL"          envDefault:"INFO"`
	API          API
	Render       Render
}

type API struct {
	Port        string `env:"API_PORT"`
	LinkBaseURL string `env:"LINK_BASE_URL" envDefault:""`
}

type Render struct {
	SettingsFile     string `env:"SETTINGS_FILE"      envDefault:""`
	LabelCacheSize   int    `env:"LABEL_CACHE_SIZE"   envDefault:"4096"`
	LabelLanguage    string `env:"LABEL_LANGUAGE"     envDefault:"en"`
	ShowErrorDetails bool   `env:"SHOW_ERROR_DETAILS" envDefault:"false"`
}

type SPARQL struct {
	Endpoint         string        `env:"SPARQL_ENDPOINT"`
	HistoricEndpoint string        `env:"SPARQL_HISTORIC_ENDPOINT" envDefault:""`
	Timeout          time.Duration `env:"SPARQL_TIMEOUT"           envDefault:"30s"`
}

type ClickHouse struct {
	Address      string `env:"CLICKHOUSE_ADDRESS"`
	DatabaseName string `env:"CLICKHOUSE_DB_NAME"`
	Username     string `env:"CLICKHOUSE_USERNAME"`
	Password     string `env:"CLICKHOUSE_PASSWORD"`
	Debug        bool   `env:"CLICKHOUSE_DEBUG_ENABLED"`
}

type Elasticsearch struct {
	Address   string `env:"ELASTICSEARCH_ADDRESS"`
	Debug     bool   `env:"ELASTICSEARCH_DEBUG_ENABLED"`
	FetchSize int    `env:"ELASTICSEARCH_FETCH_SIZE"    envDefault:"1000"`
}

type CSV struct {
	DataDir string `env:"CSV_DATA_DIR"`
}

type SupportedSource uint8

const (
	SourceSPARQL SupportedSource = iota + 1
	SourceClickHouse
	SourceElasticsearch
	SourceCSV
)

var supportedSourceNames = enumnames.NewMap(map[SupportedSource]string{
	SourceSPARQL:        "SPARQL",
	SourceClickHouse:    "CLICKHOUSE",
	SourceElasticsearch: "ELASTICSEARCH",
	SourceCSV:           "CSV",
})

func (source SupportedSource) IsValid() bool {
	return supportedSourceNames.ContainsEnumValue(source)
}

func (source SupportedSource) String() string {
	return supportedSourceNames.GetNameOrFallback(source, "INVALID_SOURCE")
}

// Implements encoding.TextUnmarshaler, which env uses to parse the SOURCE variable.
func (source *SupportedSource) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for _, candidate := range []SupportedSource{
		SourceSPARQL, SourceClickHouse, SourceElasticsearch, SourceCSV,
	} {
		if candidate.String() == name {
			*source = candidate
			return nil
		}
	}

	return fmt.Errorf(
		"unsupported value '%s' for SOURCE in env (must be one of: 'SPARQL', 'CLICKHOUSE', 'ELASTICSEARCH', 'CSV')",
		string(text),
	)
}

// ReadFromEnv loads an optional .env file, then parses config from environment variables.
func ReadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, wrap.Error(err, "failed to load .env file")
	}

	return Parse()
}

func Parse() (Config, error) {
	parseOptions := env.Options{RequiredIfNoDef: true}

	var config Config

	if err := env.ParseWithOptions(&config.BaseConfig, parseOptions); err != nil {
		return Config{}, err
	}

	var sourceConfig any
	switch config.Source {
	case SourceSPARQL:
		sourceConfig = &config.SPARQL
	case SourceClickHouse:
		sourceConfig = &config.ClickHouse
	case SourceElasticsearch:
		sourceConfig = &config.Elasticsearch
	case SourceCSV:
		sourceConfig = &config.CSV
	default:
		return Config{}, fmt.Errorf("invalid source '%v'", config.Source)
	}

	if err := env.ParseWithOptions(sourceConfig, parseOptions); err != nil {
		return Config{}, wrap.Errorf(err, "invalid config for source %v", config.Source)
	}

	if config.Render.LabelCacheSize <= 0 {
		return Config{}, fmt.Errorf(
			"LABEL_CACHE_SIZE must be positive, got %d",
			config.Render.LabelCacheSize,
		)
	}

	return config, nil
}

func (config BaseConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		return 0, wrap.Errorf(err, "invalid LOG_LEVEL '%s'", config.LogLevel)
	}
	return level, nil
}
