package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/sql/query"
	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/config"
	wikiquery "hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

// Implements query.Source using the Elasticsearch SQL API. Widget queries are SQL strings.
type ElasticsearchSource struct {
	client    *elasticsearch.TypedClient
	fetchSize int
}

func NewElasticsearchSource(config config.Config) (ElasticsearchSource, error) {
	return newElasticsearchSource(elasticsearch.Config{
		Addresses:         []string{config.Elasticsearch.Address},
		EnableDebugLogger: config.Elasticsearch.Debug,
	}, config.Elasticsearch.FetchSize)
}

func newElasticsearchSource(
	clientConfig elasticsearch.Config,
	fetchSize int,
) (ElasticsearchSource, error) {
	client, err := elasticsearch.NewTypedClient(clientConfig)
	if err != nil {
		return ElasticsearchSource{}, wrap.Error(err, "failed to connect to Elasticsearch")
	}

	if fetchSize <= 0 {
		fetchSize = 1000
	}

	return ElasticsearchSource{client: client, fetchSize: fetchSize}, nil
}

type sqlRequest struct {
	Query     string `json:"query,omitempty"`
	FetchSize int    `json:"fetch_size,omitempty"`
	Cursor    string `json:"cursor,omitempty"`
}

func (source ElasticsearchSource) Select(
	ctx context.Context,
	queryString string,
	options wikiquery.Options,
) (wikiquery.Rows, error) {
	if options.Inference || options.HistoricData {
		log.Debug(
			"ignoring inference/historic data options, which Elasticsearch does not support",
			slog.Bool("inference", options.Inference),
			slog.Bool("historicData", options.HistoricData),
		)
	}

	log.Debug("running Elasticsearch SQL widget query", slog.String("query", queryString))

	page, err := source.fetchPage(ctx, sqlRequest{Query: queryString, FetchSize: source.fetchSize})
	if err != nil {
		return nil, wrapElasticError(err, "Elasticsearch SQL query failed")
	}

	rows, err := newResultRows(ctx, source, page)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (source ElasticsearchSource) fetchPage(
	ctx context.Context,
	request sqlRequest,
) (*query.Response, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, wrap.Error(err, "failed to encode SQL request")
	}

	return source.client.Sql.Query().Raw(bytes.NewReader(body)).Do(ctx)
}

func (source ElasticsearchSource) clearCursor(ctx context.Context, cursor string) error {
	body, err := json.Marshal(sqlRequest{Cursor: cursor})
	if err != nil {
		return wrap.Error(err, "failed to encode clear cursor request")
	}

	if _, err := source.client.Sql.ClearCursor().Raw(bytes.NewReader(body)).Do(ctx); err != nil {
		return wrapElasticError(err, "failed to clear Elasticsearch SQL cursor")
	}
	return nil
}
