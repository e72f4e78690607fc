package sparql

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/config"
	"hermannm.dev/wikicharts/notice"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

const resultsContentType = "application/sparql-results+json"

// Implements query.Source for SPARQL 1.1 protocol endpoints.
type SPARQLSource struct {
	endpoint         string
	historicEndpoint string
	client           *http.Client
}

func NewSPARQLSource(config config.Config) (SPARQLSource, error) {
	if err := validateEndpoint(config.SPARQL.Endpoint); err != nil {
		return SPARQLSource{}, wrap.Error(err, "invalid SPARQL_ENDPOINT")
	}
	if config.SPARQL.HistoricEndpoint != "" {
		if err := validateEndpoint(config.SPARQL.HistoricEndpoint); err != nil {
			return SPARQLSource{}, wrap.Error(err, "invalid SPARQL_HISTORIC_ENDPOINT")
		}
	}

	return SPARQLSource{
		endpoint:         config.SPARQL.Endpoint,
		historicEndpoint: config.SPARQL.HistoricEndpoint,
		client:           &http.Client{Timeout: config.SPARQL.Timeout},
	}, nil
}

func validateEndpoint(endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("endpoint '%s' must use http or https", endpoint)
	}
	return nil
}

func (source SPARQLSource) Select(
	ctx context.Context,
	queryString string,
	options query.Options,
) (query.Rows, error) {
	endpoint := source.endpoint
	if options.HistoricData {
		if source.historicEndpoint != "" {
			endpoint = source.historicEndpoint
		} else {
			log.Warn("historic data requested, but no historic SPARQL endpoint is configured")
		}
	}

	form := url.Values{}
	form.Set("query", queryString)
	if options.Inference {
		form.Set("infer", "true")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, wrap.Error(err, "failed to create SPARQL request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", resultsContentType)

	res, err := source.client.Do(req)
	if err != nil {
		return nil, wrap.Errorf(err, "SPARQL request to '%s' failed", endpoint)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer res.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		statusErr := fmt.Errorf(
			"SPARQL endpoint responded with status %d: %s",
			res.StatusCode,
			strings.TrimSpace(string(body)),
		)

		// SPARQL 1.1 protocol: 400 means the query string was rejected
		if res.StatusCode == http.StatusBadRequest {
			return nil, notice.NewError(
				notice.ConfigurationError("the widget's SPARQL query is invalid"),
				statusErr,
			)
		}
		return nil, statusErr
	}

	rows, err := newResultRows(res.Body)
	if err != nil {
		res.Body.Close()
		return nil, wrap.Error(err, "failed to read SPARQL query results")
	}

	return rows, nil
}
