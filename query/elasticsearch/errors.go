package elasticsearch

import (
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"hermannm.dev/wikicharts/notice"
	"hermannm.dev/wrap"
)

// Error types returned by Elasticsearch SQL when the query itself is invalid.
var invalidQueryErrorTypes = map[string]struct{}{
	"parsing_exception":      {},
	"verification_exception": {},
	"mapping_exception":      {},
}

func wrapElasticError(wrapped error, message string) error {
	formatted := formatElasticError(wrapped)

	var elasticErr *types.ElasticsearchError
	if errors.As(wrapped, &elasticErr) {
		if _, invalid := invalidQueryErrorTypes[elasticErr.ErrorCause.Type]; invalid {
			return notice.NewError(
				notice.ConfigurationError("the widget's Elasticsearch SQL query is invalid"),
				wrap.Error(formatted, message),
			)
		}
	}

	return wrap.Error(formatted, message)
}

// formatElasticError flattens an Elasticsearch error response into a readable error chain.
func formatElasticError(err error) error {
	var elasticErr *types.ElasticsearchError
	if !errors.As(err, &elasticErr) {
		return err
	}

	cause := elasticErr.ErrorCause
	message := fmt.Sprintf("%s (status %d)", cause.Type, elasticErr.Status)
	if cause.Reason != nil {
		message = fmt.Sprintf("%s (%s, status %d)", *cause.Reason, cause.Type, elasticErr.Status)
	}

	if len(cause.RootCause) == 0 {
		return errors.New(message)
	}

	rootCauses := make([]error, 0, len(cause.RootCause))
	for _, rootCause := range cause.RootCause {
		if rootCause.Reason == nil {
			rootCauses = append(rootCauses, errors.New(rootCause.Type))
		} else {
			rootCauses = append(
				rootCauses, fmt.Errorf("%s (%s)", *rootCause.Reason, rootCause.Type),
			)
		}
	}
	return wrap.Errors(message, rootCauses...)
}
