package csv

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"hermannm.dev/wikicharts/query"
)

// Deduces a typed term from a raw CSV field. Blank fields are unbound.
func fieldToTerm(field string) (term query.Term, bound bool) {
	if field == "" {
		return query.Term{}, false
	}
	if _, err := strconv.ParseInt(field, 10, 64); err == nil {
		return query.NewTypedLiteral(field, query.XSDInteger), true
	}
	if _, err := strconv.ParseFloat(field, 64); err == nil {
		return query.NewTypedLiteral(field, query.XSDDouble), true
	}
	if _, err := time.Parse(time.RFC3339, field); err == nil {
		return query.NewTypedLiteral(field, query.XSDDateTime), true
	}
	if id, err := uuid.Parse(field); err == nil {
		return query.NewURI("urn:uuid:" + id.String()), true
	}
	if isHTTPIRI(field) {
		return query.NewURI(field), true
	}
	return query.NewLiteral(field), true
}

func isHTTPIRI(field string) bool {
	parsed, err := url.Parse(field)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
