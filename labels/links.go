package labels

import (
	"net/url"
	"strings"

	"hermannm.dev/wikicharts/query"
)

// LinkResolver maps a term to a request-addressable link, or "" if the term has no page.
type LinkResolver interface {
	Link(term query.Term) string
}

// PageLinker links IRIs to the resource page of the wiki.
type PageLinker struct {
	BaseURL string
}

func (linker PageLinker) Link(term query.Term) string {
	if term.Kind != query.TermURI || term.Value == "" {
		return ""
	}

	return strings.TrimRight(linker.BaseURL, "/") + "/resource?uri=" + url.QueryEscape(term.Value)
}
