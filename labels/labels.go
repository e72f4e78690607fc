package labels

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

// LabelResolver turns a query result term into a human-readable display label.
type LabelResolver interface {
	Label(ctx context.Context, term query.Term) (string, error)
}

// Resolver resolves IRI labels through an rdfs:label query against a SPARQL source, caching
// results. Without a source, IRIs are labeled with their local name.
type Resolver struct {
	source   query.Source
	language string
	cache    *lru.Cache[string, string]
}

func NewResolver(source query.Source, language string, cacheSize int) (*Resolver, error) {
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, wrap.Error(err, "failed to create label cache")
	}

	return &Resolver{source: source, language: language, cache: cache}, nil
}

func (resolver *Resolver) Label(ctx context.Context, term query.Term) (string, error) {
	switch term.Kind {
	case query.TermLiteral, query.TermBlankNode:
		return term.String(), nil
	case query.TermURI:
	default:
		return "", fmt.Errorf("cannot label term of kind %v", term.Kind)
	}

	if label, ok := resolver.cache.Get(term.Value); ok {
		return label, nil
	}

	label := LocalName(term.Value)
	if resolver.source != nil {
		queried, found, err := resolver.queryLabel(ctx, term.Value)
		if err != nil {
			return "", wrap.Errorf(err, "failed to look up label of '%s'", term.Value)
		}
		if found {
			label = queried
		}
	}

	resolver.cache.Add(term.Value, label)
	return label, nil
}

func (resolver *Resolver) queryLabel(
	ctx context.Context,
	iri string,
) (label string, found bool, err error) {
	if err := ValidateIRI(iri); err != nil {
		return "", false, err
	}

	queryString := fmt.Sprintf(
		"SELECT ?label WHERE { <%s> <%s> ?label }",
		iri,
		query.RDFSLabel,
	)

	rows, err := resolver.source.Select(ctx, queryString, query.Options{})
	if err != nil {
		return "", false, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.ErrorCause(closeErr, "failed to close label query cursor")
		}
	}()

	var fallback string
	var hasFallback bool
	for rows.Next() {
		term, bound := rows.Row().Get("label")
		if !bound || term.Kind != query.TermLiteral {
			continue
		}

		if strings.EqualFold(term.Language, resolver.language) {
			return term.Value, true, nil
		}
		if !hasFallback || term.Language == "" {
			fallback, hasFallback = term.Value, true
		}
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}

	if hasFallback {
		log.Debug(
			"no label in preferred language, using fallback",
			slog.String("iri", iri),
			slog.String("language", resolver.language),
		)
	}
	return fallback, hasFallback, nil
}

// LocalName returns the fragment or last path segment of an IRI.
func LocalName(iri string) string {
	trimmed := strings.TrimRight(iri, "/#")
	if index := strings.LastIndexAny(trimmed, "#/:"); index >= 0 && index < len(trimmed)-1 {
		return trimmed[index+1:]
	}
	return iri
}

// ValidateIRI rejects IRIs that cannot be written between angle brackets in a SPARQL query.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("IRI is blank")
	}
	for _, char := range iri {
		if char <= ' ' || strings.ContainsRune("<>\"{}|^`\\", char) {
			return fmt.Errorf("IRI '%s' contains invalid character %q", iri, char)
		}
	}
	return nil
}
