package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"hermannm.dev/enumnames"
)

type TermKind uint8

const (
	TermURI TermKind = iota + 1
	TermLiteral
	TermBlankNode
)

// Names follow the "type" field of the SPARQL 1.1 JSON results format.
var termKindNames = enumnames.NewMap(map[TermKind]string{
	TermURI:       "uri",
	TermLiteral:   "literal",
	TermBlankNode: "bnode",
})

func (kind TermKind) IsValid() bool {
	return termKindNames.ContainsEnumValue(kind)
}

func (kind TermKind) String() string {
	return termKindNames.GetNameOrFallback(kind, "INVALID_TERM_KIND")
}

func (kind TermKind) MarshalJSON() ([]byte, error) {
	return termKindNames.MarshalToNameJSON(kind)
}

func (kind *TermKind) UnmarshalJSON(bytes []byte) error {
	return termKindNames.UnmarshalFromNameJSON(bytes, kind)
}

// Term is a single bound value in a query result: an IRI, a literal or a blank node.
type Term struct {
	Kind     TermKind `json:"type"`
	Value    string   `json:"value"`
	Datatype string   `json:"datatype,omitempty"`
	Language string   `json:"xml:lang,omitempty"`
}

func NewURI(iri string) Term {
	return Term{Kind: TermURI, Value: iri}
}

func NewLiteral(value string) Term {
	return Term{Kind: TermLiteral, Value: value}
}

func NewTypedLiteral(value string, datatype string) Term {
	return Term{Kind: TermLiteral, Value: value, Datatype: datatype}
}

func NewLangLiteral(value string, language string) Term {
	return Term{Kind: TermLiteral, Value: value, Language: language}
}

func NewBlankNode(id string) Term {
	return Term{Kind: TermBlankNode, Value: id}
}

func (term Term) IsZero() bool {
	return term.Kind == 0 && term.Value == ""
}

func (term Term) IsURI() bool {
	return term.Kind == TermURI
}

// String returns the raw string form of the term, used when no display label can be resolved.
func (term Term) String() string {
	if term.Kind == TermBlankNode {
		return "_:" + term.Value
	}
	return term.Value
}

var ErrNotNumeric = errors.New("term is not numeric")

func (term Term) Float64() (float64, error) {
	if term.Kind != TermLiteral {
		return 0, fmt.Errorf("%w: %s '%s'", ErrNotNumeric, term.Kind, term.Value)
	}

	value := strings.TrimSpace(term.Value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty literal", ErrNotNumeric)
	}

	switch {
	case term.Datatype == XSDDouble || term.Datatype == XSDFloat:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: '%s' is not a valid %s", ErrNotNumeric, value, term.Datatype)
		}
		return parsed, nil
	case IsDecimalDatatype(term.Datatype):
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return 0, fmt.Errorf("%w: '%s' is not a valid %s", ErrNotNumeric, value, term.Datatype)
		}
		return parsed.InexactFloat64(), nil
	case term.Datatype == "" || term.Datatype == XSDString || term.Datatype == RDFLangString:
		if parsed, err := decimal.NewFromString(value); err == nil {
			return parsed.InexactFloat64(), nil
		}
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed, nil
		}
		return 0, fmt.Errorf("%w: '%s'", ErrNotNumeric, value)
	default:
		return 0, fmt.Errorf("%w: datatype %s", ErrNotNumeric, term.Datatype)
	}
}
