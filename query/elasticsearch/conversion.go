package elasticsearch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	wikiquery "hermannm.dev/wikicharts/query"
)

var errMissingColumns = errors.New("response has rows but no column metadata")

// See https://www.elastic.co/guide/en/elasticsearch/reference/current/sql-data-types.html
var sqlTypeDatatypes = map[string]string{
	"byte":          wikiquery.XSDInteger,
	"short":         wikiquery.XSDInteger,
	"integer":       wikiquery.XSDInteger,
	"long":          wikiquery.XSDInteger,
	"unsigned_long": wikiquery.XSDInteger,
	"double":        wikiquery.XSDDouble,
	"float":         wikiquery.XSDDouble,
	"half_float":    wikiquery.XSDDouble,
	"scaled_float":  wikiquery.XSDDouble,
	"boolean":       wikiquery.XSDBoolean,
	"datetime":      wikiquery.XSDDateTime,
	"date":          wikiquery.XSDDate,
}

// Converts a raw SQL cell to a term. SQL nulls are reported as unbound.
func cellToTerm(sqlType string, cell json.RawMessage) (term wikiquery.Term, bound bool, err error) {
	trimmed := bytes.TrimSpace(cell)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return wikiquery.Term{}, false, nil
	}

	var lexical string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &lexical); err != nil {
			return wikiquery.Term{}, false, fmt.Errorf("invalid string value %s", trimmed)
		}
	} else {
		lexical = string(trimmed)
	}

	datatype, typed := sqlTypeDatatypes[sqlType]
	if !typed {
		return wikiquery.NewLiteral(lexical), true, nil
	}

	return wikiquery.NewTypedLiteral(lexical, datatype), true, nil
}
